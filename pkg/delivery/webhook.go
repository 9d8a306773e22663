package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// Webhook posts extracted credentials to the backend. The body is the
// TokenData marshaled as-is, a byte-for-byte passthrough with no wrapping,
// authenticated by a shared secret in the Authorization header.
type Webhook struct {
	client *retryablehttp.Client
	url    string
	secret string
	log    zerolog.Logger
}

func NewWebhook(cfg config.Webhook) *Webhook {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil

	return &Webhook{
		client: client,
		url:    cfg.URL,
		secret: cfg.Secret,
		log:    log.With().Str("component", "delivery").Logger(),
	}
}

// Enabled reports whether a delivery target is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// Deliver ships token to the backend. A delivery failure does not invalidate
// the credentials; the caller may resend.
func (w *Webhook) Deliver(ctx context.Context, token *types.TokenData) error {
	body, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("error marshaling token data: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", w.secret)

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("error posting credentials to backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("backend rejected credentials: %s: %s", resp.Status, string(respBody))
	}

	w.log.Info().Msg("credentials delivered to backend")
	return nil
}
