package qbo

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// ExtractTokenData reads the configured session cookies out of the page's
// cookie jar. A missing required cookie fails the whole extraction; a partial
// credential set is never returned.
func ExtractTokenData(page *rod.Page, names config.Cookies) (*types.TokenData, error) {
	cookies, err := page.Cookies(nil)
	if err != nil {
		return nil, fmt.Errorf("error reading cookies: %w", err)
	}
	return tokenFromCookies(cookies, names)
}

func tokenFromCookies(cookies []*proto.NetworkCookie, names config.Cookies) (*types.TokenData, error) {
	byName := make(map[string]string, len(cookies))
	for _, c := range cookies {
		byName[c.Name] = c.Value
	}

	required := []string{names.Ticket, names.AuthID}
	if names.AgentID != "" {
		required = append(required, names.AgentID)
	}

	var missing []string
	for _, name := range required {
		if byName[name] == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		log.Error().Strs("missing", missing).Msg("required auth cookies not found")
		return nil, types.NewCredentialExtraction(missing)
	}

	token := &types.TokenData{
		SessionTicket: byName[names.Ticket],
		AuthID:        byName[names.AuthID],
	}
	if names.AgentID != "" {
		token.AgentID = byName[names.AgentID]
	}
	return token, nil
}
