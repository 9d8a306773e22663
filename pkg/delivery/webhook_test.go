package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

func TestWebhook_Deliver(t *testing.T) {
	token := &types.TokenData{SessionTicket: "tkt-value", AuthID: "auth-value"}

	var (
		gotAuth string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(config.Webhook{URL: srv.URL, Secret: "shared-secret"})
	require.True(t, w.Enabled())

	err := w.Deliver(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, "shared-secret", gotAuth)

	// Round-trip fidelity: the delivered body is exactly the marshaled token.
	expected, err := json.Marshal(token)
	require.NoError(t, err)
	assert.JSONEq(t, string(expected), string(gotBody))

	var roundTrip types.TokenData
	require.NoError(t, json.Unmarshal(gotBody, &roundTrip))
	assert.Equal(t, *token, roundTrip)
}

func TestWebhook_AgentIDOmittedWhenEmpty(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	w := NewWebhook(config.Webhook{URL: srv.URL, Secret: "s"})
	require.NoError(t, w.Deliver(context.Background(), &types.TokenData{SessionTicket: "t", AuthID: "a"}))

	var fields map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &fields))
	assert.NotContains(t, fields, "agentId")
}

func TestWebhook_BackendRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad secret", http.StatusUnauthorized)
	}))
	defer srv.Close()

	w := NewWebhook(config.Webhook{URL: srv.URL, Secret: "wrong"})
	err := w.Deliver(context.Background(), &types.TokenData{SessionTicket: "t", AuthID: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad secret")
}

func TestWebhook_Disabled(t *testing.T) {
	w := NewWebhook(config.Webhook{})
	assert.False(t, w.Enabled())
}
