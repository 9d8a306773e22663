package qbo

import (
	"testing"

	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

func defaultCookieNames() config.Cookies {
	return config.Cookies{Ticket: "qbn.tkt", AuthID: "qbn.authid"}
}

func cookies(pairs map[string]string) []*proto.NetworkCookie {
	out := make([]*proto.NetworkCookie, 0, len(pairs))
	for name, value := range pairs {
		out = append(out, &proto.NetworkCookie{Name: name, Value: value})
	}
	return out
}

func TestTokenFromCookies_AllPresent(t *testing.T) {
	token, err := tokenFromCookies(cookies(map[string]string{
		"qbn.tkt":    "ticket-value",
		"qbn.authid": "auth-value",
		"unrelated":  "noise",
	}), defaultCookieNames())
	require.NoError(t, err)
	assert.Equal(t, "ticket-value", token.SessionTicket)
	assert.Equal(t, "auth-value", token.AuthID)
	assert.Empty(t, token.AgentID)
}

func TestTokenFromCookies_NoPartialResult(t *testing.T) {
	tests := []struct {
		name    string
		present map[string]string
	}{
		{name: "ticket missing", present: map[string]string{"qbn.authid": "auth-value"}},
		{name: "auth id missing", present: map[string]string{"qbn.tkt": "ticket-value"}},
		{name: "all missing", present: map[string]string{}},
		{name: "empty value counts as missing", present: map[string]string{"qbn.tkt": "", "qbn.authid": "auth-value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokenFromCookies(cookies(tt.present), defaultCookieNames())
			require.Error(t, err)
			assert.Nil(t, token, "no partially-populated token may be returned")
			assert.Equal(t, types.KindCredentialExtraction, types.KindOf(err))
		})
	}
}

func TestTokenFromCookies_OptionalAgentID(t *testing.T) {
	names := config.Cookies{Ticket: "qbn.tkt", AuthID: "qbn.authid", AgentID: "qbn.agentid"}

	// Configured agent cookie becomes required.
	token, err := tokenFromCookies(cookies(map[string]string{
		"qbn.tkt":    "ticket-value",
		"qbn.authid": "auth-value",
	}), names)
	require.Error(t, err)
	assert.Nil(t, token)

	token, err = tokenFromCookies(cookies(map[string]string{
		"qbn.tkt":     "ticket-value",
		"qbn.authid":  "auth-value",
		"qbn.agentid": "agent-value",
	}), names)
	require.NoError(t, err)
	assert.Equal(t, "agent-value", token.AgentID)
}
