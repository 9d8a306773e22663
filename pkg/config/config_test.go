package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PLATFORM_ENTRY_URL", "https://app.example.com")
	t.Setenv("PLATFORM_EMAIL", "agent@example.com")
	t.Setenv("PLATFORM_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Clasibot Synthetic Bookkeeper", cfg.Platform.DefaultFirm)
	assert.Equal(t, "firmClients", cfg.Platform.DirectoryURLMarker)

	assert.Equal(t, uint(10), cfg.OTP.MaxAttempts)
	assert.Equal(t, 5*time.Second, cfg.OTP.AttemptSpacing)
	assert.Equal(t, 10*time.Second, cfg.OTP.WarmupDelay)
	assert.Equal(t, 2*time.Minute, cfg.OTP.SkewWindow)

	assert.Equal(t, "qbn.tkt", cfg.Cookies.Ticket)
	assert.Equal(t, "qbn.authid", cfg.Cookies.AuthID)
	assert.Empty(t, cfg.Cookies.AgentID, "agent id cookie is opt-in")

	assert.Equal(t, 993, cfg.Mailbox.Port)
	assert.Equal(t, "INBOX", cfg.Mailbox.Folder)

	assert.Equal(t, 5*time.Second, cfg.Browser.MFASkipTimeout)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)

	assert.NotEmpty(t, cfg.Selectors.IdentifierInput)
	assert.NotEmpty(t, cfg.Selectors.MFAEmailOption)
	assert.NotEmpty(t, cfg.Selectors.FirmSearchInput)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PLATFORM_ENTRY_URL", "https://app.example.com")
	t.Setenv("PLATFORM_EMAIL", "agent@example.com")
	t.Setenv("PLATFORM_PASSWORD", "secret")
	t.Setenv("OTP_MAX_ATTEMPTS", "3")
	t.Setenv("COOKIE_AGENT_ID_NAME", "qbn.agentid")
	t.Setenv("SEL_OTP_INPUT", "#custom-otp")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, uint(3), cfg.OTP.MaxAttempts)
	assert.Equal(t, "qbn.agentid", cfg.Cookies.AgentID)
	assert.Equal(t, "#custom-otp", cfg.Selectors.OTPInput)
}

func TestRetryPolicy(t *testing.T) {
	otp := OTP{MaxAttempts: 7, AttemptSpacing: time.Second, WarmupDelay: 2 * time.Second}
	policy := otp.RetryPolicy()
	assert.Equal(t, uint(7), policy.MaxAttempts)
	assert.Equal(t, time.Second, policy.AttemptSpacing)
	assert.Equal(t, 2*time.Second, policy.WarmupDelay)
}
