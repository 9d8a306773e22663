package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

type Config struct {
	Platform  Platform
	Browser   Browser
	Mailbox   Mailbox
	OTP       OTP
	Cookies   Cookies
	Selectors Selectors
	Webhook   Webhook
	WebServer WebServer
}

// Platform holds the delegated-user credentials and entry points for the
// bookkeeping platform.
type Platform struct {
	EntryURL string `envconfig:"PLATFORM_ENTRY_URL" required:"true"`
	Email    string `envconfig:"PLATFORM_EMAIL" required:"true"`
	Password string `envconfig:"PLATFORM_PASSWORD" required:"true"`
	// DefaultFirm is searched when no firm hint is supplied with a request.
	DefaultFirm string `envconfig:"PLATFORM_DEFAULT_FIRM" default:"Clasibot Synthetic Bookkeeper"`
	// DirectoryURLMarker identifies the network response carrying the
	// firm-clients directory while the account picker is being browsed.
	DirectoryURLMarker string `envconfig:"PLATFORM_DIRECTORY_URL_MARKER" default:"firmClients"`
}

type Browser struct {
	// ChromeURL is the devtools endpoint of an already-running Chrome. Ignored
	// when LauncherEnabled is set.
	ChromeURL       string        `envconfig:"BROWSER_CHROME_URL" default:"ws://localhost:7317"`
	LauncherEnabled bool          `envconfig:"BROWSER_LAUNCHER_ENABLED" default:"false"`
	UserAgent       string        `envconfig:"BROWSER_USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"`
	ViewportWidth   int           `envconfig:"BROWSER_VIEWPORT_WIDTH" default:"1920"`
	ViewportHeight  int           `envconfig:"BROWSER_VIEWPORT_HEIGHT" default:"1080"`
	StepTimeout     time.Duration `envconfig:"BROWSER_STEP_TIMEOUT" default:"10s"`
	// MFASkipTimeout is how long to wait for the post-login marker before
	// concluding that an MFA challenge was presented instead.
	MFASkipTimeout   time.Duration `envconfig:"BROWSER_MFA_SKIP_TIMEOUT" default:"5s"`
	DirectoryTimeout time.Duration `envconfig:"BROWSER_DIRECTORY_TIMEOUT" default:"10s"`
	// FillSettleDelay is the pause between focusing an input and typing into
	// it. The account picker has shown races between focus and text entry.
	FillSettleDelay time.Duration `envconfig:"BROWSER_FILL_SETTLE_DELAY" default:"1s"`
}

type Mailbox struct {
	Host     string `envconfig:"IMAP_HOST" default:"imap.gmail.com"`
	Port     int    `envconfig:"IMAP_PORT" default:"993"`
	Username string `envconfig:"EMAIL_USER"`
	Password string `envconfig:"EMAIL_PASSWORD"`
	Folder   string `envconfig:"IMAP_FOLDER" default:"INBOX"`
}

type OTP struct {
	MaxAttempts    uint          `envconfig:"OTP_MAX_ATTEMPTS" default:"10"`
	AttemptSpacing time.Duration `envconfig:"OTP_ATTEMPT_SPACING" default:"5s"`
	WarmupDelay    time.Duration `envconfig:"OTP_WARMUP_DELAY" default:"10s"`
	// SkewWindow widens the mailbox search backwards from the reference time
	// to tolerate clock skew between this host and the mail server.
	SkewWindow time.Duration `envconfig:"OTP_SKEW_WINDOW" default:"2m"`
}

// Cookies names the session cookies that make up a credential set. Two
// platform versions have been observed using different names for the same
// logical credential, so the set is configuration rather than constants.
// AgentID is optional: leave it empty and no agent-id cookie is required.
type Cookies struct {
	Ticket  string `envconfig:"COOKIE_TICKET_NAME" default:"qbn.tkt"`
	AuthID  string `envconfig:"COOKIE_AUTH_ID_NAME" default:"qbn.authid"`
	AgentID string `envconfig:"COOKIE_AGENT_ID_NAME" default:""`
}

// Selectors is the single configuration surface for the platform UI markup
// the flow depends on. When the platform changes its UI, only these values
// need updating, not the flow itself.
type Selectors struct {
	SignInButton     string `envconfig:"SEL_SIGN_IN_BUTTON" default:"#QuickBooksSignIn"`
	IdentifierInput  string `envconfig:"SEL_IDENTIFIER_INPUT" default:"#iux-identifier-first-international-email-user-id-input"`
	IdentifierSubmit string `envconfig:"SEL_IDENTIFIER_SUBMIT" default:"[data-testid=\"IdentifierFirstSubmitButton\"]"`
	PasswordInput    string `envconfig:"SEL_PASSWORD_INPUT" default:"#iux-password-confirmation-password"`
	PasswordSubmit   string `envconfig:"SEL_PASSWORD_SUBMIT" default:"[data-testid=\"passwordVerificationContinueButton\"]"`
	MFAEmailOption   string `envconfig:"SEL_MFA_EMAIL_OPTION" default:"[data-testid=\"challengePickerOption_EMAIL_OTP\"]"`
	OTPInput         string `envconfig:"SEL_OTP_INPUT" default:"[data-testid=\"VerifyOtpInput\"]"`
	OTPSubmit        string `envconfig:"SEL_OTP_SUBMIT" default:"[data-testid=\"VerifyOtpSubmitButton\"]"`
	// MFASkipText is page text whose appearance after password submit means
	// the challenge was skipped and the account picker is already showing.
	MFASkipText        string `envconfig:"SEL_MFA_SKIP_TEXT" default:"Please select your company"`
	FirmSearchInput    string `envconfig:"SEL_FIRM_SEARCH_INPUT" default:"input[role=\"combobox\"][placeholder=\"Search for a company or firm\"]"`
	FirmOptionItem     string `envconfig:"SEL_FIRM_OPTION_ITEM" default:"li[role=\"none\"]"`
	CompanySearchInput string `envconfig:"SEL_COMPANY_SEARCH_INPUT" default:"input[role=\"combobox\"][placeholder=\"Search for a client\"]"`
	CompanyOptionItem  string `envconfig:"SEL_COMPANY_OPTION_ITEM" default:"li[role=\"none\"]"`
	InvitePickerButton string `envconfig:"SEL_INVITE_PICKER_BUTTON" default:"button.account-btn.accountpicker-account-btn-quickbooks"`
	InviteAcceptButton string `envconfig:"SEL_INVITE_ACCEPT_BUTTON" default:"button#account-picker-continue-btn"`
}

type Webhook struct {
	// URL is where extracted credentials are posted. Empty disables delivery.
	URL    string `envconfig:"WEBHOOK_URL"`
	Secret string `envconfig:"WEBHOOK_SECRET"`
}

type WebServer struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// RetryPolicy returns the OTP polling policy described by the configuration.
func (o OTP) RetryPolicy() types.RetryPolicy {
	return types.RetryPolicy{
		MaxAttempts:    o.MaxAttempts,
		AttemptSpacing: o.AttemptSpacing,
		WarmupDelay:    o.WarmupDelay,
	}
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
