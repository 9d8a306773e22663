package qbo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/browser"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// OTPResolver supplies the emailed one-time passcode during an MFA challenge.
type OTPResolver interface {
	Resolve(ctx context.Context, reference time.Time, policy types.RetryPolicy) (string, error)
}

// Driver walks the platform's login screens: identifier, password, and the
// optional MFA challenge. Each step is a named operation over configured
// selectors so a platform UI change only touches configuration.
type Driver struct {
	page    *rod.Page
	actions *browser.Actions
	cfg     *config.Config
	otp     OTPResolver
	log     zerolog.Logger
}

func NewDriver(page *rod.Page, actions *browser.Actions, cfg *config.Config, otp OTPResolver) *Driver {
	return &Driver{
		page:    page,
		actions: actions,
		cfg:     cfg,
		otp:     otp,
		log:     log.With().Str("component", "login").Logger(),
	}
}

// Login authenticates from the app entry point through any MFA challenge.
// On return the account picker is showing.
func (d *Driver) Login(ctx context.Context) error {
	if err := d.page.Navigate(d.cfg.Platform.EntryURL); err != nil {
		return fmt.Errorf("error navigating to %s: %w", d.cfg.Platform.EntryURL, err)
	}
	if err := d.actions.ClickWhenVisible(d.cfg.Selectors.SignInButton, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}
	if err := d.enterIdentifier(); err != nil {
		return err
	}
	if err := d.enterPassword(); err != nil {
		return err
	}
	return d.resolveChallenge(ctx)
}

// LoginFromInvite authenticates starting from a direct invite link instead of
// the normal entry point.
func (d *Driver) LoginFromInvite(ctx context.Context, inviteLink string) error {
	if err := d.page.Navigate(inviteLink); err != nil {
		return fmt.Errorf("error navigating to invite link: %w", err)
	}
	if err := d.enterIdentifier(); err != nil {
		return err
	}
	if err := d.enterPassword(); err != nil {
		return err
	}
	return d.resolveChallenge(ctx)
}

// AcceptCompanyInvite confirms an organization-level invite once login has
// completed. Personal invites are accepted implicitly by the login itself.
func (d *Driver) AcceptCompanyInvite() error {
	if err := d.actions.ClickWhenVisible(d.cfg.Selectors.InvitePickerButton, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}
	return d.actions.ClickWhenVisible(d.cfg.Selectors.InviteAcceptButton, d.cfg.Browser.StepTimeout)
}

func (d *Driver) enterIdentifier() error {
	if err := d.actions.FillWhenVisible(d.cfg.Selectors.IdentifierInput, d.cfg.Platform.Email, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}
	return d.actions.ClickWhenVisible(d.cfg.Selectors.IdentifierSubmit, d.cfg.Browser.StepTimeout)
}

func (d *Driver) enterPassword() error {
	if err := d.actions.FillWhenVisible(d.cfg.Selectors.PasswordInput, d.cfg.Platform.Password, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}
	return d.actions.ClickWhenVisible(d.cfg.Selectors.PasswordSubmit, d.cfg.Browser.StepTimeout)
}

// resolveChallenge races the two post-password outcomes: either the account
// picker appears within the skip window, or an MFA channel picker is showing
// and the challenge has to be completed.
func (d *Driver) resolveChallenge(ctx context.Context) error {
	err := rod.Try(func() {
		d.page.Timeout(d.cfg.Browser.MFASkipTimeout).
			MustElementR("*", regexQuote(d.cfg.Selectors.MFASkipText))
	})
	if err == nil {
		d.log.Info().Msg("mfa skipped, proceeding to account selection")
		return nil
	}

	d.log.Info().Msg("mfa required, handling verification")
	return d.completeMFAChallenge(ctx)
}

func (d *Driver) completeMFAChallenge(ctx context.Context) error {
	// The reference time is captured before the channel click so a code
	// dispatched immediately on selection still falls inside the window.
	reference := time.Now()

	if err := d.actions.ClickWhenVisible(d.cfg.Selectors.MFAEmailOption, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}

	policy := d.cfg.OTP.RetryPolicy()
	code, err := d.otp.Resolve(ctx, reference, policy)
	if err != nil {
		return fmt.Errorf("error resolving verification code: %w", err)
	}
	if code == "" {
		return types.NewMFACodeUnavailable(policy.MaxAttempts)
	}

	if err := d.actions.FillWhenVisible(d.cfg.Selectors.OTPInput, code, d.cfg.Browser.StepTimeout); err != nil {
		return err
	}
	return d.actions.ClickWhenVisible(d.cfg.Selectors.OTPSubmit, d.cfg.Browser.StepTimeout)
}

// regexQuote escapes literal page text for rod's regex-based element lookup.
func regexQuote(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`, `.`, `\.`, `+`, `\+`, `*`, `\*`, `?`, `\?`,
		`(`, `\(`, `)`, `\)`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
		`^`, `\^`, `$`, `\$`, `|`, `\|`,
	)
	return replacer.Replace(text)
}
