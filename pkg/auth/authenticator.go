package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/browser"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/qbo"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// pageSource acquires an isolated browser page per invocation. The release
// function must be invoked exactly once.
type pageSource interface {
	NewPage(ctx context.Context) (*rod.Page, func(), error)
}

// flow is the browser-bound part of an invocation, split out so the
// orchestration itself (resource lifetime, sequencing, error propagation) can
// be tested without Chrome.
type flow interface {
	Login(ctx context.Context, page *rod.Page, actions *browser.Actions) error
	LoginFromInvite(ctx context.Context, page *rod.Page, actions *browser.Actions, inviteLink string) error
	AcceptCompanyInvite(page *rod.Page, actions *browser.Actions) error
	SelectTenant(page *rod.Page, actions *browser.Actions, realmID, firmHint string) error
	Credentials(page *rod.Page) (*types.TokenData, error)
}

// Authenticator composes login, tenant selection and credential extraction
// into single invocations. It is the only entry point for callers and owns
// the browser resource for the whole invocation: the page is acquired on
// entry and released on every exit path.
type Authenticator struct {
	cfg   *config.Config
	pages pageSource
	flow  flow
	log   zerolog.Logger
}

func New(cfg *config.Config, pages *browser.Manager, otp qbo.OTPResolver) *Authenticator {
	return &Authenticator{
		cfg:   cfg,
		pages: pages,
		flow:  &qboFlow{cfg: cfg, otp: otp},
		log:   log.With().Str("component", "authenticator").Logger(),
	}
}

// Authenticate logs into the platform as the delegated user, selects the
// company identified by realmID (via firmHint when given) and returns the
// session credentials. All failures surface as errors; see types.KindOf for
// classification.
func (a *Authenticator) Authenticate(ctx context.Context, realmID, firmHint string) (*types.TokenData, error) {
	page, release, err := a.pages.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error acquiring browser: %w", err)
	}
	defer release()

	actions := browser.NewActions(page, a.cfg.Browser.FillSettleDelay)

	if err := a.flow.Login(ctx, page, actions); err != nil {
		return nil, err
	}
	if err := a.flow.SelectTenant(page, actions, realmID, firmHint); err != nil {
		return nil, err
	}

	token, err := a.flow.Credentials(page)
	if err != nil {
		return nil, err
	}

	a.log.Info().Str("realm_id", realmID).Msg("credentials acquired")
	return token, nil
}

// AcceptInvite logs in through a direct invite link and, for company-level
// invites, clicks through the explicit accept control. No credentials are
// extracted; a nil error means the invite was accepted.
func (a *Authenticator) AcceptInvite(ctx context.Context, inviteLink, inviteType string) error {
	page, release, err := a.pages.NewPage(ctx)
	if err != nil {
		return fmt.Errorf("error acquiring browser: %w", err)
	}
	defer release()

	actions := browser.NewActions(page, a.cfg.Browser.FillSettleDelay)

	if err := a.flow.LoginFromInvite(ctx, page, actions, inviteLink); err != nil {
		return err
	}

	if strings.EqualFold(inviteType, "company") {
		if err := a.flow.AcceptCompanyInvite(page, actions); err != nil {
			return err
		}
	}

	a.log.Info().Str("invite_type", inviteType).Msg("invite accepted")
	return nil
}

// qboFlow is the production flow, bound to the platform driver and picker.
type qboFlow struct {
	cfg *config.Config
	otp qbo.OTPResolver
}

func (f *qboFlow) Login(ctx context.Context, page *rod.Page, actions *browser.Actions) error {
	return qbo.NewDriver(page, actions, f.cfg, f.otp).Login(ctx)
}

func (f *qboFlow) LoginFromInvite(ctx context.Context, page *rod.Page, actions *browser.Actions, inviteLink string) error {
	return qbo.NewDriver(page, actions, f.cfg, f.otp).LoginFromInvite(ctx, inviteLink)
}

func (f *qboFlow) AcceptCompanyInvite(page *rod.Page, actions *browser.Actions) error {
	return qbo.NewDriver(page, actions, f.cfg, f.otp).AcceptCompanyInvite()
}

func (f *qboFlow) SelectTenant(page *rod.Page, actions *browser.Actions, realmID, firmHint string) error {
	picker := qbo.NewRodPicker(page, actions, f.cfg)
	resolver := qbo.NewTenantResolver(picker, f.cfg.Platform.DefaultFirm)
	return resolver.SelectTenant(realmID, firmHint)
}

func (f *qboFlow) Credentials(page *rod.Page) (*types.TokenData, error) {
	return qbo.ExtractTokenData(page, f.cfg.Cookies)
}
