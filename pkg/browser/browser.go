package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
)

// Manager hands out isolated browser pages, one per invocation. Depending on
// configuration it either launches a headless Chrome itself or connects to an
// already-running Chrome over its devtools endpoint.
type Manager struct {
	cfg config.Browser
}

func NewManager(cfg config.Browser) *Manager {
	return &Manager{cfg: cfg}
}

// NewPage acquires a fresh browser connection and page. The returned release
// function must be called exactly once on every exit path; it tears down the
// page, the browser connection and, in launcher mode, the Chrome process.
func (m *Manager) NewPage(ctx context.Context) (*rod.Page, func(), error) {
	var (
		controlURL string
		l          *launcher.Launcher
	)

	if m.cfg.LauncherEnabled {
		l = launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled").
			Set("disable-features", "IsolateOrigins,site-per-process")
		u, err := l.Launch()
		if err != nil {
			return nil, nil, fmt.Errorf("error launching browser: %w", err)
		}
		controlURL = u
	} else {
		controlURL = m.cfg.ChromeURL
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		if l != nil {
			l.Cleanup()
		}
		return nil, nil, fmt.Errorf("error connecting to browser at %s: %w", controlURL, err)
	}

	release := func() {
		if err := browser.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing browser")
		}
		if l != nil {
			l.Cleanup()
		}
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("error creating page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: m.cfg.UserAgent,
	}); err != nil {
		release()
		return nil, nil, fmt.Errorf("error setting user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             m.cfg.ViewportWidth,
		Height:            m.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		release()
		return nil, nil, fmt.Errorf("error setting viewport: %w", err)
	}

	return page, release, nil
}
