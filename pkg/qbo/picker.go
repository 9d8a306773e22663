package qbo

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/browser"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/config"
	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// rodPicker drives the real account-picker UI. The firm-clients directory is
// captured off the wire: clicking a firm option triggers a request whose URL
// contains the configured marker, and the response body is read through the
// devtools protocol.
type rodPicker struct {
	page    *rod.Page
	actions *browser.Actions
	cfg     *config.Config
}

func NewRodPicker(page *rod.Page, actions *browser.Actions, cfg *config.Config) Picker {
	p := &rodPicker{page: page, actions: actions, cfg: cfg}
	p.page.EnableDomain(&proto.NetworkEnable{})
	return p
}

func (p *rodPicker) SearchFirm(hint string) (int, error) {
	sel := p.cfg.Selectors
	timeout := p.cfg.Browser.StepTimeout

	if err := p.actions.FillWhenVisible(sel.FirmSearchInput, hint, timeout); err != nil {
		return 0, err
	}

	// The option list renders asynchronously; wait for the first entry before
	// counting.
	page := p.page.Timeout(timeout)
	first, err := page.Element(sel.FirmOptionItem)
	if err != nil {
		return 0, types.NewNavigationTimeout(sel.FirmOptionItem, timeout, err)
	}
	if err := first.WaitVisible(); err != nil {
		return 0, types.NewNavigationTimeout(sel.FirmOptionItem, timeout, err)
	}

	options, err := p.page.Elements(sel.FirmOptionItem)
	if err != nil {
		return 0, fmt.Errorf("error listing firm options: %w", err)
	}
	return len(options), nil
}

func (p *rodPicker) ClickFirmOption(i int) (*types.FirmClientsResponse, error) {
	marker := p.cfg.Platform.DirectoryURLMarker
	timeout := p.cfg.Browser.DirectoryTimeout

	// Install the response watcher before clicking so the directory response
	// cannot slip past between the click and the wait.
	page := p.page.Timeout(timeout)
	var requestID proto.NetworkRequestID
	wait := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if strings.Contains(e.Response.URL, marker) {
			requestID = e.RequestID
			return true
		}
		return false
	})

	options, err := p.page.Elements(p.cfg.Selectors.FirmOptionItem)
	if err != nil {
		return nil, fmt.Errorf("error listing firm options: %w", err)
	}
	if i >= len(options) {
		return nil, fmt.Errorf("firm option %d out of range, %d shown", i, len(options))
	}
	if err := options[i].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, fmt.Errorf("error clicking firm option %d: %w", i, err)
	}

	wait()
	if requestID == "" {
		return nil, types.NewNavigationTimeout("response "+marker, timeout, nil)
	}

	body, err := proto.NetworkGetResponseBody{RequestID: requestID}.Call(p.page)
	if err != nil {
		return nil, fmt.Errorf("error reading directory response: %w", err)
	}

	var directory types.FirmClientsResponse
	if err := json.Unmarshal([]byte(body.Body), &directory); err != nil {
		return nil, fmt.Errorf("error decoding directory response: %w", err)
	}
	return &directory, nil
}

func (p *rodPicker) RefocusSearch() error {
	return p.actions.ClickWhenVisible(p.cfg.Selectors.FirmSearchInput, p.cfg.Browser.StepTimeout)
}

func (p *rodPicker) SelectCompany(displayName string) error {
	sel := p.cfg.Selectors
	timeout := p.cfg.Browser.StepTimeout

	if err := p.actions.FillWhenVisible(sel.CompanySearchInput, displayName, timeout); err != nil {
		return err
	}
	// Top-match assumption: searching the exact display name is expected to
	// return the target company as the first option.
	return p.actions.ClickWhenVisible(sel.CompanyOptionItem, timeout)
}
