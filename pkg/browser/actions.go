package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// Actions provides wait-until-visible interaction primitives over a page.
// Every higher-level step in the login flow is built from these.
type Actions struct {
	page        *rod.Page
	settleDelay time.Duration
}

func NewActions(page *rod.Page, settleDelay time.Duration) *Actions {
	return &Actions{page: page, settleDelay: settleDelay}
}

// ClickWhenVisible waits up to timeout for selector to become visible and
// clicks it.
func (a *Actions) ClickWhenVisible(selector string, timeout time.Duration) error {
	el, err := a.visibleElement(selector, timeout)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("error clicking %q: %w", selector, err)
	}
	return nil
}

// FillWhenVisible waits up to timeout for selector to become visible, clicks
// it to guarantee focus, pauses briefly and types text. The pause is load
// bearing: the platform's inputs have dropped keystrokes typed immediately
// after focus.
func (a *Actions) FillWhenVisible(selector, text string, timeout time.Duration) error {
	el, err := a.visibleElement(selector, timeout)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("error focusing %q: %w", selector, err)
	}
	time.Sleep(a.settleDelay)
	if err := el.Input(text); err != nil {
		return fmt.Errorf("error filling %q: %w", selector, err)
	}
	return nil
}

// ClearAndFill replaces the current contents of an input with text.
func (a *Actions) ClearAndFill(selector, text string, timeout time.Duration) error {
	el, err := a.visibleElement(selector, timeout)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return fmt.Errorf("error selecting text in %q: %w", selector, err)
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("error filling %q: %w", selector, err)
	}
	return nil
}

func (a *Actions) visibleElement(selector string, timeout time.Duration) (*rod.Element, error) {
	page := a.page.Timeout(timeout)
	el, err := page.Element(selector)
	if err != nil {
		return nil, types.NewNavigationTimeout(selector, timeout, err)
	}
	if err := el.WaitVisible(); err != nil {
		return nil, types.NewNavigationTimeout(selector, timeout, err)
	}
	return el, nil
}
