package types

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies flow failures so callers can branch on the kind instead
// of parsing messages.
type ErrorKind string

const (
	// KindNavigationTimeout means a UI element never appeared within its
	// budget: platform-side latency or a changed UI.
	KindNavigationTimeout ErrorKind = "navigation_timeout"
	// KindMFACodeUnavailable means no OTP arrived or was extracted within the
	// retry budget.
	KindMFACodeUnavailable ErrorKind = "mfa_code_unavailable"
	// KindTenantNotFound means the target realm was not present in any
	// enumerated firm.
	KindTenantNotFound ErrorKind = "tenant_not_found"
	// KindCredentialExtraction means login reported success but the expected
	// session cookies are missing.
	KindCredentialExtraction ErrorKind = "credential_extraction_failed"
)

// FlowError is a failure in the synthetic login flow with a machine-readable
// kind. It wraps the underlying cause when there is one.
type FlowError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// KindOf returns the error kind carried by err, or "" if err is not a
// FlowError.
func KindOf(err error) ErrorKind {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// NewNavigationTimeout reports that selector never became visible within
// timeout.
func NewNavigationTimeout(selector string, timeout time.Duration, err error) *FlowError {
	return &FlowError{
		Kind:    KindNavigationTimeout,
		Message: fmt.Sprintf("element %q not visible after %s", selector, timeout),
		Err:     err,
	}
}

// NewMFACodeUnavailable reports that OTP polling exhausted its budget.
func NewMFACodeUnavailable(attempts uint) *FlowError {
	return &FlowError{
		Kind:    KindMFACodeUnavailable,
		Message: fmt.Sprintf("no verification code after %d mailbox attempts", attempts),
	}
}

// NewTenantNotFound reports that the realm was absent from every candidate
// firm's directory.
func NewTenantNotFound(realmID, firmHint string, tried int) *FlowError {
	return &FlowError{
		Kind:    KindTenantNotFound,
		Message: fmt.Sprintf("realm %s not accessible via firm %q (%d candidates tried)", realmID, firmHint, tried),
	}
}

// NewCredentialExtraction reports which required cookies were missing.
func NewCredentialExtraction(missing []string) *FlowError {
	return &FlowError{
		Kind:    KindCredentialExtraction,
		Message: fmt.Sprintf("required cookies missing: %v", missing),
	}
}
