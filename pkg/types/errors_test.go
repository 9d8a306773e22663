package types

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NewTenantNotFound("12345", "Ledger Partners", 3)
	assert.Equal(t, KindTenantNotFound, KindOf(err))

	// The kind survives wrapping.
	wrapped := fmt.Errorf("selecting tenant: %w", err)
	assert.Equal(t, KindTenantNotFound, KindOf(wrapped))

	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}

func TestFlowError_Messages(t *testing.T) {
	nav := NewNavigationTimeout("#password", 10*time.Second, errors.New("context deadline exceeded"))
	assert.Contains(t, nav.Error(), "#password")
	assert.Contains(t, nav.Error(), "10s")
	assert.ErrorContains(t, nav, "context deadline exceeded")

	tenant := NewTenantNotFound("99999", "Ledger Partners", 3)
	assert.Contains(t, tenant.Error(), "3 candidates tried")

	creds := NewCredentialExtraction([]string{"qbn.tkt", "qbn.authid"})
	assert.Contains(t, creds.Error(), "qbn.tkt")
	assert.Equal(t, KindCredentialExtraction, KindOf(creds))
}
