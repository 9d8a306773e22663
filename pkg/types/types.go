package types

import "time"

// AuthRequest is the invocation payload for the synthetic login service.
// Exactly one of the two entry paths is active per request: when InviteLink is
// set the invite-accept flow runs, otherwise the normal login flow runs against
// RealmID (with FirmName as an optional search hint).
type AuthRequest struct {
	RealmID    string `json:"realmId"`
	FirmName   string `json:"firmName,omitempty"`
	InviteLink string `json:"inviteLink,omitempty"`
	InviteType string `json:"inviteType,omitempty"`
}

// TokenData is the credential set read from the authenticated browser session.
// Every declared field must be non-empty; a partially populated TokenData is
// never produced. AgentID is only present when an agent-id cookie name is
// configured.
type TokenData struct {
	SessionTicket string `json:"sessionTicket"`
	AuthID        string `json:"authId"`
	AgentID       string `json:"agentId,omitempty"`
}

// Realm is one accessible company as reported by the platform's firm-clients
// directory response.
type Realm struct {
	RealmID     string `json:"realmId"`
	CompanyName string `json:"companyName"`
	Active      bool   `json:"active"`
	FirmID      string `json:"firmId"`
}

// FirmClientsResponse is the directory snapshot the platform returns while an
// accountant firm is being browsed. It is consumed transiently to decide which
// company option to click and is never persisted.
type FirmClientsResponse struct {
	ErrorMsg   string  `json:"errorMsg"`
	UserError  string  `json:"userError"`
	UserRealms []Realm `json:"userRealms"`
}

// Contains reports whether the directory lists the given realm id.
func (r *FirmClientsResponse) Contains(realmID string) bool {
	return r.Find(realmID) != nil
}

// Find returns the realm entry matching realmID, or nil.
func (r *FirmClientsResponse) Find(realmID string) *Realm {
	for i := range r.UserRealms {
		if r.UserRealms[i].RealmID == realmID {
			return &r.UserRealms[i]
		}
	}
	return nil
}

// RetryPolicy governs OTP polling. Immutable per invocation.
type RetryPolicy struct {
	MaxAttempts    uint
	AttemptSpacing time.Duration
	WarmupDelay    time.Duration
}
