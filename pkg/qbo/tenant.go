package qbo

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// Picker abstracts the platform's account-picker UI so the tenant selection
// policy can be exercised without a browser.
type Picker interface {
	// SearchFirm fills the firm search box with hint and returns how many
	// candidate options are shown.
	SearchFirm(hint string) (int, error)
	// ClickFirmOption clicks candidate i and returns the firm-clients
	// directory the platform responds with.
	ClickFirmOption(i int) (*types.FirmClientsResponse, error)
	// RefocusSearch re-opens the candidate list between attempts.
	RefocusSearch() error
	// SelectCompany fills the company search box with the display name and
	// picks the top match.
	SelectCompany(displayName string) error
}

// TenantResolver finds and selects the accessible company for a realm id,
// searching across candidate firms when a hint is given.
type TenantResolver struct {
	picker      Picker
	defaultFirm string
	log         zerolog.Logger
}

func NewTenantResolver(picker Picker, defaultFirm string) *TenantResolver {
	return &TenantResolver{
		picker:      picker,
		defaultFirm: defaultFirm,
		log:         log.With().Str("component", "tenant").Logger(),
	}
}

// SelectTenant drives the account picker until the company with realmID is
// selected. With a firm hint, candidates are visited strictly in the order
// presented and the first whose directory lists the realm wins; enumeration
// order, not any ranking, decides when the same company is reachable through
// several firms.
func (r *TenantResolver) SelectTenant(realmID, firmHint string) error {
	if firmHint == "" {
		return r.selectViaDefaultFirm(realmID)
	}
	return r.searchFirms(realmID, firmHint)
}

func (r *TenantResolver) selectViaDefaultFirm(realmID string) error {
	r.log.Info().Str("realm_id", realmID).Str("firm", r.defaultFirm).Msg("selecting via default firm")

	if _, err := r.picker.SearchFirm(r.defaultFirm); err != nil {
		return err
	}
	directory, err := r.picker.ClickFirmOption(0)
	if err != nil {
		return err
	}

	realm := directory.Find(realmID)
	if realm == nil {
		return types.NewTenantNotFound(realmID, r.defaultFirm, 1)
	}
	return r.picker.SelectCompany(realm.CompanyName)
}

func (r *TenantResolver) searchFirms(realmID, firmHint string) error {
	count, err := r.picker.SearchFirm(firmHint)
	if err != nil {
		return err
	}
	r.log.Info().
		Str("realm_id", realmID).
		Str("firm_hint", firmHint).
		Int("candidates", count).
		Msg("searching candidate firms")

	for i := 0; i < count; i++ {
		directory, err := r.picker.ClickFirmOption(i)
		if err != nil {
			return err
		}

		if realm := directory.Find(realmID); realm != nil {
			r.log.Info().
				Int("candidate", i+1).
				Str("company", realm.CompanyName).
				Msg("target company found")
			return r.picker.SelectCompany(realm.CompanyName)
		}

		if i < count-1 {
			if err := r.picker.RefocusSearch(); err != nil {
				return err
			}
		}
	}

	return types.NewTenantNotFound(realmID, firmHint, count)
}
