package qbo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vero-Ventures/clasibot-sub001/pkg/types"
)

// fakePicker serves a scripted account-picker session: one directory response
// per candidate firm, in presentation order.
type fakePicker struct {
	directories []*types.FirmClientsResponse
	clickErr    error

	searchedHints   []string
	clicks          []int
	refocusCount    int
	selectedCompany string
}

func (p *fakePicker) SearchFirm(hint string) (int, error) {
	p.searchedHints = append(p.searchedHints, hint)
	return len(p.directories), nil
}

func (p *fakePicker) ClickFirmOption(i int) (*types.FirmClientsResponse, error) {
	p.clicks = append(p.clicks, i)
	if p.clickErr != nil {
		return nil, p.clickErr
	}
	return p.directories[i], nil
}

func (p *fakePicker) RefocusSearch() error {
	p.refocusCount++
	return nil
}

func (p *fakePicker) SelectCompany(displayName string) error {
	p.selectedCompany = displayName
	return nil
}

func directoryWith(realms ...types.Realm) *types.FirmClientsResponse {
	return &types.FirmClientsResponse{UserRealms: realms}
}

func TestSelectTenant_FirstMatchWins(t *testing.T) {
	// Only the third candidate firm has access to the target realm.
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{
			directoryWith(types.Realm{RealmID: "111", CompanyName: "Other Co"}),
			directoryWith(types.Realm{RealmID: "222", CompanyName: "Another Co"}),
			directoryWith(
				types.Realm{RealmID: "333", CompanyName: "Unrelated Co"},
				types.Realm{RealmID: "99999", CompanyName: "Target Co"},
			),
		},
	}
	resolver := NewTenantResolver(picker, "Default Firm")

	err := resolver.SelectTenant("99999", "Ledger Partners")
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, picker.clicks, "candidates must be visited in presentation order")
	assert.Equal(t, "Target Co", picker.selectedCompany, "company selection uses the display name from the directory")
	assert.Equal(t, []string{"Ledger Partners"}, picker.searchedHints)
}

func TestSelectTenant_StopsAtMatch(t *testing.T) {
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{
			directoryWith(types.Realm{RealmID: "12345", CompanyName: "Acme Co"}),
			directoryWith(types.Realm{RealmID: "67890", CompanyName: "Never Visited Co"}),
		},
	}
	resolver := NewTenantResolver(picker, "Default Firm")

	err := resolver.SelectTenant("12345", "Ledger Partners")
	require.NoError(t, err)

	assert.Equal(t, []int{0}, picker.clicks, "enumeration must stop at the first match")
	assert.Zero(t, picker.refocusCount)
}

func TestSelectTenant_NotFoundAfterAllCandidates(t *testing.T) {
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{
			directoryWith(types.Realm{RealmID: "1", CompanyName: "A"}),
			directoryWith(types.Realm{RealmID: "2", CompanyName: "B"}),
			directoryWith(types.Realm{RealmID: "3", CompanyName: "C"}),
		},
	}
	resolver := NewTenantResolver(picker, "Default Firm")

	err := resolver.SelectTenant("99999", "Ledger Partners")
	require.Error(t, err)
	assert.Equal(t, types.KindTenantNotFound, types.KindOf(err))
	assert.Equal(t, []int{0, 1, 2}, picker.clicks, "all candidates must be visited before failing")
	assert.Contains(t, err.Error(), "3 candidates")
	assert.Empty(t, picker.selectedCompany)
}

func TestSelectTenant_DefaultFirmWhenNoHint(t *testing.T) {
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{
			directoryWith(
				types.Realm{RealmID: "11111", CompanyName: "Someone Else"},
				types.Realm{RealmID: "12345", CompanyName: "Acme Co"},
			),
		},
	}
	resolver := NewTenantResolver(picker, "Clasibot Synthetic Bookkeeper")

	err := resolver.SelectTenant("12345", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Clasibot Synthetic Bookkeeper"}, picker.searchedHints)
	assert.Equal(t, []int{0}, picker.clicks, "default firm path clicks the first option only")
	assert.Equal(t, "Acme Co", picker.selectedCompany)
}

func TestSelectTenant_DefaultFirmMissingRealm(t *testing.T) {
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{
			directoryWith(types.Realm{RealmID: "1", CompanyName: "A"}),
		},
	}
	resolver := NewTenantResolver(picker, "Clasibot Synthetic Bookkeeper")

	err := resolver.SelectTenant("404", "")
	require.Error(t, err)
	assert.Equal(t, types.KindTenantNotFound, types.KindOf(err))
}

func TestSelectTenant_PickerErrorsPropagate(t *testing.T) {
	picker := &fakePicker{
		directories: []*types.FirmClientsResponse{directoryWith()},
		clickErr:    errors.New("directory response never arrived"),
	}
	resolver := NewTenantResolver(picker, "Default Firm")

	err := resolver.SelectTenant("12345", "Ledger Partners")
	require.Error(t, err)
	assert.NotEqual(t, types.KindTenantNotFound, types.KindOf(err))
}
