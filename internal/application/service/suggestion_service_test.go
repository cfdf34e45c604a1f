package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

type suggestionFixture struct {
	svc       SuggestionService
	staffRepo *mockStaffRepo
}

// Topology: campus 30 contains building 20 (zone 10) and area 40.
// Asset 100 sits in zone 10, asset 200 in area 40, asset 300 has no location.
func newSuggestionFixture(assignments []entity.StaffAssignment) *suggestionFixture {
	reportRepo := newMockReportRepo(
		&entity.Report{ID: 1, AssetID: 100, Status: entity.ReportStatusPending, Type: entity.ReportTypeDamaged},
		&entity.Report{ID: 2, AssetID: 200, Status: entity.ReportStatusPending, Type: entity.ReportTypeOther},
		&entity.Report{ID: 3, AssetID: 300, Status: entity.ReportStatusPending, Type: entity.ReportTypeLost},
	)
	assetRepo := &mockAssetRepo{assets: map[int64]*entity.Asset{
		100: {ID: 100, ZoneID: int64Ptr(10)},
		200: {ID: 200, AreaID: int64Ptr(40)},
		300: {ID: 300},
	}}
	locationRepo := &mockLocationRepo{
		zones:     map[int64]*entity.Zone{10: {ID: 10, BuildingID: 20, Floor: 2}},
		buildings: map[int64]*entity.Building{20: {ID: 20, CampusID: 30}},
		areas:     map[int64]*entity.Area{40: {ID: 40, CampusID: 30}},
	}
	staffRepo := &mockStaffRepo{
		staffs: map[int64]*entity.Staff{
			1: {ID: 1, Name: "S1", Active: true},
			2: {ID: 2, Name: "S2", Active: true},
			3: {ID: 3, Name: "S3", Active: true},
			4: {ID: 4, Name: "S4", Active: false},
		},
		assignments: assignments,
	}

	svc := NewSuggestionService(reportRepo, assetRepo, staffRepo, locationRepo, noopLogger{})
	return &suggestionFixture{svc: svc, staffRepo: staffRepo}
}

func TestSuggestStaffFor_Tiering(t *testing.T) {
	f := newSuggestionFixture([]entity.StaffAssignment{
		{StaffID: 2, BuildingIDs: []int64{20}},
		{StaffID: 1, ZoneIDs: []int64{10}},
		{StaffID: 3, CampusID: int64Ptr(30)},
	})

	got, err := f.svc.SuggestStaffFor(context.Background(), 1)
	require.NoError(t, err)

	assert.False(t, got.Fallback)
	require.Len(t, got.Candidates, 3)
	assert.Equal(t, int64(1), got.Candidates[0].Staff.ID)
	assert.Equal(t, entity.TierZone, got.Candidates[0].Tier)
	assert.Equal(t, int64(2), got.Candidates[1].Staff.ID)
	assert.Equal(t, entity.TierBuilding, got.Candidates[1].Tier)
	assert.Equal(t, int64(3), got.Candidates[2].Staff.ID)
	assert.Equal(t, entity.TierCampus, got.Candidates[2].Tier)
}

func TestSuggestStaffFor_OutdoorAsset(t *testing.T) {
	f := newSuggestionFixture([]entity.StaffAssignment{
		{StaffID: 1, AreaIDs: []int64{40}},
	})

	got, err := f.svc.SuggestStaffFor(context.Background(), 2)
	require.NoError(t, err)

	assert.False(t, got.Fallback)
	require.Len(t, got.Candidates, 1)
	assert.Equal(t, entity.TierArea, got.Candidates[0].Tier)
}

func TestSuggestStaffFor_FallbackWhenNoOwner(t *testing.T) {
	f := newSuggestionFixture([]entity.StaffAssignment{
		{StaffID: 1, ZoneIDs: []int64{99}}, // unrelated zone
	})

	got, err := f.svc.SuggestStaffFor(context.Background(), 1)
	require.NoError(t, err)

	assert.True(t, got.Fallback)
	require.Len(t, got.Candidates, 3, "all active staff, inactive excluded")
	for _, c := range got.Candidates {
		assert.Empty(t, c.Tier, "fallback candidates are untagged")
		assert.True(t, c.Staff.Active)
	}
}

func TestSuggestStaffFor_LocationUndetermined(t *testing.T) {
	f := newSuggestionFixture([]entity.StaffAssignment{
		{StaffID: 1, ZoneIDs: []int64{10}},
	})

	// Asset 300 has neither zone nor area: degrade to fallback, no error
	got, err := f.svc.SuggestStaffFor(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, got.Fallback)
	assert.NotEmpty(t, got.Candidates)
}

func TestSuggestStaffFor_SkipsInactiveOwner(t *testing.T) {
	f := newSuggestionFixture([]entity.StaffAssignment{
		{StaffID: 4, ZoneIDs: []int64{10}}, // inactive account still in relation
		{StaffID: 3, CampusID: int64Ptr(30)},
	})

	got, err := f.svc.SuggestStaffFor(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, got.Candidates, 1)
	assert.Equal(t, int64(3), got.Candidates[0].Staff.ID)
}

func TestSuggestStaffFor_MissingReport(t *testing.T) {
	f := newSuggestionFixture(nil)

	_, err := f.svc.SuggestStaffFor(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
