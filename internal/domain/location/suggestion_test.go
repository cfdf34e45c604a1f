package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

func indoorChain() Chain {
	return Chain{
		{Type: entity.NodeTypeZone, ID: 10},
		{Type: entity.NodeTypeBuilding, ID: 20},
		{Type: entity.NodeTypeCampus, ID: 30},
	}
}

func TestSuggest_TierOrdering(t *testing.T) {
	// S1 manages the exact zone, S2 only the containing building, S3 only the
	// campus. Ranking must follow tier priority regardless of slice order.
	assignments := []entity.StaffAssignment{
		{StaffID: 3, CampusID: int64Ptr(30)},
		{StaffID: 2, BuildingIDs: []int64{20}},
		{StaffID: 1, ZoneIDs: []int64{10}},
	}

	got := Suggest(indoorChain(), assignments)
	require.False(t, got.Fallback)
	require.Len(t, got.Ranked, 3)

	assert.Equal(t, Candidate{StaffID: 1, Tier: entity.TierZone}, got.Ranked[0])
	assert.Equal(t, Candidate{StaffID: 2, Tier: entity.TierBuilding}, got.Ranked[1])
	assert.Equal(t, Candidate{StaffID: 3, Tier: entity.TierCampus}, got.Ranked[2])
}

func TestSuggest_DedupKeepsHighestTier(t *testing.T) {
	// S1 manages both the zone and the campus; only the zone entry survives.
	assignments := []entity.StaffAssignment{
		{StaffID: 1, ZoneIDs: []int64{10}, CampusID: int64Ptr(30)},
		{StaffID: 2, CampusID: int64Ptr(30)},
	}

	got := Suggest(indoorChain(), assignments)
	require.Len(t, got.Ranked, 2)
	assert.Equal(t, Candidate{StaffID: 1, Tier: entity.TierZone}, got.Ranked[0])
	assert.Equal(t, Candidate{StaffID: 2, Tier: entity.TierCampus}, got.Ranked[1])
}

func TestSuggest_OutdoorUsesAreaTier(t *testing.T) {
	chain := Chain{
		{Type: entity.NodeTypeArea, ID: 40},
		{Type: entity.NodeTypeCampus, ID: 30},
	}
	assignments := []entity.StaffAssignment{
		{StaffID: 5, AreaIDs: []int64{40}},
	}

	got := Suggest(chain, assignments)
	require.Len(t, got.Ranked, 1)
	assert.Equal(t, entity.TierArea, got.Ranked[0].Tier)
}

func TestSuggest_FallbackWhenNoMatch(t *testing.T) {
	assignments := []entity.StaffAssignment{
		{StaffID: 7, ZoneIDs: []int64{99}},
	}

	got := Suggest(indoorChain(), assignments)
	assert.True(t, got.Fallback)
	assert.Empty(t, got.Ranked)
}

func TestSuggest_EmptyAssignments(t *testing.T) {
	got := Suggest(indoorChain(), nil)
	assert.True(t, got.Fallback)
}
