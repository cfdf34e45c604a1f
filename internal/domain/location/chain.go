// Package location implements ownership chain resolution and staff
// suggestion tiering. Everything here is a pure computation over data the
// caller has already fetched; the package performs no I/O.
package location

import (
	"errors"

	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// ErrLocationUndetermined is returned when an asset's placement does not
// resolve to exactly one zone or area. Callers must treat it as "no
// suggestions available", not as a hard failure.
var ErrLocationUndetermined = errors.New("asset location undetermined")

// Chain is an ordered list of location nodes from most-specific to
// least-specific: [Zone, Building, Campus] for indoor assets, [Area, Campus]
// for outdoor ones.
type Chain []entity.NodeRef

// ResolveChain computes the ownership chain for an asset. For an indoor asset
// the zone and its building must be supplied; for an outdoor asset the area.
// An asset claiming both placements is as unresolvable as one claiming
// neither.
func ResolveChain(asset *entity.Asset, zone *entity.Zone, building *entity.Building, area *entity.Area) (Chain, error) {
	switch {
	case asset.Indoor() && asset.Outdoor():
		return nil, ErrLocationUndetermined
	case asset.Indoor():
		if zone == nil || building == nil {
			return nil, ErrLocationUndetermined
		}
		return Chain{
			{Type: entity.NodeTypeZone, ID: zone.ID},
			{Type: entity.NodeTypeBuilding, ID: building.ID},
			{Type: entity.NodeTypeCampus, ID: building.CampusID},
		}, nil
	case asset.Outdoor():
		if area == nil {
			return nil, ErrLocationUndetermined
		}
		return Chain{
			{Type: entity.NodeTypeArea, ID: area.ID},
			{Type: entity.NodeTypeCampus, ID: area.CampusID},
		}, nil
	default:
		return nil, ErrLocationUndetermined
	}
}

// StaffManaging returns the staff ids whose assignment record includes the
// exact node. Each level is matched independently: managing a campus does not
// make a staff a manager of its buildings or zones.
func StaffManaging(node entity.NodeRef, assignments []entity.StaffAssignment) []int64 {
	var staffIDs []int64
	for _, sa := range assignments {
		if sa.ManagesNode(node) {
			staffIDs = append(staffIDs, sa.StaffID)
		}
	}
	return staffIDs
}
