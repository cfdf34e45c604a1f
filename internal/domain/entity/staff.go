package entity

// Staff is an account that can be assigned maintenance work.
type Staff struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Active bool   `json:"active"`
}

// StaffAssignment is the set of location nodes a staff account manages.
// Ownership is non-exclusive: several staff may manage the same node.
type StaffAssignment struct {
	StaffID     int64   `json:"staff_id"`
	CampusID    *int64  `json:"campus_id,omitempty"`
	BuildingIDs []int64 `json:"building_ids,omitempty"`
	ZoneIDs     []int64 `json:"zone_ids,omitempty"`
	AreaIDs     []int64 `json:"area_ids,omitempty"`
}

// ManagesNode reports whether the assignment includes the exact node.
// No inheritance: managing a campus does not imply managing its buildings.
func (sa *StaffAssignment) ManagesNode(node NodeRef) bool {
	switch node.Type {
	case NodeTypeCampus:
		return sa.CampusID != nil && *sa.CampusID == node.ID
	case NodeTypeBuilding:
		return containsID(sa.BuildingIDs, node.ID)
	case NodeTypeZone:
		return containsID(sa.ZoneIDs, node.ID)
	case NodeTypeArea:
		return containsID(sa.AreaIDs, node.ID)
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
