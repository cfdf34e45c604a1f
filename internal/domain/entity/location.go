package entity

// Campus is the root of the location containment tree.
type Campus struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Building belongs to exactly one campus.
type Building struct {
	ID       int64  `json:"id"`
	CampusID int64  `json:"campus_id"`
	Name     string `json:"name"`
}

// Zone is an indoor location unit scoped to a building and floor.
type Zone struct {
	ID         int64  `json:"id"`
	BuildingID int64  `json:"building_id"`
	Floor      int    `json:"floor"`
	Name       string `json:"name"`
}

// Area is an outdoor location unit scoped directly to a campus.
type Area struct {
	ID       int64  `json:"id"`
	CampusID int64  `json:"campus_id"`
	Name     string `json:"name"`
}

// NodeRef identifies one node of the location tree by type and id.
type NodeRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}
