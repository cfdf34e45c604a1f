package entity

// Asset is a physical item tied to exactly one zone or one area, never both.
type Asset struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	ZoneID *int64 `json:"zone_id,omitempty"`
	AreaID *int64 `json:"area_id,omitempty"`
}

// Indoor reports whether the asset is located in a zone.
func (a *Asset) Indoor() bool {
	return a.ZoneID != nil
}

// Outdoor reports whether the asset is located in an outdoor area.
func (a *Asset) Outdoor() bool {
	return a.AreaID != nil
}
