package location

import (
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
)

// Candidate is one suggested staff account, tagged with the highest-priority
// tier it qualified under.
type Candidate struct {
	StaffID int64  `json:"staff_id"`
	Tier    string `json:"tier"`
}

// Suggestions is the tagged result of the suggestion engine. The two shapes
// are deliberately explicit so a caller cannot confuse "ranked candidates"
// with "nobody manages this location, list all active staff instead".
type Suggestions struct {
	Ranked   []Candidate `json:"ranked,omitempty"`
	Fallback bool        `json:"fallback"`
}

// Suggest evaluates the suggestion tiers against the chain in fixed priority
// order: zone/area first, then building (indoor only), then campus. A staff
// appearing in several tiers is kept once at its highest tier. Within a tier
// candidates keep the assignment slice order.
func Suggest(chain Chain, assignments []entity.StaffAssignment) Suggestions {
	var ranked []Candidate
	seen := make(map[int64]bool)

	for _, node := range chain {
		tier := tierLabel(node.Type)
		for _, staffID := range StaffManaging(node, assignments) {
			if seen[staffID] {
				continue
			}
			seen[staffID] = true
			ranked = append(ranked, Candidate{StaffID: staffID, Tier: tier})
		}
	}

	if len(ranked) == 0 {
		return Suggestions{Fallback: true}
	}
	return Suggestions{Ranked: ranked}
}

func tierLabel(nodeType string) string {
	switch nodeType {
	case entity.NodeTypeZone:
		return entity.TierZone
	case entity.NodeTypeArea:
		return entity.TierArea
	case entity.NodeTypeBuilding:
		return entity.TierBuilding
	default:
		return entity.TierCampus
	}
}
