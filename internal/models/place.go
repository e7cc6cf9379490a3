package models

// MatchMode identifies how a PlaceSpec matches candidate destination nodes.
type MatchMode string

const (
	MatchAddress MatchMode = "address"
	MatchArea    MatchMode = "area"
	MatchHotel   MatchMode = "hotel"
)

// PlaceSpec is the result of normalizing a free-form origin/destination
// string: a match mode plus the set of candidate graph nodes.
type PlaceSpec struct {
	Mode  MatchMode
	Raw   string
	Area  *Area
	Nodes []LocationNode
}

// Matches reports whether nodeID satisfies this spec's destination
// predicate: the single synthetic node for Address, or membership in the
// candidate set for Area/HotelQuery.
func (p PlaceSpec) Matches(nodeID int64) bool {
	for _, n := range p.Nodes {
		if n.ID == nodeID {
			return true
		}
	}
	return false
}

// NodeIDs returns the ids of all candidate nodes.
func (p PlaceSpec) NodeIDs() []int64 {
	ids := make([]int64, len(p.Nodes))
	for i, n := range p.Nodes {
		ids[i] = n.ID
	}
	return ids
}
