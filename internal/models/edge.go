package models

// EdgeLeg is a directed structural leg between two LocationNodes: the
// route shape (from, to, mode, nominal duration) independent of any
// specific departure.
type EdgeLeg struct {
	ID         int64
	FromID     int64
	ToID       int64
	Mode       Mode
	IsTransfer bool // 1 = first/last-mile or connection synthetic

	CarrierCode string
	ServiceCode string

	DistanceKm     *float64
	DurationMin    float64
	MCTOverrideMin *int
	CoLocated      bool
	Structure      StructureType
}

// Valid reports whether the edge satisfies its data-model invariants.
func (e EdgeLeg) Valid() bool {
	return e.FromID != e.ToID && e.DurationMin >= 0
}
