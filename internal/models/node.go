package models

// LocationNode is a routable point in the transport graph: an airport,
// station, terminal, hotel, address, area, or point of interest.
type LocationNode struct {
	ID          int64
	ExternalRef string // e.g. "IATA:BOS"
	Name        string
	Kind        NodeKind
	AreaID      string
	Lat         float64
	Lon         float64
	Hub         bool

	// Minimum-connect-time defaults, in minutes.
	MCTAirToGroundMin int
	MCTGroundToAirMin int
	MCTAnyToAnyMin    int

	CountryCode string
	Timezone    string
}

// Valid reports whether the node satisfies its data-model invariants.
func (n LocationNode) Valid() bool {
	if n.Lat < -90 || n.Lat > 90 {
		return false
	}
	if n.Lon < -180 || n.Lon > 180 {
		return false
	}
	return n.MCTAirToGroundMin >= 0 && n.MCTGroundToAirMin >= 0 && n.MCTAnyToAnyMin >= 0
}
