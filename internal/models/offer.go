package models

import "time"

// Offer is a priced, timed instance of traversing an EdgeLeg.
type Offer struct {
	ID     int64
	EdgeID int64

	DepartureUTC time.Time
	ArrivalUTC   time.Time

	PriceTotal float64
	Currency   string

	SourceType  SourceType
	Provider    string
	ProviderRef string
	CacheRef    string

	// IsStatic offers are usable at any departure time: their timestamps
	// are anchor placeholders, not a fixed schedule.
	IsStatic bool

	RetrievedAt      time.Time
	ValidFrom        time.Time
	ValidUntil       time.Time
	EffectiveFrom    time.Time
	LastVerifiedAt   time.Time
	TTLHours         float64
	Active           bool
	ReliabilityScore *float64

	Meta map[string]any
}

// Valid reports whether the offer satisfies its data-model invariants.
func (o Offer) Valid() bool {
	if !o.ArrivalUTC.After(o.DepartureUTC) {
		return false
	}
	return o.PriceTotal >= 0
}

// DurationMin returns the nominal traversal duration in minutes.
func (o Offer) DurationMin() float64 {
	return o.ArrivalUTC.Sub(o.DepartureUTC).Minutes()
}
