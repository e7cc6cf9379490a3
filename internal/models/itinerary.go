package models

import "time"

// Leg is one traversed arc of an itinerary: the structural edge plus the
// offer that was boarded, with endpoint coordinates copied in so the
// bundle does not need to outlive the graph snapshot that produced it.
type Leg struct {
	Edge EdgeLeg
	Offer Offer

	FromLat float64
	FromLon float64
	ToLat   float64
	ToLon   float64
}

// ItineraryBundle is a search result: an ordered list of legs plus the
// totals, scoring inputs, and outcome status of the search that produced
// it.
type ItineraryBundle struct {
	ID string

	OriginSpecRaw string
	DestSpecRaw   string
	OriginNodeIDs []int64
	DestNodeIDs   []int64

	Legs []Leg

	PriceTotal   float64
	DurationMin  float64
	NumTransfers int
	MainMode     Mode

	TimeValuePerHour float64
	TransferPenalty  float64
	RiskPenalty      float64
	GeneralizedCost  float64

	Status          SearchStatus
	SearchParamsJSON string

	StartedAt  time.Time
	FinishedAt time.Time
}

// Recompute fills in the totals derived from Legs, per the §3 invariants:
// price_total = Σ leg prices, duration_min = Σ leg durations (+ buffers,
// none modeled here), num_transfers = count(is_transfer legs).
func (b *ItineraryBundle) Recompute() {
	var price, duration float64
	var transfers int
	var mainMode Mode
	var mainModeDuration float64

	for _, leg := range b.Legs {
		price += leg.Offer.PriceTotal
		d := leg.Offer.DurationMin()
		duration += d
		if leg.Edge.IsTransfer {
			transfers++
		}
		if d > mainModeDuration {
			mainModeDuration = d
			mainMode = leg.Edge.Mode
		}
	}

	b.PriceTotal = price
	b.DurationMin = duration
	b.NumTransfers = transfers
	b.MainMode = mainMode
}
