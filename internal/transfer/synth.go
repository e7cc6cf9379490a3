// Package transfer synthesizes first/last-mile transfer edges (walk,
// rideshare, shuttle) between two nearby LocationNodes from deterministic
// cost/time models (§4.2). It never calls a live routing provider; that
// is the concern of internal/provider.
package transfer

import (
	"math"
	"time"

	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

// ShuttleFlatPrice is the configurable flat price for the shuttle model.
const ShuttleFlatPrice = 12.0

const (
	coLocatedThresholdKm = 0.3
	shuttleAvgSpeedKmh   = 25.0
)

// Arc pairs a synthesized structural edge with its synthesized offer.
type Arc struct {
	Edge  models.EdgeLeg
	Offer models.Offer
}

// Synthesizer builds the three transfer-mode arcs between two nodes.
// EdgeID/OfferID are assigned by the caller (they are scoped to a single
// search and never persisted, per §3's lifecycle note).
type Synthesizer struct {
	Rideshare models.RideshareModel
	Now       func() time.Time
}

// New returns a Synthesizer with the given rideshare model. now defaults
// to time.Now if nil.
func New(rideshare models.RideshareModel, now func() time.Time) *Synthesizer {
	if now == nil {
		now = time.Now
	}
	return &Synthesizer{Rideshare: rideshare, Now: now}
}

// Synthesize returns the walk, rideshare, and shuttle arcs from node a to
// node b. Any arc whose inputs are non-finite (e.g. NaN coordinates) is
// silently omitted, per §7's "this transfer does not exist" policy.
func (s *Synthesizer) Synthesize(a, b spatial.LatLon, fromID, toID int64) []Arc {
	dist := spatial.Haversine(a, b)
	if math.IsNaN(dist) || math.IsInf(dist, 0) {
		return nil
	}

	arcs := make([]Arc, 0, 3)
	if arc, ok := s.walk(dist, fromID, toID); ok {
		arcs = append(arcs, arc)
	}
	if arc, ok := s.rideshare(dist, fromID, toID); ok {
		arcs = append(arcs, arc)
	}
	if arc, ok := s.shuttle(dist, fromID, toID); ok {
		arcs = append(arcs, arc)
	}
	return arcs
}

func (s *Synthesizer) walk(distKm float64, fromID, toID int64) (Arc, bool) {
	durationMin := math.Max(3, math.Round(distKm/5*60))
	if math.IsNaN(durationMin) {
		return Arc{}, false
	}

	now := s.Now()
	edge := models.EdgeLeg{
		FromID:      fromID,
		ToID:        toID,
		Mode:        models.ModeWalk,
		IsTransfer:  true,
		DistanceKm:  ptr(distKm),
		DurationMin: durationMin,
		CoLocated:   distKm < coLocatedThresholdKm,
		Structure:   models.StructureDynamicTemplate,
	}
	offer := models.Offer{
		DepartureUTC:  now,
		ArrivalUTC:    now.Add(time.Duration(durationMin) * time.Minute),
		PriceTotal:    0,
		SourceType:    models.SourceManualStatic,
		IsStatic:      true,
		RetrievedAt:   now,
		EffectiveFrom: now,
		ValidUntil:    now.Add(24 * 365 * time.Hour), // sentinel-large validity window
		Active:        true,
	}
	return Arc{Edge: edge, Offer: offer}, true
}

func (s *Synthesizer) rideshare(distKm float64, fromID, toID int64) (Arc, bool) {
	m := s.Rideshare
	if m.AvgSpeedKmh <= 0 {
		return Arc{}, false
	}

	durationMin := math.Max(5, math.Round(distKm/m.AvgSpeedKmh*60))
	price := round2((m.BaseFare + m.PerKm*distKm + m.PerMin*durationMin) * m.SurgeCoeff)

	now := s.Now()
	edge := models.EdgeLeg{
		FromID:      fromID,
		ToID:        toID,
		Mode:        models.ModeRideshare,
		IsTransfer:  true,
		DistanceKm:  ptr(distKm),
		DurationMin: durationMin,
		Structure:   models.StructureDynamicTemplate,
	}
	offer := models.Offer{
		DepartureUTC:  now,
		ArrivalUTC:    now.Add(time.Duration(durationMin) * time.Minute),
		PriceTotal:    price,
		SourceType:    models.SourceEstimatedModel,
		IsStatic:      false,
		RetrievedAt:   now,
		EffectiveFrom: now,
		TTLHours:      1,
		ValidUntil:    now.Add(time.Hour),
		Active:        true,
	}
	return Arc{Edge: edge, Offer: offer}, true
}

func (s *Synthesizer) shuttle(distKm float64, fromID, toID int64) (Arc, bool) {
	durationMin := math.Round(distKm / shuttleAvgSpeedKmh * 60)

	now := s.Now()
	edge := models.EdgeLeg{
		FromID:      fromID,
		ToID:        toID,
		Mode:        models.ModeShuttle,
		IsTransfer:  true,
		DistanceKm:  ptr(distKm),
		DurationMin: durationMin,
		Structure:   models.StructureDynamicTemplate,
	}
	offer := models.Offer{
		DepartureUTC:  now,
		ArrivalUTC:    now.Add(time.Duration(durationMin) * time.Minute),
		PriceTotal:    ShuttleFlatPrice,
		SourceType:    models.SourceManualStatic,
		IsStatic:      true,
		RetrievedAt:   now,
		EffectiveFrom: now,
		ValidUntil:    now.Add(24 * time.Hour),
		Active:        true,
	}
	return Arc{Edge: edge, Offer: offer}, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ptr(v float64) *float64 { return &v }
