// Package mock is a deterministic placeholder adapter for local
// development and tests, grounded directly on the teacher's
// bixi_service.go (a fixed estimated duration/distance with no live
// call) — generalized from "always 5km/20min" to a distance-scaled
// deterministic estimate so it behaves plausibly over arbitrary inputs.
package mock

import (
	"context"
	"time"

	"github.com/mohamedthameursassi/intermodal/internal/provider"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

type Adapter struct {
	AvgSpeedKmh float64
	PricePerKm  float64
}

func New() *Adapter {
	return &Adapter{AvgSpeedKmh: 25, PricePerKm: 1.0}
}

func (a *Adapter) Name() string { return "mock" }

func (a *Adapter) Quote(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]provider.Quote, error) {
	now := time.Now()
	distanceKm := spatial.Haversine(spatial.LatLon{Lat: fromLat, Lon: fromLon}, spatial.LatLon{Lat: toLat, Lon: toLon})
	durationMin := distanceKm / a.AvgSpeedKmh * 60

	return []provider.Quote{{
		Mode:         "shuttle",
		PriceTotal:   distanceKm * a.PricePerKm,
		Currency:     "USD",
		DepartureUTC: now,
		ArrivalUTC:   now.Add(time.Duration(durationMin * float64(time.Minute))),
		ProviderRef:  "mock",
	}}, nil
}
