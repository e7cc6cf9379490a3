// Package provider holds thin adapters that turn a live or static
// external data source into Offer rows: one per upstream (tequila,
// flixbus, uber) plus a mock adapter and a transit seed helper. Every
// adapter is a straightforward HTTP client + JSON decode, grounded on the
// teacher's car_service.go/walking_service.go OSRM-calling idiom —
// deliberately thin, no retries or circuit breaking (§1 "no design
// risk").
package provider

import (
	"context"
	"time"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Quote is one priced, timed result from an upstream provider, prior to
// being turned into a persisted Offer.
type Quote struct {
	Mode         models.Mode
	PriceTotal   float64
	Currency     string
	DepartureUTC time.Time
	ArrivalUTC   time.Time
	ProviderRef  string
	Meta         map[string]any
}

// Adapter fetches live quotes between two coordinates for a given
// provider's mode.
type Adapter interface {
	Name() string
	Quote(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]Quote, error)
}

// ToOffer converts a Quote fetched from adapter name into an Offer
// attached to edgeID, stamping bookkeeping fields the way every adapter
// needs them stamped.
func ToOffer(edgeID int64, providerName string, q Quote, now time.Time) models.Offer {
	return models.Offer{
		EdgeID:         edgeID,
		DepartureUTC:   q.DepartureUTC,
		ArrivalUTC:     q.ArrivalUTC,
		PriceTotal:     q.PriceTotal,
		Currency:       q.Currency,
		SourceType:     models.SourceAPILive,
		Provider:       providerName,
		ProviderRef:    q.ProviderRef,
		IsStatic:       false,
		RetrievedAt:    now,
		EffectiveFrom:  now,
		LastVerifiedAt: now,
		TTLHours:       6,
		Active:         true,
		Meta:           q.Meta,
	}
}
