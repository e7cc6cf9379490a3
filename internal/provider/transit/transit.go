// Package transit adapts the teacher's Google Directions transit-step
// conversion (health-route-server/routing/transit.go) into a seed-only
// helper: it is never on the search's critical path, only used by
// `intermodal-cli seed` to synthesize a handful of illustrative static
// offer rows for local testing, per SPEC_FULL.md §4.
package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// Config holds the Google Maps Directions API key, read from the
// environment the way the teacher's GoogleMapsConfig does.
type Config struct {
	APIKey string
}

type directionsResponse struct {
	Routes []route `json:"routes"`
	Status string  `json:"status"`
}

type route struct {
	Legs []leg `json:"legs"`
}

type leg struct {
	Steps []step `json:"steps"`
}

type step struct {
	TravelMode     string          `json:"travel_mode"`
	TransitDetails *transitDetails `json:"transit_details,omitempty"`
}

type transitDetails struct {
	DepartureTime transitTime `json:"departure_time"`
	ArrivalTime   transitTime `json:"arrival_time"`
	Line          transitLine `json:"line"`
}

type transitTime struct {
	Value int64 `json:"value"`
}

type transitLine struct {
	Vehicle struct {
		Type string `json:"type"`
	} `json:"vehicle"`
	ShortName string `json:"short_name"`
}

// SeedOffers calls Google Directions in transit mode between the two
// coordinates and converts each transit step into a static seed Offer,
// keyed against edgeID (the caller is expected to have already created a
// matching EdgeLeg). Non-transit steps (walking connectors) are skipped;
// first/last-mile transfers are internal/transfer's job, not this
// adapter's.
func SeedOffers(ctx context.Context, cfg Config, edgeID int64, fromLat, fromLon, toLat, toLon float64) ([]models.Offer, error) {
	baseURL := "https://maps.googleapis.com/maps/api/directions/json"
	params := url.Values{}
	params.Set("origin", fmt.Sprintf("%.6f,%.6f", fromLat, fromLon))
	params.Set("destination", fmt.Sprintf("%.6f,%.6f", toLat, toLon))
	params.Set("mode", "transit")
	params.Set("key", cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transit: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var parsed directionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("transit: decode response: %w", err)
	}
	if parsed.Status != "OK" || len(parsed.Routes) == 0 {
		return nil, fmt.Errorf("transit: no route found (status %s)", parsed.Status)
	}

	now := time.Now()
	var offers []models.Offer
	for _, l := range parsed.Routes[0].Legs {
		for _, s := range l.Steps {
			if s.TravelMode != "TRANSIT" || s.TransitDetails == nil {
				continue
			}
			td := s.TransitDetails
			offers = append(offers, models.Offer{
				EdgeID:         edgeID,
				DepartureUTC:   time.Unix(td.DepartureTime.Value, 0).UTC(),
				ArrivalUTC:     time.Unix(td.ArrivalTime.Value, 0).UTC(),
				PriceTotal:     0,
				Currency:       "USD",
				SourceType:     models.SourceManualStatic,
				Provider:       "transit-seed",
				ProviderRef:    td.Line.ShortName,
				IsStatic:       true,
				RetrievedAt:    now,
				EffectiveFrom:  now,
				LastVerifiedAt: now,
				TTLHours:       24 * 30,
				Active:         true,
			})
		}
	}
	return offers, nil
}
