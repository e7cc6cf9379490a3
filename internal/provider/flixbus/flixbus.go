// Package flixbus adapts a Flixbus-style coach-search API into the
// provider.Adapter shape, grounded on the teacher's car_service.go
// OSRM-call idiom (GET, context, JSON decode) applied to bus quotes
// rather than routed distance.
package flixbus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/mohamedthameursassi/intermodal/internal/cache"
	"github.com/mohamedthameursassi/intermodal/internal/provider"
)

type Adapter struct {
	BaseURL    string
	HTTPClient *http.Client
	Cache      *cache.Cache
}

func New(baseURL string, c *cache.Cache) *Adapter {
	return &Adapter{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Cache:      c,
	}
}

func (a *Adapter) Name() string { return "flixbus" }

type tripsResponse struct {
	Trips []trip `json:"trips" mapstructure:"trips"`
}

type trip struct {
	PriceTotal   float64 `mapstructure:"price_total"`
	Currency     string  `mapstructure:"currency"`
	DepartureUTC string  `mapstructure:"departure_utc"`
	ArrivalUTC   string  `mapstructure:"arrival_utc"`
	TripUID      string  `mapstructure:"uid"`
}

func (a *Adapter) Quote(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]provider.Quote, error) {
	params := map[string]any{
		"from_lat": fromLat, "from_lon": fromLon,
		"to_lat": toLat, "to_lon": toLon,
	}

	body, err := a.Cache.Fetch(ctx, a.Name(), "trips", params, func(ctx context.Context) (string, time.Duration, error) {
		return a.fetch(ctx, fromLat, fromLon, toLat, toLon)
	})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("flixbus: decode response: %w", err)
	}
	var parsed tripsResponse
	if err := mapstructure.Decode(raw, &parsed); err != nil {
		return nil, fmt.Errorf("flixbus: map response: %w", err)
	}

	quotes := make([]provider.Quote, 0, len(parsed.Trips))
	for _, t := range parsed.Trips {
		dep, derr := time.Parse(time.RFC3339, t.DepartureUTC)
		arr, aerr := time.Parse(time.RFC3339, t.ArrivalUTC)
		if derr != nil || aerr != nil {
			continue
		}
		quotes = append(quotes, provider.Quote{
			Mode:         "bus",
			PriceTotal:   t.PriceTotal,
			Currency:     t.Currency,
			DepartureUTC: dep,
			ArrivalUTC:   arr,
			ProviderRef:  t.TripUID,
		})
	}
	return quotes, nil
}

func (a *Adapter) fetch(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (string, time.Duration, error) {
	url := fmt.Sprintf("%s/trips?from=%.4f,%.4f&to=%.4f,%.4f", a.BaseURL, fromLat, fromLon, toLat, toLon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("flixbus: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("flixbus: status %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	return string(buf), 30 * time.Minute, nil
}
