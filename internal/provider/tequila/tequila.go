package tequila

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

// Adapter calls a Kiwi-Tequila-style flight search API: GET with
// lat/lon pairs, JSON array of flight quotes back.
type Adapter struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Cache      *cache.Cache
}

// New returns a tequila Adapter with a 10s client timeout, the teacher's
// standard OSRM-call budget (car_service.go).
func New(baseURL, apiKey string, c *cache.Cache) *Adapter {
	return &Adapter{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Cache:      c,
	}
}

func (a *Adapter) Name() string { return "tequila" }

type tequilaResponse struct {
	Data []tequilaFlight `json:"data" mapstructure:"data"`
}

type tequilaFlight struct {
	Price     float64 `mapstructure:"price"`
	Currency  string  `mapstructure:"currency"`
	DTimeUTC  int64   `mapstructure:"dTimeUTC"`
	ATimeUTC  int64   `mapstructure:"aTimeUTC"`
	BookingID string  `mapstructure:"booking_token"`
}

// Quote searches for flights between the two coordinates.
func (a *Adapter) Quote(ctx context.Context, fromLat, fromLon, toLat, toLon float64) ([]provider.Quote, error) {
	params := map[string]any{
		"fly_from": fmt.Sprintf("%.4f,%.4f", fromLat, fromLon),
		"fly_to":   fmt.Sprintf("%.4f,%.4f", toLat, toLon),
	}

	body, err := a.Cache.Fetch(ctx, a.Name(), "search", params, func(ctx context.Context) (string, time.Duration, error) {
		return a.fetch(ctx, fromLat, fromLon, toLat, toLon)
	})
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return nil, fmt.Errorf("tequila: decode response: %w", err)
	}
	var parsed tequilaResponse
	if err := mapstructure.Decode(raw, &parsed); err != nil {
		return nil, fmt.Errorf("tequila: map response: %w", err)
	}

	quotes := make([]provider.Quote, 0, len(parsed.Data))
	for _, f := range parsed.Data {
		quotes = append(quotes, provider.Quote{
			Mode:         "flight",
			PriceTotal:   f.Price,
			Currency:     f.Currency,
			DepartureUTC: time.Unix(f.DTimeUTC, 0).UTC(),
			ArrivalUTC:   time.Unix(f.ATimeUTC, 0).UTC(),
			ProviderRef:  f.BookingID,
		})
	}
	return quotes, nil
}

func (a *Adapter) fetch(ctx context.Context, fromLat, fromLon, toLat, toLon float64) (string, time.Duration, error) {
	url := fmt.Sprintf("%s/v2/search?fly_from=%.4f,%.4f&fly_to=%.4f,%.4f", a.BaseURL, fromLat, fromLon, toLat, toLon)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("apikey", a.APIKey)

	resp, err := a.HTTPClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("tequila: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("tequila: status %d", resp.StatusCode)
	}

	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	return string(buf), 1 * time.Hour, nil
}
