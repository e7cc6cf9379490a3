package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/config"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/place"
	"github.com/mohamedthameursassi/intermodal/internal/store"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

func testAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "test.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(store.Config{Path: path}, log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	now := time.Now().UTC()
	require.NoError(t, st.Seed(context.Background(),
		[]models.Area{
			{ID: "area:BOS", Name: "Boston", Kind: "metro", CountryCode: "US", RadiusKm: 40},
			{ID: "area:NYC", Name: "New York", Kind: "metro", CountryCode: "US", RadiusKm: 60},
		},
		[]models.LocationNode{
			{ID: 1, Name: "Logan", Kind: models.KindAirport, AreaID: "area:BOS", Lat: 42.36, Lon: -71.01},
			{ID: 2, Name: "JFK", Kind: models.KindAirport, AreaID: "area:NYC", Lat: 40.64, Lon: -73.78},
		},
		[]models.EdgeLeg{{ID: 10, FromID: 1, ToID: 2, Mode: models.ModeFlight, DurationMin: 95, Structure: models.StructureStatic}},
		[]models.Offer{{ID: 100, EdgeID: 10, DepartureUTC: now.Add(time.Hour), ArrivalUTC: now.Add(time.Hour + 95*time.Minute),
			PriceTotal: 150, Currency: "USD", SourceType: models.SourceManualStatic, Active: true}},
	))

	normalizer := place.New(st, place.NewStubGeocoder())
	synth := transfer.New(models.DefaultRideshareModel(), func() time.Time { return now })
	cfg := config.Default()
	cfg.Search.TransferRadiusKm = 1

	return newAPI(st, normalizer, synth, cfg, log)
}

func TestHandleSearch_HappyPath(t *testing.T) {
	a := testAPI(t)
	r := gin.New()
	r.POST("/v1/search", a.handleSearch)

	body, _ := json.Marshal(searchRequest{Origin: "Boston", Destination: "New York"})
	req := httptest.NewRequest(http.MethodPost, "/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var bundle models.ItineraryBundle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bundle))
	assert.Equal(t, models.StatusOK, bundle.Status)
	require.Len(t, bundle.Legs, 1)
	assert.Equal(t, models.ModeFlight, bundle.Legs[0].Edge.Mode)
}

func TestHandleSearch_MissingOriginReturnsBadRequest(t *testing.T) {
	a := testAPI(t)
	r := gin.New()
	r.POST("/v1/search", a.handleSearch)

	body, _ := json.Marshal(searchRequest{Destination: "JFK"})
	req := httptest.NewRequest(http.MethodPost, "/v1/search", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSearch_InvalidOverrideRejected(t *testing.T) {
	a := testAPI(t)
	r := gin.New()
	r.POST("/v1/search", a.handleSearch)

	badDetour := -1.0
	req2Body, _ := json.Marshal(searchRequest{
		Origin: "Boston", Destination: "New York",
		Overrides: &params{MaxDetourFactor: &badDetour},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/search", bytes.NewReader(req2Body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApplyOverrides_NilLeavesBaseUnchanged(t *testing.T) {
	base := models.DefaultSearchParams()
	result := applyOverrides(base, nil)
	assert.Equal(t, base, result)
}

func TestApplyOverrides_OverridesOnlySetFields(t *testing.T) {
	base := models.DefaultSearchParams()
	newPenalty := 42.0
	result := applyOverrides(base, &params{TransferPenalty: &newPenalty})
	assert.Equal(t, 42.0, result.TransferPenalty)
	assert.Equal(t, base.TimeValuePerHour, result.TimeValuePerHour)
}

func TestValidateSearchParams_RejectsZeroTransferRadius(t *testing.T) {
	p := models.DefaultSearchParams()
	p.TransferRadiusKm = 0
	assert.Error(t, validateSearchParams(p))
}

func TestValidateSearchParams_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, validateSearchParams(models.DefaultSearchParams()))
}
