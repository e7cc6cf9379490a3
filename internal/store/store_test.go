package store_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	st, err := store.Open(store.Config{Path: path}, log)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func seedSample(t *testing.T, st *store.Store) {
	t.Helper()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	areas := []models.Area{
		{ID: "area:BOS", Name: "Boston", Kind: "metro", CountryCode: "US", RadiusKm: 40},
	}
	nodes := []models.LocationNode{
		{ID: 1, Name: "Logan", Kind: models.KindAirport, AreaID: "area:BOS", Lat: 42.36, Lon: -71.01},
		{ID: 2, Name: "Downtown Hotel", Kind: models.KindHotel, AreaID: "area:BOS", Lat: 42.35, Lon: -71.06},
	}
	edges := []models.EdgeLeg{
		{ID: 10, FromID: 1, ToID: 2, Mode: models.ModeRideshare, DurationMin: 20, Structure: models.StructureDynamicTemplate, IsTransfer: true},
	}
	offers := []models.Offer{
		{ID: 100, EdgeID: 10, DepartureUTC: now, ArrivalUTC: now.Add(20 * time.Minute),
			PriceTotal: 30, Currency: "USD", SourceType: models.SourceEstimatedModel, Active: true, RetrievedAt: now},
	}
	require.NoError(t, st.Seed(context.Background(), areas, nodes, edges, offers))
}

func TestStore_SeedAndLoadRoundTrip(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	nodes, err := st.LoadNodes(context.Background())
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	edges, err := st.LoadEdges(context.Background())
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, models.ModeRideshare, edges[0].Mode)

	offers, err := st.LoadOffers(context.Background())
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.InDelta(t, 30, offers[0].PriceTotal, 0.001)
}

func TestStore_LoadOffers_ExcludesInactive(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	now := time.Now().UTC()
	inactive := []models.Offer{
		{ID: 200, EdgeID: 10, DepartureUTC: now, ArrivalUTC: now.Add(time.Hour),
			PriceTotal: 1, Currency: "USD", SourceType: models.SourceCached, Active: false},
	}
	require.NoError(t, st.Seed(context.Background(), nil, nil, nil, inactive))

	offers, err := st.LoadOffers(context.Background())
	require.NoError(t, err)
	for _, o := range offers {
		assert.NotEqual(t, int64(200), o.ID)
	}
}

func TestStore_FindAreasByName_FuzzyCaseInsensitive(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	areas, err := st.FindAreasByName(context.Background(), "bos")
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "area:BOS", areas[0].ID)

	areas, err = st.FindAreasByName(context.Background(), "nowhere")
	require.NoError(t, err)
	assert.Empty(t, areas)
}

func TestStore_HotelsInArea_FiltersByKind(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	hotels, err := st.HotelsInArea(context.Background(), "area:BOS")
	require.NoError(t, err)
	require.Len(t, hotels, 1)
	assert.Equal(t, models.KindHotel, hotels[0].Kind)

	all, err := st.NodesInArea(context.Background(), "area:BOS")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_Seed_RejectsCyclicAreaParentChain(t *testing.T) {
	st := openTestStore(t)

	cyclic := []models.Area{
		{ID: "area:A", Name: "A", ParentID: "area:B", RadiusKm: 10},
		{ID: "area:B", Name: "B", ParentID: "area:A", RadiusKm: 10},
	}
	err := st.Seed(context.Background(), cyclic, nil, nil, nil)
	require.Error(t, err)

	areas, loadErr := st.LoadAreas(context.Background())
	require.NoError(t, loadErr)
	assert.Empty(t, areas, "a failed seed must not leave the cyclic rows committed")
}

func TestStore_LoadAreas_ReturnsFullTable(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	areas, err := st.LoadAreas(context.Background())
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, "area:BOS", areas[0].ID)
}

func TestStore_WriteAndLoadSnapshot(t *testing.T) {
	st := openTestStore(t)
	seedSample(t, st)

	snapPath := filepath.Join(t.TempDir(), "snap.gob")
	require.NoError(t, st.WriteSnapshot(context.Background(), snapPath))

	snap, err := store.LoadSnapshot(snapPath)
	require.NoError(t, err)

	nodes, err := snap.LoadNodes(context.Background())
	require.NoError(t, err)
	assert.Len(t, nodes, 2)

	edges, err := snap.LoadEdges(context.Background())
	require.NoError(t, err)
	assert.Len(t, edges, 1)
}
