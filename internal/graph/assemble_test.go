package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohamedthameursassi/intermodal/internal/graph"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

type fakeSource struct {
	nodes  []models.LocationNode
	edges  []models.EdgeLeg
	offers []models.Offer
}

func (f fakeSource) LoadNodes(context.Context) ([]models.LocationNode, error) { return f.nodes, nil }
func (f fakeSource) LoadEdges(context.Context) ([]models.EdgeLeg, error)      { return f.edges, nil }
func (f fakeSource) LoadOffers(context.Context) ([]models.Offer, error)       { return f.offers, nil }

func TestBuild_JoinsEdgesWithTheirOffers(t *testing.T) {
	src := fakeSource{
		nodes: []models.LocationNode{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 0, Lon: 10},
		},
		edges: []models.EdgeLeg{
			{ID: 10, FromID: 1, ToID: 2, Mode: models.ModeFlight, DurationMin: 60},
		},
		offers: []models.Offer{
			{ID: 100, EdgeID: 10, PriceTotal: 100},
			{ID: 101, EdgeID: 10, PriceTotal: 150},
		},
	}

	params := models.DefaultSearchParams()
	params.TransferRadiusKm = 0
	synth := transfer.New(params.Rideshare, func() time.Time { return time.Unix(0, 0) })

	g, err := graph.Build(context.Background(), src, nil, params, synth)
	require.NoError(t, err)

	arcs := g.ArcsFrom(1)
	require.Len(t, arcs, 2, "one arc per offer on the structural edge")
	assert.Equal(t, int64(10), arcs[0].Edge.ID)
}

func TestBuild_DroppedEdgeWhenEndpointMissing(t *testing.T) {
	src := fakeSource{
		nodes: []models.LocationNode{{ID: 1, Lat: 0, Lon: 0}},
		edges: []models.EdgeLeg{{ID: 10, FromID: 1, ToID: 999, DurationMin: 10}},
	}
	params := models.DefaultSearchParams()
	params.TransferRadiusKm = 0
	synth := transfer.New(params.Rideshare, func() time.Time { return time.Unix(0, 0) })

	g, err := graph.Build(context.Background(), src, nil, params, synth)
	require.NoError(t, err)
	assert.Empty(t, g.ArcsFrom(1))
}

func TestBuild_MergesExtraNodes(t *testing.T) {
	src := fakeSource{nodes: []models.LocationNode{{ID: 1, Lat: 0, Lon: 0}}}
	extra := []models.LocationNode{{ID: -1, Lat: 1, Lon: 1}}

	params := models.DefaultSearchParams()
	params.TransferRadiusKm = 0
	synth := transfer.New(params.Rideshare, func() time.Time { return time.Unix(0, 0) })

	g, err := graph.Build(context.Background(), src, extra, params, synth)
	require.NoError(t, err)

	_, ok := g.NodeByID(-1)
	assert.True(t, ok)
}

func TestBuild_InjectsTransfersWithinRadius(t *testing.T) {
	src := fakeSource{
		nodes: []models.LocationNode{
			{ID: 1, Lat: 42.3656, Lon: -71.0096},
			{ID: 2, Lat: 42.3660, Lon: -71.0100}, // a few hundred meters away
		},
	}
	params := models.DefaultSearchParams()
	params.TransferRadiusKm = 3.0
	synth := transfer.New(params.Rideshare, func() time.Time { return time.Unix(0, 0) })

	g, err := graph.Build(context.Background(), src, nil, params, synth)
	require.NoError(t, err)

	arcs := g.ArcsFrom(1)
	assert.NotEmpty(t, arcs, "nodes within the transfer radius should get synthesized arcs")
	for _, arc := range arcs {
		assert.True(t, arc.Edge.IsTransfer)
	}
}

func TestBuild_NoTransfersBeyondRadius(t *testing.T) {
	src := fakeSource{
		nodes: []models.LocationNode{
			{ID: 1, Lat: 0, Lon: 0},
			{ID: 2, Lat: 50, Lon: 50},
		},
	}
	params := models.DefaultSearchParams()
	params.TransferRadiusKm = 3.0
	synth := transfer.New(params.Rideshare, func() time.Time { return time.Unix(0, 0) })

	g, err := graph.Build(context.Background(), src, nil, params, synth)
	require.NoError(t, err)
	assert.Empty(t, g.ArcsFrom(1))
}
