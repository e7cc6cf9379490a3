package graph

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

// DataSource is the read-only snapshot surface the assembler needs from
// persistence (C1): the three full-table reads named in §4.1. Any
// implementation of internal/store.Store satisfies this structurally.
type DataSource interface {
	LoadNodes(ctx context.Context) ([]models.LocationNode, error)
	LoadEdges(ctx context.Context) ([]models.EdgeLeg, error)
	LoadOffers(ctx context.Context) ([]models.Offer, error)
}

// Build loads nodes, structural edges, and offers from src, merges in any
// extra (unpersisted, typically synthetic-address) nodes, and returns the
// timed adjacency with synthesized first/last-mile transfers injected
// (§4.3). A params.TransferRadiusKm of zero or less injects no transfer
// arcs.
func Build(ctx context.Context, src DataSource, extraNodes []models.LocationNode, params models.SearchParams, synth *transfer.Synthesizer) (*Graph, error) {
	var nodes []models.LocationNode
	var edges []models.EdgeLeg
	var offers []models.Offer

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		nodes, err = src.LoadNodes(gctx)
		return err
	})
	g.Go(func() (err error) {
		edges, err = src.LoadEdges(gctx)
		return err
	})
	g.Go(func() (err error) {
		offers, err = src.LoadOffers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	nodes = append(nodes, extraNodes...)

	out := &Graph{
		byID: make(map[int64]int, len(nodes)),
	}
	out.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if _, dup := out.byID[n.ID]; dup {
			continue
		}
		out.byID[n.ID] = len(out.Nodes)
		out.Nodes = append(out.Nodes, Node{ID: n.ID, Lat: n.Lat, Lon: n.Lon, Kind: n.Kind, AreaID: n.AreaID})
	}
	out.Adj = make([][]Arc, len(out.Nodes))

	offersByEdge := make(map[int64][]models.Offer, len(offers))
	for _, o := range offers {
		offersByEdge[o.EdgeID] = append(offersByEdge[o.EdgeID], o)
	}

	for _, e := range edges {
		fromIdx, ok := out.byID[e.FromID]
		if !ok {
			continue
		}
		toIdx, ok := out.byID[e.ToID]
		if !ok {
			continue
		}
		for _, o := range offersByEdge[e.ID] {
			out.Adj[fromIdx] = append(out.Adj[fromIdx], Arc{Edge: e, Offer: o, ToIndex: toIdx})
		}
	}

	if params.TransferRadiusKm > 0 {
		injectTransfers(out, synth, params.TransferRadiusKm)
	}

	return out, nil
}

// injectTransfers appends synthesized walk/rideshare/shuttle arcs for
// every ordered pair of distinct nodes within radiusKm of each other.
func injectTransfers(g *Graph, synth *transfer.Synthesizer, radiusKm float64) {
	n := len(g.Nodes)
	// Stable iteration order so repeated builds over the same snapshot
	// produce the same adjacency ordering (§5 ordering guarantees).
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return g.Nodes[order[i]].ID < g.Nodes[order[j]].ID })

	for _, ai := range order {
		a := g.Nodes[ai]
		for _, bi := range order {
			if ai == bi {
				continue
			}
			b := g.Nodes[bi]
			if spatial.Haversine(a.LatLon(), b.LatLon()) > radiusKm {
				continue
			}
			arcs := synth.Synthesize(a.LatLon(), b.LatLon(), a.ID, b.ID)
			for _, arc := range arcs {
				g.Adj[ai] = append(g.Adj[ai], Arc{Edge: arc.Edge, Offer: arc.Offer, ToIndex: bi})
			}
		}
	}
}
