// Package graph assembles the timed adjacency the search engine explores:
// persisted nodes and structural edges joined with their offers, plus
// synthesized first/last-mile transfer arcs (C3, §4.3).
package graph

import (
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

// Node is the graph's arena representation of a LocationNode: the fields
// the search and cost evaluator actually read, indexed by position rather
// than pointer-chased (§9 design notes).
type Node struct {
	ID     int64
	Lat    float64
	Lon    float64
	Kind   models.NodeKind
	AreaID string
}

func (n Node) LatLon() spatial.LatLon { return spatial.LatLon{Lat: n.Lat, Lon: n.Lon} }

// Arc is one timed arc leaving a node: a structural edge paired with one
// of its offers (or a synthesized transfer pair).
type Arc struct {
	Edge    models.EdgeLeg
	Offer   models.Offer
	ToIndex int
}

// Graph is the read-only, build-once adjacency used by a single search.
// It is safe to share immutably across concurrent searches (§9).
type Graph struct {
	Nodes []Node
	Adj   [][]Arc // Adj[i] is the list of arcs leaving Nodes[i]

	byID map[int64]int
}

// IndexOf returns the arena index of the node with the given id.
func (g *Graph) IndexOf(id int64) (int, bool) {
	i, ok := g.byID[id]
	return i, ok
}

// NodeByID returns the node with the given id.
func (g *Graph) NodeByID(id int64) (Node, bool) {
	i, ok := g.byID[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// ArcsFrom returns the arcs leaving the node with the given id. Returns
// nil if the node is unknown or has no outgoing arcs.
func (g *Graph) ArcsFrom(id int64) []Arc {
	i, ok := g.byID[id]
	if !ok {
		return nil
	}
	return g.Adj[i]
}
