// Package search implements the best-first branch-and-bound engine that
// explores the timed adjacency built by internal/graph under the
// generalized-cost objective from internal/cost (C6, §4.6).
package search

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mohamedthameursassi/intermodal/internal/cost"
	"github.com/mohamedthameursassi/intermodal/internal/graph"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

// pathStep is one taken arc, linked back to its predecessor so partial
// paths can share structure instead of being copied at every push.
type pathStep struct {
	arc        graph.Arc
	fromNodeID int64
	departure  time.Time
	arrival    time.Time
	prev       *pathStep
}

// State is one frontier entry: a partial itinerary ending at a node at a
// given arrival time, with its accumulated generalized cost.
type State struct {
	NodeIndex     int
	NodeID        int64
	OriginNodeID  int64
	ArrivalUTC    time.Time
	GenCost       float64
	Transfers     int
	DistSoFarKm   float64
	Path          *pathStep
}

// Engine runs one search over a fixed Graph.
type Engine struct {
	Graph  *graph.Graph
	Cost   *cost.Evaluator
	Params models.SearchParams
	Now    func() time.Time
}

// New returns an Engine over g with the given params. now defaults to
// time.Now if nil.
func New(g *graph.Graph, params models.SearchParams, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{Graph: g, Cost: cost.New(params), Params: params, Now: now}
}

// Request is the resolved input to a search: candidate origin/destination
// nodes plus the raw strings they were normalized from (for the bundle).
//
// OriginCandidateAreaIDs/DestCandidateAreaIDs and the paired ChosenAreaID
// fields carry the fuzzy area-name lookup's full candidate set through to
// the bundle (§4.4 Tie-breaks): the engine always searches against the
// chosen area's nodes, but the ambiguity of "which area did you mean" must
// still be surfaced rather than silently resolved.
type Request struct {
	OriginRaw   string
	DestRaw     string
	OriginNodes []int64
	DestNodes   []int64

	OriginCandidateAreaIDs []string
	OriginChosenAreaID     string
	DestCandidateAreaIDs   []string
	DestChosenAreaID       string
}

// Search runs the branch-and-bound search and always returns a bundle
// (possibly with zero legs and a non-OK status) rather than an error, per
// §7's user-visible behavior contract.
func (e *Engine) Search(ctx context.Context, req Request) (*models.ItineraryBundle, error) {
	start := e.Now()

	destSet := make(map[int64]bool, len(req.DestNodes))
	for _, id := range req.DestNodes {
		destSet[id] = true
	}
	destPoints := make([]spatial.LatLon, 0, len(req.DestNodes))
	for _, id := range req.DestNodes {
		if n, ok := e.Graph.NodeByID(id); ok {
			destPoints = append(destPoints, n.LatLon())
		}
	}

	q := newFrontierQueue()
	dom := newDominanceTable()

	for _, id := range req.OriginNodes {
		idx, ok := e.Graph.IndexOf(id)
		if !ok {
			continue
		}
		q.push(&State{
			NodeIndex:    idx,
			NodeID:       id,
			OriginNodeID: id,
			ArrivalUTC:   start,
			GenCost:      0,
			Transfers:    0,
		})
	}

	var bestState *State
	var haveBest bool
	expansions := 0
	status := models.StatusNoFeasibleRoute

	for {
		if expansions >= e.Params.MaxExpansions {
			status = models.StatusTimeBudgetExhausted
			break
		}
		elapsedMs := e.Now().Sub(start).Milliseconds()
		if elapsedMs >= int64(e.Params.TimeoutMs) {
			status = models.StatusTimeBudgetExhausted
			break
		}
		if ctx.Err() != nil {
			status = models.StatusTimeBudgetExhausted
			break
		}
		if q.len() == 0 {
			if haveBest {
				status = models.StatusOK
			}
			break
		}

		s := q.pop()
		expansions++

		if destSet[s.NodeID] {
			if !haveBest || s.GenCost < bestState.GenCost {
				bestState = s
				haveBest = true
			}
			if q.len() == 0 {
				status = models.StatusOK
				break
			}
			f := q.peek()
			if fn, ok := e.Graph.NodeByID(f.NodeID); ok && len(destPoints) > 0 {
				lb := e.nearestLowerBound(fn.LatLon(), destPoints)
				if f.GenCost+lb >= bestState.GenCost {
					status = models.StatusOK
					break
				}
			}
			continue
		}

		e.expand(s, destPoints, bestState, haveBest, dom, q)
	}

	bundle := e.buildBundle(req, bestState, status, start)
	return bundle, nil
}

func (e *Engine) nearestLowerBound(u spatial.LatLon, dests []spatial.LatLon) float64 {
	best := -1.0
	for _, d := range dests {
		lb := e.Cost.LowerBound(u, d)
		if best < 0 || lb < best {
			best = lb
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func (e *Engine) nearestDistanceKm(u spatial.LatLon, dests []spatial.LatLon) float64 {
	best := -1.0
	for _, d := range dests {
		dist := spatial.ApproxDistanceKm(u, d)
		if best < 0 || dist < best {
			best = dist
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func (e *Engine) expand(s *State, destPoints []spatial.LatLon, bestState *State, haveBest bool, dom *dominanceTable, q *frontierQueue) {
	node, ok := e.Graph.NodeByID(s.NodeID)
	if !ok {
		return
	}

	var bestCost float64
	if haveBest {
		bestCost = bestState.GenCost
	}

	directDistanceKm := 0.0
	if origin, ok := e.Graph.IndexOf(s.OriginNodeID); ok && len(destPoints) > 0 {
		directDistanceKm = e.nearestDistanceKm(e.Graph.Nodes[origin].LatLon(), destPoints)
	}

	for _, arc := range e.Graph.ArcsFrom(s.NodeID) {
		offer := arc.Offer

		var departure, arrival time.Time
		if offer.IsStatic {
			departure = s.ArrivalUTC
			arrival = departure.Add(time.Duration(offer.DurationMin() * float64(time.Minute)))
		} else {
			if offer.DepartureUTC.Before(s.ArrivalUTC) {
				continue // already departed, cannot board
			}
			departure = offer.DepartureUTC
			arrival = offer.ArrivalUTC
		}

		step := e.Cost.Step(s.GenCost, s.Transfers, arc.Edge, offer)

		nextNode := e.Graph.Nodes[arc.ToIndex]
		newDistSoFar := s.DistSoFarKm + spatial.ApproxDistanceKm(node.LatLon(), nextNode.LatLon())

		var destRef spatial.LatLon
		haveDestRef := len(destPoints) > 0
		if haveDestRef {
			destRef = e.nearestDestPoint(nextNode.LatLon(), destPoints)
		}

		decision := e.Cost.ShouldPrune(step.NewGenCost, bestCost, haveBest, nextNode.LatLon(), destRef, newDistSoFar, directDistanceKm)
		if decision.Pruned() {
			continue
		}

		if !dom.accept(arc.ToIndex, arrival.UnixMilli(), step.NewGenCost) {
			continue
		}

		q.push(&State{
			NodeIndex:    arc.ToIndex,
			NodeID:       nextNode.ID,
			OriginNodeID: s.OriginNodeID,
			ArrivalUTC:   arrival,
			GenCost:      step.NewGenCost,
			Transfers:    step.NewTransfers,
			DistSoFarKm:  newDistSoFar,
			Path: &pathStep{
				arc:        arc,
				fromNodeID: s.NodeID,
				departure:  departure,
				arrival:    arrival,
				prev:       s.Path,
			},
		})
	}
}

func (e *Engine) nearestDestPoint(u spatial.LatLon, dests []spatial.LatLon) spatial.LatLon {
	best := dests[0]
	bestDist := spatial.ApproxDistanceKm(u, best)
	for _, d := range dests[1:] {
		if dist := spatial.ApproxDistanceKm(u, d); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// marshalSearchParams renders the numeric SearchParams plus, when the
// origin or destination resolved through the fuzzy area lookup, the
// candidate area ids and the one actually chosen (§4.4 Tie-breaks). The
// omitempty tags keep an unambiguous Address-only search's JSON identical
// to a plain SearchParams marshal.
func marshalSearchParams(p models.SearchParams, req Request) string {
	payload := struct {
		models.SearchParams
		OriginCandidateAreaIDs []string `json:"origin_candidate_area_ids,omitempty"`
		OriginChosenAreaID     string   `json:"origin_chosen_area_id,omitempty"`
		DestCandidateAreaIDs   []string `json:"dest_candidate_area_ids,omitempty"`
		DestChosenAreaID       string   `json:"dest_chosen_area_id,omitempty"`
	}{
		SearchParams:           p,
		OriginCandidateAreaIDs: req.OriginCandidateAreaIDs,
		OriginChosenAreaID:     req.OriginChosenAreaID,
		DestCandidateAreaIDs:   req.DestCandidateAreaIDs,
		DestChosenAreaID:       req.DestChosenAreaID,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	return string(b)
}

func (e *Engine) buildBundle(req Request, best *State, status models.SearchStatus, start time.Time) *models.ItineraryBundle {
	bundle := &models.ItineraryBundle{
		ID:               uuid.NewString(),
		OriginSpecRaw:    req.OriginRaw,
		DestSpecRaw:      req.DestRaw,
		OriginNodeIDs:    req.OriginNodes,
		DestNodeIDs:      req.DestNodes,
		TimeValuePerHour: e.Params.TimeValuePerHour,
		TransferPenalty:  e.Params.TransferPenalty,
		RiskPenalty:      e.Params.RiskPenalty,
		Status:           status,
		StartedAt:        start,
		FinishedAt:       e.Now(),
	}

	bundle.SearchParamsJSON = marshalSearchParams(e.Params, req)

	if best == nil {
		return bundle
	}

	bundle.GeneralizedCost = best.GenCost

	var steps []*pathStep
	for step := best.Path; step != nil; step = step.prev {
		steps = append(steps, step)
	}
	legs := make([]models.Leg, len(steps))
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		fromNode, _ := e.Graph.NodeByID(step.fromNodeID)
		toNode := e.Graph.Nodes[step.arc.ToIndex]

		offer := step.arc.Offer
		offer.DepartureUTC = step.departure
		offer.ArrivalUTC = step.arrival

		legs[len(steps)-1-i] = models.Leg{
			Edge:    step.arc.Edge,
			Offer:   offer,
			FromLat: fromNode.Lat,
			FromLon: fromNode.Lon,
			ToLat:   toNode.Lat,
			ToLon:   toNode.Lon,
		}
	}
	bundle.Legs = legs
	bundle.Recompute()

	return bundle
}
