// Package cost implements the generalized-cost objective: incremental
// leg cost, an admissible lower bound to destination, and the prune
// predicate the search engine applies before expanding a state (C5, §4.5).
package cost

import (
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/spatial"
)

// fastestModeKmh approximates the fastest admissible mode in scope
// (flight) for the lower-bound calculation. Must never be raised without
// re-checking LB admissibility against every mode actually modeled.
const fastestModeKmh = 700.0

// Evaluator computes incremental cost and lower bounds for a single
// search, parameterized by the request's SearchParams.
type Evaluator struct {
	Params models.SearchParams
}

// New returns an Evaluator for the given params.
func New(params models.SearchParams) *Evaluator {
	return &Evaluator{Params: params}
}

// StepResult is the outcome of applying one candidate leg to a partial
// path.
type StepResult struct {
	NewGenCost   float64
	NewTransfers int
	DurationMin  float64
}

// Step computes the cost of extending a partial path (genCostSoFar,
// transfersSoFar) with the candidate leg (edge, offer).
func (e *Evaluator) Step(genCostSoFar float64, transfersSoFar int, edge models.EdgeLeg, offer models.Offer) StepResult {
	durationMin := offer.DurationMin()
	cash := offer.PriceTotal

	var transferCost float64
	isTransfer := edge.IsTransfer
	if isTransfer {
		transferCost = e.Params.TransferPenalty
	}

	newGenCost := genCostSoFar + cash + e.Params.TimeValuePerHour*(durationMin/60) + transferCost + e.Params.RiskPenalty
	newTransfers := transfersSoFar
	if isTransfer {
		newTransfers++
	}

	return StepResult{NewGenCost: newGenCost, NewTransfers: newTransfers, DurationMin: durationMin}
}

// LowerBound returns an admissible estimate of the minimum remaining cost
// from u to d: the time-valued cost of covering the approximate distance
// at the fastest admissible mode. It must never exceed the true optimal
// remaining cost.
func (e *Evaluator) LowerBound(u, d spatial.LatLon) float64 {
	distKm := spatial.ApproxDistanceKm(u, d)
	hours := distKm / fastestModeKmh
	return e.Params.TimeValuePerHour * hours
}

// PruneDecision records the three prune predicates of §4.5; a state is
// pruned if any one of them fires.
type PruneDecision struct {
	Bound        bool // newGenCost >= bestCost
	LowerBound   bool // newGenCost + LB(next, dest) >= bestCost
	Detour       bool // distSoFar > maxDetourFactor * directDistance
}

// Pruned reports whether any predicate fired.
func (d PruneDecision) Pruned() bool {
	return d.Bound || d.LowerBound || d.Detour
}

// ShouldPrune applies the three prune predicates to a successor state.
// haveBest false means "no best cost known yet" (predicates 1 and 2 never
// fire). directDistanceKm <= 0 disables the detour predicate.
func (e *Evaluator) ShouldPrune(newGenCost float64, bestCost float64, haveBest bool, next, dest spatial.LatLon, distSoFarKm, directDistanceKm float64) PruneDecision {
	var d PruneDecision
	if haveBest {
		if newGenCost >= bestCost {
			d.Bound = true
		}
		if lb := e.LowerBound(next, dest); newGenCost+lb >= bestCost {
			d.LowerBound = true
		}
	}
	if directDistanceKm > 0 && distSoFarKm > e.Params.MaxDetourFactor*directDistanceKm {
		d.Detour = true
	}
	return d
}
