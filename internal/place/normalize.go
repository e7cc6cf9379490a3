// Package place resolves a free-form origin/destination string into a
// PlaceSpec: a match mode plus candidate graph nodes (C4, §4.4).
package place

import (
	"context"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/mohamedthameursassi/intermodal/internal/models"
)

// AreaSource is the subset of persistence the normalizer needs: fuzzy
// area-name lookup and nodes-by-area (§4.1).
type AreaSource interface {
	FindAreasByName(ctx context.Context, substr string) ([]models.Area, error)
	NodesInArea(ctx context.Context, areaID string) ([]models.LocationNode, error)
	HotelsInArea(ctx context.Context, areaID string) ([]models.LocationNode, error)
}

// Result is a PlaceSpec plus ambiguity metadata worth surfacing in the
// bundle's search_params_json (§4.4 tie-breaks).
type Result struct {
	Spec             models.PlaceSpec
	CandidateAreaIDs []string // all area ids returned by the fuzzy lookup, in tie-break order
}

// ChosenAreaID returns the area id the normalizer settled on when Spec was
// resolved via the fuzzy area lookup (Area or HotelQuery mode), or "" for
// an Address resolution, which has no area ambiguity to report.
func (r Result) ChosenAreaID() string {
	if r.Spec.Area == nil {
		return ""
	}
	return r.Spec.Area.ID
}

// Normalizer resolves raw place strings using an injected AreaSource and
// Geocoder.
type Normalizer struct {
	Areas    AreaSource
	Geocoder Geocoder
}

// New returns a Normalizer.
func New(areas AreaSource, geocoder Geocoder) *Normalizer {
	return &Normalizer{Areas: areas, Geocoder: geocoder}
}

// Normalize resolves raw into a PlaceSpec. scope supplies the synthetic
// node ids for any Address interpretation.
func (n *Normalizer) Normalize(ctx context.Context, raw string, scope *IDScope) (Result, error) {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)

	switch {
	case strings.HasPrefix(lower, "address:"):
		addr := strings.TrimSpace(trimmed[len("address:"):])
		return n.address(ctx, raw, addr, scope)

	case strings.HasPrefix(lower, "hotel"):
		if res, ok, err := n.hotelQuery(ctx, raw, trimmed, scope); err != nil {
			return Result{}, err
		} else if ok {
			return res, nil
		}
		return n.address(ctx, raw, trimmed, scope)

	default:
		if res, ok, err := n.area(ctx, raw, trimmed); err != nil {
			return Result{}, err
		} else if ok {
			return res, nil
		}
		return n.address(ctx, raw, trimmed, scope)
	}
}

func (n *Normalizer) address(ctx context.Context, raw, addr string, scope *IDScope) (Result, error) {
	coord, err := n.Geocoder.Geocode(ctx, addr)
	if err != nil {
		return Result{}, &models.NormalizationError{
			Kind:   models.NormalizationEmptyArea,
			Detail: errors.Wrap(err, "geocode failed").Error(),
		}
	}

	node := models.LocationNode{
		ID:   scope.Next(),
		Name: addr,
		Kind: models.KindAddress,
		Lat:  coord.Lat,
		Lon:  coord.Lon,
	}

	return Result{
		Spec: models.PlaceSpec{
			Mode:  models.MatchAddress,
			Raw:   raw,
			Nodes: []models.LocationNode{node},
		},
	}, nil
}

// area performs the fuzzy substring area-name lookup. ok is false when no
// area matched, signalling the caller should fall back to Address.
func (n *Normalizer) area(ctx context.Context, raw, query string) (Result, bool, error) {
	areas, err := n.Areas.FindAreasByName(ctx, query)
	if err != nil {
		return Result{}, false, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "FindAreasByName", Err: err}
	}
	if len(areas) == 0 {
		return Result{}, false, nil
	}

	// Up to 5 candidates; pick the first by stable sort of id (§4.4).
	if len(areas) > 5 {
		areas = areas[:5]
	}
	sort.Slice(areas, func(i, j int) bool { return areas[i].ID < areas[j].ID })
	chosen := areas[0]

	nodes, err := n.Areas.NodesInArea(ctx, chosen.ID)
	if err != nil {
		return Result{}, false, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "NodesInArea", Err: err}
	}

	ids := make([]string, len(areas))
	for i, a := range areas {
		ids[i] = a.ID
	}

	return Result{
		Spec: models.PlaceSpec{
			Mode:  models.MatchArea,
			Raw:   raw,
			Area:  &chosen,
			Nodes: nodes,
		},
		CandidateAreaIDs: ids,
	}, true, nil
}

// hotelQuery handles a "hotel" / "hotel ... near <X>" query. ok is false
// when there was no "near <X>" phrase or the named area did not resolve,
// signalling the caller should fall back to Address.
func (n *Normalizer) hotelQuery(ctx context.Context, raw, query string, scope *IDScope) (Result, bool, error) {
	const marker = " near "
	idx := strings.Index(strings.ToLower(query), marker)
	if idx < 0 {
		return Result{}, false, nil
	}

	areaQuery := strings.TrimSpace(query[idx+len(marker):])
	areaResult, ok, err := n.area(ctx, raw, areaQuery)
	if err != nil {
		return Result{}, false, err
	}
	if !ok {
		return Result{}, false, nil
	}

	hotels, err := n.Areas.HotelsInArea(ctx, areaResult.Spec.Area.ID)
	if err != nil {
		return Result{}, false, &models.PersistenceError{Kind: models.PersistenceUnavailable, Op: "HotelsInArea", Err: err}
	}

	return Result{
		Spec: models.PlaceSpec{
			Mode:  models.MatchHotel,
			Raw:   raw,
			Area:  areaResult.Spec.Area,
			Nodes: hotels,
		},
		CandidateAreaIDs: areaResult.CandidateAreaIDs,
	}, true, nil
}
