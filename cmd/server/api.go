package main

import (
	"net/http"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
	"log/slog"

	"github.com/mohamedthameursassi/intermodal/internal/config"
	"github.com/mohamedthameursassi/intermodal/internal/graph"
	"github.com/mohamedthameursassi/intermodal/internal/models"
	"github.com/mohamedthameursassi/intermodal/internal/place"
	"github.com/mohamedthameursassi/intermodal/internal/search"
	"github.com/mohamedthameursassi/intermodal/internal/store"
	"github.com/mohamedthameursassi/intermodal/internal/transfer"
)

// api holds the handlers' dependencies. cfg is swapped under mu when the
// config file is hot-reloaded (internal/config.Watch).
type api struct {
	store      *store.Store
	normalizer *place.Normalizer
	synth      *transfer.Synthesizer
	log        *slog.Logger

	mu  sync.RWMutex
	cfg *config.Config
}

func newAPI(st *store.Store, n *place.Normalizer, synth *transfer.Synthesizer, cfg *config.Config, log *slog.Logger) *api {
	return &api{store: st, normalizer: n, synth: synth, cfg: cfg, log: log}
}

func (a *api) updateConfig(cfg *config.Config) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg = cfg
}

func (a *api) currentParams() models.SearchParams {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.Search
}

// searchRequest is the POST /v1/search JSON body.
type searchRequest struct {
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Overrides   *params `json:"params,omitempty"`
}

type params struct {
	TimeValuePerHour *float64 `json:"time_value_per_hour,omitempty"`
	TransferPenalty  *float64 `json:"transfer_penalty,omitempty"`
	MaxDetourFactor  *float64 `json:"max_detour_factor,omitempty"`
	RiskPenalty      *float64 `json:"risk_penalty,omitempty"`
	TransferRadiusKm *float64 `json:"transfer_radius_km,omitempty"`
	MaxExpansions    *int     `json:"max_expansions,omitempty"`
	TimeoutMs        *int     `json:"timeout_ms,omitempty"`
}

func (r searchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Origin, validation.Required),
		validation.Field(&r.Destination, validation.Required),
	)
}

func (a *api) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	searchParams := applyOverrides(a.currentParams(), req.Overrides)
	if err := validateSearchParams(searchParams); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	scope := place.NewIDScope()

	originRes, err := a.normalizer.Normalize(ctx, req.Origin, scope)
	if err != nil {
		a.respondDomainError(c, err)
		return
	}
	destRes, err := a.normalizer.Normalize(ctx, req.Destination, scope)
	if err != nil {
		a.respondDomainError(c, err)
		return
	}

	extraNodes := extraSyntheticNodes(originRes.Spec, destRes.Spec)

	g, err := graph.Build(ctx, a.store, extraNodes, searchParams, a.synth)
	if err != nil {
		a.respondDomainError(c, err)
		return
	}

	engine := search.New(g, searchParams, time.Now)
	bundle, err := engine.Search(ctx, search.Request{
		OriginRaw:              req.Origin,
		DestRaw:                req.Destination,
		OriginNodes:            originRes.Spec.NodeIDs(),
		DestNodes:              destRes.Spec.NodeIDs(),
		OriginCandidateAreaIDs: originRes.CandidateAreaIDs,
		OriginChosenAreaID:     originRes.ChosenAreaID(),
		DestCandidateAreaIDs:   destRes.CandidateAreaIDs,
		DestChosenAreaID:       destRes.ChosenAreaID(),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bundle)
}

func (a *api) respondDomainError(c *gin.Context, err error) {
	switch err.(type) {
	case *models.NormalizationError:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case *models.PersistenceError:
		a.log.Error("persistence error", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "routing data temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func extraSyntheticNodes(specs ...models.PlaceSpec) []models.LocationNode {
	var out []models.LocationNode
	for _, spec := range specs {
		if spec.Mode == models.MatchAddress {
			out = append(out, spec.Nodes...)
		}
	}
	return out
}

func applyOverrides(base models.SearchParams, o *params) models.SearchParams {
	if o == nil {
		return base
	}
	if o.TimeValuePerHour != nil {
		base.TimeValuePerHour = *o.TimeValuePerHour
	}
	if o.TransferPenalty != nil {
		base.TransferPenalty = *o.TransferPenalty
	}
	if o.MaxDetourFactor != nil {
		base.MaxDetourFactor = *o.MaxDetourFactor
	}
	if o.RiskPenalty != nil {
		base.RiskPenalty = *o.RiskPenalty
	}
	if o.TransferRadiusKm != nil {
		base.TransferRadiusKm = *o.TransferRadiusKm
	}
	if o.MaxExpansions != nil {
		base.MaxExpansions = *o.MaxExpansions
	}
	if o.TimeoutMs != nil {
		base.TimeoutMs = *o.TimeoutMs
	}
	return base
}

// validateSearchParams enforces the §6 bounds on a resolved SearchParams
// (after defaults and request overrides have both been applied).
func validateSearchParams(p models.SearchParams) error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TransferRadiusKm, validation.Required, validation.Min(0.0001)),
		validation.Field(&p.MaxDetourFactor, validation.Required, validation.Min(1.0)),
		validation.Field(&p.TimeValuePerHour, validation.Min(0.0)),
		validation.Field(&p.MaxExpansions, validation.Min(1)),
		validation.Field(&p.TimeoutMs, validation.Min(1)),
	)
}
