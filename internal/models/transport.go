package models

// Mode identifies the travel mode of an EdgeLeg or a synthesized transfer.
type Mode string

const (
	ModeFlight    Mode = "flight"
	ModeTrain     Mode = "train"
	ModeBus       Mode = "bus"
	ModeRideshare Mode = "rideshare"
	ModeWalk      Mode = "walk"
	ModeMetro     Mode = "metro"
	ModeTram      Mode = "tram"
	ModeShuttle   Mode = "shuttle"
)

// NodeKind identifies the kind of a LocationNode.
type NodeKind string

const (
	KindAirport     NodeKind = "airport"
	KindStation     NodeKind = "station"
	KindBusTerminal NodeKind = "bus_terminal"
	KindHotel       NodeKind = "hotel"
	KindAddress     NodeKind = "address"
	KindArea        NodeKind = "area"
	KindPOI         NodeKind = "poi"
)

// StructureType distinguishes a structural edge backed by a fixed route
// shape from one whose timed instances are generated from a template
// (e.g. a GTFS-realtime feed).
type StructureType string

const (
	StructureStatic          StructureType = "static"
	StructureDynamicTemplate StructureType = "dynamic_template"
)

// SourceType identifies where an Offer's price/time data came from.
type SourceType string

const (
	SourceAPILive       SourceType = "api_live"
	SourceCached        SourceType = "cached"
	SourceManualStatic  SourceType = "manual_static"
	SourceEstimatedModel SourceType = "estimated_model"
)

// SearchStatus is the terminal status of a search, always present on the
// returned ItineraryBundle.
type SearchStatus string

const (
	StatusOK                  SearchStatus = "OK"
	StatusTimeBudgetExhausted SearchStatus = "TIME_BUDGET_EXHAUSTED"
	StatusNoFeasibleRoute     SearchStatus = "NO_FEASIBLE_ROUTE"
)
