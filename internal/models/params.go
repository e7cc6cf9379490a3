package models

// RideshareModel parameterizes the deterministic rideshare transfer cost
// model (§4.2). Defaults match the spec exactly.
type RideshareModel struct {
	BaseFare    float64 `yaml:"base_fare" json:"base_fare"`
	PerKm       float64 `yaml:"per_km" json:"per_km"`
	PerMin      float64 `yaml:"per_min" json:"per_min"`
	AvgSpeedKmh float64 `yaml:"avg_speed_kmh" json:"avg_speed_kmh"`
	SurgeCoeff  float64 `yaml:"surge_coeff" json:"surge_coeff"`
}

// DefaultRideshareModel returns the spec's default parameters.
func DefaultRideshareModel() RideshareModel {
	return RideshareModel{
		BaseFare:    3.00,
		PerKm:       1.25,
		PerMin:      0.25,
		AvgSpeedKmh: 35,
		SurgeCoeff:  1.0,
	}
}

// SearchParams enumerates the tunable knobs of a search request (§6).
type SearchParams struct {
	MaxExpansions    int            `yaml:"max_expansions" json:"max_expansions"`
	TimeoutMs        int            `yaml:"timeout_ms" json:"timeout_ms"`
	TimeValuePerHour float64        `yaml:"time_value_per_hour" json:"time_value_per_hour"`
	TransferPenalty  float64        `yaml:"transfer_penalty" json:"transfer_penalty"`
	MaxDetourFactor  float64        `yaml:"max_detour_factor" json:"max_detour_factor"`
	RiskPenalty      float64        `yaml:"risk_penalty" json:"risk_penalty"`
	TransferRadiusKm float64        `yaml:"transfer_radius_km" json:"transfer_radius_km"`
	Rideshare        RideshareModel `yaml:"rideshare_model" json:"rideshare_model"`
}

// DefaultSearchParams returns the spec's default search parameters.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		MaxExpansions:    100_000,
		TimeoutMs:        5_000,
		TimeValuePerHour: 20,
		TransferPenalty:  6,
		MaxDetourFactor:  2.2,
		RiskPenalty:      0,
		TransferRadiusKm: 3.0,
		Rideshare:        DefaultRideshareModel(),
	}
}
