package models

import "dd-planner/internal/config"

// SimulationRequest represents the request body for running a batch.
// Params override the preset (or the defaults); omitted fields keep the base value.
type SimulationRequest struct {
	Preset        string                     `json:"preset,omitempty"` // preset id, e.g. "eval_50k"
	Params        config.SimulationOverrides `json:"params"`
	Trials        *int                       `json:"trials,omitempty"`
	Seed          *uint64                    `json:"seed,omitempty"`
	Workers       *int                       `json:"workers,omitempty"`
	IncludeSeries bool                       `json:"include_series,omitempty"` // default: false
}

// Overrides folds the top-level batch settings into the parameter overrides.
func (r SimulationRequest) Overrides() config.SimulationOverrides {
	return r.Params.Merge(config.SimulationOverrides{
		Trials:  r.Trials,
		Seed:    r.Seed,
		Workers: r.Workers,
	})
}

// CompareRequest runs one batch per variation on top of a shared base.
type CompareRequest struct {
	Base       SimulationRequest `json:"base"`
	Variations []Variation       `json:"variations" binding:"required,min=1,dive"`
}

// Variation defines a variation to test
type Variation struct {
	Name   string                     `json:"name" binding:"required"`
	Params config.SimulationOverrides `json:"params"`
}

// SeriesQuery selects the representation of a cached series.
type SeriesQuery struct {
	Format string `form:"format"` // "json" (default) or "csv"
}
