package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dd-planner/internal/analysis"
	"dd-planner/internal/api/models"
	"dd-planner/internal/config"
	"dd-planner/internal/montecarlo"
	"dd-planner/internal/reportcache"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	errUnknownPreset = errors.New("unknown preset")
	errTooManyTrials = errors.New("too many trials")
)

// SimulationHandler handles simulation-related requests
type SimulationHandler struct {
	engine    *montecarlo.Engine
	cache     *reportcache.Cache
	defaults  config.SimulationConfig
	presetDir string
	maxTrials int
	log       logrus.FieldLogger
}

type SimulationOptions struct {
	Defaults  config.SimulationConfig
	PresetDir string
	// MaxTrials caps a single batch; <= 0 means no cap.
	MaxTrials int
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(engine *montecarlo.Engine, cache *reportcache.Cache, opts SimulationOptions, log logrus.FieldLogger) *SimulationHandler {
	return &SimulationHandler{
		engine:    engine,
		cache:     cache,
		defaults:  opts.Defaults,
		presetDir: opts.PresetDir,
		maxTrials: opts.MaxTrials,
		log:       log.WithField("handler", "simulation"),
	}
}

// RunSimulation handles POST /api/v1/simulations
func (h *SimulationHandler) RunSimulation(c *gin.Context) {
	var req models.SimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	name, sim, err := h.resolve(req.Preset, req.Overrides())
	if err != nil {
		writeError(c, err)
		return
	}

	entry, err := h.run(c.Request.Context(), name, sim, nil)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, buildResponse(entry, req.IncludeSeries))
}

// GetSimulation handles GET /api/v1/simulations/:id
func (h *SimulationHandler) GetSimulation(c *gin.Context) {
	id := c.Param("id")
	entry, ok := h.cache.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    models.CodeNotFound,
				Message: fmt.Sprintf("simulation %s not found or expired", id),
			},
		})
		return
	}

	var q models.SeriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBadRequest(c, err)
		return
	}
	switch q.Format {
	case "", "json":
		c.JSON(http.StatusOK, buildResponse(entry, true))
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, entry.ID))
		c.Status(http.StatusOK)
		if err := montecarlo.WriteSeriesCSV(c.Writer, entry.Report.Series); err != nil {
			h.log.WithError(err).WithField("id", id).Error("write series csv")
		}
	default:
		writeBadRequest(c, fmt.Errorf("unsupported format %q", q.Format))
	}
}

// CompareSimulations handles POST /api/v1/simulations/compare
func (h *SimulationHandler) CompareSimulations(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, err)
		return
	}

	base := req.Base.Overrides()
	variations := make([]analysis.Variation, 0, len(req.Variations))
	entries := make(map[*montecarlo.AggregateReport]*reportcache.Entry, len(req.Variations))
	var rejected []models.RejectedVariation

	for _, v := range req.Variations {
		_, sim, err := h.resolve(req.Base.Preset, base.Merge(v.Params))
		if err == nil {
			var entry *reportcache.Entry
			entry, err = h.run(c.Request.Context(), v.Name, sim, nil)
			if err == nil {
				variations = append(variations, analysis.Variation{Name: v.Name, Report: entry.Report})
				entries[entry.Report] = entry
				continue
			}
		}
		status, detail := errorDetail(err)
		if status != http.StatusBadRequest {
			// Aborted batches (client gone) fail the whole comparison.
			writeError(c, err)
			return
		}
		rejected = append(rejected, models.RejectedVariation{Name: v.Name, Error: detail})
	}

	ranked := analysis.RankByPassRate(variations)
	comparison := make([]models.ComparisonResult, 0, len(ranked))
	for _, rv := range ranked {
		comparison = append(comparison, models.ComparisonResult{
			Rank:    rv.Rank,
			Name:    rv.Name,
			ID:      entries[rv.Report].ID,
			Params:  toParams(rv.Report.Params),
			Summary: toSummary(rv.Report),
		})
	}

	c.JSON(http.StatusOK, models.CompareResponse{
		Comparison: comparison,
		Rejected:   rejected,
	})
}

// resolve layers defaults, the preset and the overrides, then validates.
func (h *SimulationHandler) resolve(preset string, o config.SimulationOverrides) (string, config.SimulationConfig, error) {
	base := h.defaults
	name := ""
	if preset != "" {
		path, err := config.PresetPath(h.presetDir, preset)
		if err != nil {
			return "", config.SimulationConfig{}, fmt.Errorf("%w: %v", errUnknownPreset, err)
		}
		p, err := config.LoadPreset(path)
		if err != nil {
			h.log.WithError(err).WithField("preset", preset).Warn("failed to load preset")
			return "", config.SimulationConfig{}, fmt.Errorf("%w: %s", errUnknownPreset, preset)
		}
		base = p.Simulation
		name = p.Name
	}

	sim := base.Apply(o)
	if err := sim.Validate(); err != nil {
		return "", config.SimulationConfig{}, err
	}
	if h.maxTrials > 0 && sim.Trials > h.maxTrials {
		return "", config.SimulationConfig{}, fmt.Errorf("%w: %d exceeds limit %d", errTooManyTrials, sim.Trials, h.maxTrials)
	}
	return name, sim, nil
}

func (h *SimulationHandler) run(ctx context.Context, name string, sim config.SimulationConfig, progress montecarlo.ProgressFunc) (*reportcache.Entry, error) {
	report, err := h.engine.RunBatch(ctx, sim.ToModelParams(), sim.Trials, montecarlo.BatchOptions{
		Workers:  sim.Workers,
		Seed:     sim.Seed,
		Progress: progress,
	})
	if err != nil {
		return nil, err
	}
	return h.cache.Put(name, report), nil
}
