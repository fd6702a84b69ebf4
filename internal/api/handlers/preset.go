package handlers

import (
	"errors"
	"net/http"
	"os"

	"dd-planner/internal/api/models"
	"dd-planner/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PresetHandler handles preset-related requests
type PresetHandler struct {
	presetDir string
	log       logrus.FieldLogger
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(presetDir string, log logrus.FieldLogger) *PresetHandler {
	return &PresetHandler{
		presetDir: presetDir,
		log:       log.WithField("handler", "preset"),
	}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets, skipped, err := config.ListPresets(h.presetDir)
	if err != nil {
		// A missing directory just means no presets are installed.
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, gin.H{"presets": []models.PresetInfo{}, "count": 0})
			return
		}
		h.log.WithError(err).WithField("dir", h.presetDir).Error("failed to list presets")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    models.CodeInternalError,
				Message: "failed to list presets",
			},
		})
		return
	}
	for file, err := range skipped {
		h.log.WithError(err).WithField("file", file).Warn("skipping invalid preset")
	}

	out := make([]models.PresetInfo, 0, len(presets))
	for _, p := range presets {
		out = append(out, models.PresetInfo{
			ID:     p.ID,
			Name:   p.Name,
			File:   p.File,
			Params: toParams(p.Simulation.ToModelParams()),
			Trials: p.Simulation.Trials,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"presets": out,
		"count":   len(out),
	})
}
