// Package api wires the HTTP surface: middleware, handlers and routes.
package api

import (
	"net/http"
	"os"
	"strings"

	"dd-planner/internal/api/handlers"
	"dd-planner/internal/api/middleware"
	"dd-planner/internal/config"
	"dd-planner/internal/montecarlo"
	"dd-planner/internal/observability"
	"dd-planner/internal/reportcache"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Deps are the long-lived services the routes share.
type Deps struct {
	Engine   *montecarlo.Engine
	Cache    *reportcache.Cache
	Metrics  *observability.Metrics
	Log      logrus.FieldLogger
	Server   config.ServerConfig
	Defaults config.SimulationConfig
	// StaticDir serves a built web UI when it exists; empty disables it.
	StaticDir string
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler(d.Log))
	router.Use(middleware.CORS(d.Server.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))

	simulationHandler := handlers.NewSimulationHandler(d.Engine, d.Cache, handlers.SimulationOptions{
		Defaults:  d.Defaults,
		PresetDir: d.Server.PresetDir,
		MaxTrials: d.Server.MaxTrials,
	}, d.Log)
	presetHandler := handlers.NewPresetHandler(d.Server.PresetDir, d.Log)
	parameterHandler := handlers.NewParameterHandler(d.Defaults)
	upgrader := handlers.NewUpgrader(d.Server.AllowedOrigins)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := router.Group("/api/v1")
	{
		api.GET("/parameters", parameterHandler.ListParameters)
		api.GET("/presets", presetHandler.ListPresets)

		api.POST("/simulations", simulationHandler.RunSimulation)
		api.POST("/simulations/compare", simulationHandler.CompareSimulations)
		api.GET("/simulations/stream", simulationHandler.StreamSimulation(upgrader))
		api.GET("/simulations/:id", simulationHandler.GetSimulation)
	}

	if d.StaticDir != "" {
		serveStatic(router, d.StaticDir, d.Log)
	}
	return router
}

// serveStatic serves a single-page app from dir, falling back to index.html for
// non-API routes.
func serveStatic(router *gin.Engine, dir string, log logrus.FieldLogger) {
	if _, err := os.Stat(dir); err != nil {
		log.WithField("dir", dir).Info("static directory not found, skipping static file serving")
		return
	}
	router.Static("/assets", dir+"/assets")
	router.StaticFile("/favicon.ico", dir+"/favicon.ico")
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(dir + "/index.html")
	})
	log.WithField("dir", dir).Info("serving static files")
}
