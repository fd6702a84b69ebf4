package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dd-planner/internal/api"
	"dd-planner/internal/config"
	"dd-planner/internal/logging"
	"dd-planner/internal/montecarlo"
	"dd-planner/internal/observability"
	"dd-planner/internal/reportcache"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ddplanner-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	// CONFIG_PATH is optional; without it the built-in defaults apply.
	cfg := config.Default()
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	cfg.Server.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Server.LogLevel, cfg.Server.LogFormat)
	if err != nil {
		return err
	}

	if wd, err := os.Getwd(); err == nil {
		log.WithField("dir", wd).Debug("working directory")
	}
	if info, err := os.Stat(cfg.Server.PresetDir); err == nil && info.IsDir() {
		log.WithField("dir", cfg.Server.PresetDir).Info("preset directory found")
	} else {
		log.WithField("dir", cfg.Server.PresetDir).Warn("preset directory not found, no presets will be listed")
	}

	ttl, _ := cfg.Server.CacheTTLDuration()
	shutdownTimeout, _ := cfg.Server.ShutdownTimeoutDuration()

	metrics := observability.NewMetrics("")
	cache := reportcache.New(ttl, cfg.Server.MaxCachedReports, metrics)
	engine := montecarlo.New(
		montecarlo.WithLogger(log.WithField("component", "engine")),
		montecarlo.WithRecorder(metrics),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go cache.Run(ctx, time.Minute)

	if cfg.Server.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "./web/dist"
	}
	router := api.NewRouter(api.Deps{
		Engine:    engine,
		Cache:     cache,
		Metrics:   metrics,
		Log:       log,
		Server:    cfg.Server,
		Defaults:  cfg.Simulation,
		StaticDir: staticDir,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr": srv.Addr,
			"env":  cfg.Server.Env,
		}).Info("starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.WithField("timeout", shutdownTimeout).Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
