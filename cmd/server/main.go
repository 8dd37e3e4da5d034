package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"airspace-analytics/sectorcap/internal/api"
	"airspace-analytics/sectorcap/internal/common"
	"airspace-analytics/sectorcap/internal/config"
	"airspace-analytics/sectorcap/internal/constants"
	"airspace-analytics/sectorcap/internal/db"
	"airspace-analytics/sectorcap/internal/jobs"
	"airspace-analytics/sectorcap/internal/logging"
	"airspace-analytics/sectorcap/internal/metrics"
	"airspace-analytics/sectorcap/internal/routes"
)

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logging.Close()

	logging.Info("sectorcap starting up",
		"environment", cfg.AppEnv,
		"timestamp", time.Now().Format(time.RFC3339),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.InitDuckDB(ctx, cfg.DBPath)
	if err != nil {
		logging.Fatal("Failed to open DuckDB", "path", cfg.DBPath, "error", err.Error())
	}
	defer conn.Close()

	backend, err := common.NewCacheBackend(ctx, cfg)
	if err != nil {
		logging.Fatal("Failed to initialize result cache", "backend", cfg.CacheBackend, "error", err.Error())
	}
	defer backend.Close()

	metricsReg := metrics.NewMetricsRegistry(prometheus.DefaultRegisterer)
	resultCache := common.NewResultCache(backend, cfg.CacheTTL)
	resultCache.OnLookup = func(prefix constants.CachePrefix, hit bool) {
		metricsReg.ObserveCache(string(prefix), hit)
	}

	deps, err := api.InitDependencies(cfg, conn, resultCache, metricsReg)
	if err != nil {
		logging.Fatal("Failed to initialize dependencies", "error", err.Error())
	}

	scheduler, err := jobs.InitializeJobs(ctx, cfg, deps.Services.Health, deps.Services.Ingest)
	if err != nil {
		logging.Fatal("Failed to schedule jobs", "error", err.Error())
	}

	upSince := time.Now()
	router := routes.RegisterRoutes(deps, cfg, upSince)

	// Setup metrics endpoint outside of Chi router
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", router)
	logging.Info("Prometheus metrics endpoint registered at /metrics")

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Server starting", "addr", cfg.HTTPAddr, "environment", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("HTTP server failed", "error", err.Error())
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	<-scheduler.Stop().Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Graceful shutdown failed", "error", err.Error())
	}
}
