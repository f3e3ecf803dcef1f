package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/leadsearch/internal/config"
	"github.com/kailas-cloud/leadsearch/internal/db"
	dbOpenSearch "github.com/kailas-cloud/leadsearch/internal/db/opensearch"
	dbValkey "github.com/kailas-cloud/leadsearch/internal/db/valkey"
	logpkg "github.com/kailas-cloud/leadsearch/internal/logger"
	"github.com/kailas-cloud/leadsearch/internal/metrics"
	enginerepo "github.com/kailas-cloud/leadsearch/internal/repository/engine"
	"github.com/kailas-cloud/leadsearch/internal/repository/mappingcache"
	chiTransport "github.com/kailas-cloud/leadsearch/internal/transport/chi"
	exportuc "github.com/kailas-cloud/leadsearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/leadsearch/internal/usecase/health"
	indexuc "github.com/kailas-cloud/leadsearch/internal/usecase/index"
	schemauc "github.com/kailas-cloud/leadsearch/internal/usecase/schema"
	searchuc "github.com/kailas-cloud/leadsearch/internal/usecase/search"
	"github.com/kailas-cloud/leadsearch/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting leadsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("search_addrs", cfg.Search.Addresses),
		zap.Bool("mapping_cache", cfg.Cache.Enabled()),
	)

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	store, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
		Addresses:          cfg.Search.Addresses,
		Username:           cfg.Search.Username,
		Password:           cfg.Search.Password,
		InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine client", zap.Error(err))
	}
	engine := enginerepo.NewInstrumented(store, metrics.EngineRequestDuration, logger)

	ctx := context.Background()
	readiness := time.Duration(cfg.Search.ReadinessTimeout) * time.Second
	if err := engine.WaitForReady(ctx, readiness); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	// Mapping reader: engine, optionally cached in Valkey.
	var mappings db.MappingReader = engine
	// Pass nil interface (not typed nil pointer!) to health when the cache is off.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled() {
		kv, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kv.Close()

		if err := kv.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		ttl := time.Duration(cfg.Cache.MappingTTLSec) * time.Second
		mappings = mappingcache.New(engine, kv, ttl, metrics.MappingCacheTotal, logger)
		cachePinger = kv
		logger.Info("Mapping cache enabled", zap.Duration("ttl", ttl))
	}

	candidates := indexuc.Candidates(cfg.Search.Index, cfg.Search.FallbackIndices, indexuc.DefaultCandidates)
	logger.Info("Index candidates", zap.Strings("candidates", candidates))

	searchSvc := searchuc.New(
		engine,
		indexuc.NewResolver(engine, candidates),
		schemauc.NewResolver(mappings),
		searchuc.WithCallTimeout(cfg.Search.RequestTimeout()),
	)
	exportSvc := exportuc.New(searchSvc, engine, exportuc.Config{
		Columns:   cfg.Export.Columns,
		BatchSize: cfg.Export.BatchSize,
		MaxRows:   cfg.Export.MaxRows,
		KeepAlive: time.Duration(cfg.Export.KeepAliveSec) * time.Second,
	})
	healthSvc := healthuc.New(engine, cachePinger)

	server := chiTransport.NewServer(searchSvc, exportSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
