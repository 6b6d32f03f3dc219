package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docdex/internal/config"
	dbRedis "github.com/kailas-cloud/docdex/internal/db/redis"
	logpkg "github.com/kailas-cloud/docdex/internal/logger"
	"github.com/kailas-cloud/docdex/internal/metrics"
	catalogrepo "github.com/kailas-cloud/docdex/internal/repository/catalog"
	"github.com/kailas-cloud/docdex/internal/repository/resultcache"
	chiTransport "github.com/kailas-cloud/docdex/internal/transport/chi"
	enrichHTTP "github.com/kailas-cloud/docdex/internal/transport/enrich"
	openaiLLM "github.com/kailas-cloud/docdex/internal/transport/openai"
	vectorHTTP "github.com/kailas-cloud/docdex/internal/transport/vector"
	enrichuc "github.com/kailas-cloud/docdex/internal/usecase/enrich"
	evaluateuc "github.com/kailas-cloud/docdex/internal/usecase/evaluate"
	"github.com/kailas-cloud/docdex/internal/usecase/executor"
	healthuc "github.com/kailas-cloud/docdex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/docdex/internal/usecase/search"
	workspaceuc "github.com/kailas-cloud/docdex/internal/usecase/workspace"
	"github.com/kailas-cloud/docdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting docdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("vector_base_url", cfg.Vector.BaseURL),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Repositories
	cacheRepo := resultcache.New(store, cfg.Storage.KeyPrefix,
		time.Duration(cfg.Search.CacheTTLSec)*time.Second)
	catalogRepo := catalogrepo.New(store, cfg.Storage.KeyPrefix)

	// Vector backend clients
	vectorClient := vectorHTTP.NewClient(&vectorHTTP.Config{
		BaseURL: cfg.Vector.BaseURL,
		APIKey:  cfg.Vector.APIKey,
	})

	// Pass nil interface (not typed nil pointer!) if the provider is not
	// configured. Go gotcha: (*ExternalClient)(nil) wrapped in
	// executor.VectorSearcher != nil.
	var external executor.VectorSearcher
	if cfg.Vector.ExternalURL != "" {
		external = vectorHTTP.NewExternalClient(cfg.Vector.ExternalURL, cfg.Vector.ExternalToken, nil)
		logger.Info("External search provider enabled",
			zap.String("base_url", cfg.Vector.ExternalURL))
	}

	// Use case services
	selector := workspaceuc.NewSelector(catalogRepo)
	exec := executor.New(
		vectorClient, external,
		cfg.Search.MaxConcurrency,
		time.Duration(cfg.Search.BranchTimeoutSec)*time.Second,
		cfg.Vector.BranchLimit,
	)

	var evaluator searchuc.Evaluator
	if cfg.LLM.Enabled {
		llm := openaiLLM.NewClient(&openaiLLM.Config{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
		evaluator = evaluateuc.New(llm)
		logger.Info("LLM evaluation enabled", zap.String("model", cfg.LLM.Model))
	}

	var enricher searchuc.Enricher
	if cfg.Enrichment.Enabled {
		dispatcher := enrichHTTP.NewClient(cfg.Enrichment.BaseURL, cfg.Enrichment.APIKey, nil)
		enricher = enrichuc.New(dispatcher, time.Duration(cfg.Enrichment.TimeoutSec)*time.Second)
		logger.Info("Enrichment dispatch enabled", zap.String("base_url", cfg.Enrichment.BaseURL))
	}

	searchSvc := searchuc.New(
		cacheRepo, selector, exec, evaluator, enricher,
		time.Duration(cfg.Search.OverallTimeoutSec)*time.Second,
	)

	healthSvc := healthuc.New(store, vectorClient)

	// Create chi server
	server := chiTransport.NewServer(searchSvc, cacheRepo, catalogRepo, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
