package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/tasknest/tasknest/internal/config"
	"github.com/tasknest/tasknest/internal/db"
	dbRedis "github.com/tasknest/tasknest/internal/db/redis"
	"github.com/tasknest/tasknest/internal/domain"
	logpkg "github.com/tasknest/tasknest/internal/logger"
	"github.com/tasknest/tasknest/internal/metrics"
	"github.com/tasknest/tasknest/internal/repository/embcache"
	profilerepo "github.com/tasknest/tasknest/internal/repository/profile"
	searchrepo "github.com/tasknest/tasknest/internal/repository/search"
	subtaskrepo "github.com/tasknest/tasknest/internal/repository/subtask"
	taskrepo "github.com/tasknest/tasknest/internal/repository/task"
	userrepo "github.com/tasknest/tasknest/internal/repository/user"
	"github.com/tasknest/tasknest/internal/token"
	chiTransport "github.com/tasknest/tasknest/internal/transport/chi"
	openaiProvider "github.com/tasknest/tasknest/internal/transport/openai"
	authuc "github.com/tasknest/tasknest/internal/usecase/auth"
	backfilluc "github.com/tasknest/tasknest/internal/usecase/backfill"
	healthuc "github.com/tasknest/tasknest/internal/usecase/health"
	profileuc "github.com/tasknest/tasknest/internal/usecase/profile"
	searchuc "github.com/tasknest/tasknest/internal/usecase/search"
	subtaskuc "github.com/tasknest/tasknest/internal/usecase/subtask"
	suggestuc "github.com/tasknest/tasknest/internal/usecase/suggest"
	taskuc "github.com/tasknest/tasknest/internal/usecase/task"
	"github.com/tasknest/tasknest/internal/version"
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

	logger.Info("Starting tasknest API server",
		zap.String("build", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register AI metrics explicitly (no init())
	metrics.RegisterAIMetrics()

	if err := ensureIndexes(ctx, store, cfg.AI.EmbeddingDimensions); err != nil {
		logger.Fatal("Failed to create search indexes", zap.Error(err))
	}

	// AI provider chain — optional, the rest of the API works without it
	providerCfg := &openaiProvider.Config{
		APIKey:              cfg.AI.APIKey,
		BaseURL:             cfg.AI.BaseURL,
		EmbeddingModel:      cfg.AI.EmbeddingModel,
		EmbeddingDimensions: cfg.AI.EmbeddingDimensions,
		ChatModel:           cfg.AI.ChatModel,
		Logger:              logger,
	}

	var embedder domain.Embedder
	var providerHealth healthuc.ProviderChecker
	var completer suggestuc.Completer
	if providerCfg.Configured() {
		base := openaiProvider.NewEmbedder(providerCfg)
		embedder = embcache.New(
			base, store,
			cfg.AI.EmbeddingModel, cfg.AI.EmbeddingDimensions,
			time.Duration(cfg.AI.CacheTTLHours)*time.Hour,
			metrics.EmbeddingCacheTotal, logger,
		)
		providerHealth = base
		completer = openaiProvider.NewSuggester(providerCfg)
		logger.Info("AI provider configured",
			zap.String("embedding_model", cfg.AI.EmbeddingModel),
			zap.Int("dimensions", cfg.AI.EmbeddingDimensions),
			zap.String("chat_model", cfg.AI.ChatModel),
		)
	} else {
		logger.Warn("AI provider not configured, AI endpoints will return 503")
	}

	// Repositories
	taskRepo := taskrepo.New(store)
	subtaskRepo := subtaskrepo.New(store)
	userRepo := userrepo.New(store)
	profileRepo := profilerepo.New(store)
	searchRepo := searchrepo.New(store)

	// Usecase services
	tokens := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLHours)*time.Hour)
	authSvc := authuc.New(userRepo, profileRepo, tokens, logger)
	taskSvc := taskuc.New(taskRepo, subtaskRepo, embedder, logger)
	subtaskSvc := subtaskuc.New(subtaskRepo, taskRepo)
	profileSvc := profileuc.New(profileRepo, userRepo)
	searchSvc := searchuc.New(searchRepo, embedder, cfg.Search.MinScore, cfg.Search.Limit)
	backfillSvc := backfilluc.New(taskRepo, embedder, cfg.Backfill.Concurrency, logger)
	suggestSvc := suggestuc.New(completer)
	healthSvc := healthuc.New(store, providerHealth)

	server := chiTransport.NewServer(
		authSvc, taskSvc, subtaskSvc, profileSvc,
		searchSvc, backfillSvc, suggestSvc, healthSvc,
		tokens, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(cors.AllowAll().Handler)
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

// ensureIndexes creates the FT indexes, tolerating ones that already exist.
func ensureIndexes(ctx context.Context, store db.Store, vectorDim int) error {
	defs := []*db.IndexDefinition{
		taskrepo.IndexDefinition(vectorDim),
		subtaskrepo.IndexDefinition(),
	}
	for _, def := range defs {
		if err := store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name, err)
		}
	}
	return nil
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
