package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/gateway"
	"github.com/sethtw/saga-sub000/internal/generation"
	"github.com/sethtw/saga-sub000/internal/platform/logger"
	"github.com/sethtw/saga-sub000/internal/platform/otel"
	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/internal/server"
	"github.com/sethtw/saga-sub000/internal/store/cache"
	"github.com/sethtw/saga-sub000/internal/store/sqlite"
	"github.com/sethtw/saga-sub000/internal/template"
	"github.com/sethtw/saga-sub000/internal/worldctx"

	// adapter packages register their factories in init()
	_ "github.com/sethtw/saga-sub000/internal/llm/anthropic"
	_ "github.com/sethtw/saga-sub000/internal/llm/google"
	_ "github.com/sethtw/saga-sub000/internal/llm/ollama"
	_ "github.com/sethtw/saga-sub000/internal/llm/openai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Initialize(logger.Config{Level: "info", Format: "console"})
		logger.Fatal("failed to load config", zap.Error(err))
	}

	format := "console"
	if cfg.Server.Env == "production" {
		format = "json"
	}
	logger.Initialize(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		Format:      format,
		EnableColor: format == "console",
	})
	log := logger.Get()
	defer func() { _ = log.Sync() }()

	shutdownTracer, err := otel.InitTracer("saga-generation", log, os.Stdout)
	if err != nil {
		log.Fatal("failed to init tracer", zap.Error(err))
	}

	repo, err := sqlite.New(cfg.Store.DSN, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer repo.Close()

	var cacheSvc cache.Service
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn("redis unavailable, using in-memory cache", zap.Error(err))
			cacheSvc = cache.NewMemory()
		} else {
			cacheSvc = redisCache
		}
	} else {
		cacheSvc = cache.NewMemory()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestor := gateway.NewIngestor(log, repo)
	ingestor.Start(ctx)
	defer ingestor.Stop()

	reg := registry.New(log)
	if err := registry.RegisterBuiltins(reg); err != nil {
		log.Fatal("failed to register built-in object types", zap.Error(err))
	}

	var engine *template.Engine
	if cfg.Templates.Dir != "" {
		engine = template.NewEngineFS(os.DirFS(cfg.Templates.Dir), log)
		log.Info("using on-disk prompt templates", zap.String("dir", cfg.Templates.Dir))
	} else {
		engine = template.NewEngine(log)
	}

	gw := gateway.New(cfg, ingestor, log)
	builders := worldctx.NewBuilders(repo, cacheSvc, log)
	svc := generation.NewService(reg, builders, engine, gw, repo, log)

	srv := server.New(cfg, log, svc, gw, engine, repo.Elements())
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Handler(),
	}

	go func() {
		log.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown error", zap.Error(err))
	}
}
