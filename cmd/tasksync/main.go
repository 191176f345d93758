package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yayiti-52/tasksync-hub/internal/auth"
	"github.com/yayiti-52/tasksync-hub/internal/cache"
	"github.com/yayiti-52/tasksync-hub/internal/server"
	"github.com/yayiti-52/tasksync-hub/internal/storage/sqlite"
	"github.com/yayiti-52/tasksync-hub/internal/util"
)

func main() {
	addrFlag := flag.String("addr", util.EnvOrDefault("TASKSYNC_ADDR", ":8080"), "HTTP listen address")
	dbFlag := flag.String("db", util.EnvOrDefault("TASKSYNC_DB_PATH", "data/tasksync.db"), "Path to sqlite database file")
	staticFlag := flag.String("static", util.EnvOrDefault("TASKSYNC_STATIC_DIR", "web/dist"), "Directory with built frontend")
	secretFlag := flag.String("secret", util.EnvOrDefault("TASKSYNC_JWT_SECRET", ""), "Secret used to sign session tokens")
	redisFlag := flag.String("redis", util.EnvOrDefault("TASKSYNC_REDIS_ADDR", ""), "Optional redis address for the shared view cache")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	logger.Info("TaskSync Hub starting")

	if *secretFlag == "" {
		logger.Error("TASKSYNC_JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := sqlite.Open(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	var viewCache cache.Cache = cache.NewMemoryCache()
	if *redisFlag != "" {
		redisCache, err := cache.NewRedisCache(context.Background(), *redisFlag)
		if err != nil {
			logger.Warn("redis unreachable, using memory cache only", slog.String("error", err.Error()))
		} else {
			viewCache = cache.NewLayered(cache.NewMemoryCache(), redisCache)
			logger.Info("view cache backed by redis", slog.String("addr", *redisFlag))
		}
	}
	defer viewCache.Close()

	tokens := auth.NewManager(*secretFlag, auth.DefaultTokenTTL)
	srv := server.New(store, tokens, viewCache, logger, *staticFlag)

	httpServer := &http.Server{
		Addr:    *addrFlag,
		Handler: srv.Engine(),
	}

	go func() {
		logger.Info("starting server", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
