package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"foodgram/config"
	dbpkg "foodgram/db"
	"foodgram/logging"
	"foodgram/router"
	"foodgram/services"
	"foodgram/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Environment
//
//   - CONFIG_PATH      path of the YAML config (default config.yaml)
//   - FOODGRAM_*       overrides any config key, e.g. FOODGRAM_API_PORT=9000 or
//     FOODGRAM_SECURITY__JWT_SECRET=... for nested keys
//
// A .env file in the working directory is loaded first when present.

func main() {
	_ = godotenv.Load()

	cfg, err := config.Get("config.yaml")
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}

	var out io.Writer = os.Stderr
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			logging.Fatal().Err(err).Msg("could not create log directory")
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.LogPath).Msg("could not open log file")
		}
		defer f.Close()
		out = io.MultiWriter(os.Stderr, f)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: out})

	if cfg.Environment == config.ENV_PRODUCTION {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dbpkg.Connect(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if cfg.Security.AdminEmail != "" {
		if err := services.EnsureAdmin(ctx, db, cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
			logging.Fatal().Err(err).Msg("admin bootstrap failed")
		}
	}

	images, err := storage.New(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("image storage unavailable")
	}

	r := gin.New()
	router.Initialize(ctx, r, cfg, db, images)

	srv := &http.Server{
		Addr:              ":" + cfg.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.ApiPort).Str("environment", cfg.Environment).Msg("foodgram listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
