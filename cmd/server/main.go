package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/trainware/module-content/pkg/modulecontent/api"
	"github.com/trainware/module-content/pkg/modulecontent/config"
)

// EnvConfig is the process environment for the module-content server.
type EnvConfig struct {
	Port                  string `env:"PORT" env-default:"8080"`
	Environment           string `env:"ENVIRONMENT" env-default:"development"`
	DatabaseURL           string `env:"DATABASE_URL" env-default:"memory"`
	StorageURL            string `env:"STORAGE_URL" env-default:"memory://"`
	PublicBaseURL         string `env:"PUBLIC_BASE_URL" env-default:""`
	FetchTimeout          string `env:"FETCH_TIMEOUT" env-default:"3s"`
	RelocationConcurrency int    `env:"RELOCATION_CONCURRENCY" env-default:"8"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var envCfg EnvConfig
	if err := cleanenv.ReadEnv(&envCfg); err != nil {
		slog.Error("Failed to read configuration", "err", err)
		os.Exit(1)
	}

	fetchTimeout, err := time.ParseDuration(envCfg.FetchTimeout)
	if err != nil {
		slog.Error("Invalid FETCH_TIMEOUT", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(
		config.WithPort(envCfg.Port),
		config.WithEnvironment(envCfg.Environment),
		config.WithDatabaseURL(envCfg.DatabaseURL),
		config.WithStorageURL(envCfg.StorageURL),
		config.WithPublicBaseURL(envCfg.PublicBaseURL),
		config.WithFetchTimeout(fetchTimeout),
		config.WithRelocationConcurrency(envCfg.RelocationConcurrency),
	)
	if err != nil {
		slog.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	svc, err := cfg.BuildService(ctx, logger)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}

	handler := api.NewModuleHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Mount("/modules", handler.Routes())

	addr := ":" + cfg.Port
	slog.Info("Starting module-content server", "addr", addr, "environment", cfg.Environment)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("Server stopped", "err", err)
		os.Exit(1)
	}
}
