package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"person-registry/internal/audit"
	"person-registry/internal/config"
	"person-registry/internal/registry"
	"person-registry/internal/seed"
	"person-registry/internal/shell"
	"person-registry/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("env file load failed", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env, os.Stderr)
	slog.SetDefault(log)
	ctx := logger.With(rootCtx, log)

	people, err := seed.Load(cfg.Registry.SeedFile)
	if err != nil {
		log.Error("seed load failed", "err", err)
		os.Exit(1)
	}
	store, err := registry.NewSeededStore(people)
	if err != nil {
		log.Error("store init failed", "err", err, "seed_file", cfg.Registry.SeedFile)
		os.Exit(1)
	}

	journalRepo := audit.NewMemoryRepo()
	journal := audit.NewService(journalRepo)
	if len(people) > 0 {
		if err := journal.LogSeeded(ctx, cfg.Registry.SeedFile, len(people)); err != nil {
			log.Warn("journal append failed", "err", err)
		}
	}
	log.Info("registry ready", "count", store.Count(), "capacity", store.Capacity(), "env", cfg.App.Env)

	sh := shell.New(store, shell.Options{
		Journal:     journal,
		Events:      journalRepo,
		Logger:      log,
		Interactive: cfg.Registry.Interactive,
	})
	if err := sh.Run(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("shell failed", "err", err)
		os.Exit(1)
	}
	log.Info("shutdown", "count", store.Count())
}
