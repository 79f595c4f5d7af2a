// Command migrate applies or reverts the versioned SQL schema.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
)

func main() {
	if err := run(); err != nil {
		middleware.Logger.Error("Migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|down>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer func() { _ = sqlDB.Close() }()
	}

	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return err
		}
		middleware.Logger.Info("SQL migrations applied")
	case "down":
		m, err := database.RollbackLast(ctx, db)
		if err != nil {
			return err
		}
		if m == nil {
			middleware.Logger.Info("No applied migrations to roll back")
			return nil
		}
		middleware.Logger.Info("Rolled back migration", slog.String("migration", m.String()))
	default:
		return usage()
	}
	return nil
}
