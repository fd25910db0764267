// Package main applies the embedded schema migrations to the database named
// by DATABASE_URL. It only wires config, logging and goose together.
//
// Usage:
//
//	migrate [up|down|status|reset]
//
// The default command is up.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/tourgraph/internal/config"
	"github.com/pkordes/tourgraph/internal/logger"
	"github.com/pkordes/tourgraph/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	log, closer := logger.New(cfg)
	defer closer.Close()
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	if err := run(ctx, cfg.DatabaseURL, command); err != nil {
		log.Error("migration failed", "command", command, "error", err)
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, dsn, command string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	switch command {
	case "up":
		results, err := provider.Up(ctx)
		logResults(results)
		return err
	case "down":
		result, err := provider.Down(ctx)
		if result != nil {
			logResults([]*goose.MigrationResult{result})
		}
		return err
	case "reset":
		results, err := provider.DownTo(ctx, 0)
		logResults(results)
		return err
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			slog.Info("migration status",
				"version", s.Source.Version,
				"path", s.Source.Path,
				"state", string(s.State),
				"applied_at", s.AppliedAt,
			)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (want up, down, status or reset)", command)
	}
}

func logResults(results []*goose.MigrationResult) {
	if len(results) == 0 {
		slog.Info("no migrations to apply")
		return
	}
	for _, r := range results {
		slog.Info("migration applied",
			"version", r.Source.Version,
			"path", r.Source.Path,
			"direction", r.Direction,
			"duration", r.Duration,
		)
	}
}
