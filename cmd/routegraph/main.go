// Package main is a command-line front end for the route graph queries.
// It wires config, logging, the database pool and the services together and
// prints results as JSON. No business logic belongs here.
//
// Usage:
//
//	routegraph path      -owner UUID -route ID -from ID -to ID
//	routegraph available -owner UUID -route ID -from ID
//	routegraph stats     -owner UUID
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pkordes/tourgraph/internal/config"
	"github.com/pkordes/tourgraph/internal/domain"
	"github.com/pkordes/tourgraph/internal/logger"
	"github.com/pkordes/tourgraph/internal/repo"
	"github.com/pkordes/tourgraph/internal/service"
)

// Exit codes let scripts tell expected outcomes apart from failures.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitNoPath   = 4
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

func run(args []string, out io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: routegraph path|available|stats [flags]")
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		return exitFailure
	}

	log, closer := logger.New(cfg)
	defer closer.Close()
	if cfg.LogFile == "" {
		// stdout carries the results.
		log = logger.NewWithWriter(os.Stderr, cfg.LogLevel)
	}
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to create database pool", "error", err)
		return exitFailure
	}
	defer pool.Close()

	store := repo.NewStore(pool)
	opts := []service.Option{
		service.WithLogger(log),
		service.WithReadRetry(cfg.ReadRetryAttempts, cfg.ReadRetryBase),
	}
	cli := &commands{
		routes: service.NewRouteService(store, opts...),
		graphs: service.NewGraphService(store, opts...),
		out:    out,
	}

	err = cli.dispatch(ctx, args[0], args[1:])
	switch domain.KindOf(err) {
	case domain.KindNone:
		return exitOK
	case domain.KindNotFound, domain.KindNodeNotFound:
		log.Warn("not found", "error", err)
		return exitNotFound
	case domain.KindNoPath:
		log.Info("no path", "error", err)
		return exitNoPath
	}
	if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	log.Error("command failed", "command", args[0], "error", err)
	return exitFailure
}

var errUsage = errors.New("usage error")

type commands struct {
	routes *service.RouteService
	graphs *service.GraphService
	out    io.Writer
}

func (c *commands) dispatch(ctx context.Context, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	owner := fs.String("owner", "", "owner user UUID")
	route := fs.Int64("route", 0, "route ID")
	from := fs.Int64("from", 0, "source stop ID")
	to := fs.Int64("to", 0, "target stop ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ownerID, err := uuid.Parse(*owner)
	if err != nil {
		return fmt.Errorf("%w: -owner: %w", errUsage, err)
	}

	switch name {
	case "path":
		path, err := c.graphs.ShortestPath(ctx, *route, ownerID, *from, *to)
		if err != nil {
			return err
		}
		return c.print(path)
	case "available":
		stops, err := c.graphs.AvailableDestinations(ctx, *route, ownerID, *from)
		if err != nil {
			return err
		}
		return c.print(stops)
	case "stats":
		stats, err := c.routes.Stats(ctx, ownerID)
		if err != nil {
			return err
		}
		return c.print(stats)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
}

func (c *commands) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
