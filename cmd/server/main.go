package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/triviaboard/internal/board"
	"github.com/playperu/triviaboard/internal/cluestore"
	"github.com/playperu/triviaboard/internal/config"
	"github.com/playperu/triviaboard/internal/database"
	"github.com/playperu/triviaboard/internal/game"
	"github.com/playperu/triviaboard/internal/handler/health"
	"github.com/playperu/triviaboard/internal/migrations"
	"github.com/playperu/triviaboard/internal/platform/otel"
	"github.com/playperu/triviaboard/internal/server"
	"github.com/playperu/triviaboard/internal/stats"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Tracing ---
	shutdownTracing, err := otel.Setup(ctx, "triviaboard", cfg.OTELEndpoint)
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	// --- Clue archive ---
	if err := ensureDir(cfg.DBPath); err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening clue database: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to clue database", "driver", cfg.DBDriver, "path", cfg.DBPath)

	clues := cluestore.New(db)
	if cfg.SeedDemo {
		n, err := clues.SeedDemo(ctx)
		if err != nil {
			return fmt.Errorf("seeding demo clues: %w", err)
		}
		if n > 0 {
			logger.Info("seeded demo clues", "clues", n)
		}
	}

	// --- Player stats ---
	if err := ensureDir(cfg.StatsPath); err != nil {
		return err
	}
	statsStore, err := stats.Open(cfg.StatsPath)
	if err != nil {
		return fmt.Errorf("opening stats store: %w", err)
	}
	defer statsStore.Close()

	// --- Games ---
	engine := game.NewEngine(cfg.Game.Options(), board.NewBuilder(clues, cfg.ClueRecencyYears), logger)
	broker := server.NewBroker()
	games := server.NewRegistry(engine, broker, logger, stats.NewRecorder(statsStore, logger).Handle)
	defer games.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Engine: engine,
		Games:  games,
		Broker: broker,
		Clues:  clues,
		Stats:  statsStore,
		Checks: map[string]health.Checker{
			"clues": health.CheckerFunc(db.PingContext),
			"stats": health.CheckerFunc(statsStore.Ping),
		},
		AdminPasswordHash: cfg.AdminPasswordHash,
		CORSOrigins:       cfg.CORSOrigins,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// ensureDir creates the parent directory of a database file.
func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return nil
}
