// Package main is the entry point for BarQuest.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/samdwyer/barquest/internal/config"
	"github.com/samdwyer/barquest/internal/dice"
	"github.com/samdwyer/barquest/internal/game"
	"github.com/samdwyer/barquest/internal/gamedata"
	"github.com/samdwyer/barquest/internal/logging"
	"github.com/samdwyer/barquest/internal/profile"
	"github.com/samdwyer/barquest/internal/telemetry"
	"github.com/samdwyer/barquest/internal/ui"
	"github.com/samdwyer/barquest/internal/uuid"
)

const defaultConfigPath = "barquest.yaml"

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfgPath := defaultConfigPath
	if p := os.Getenv("BARQUEST_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("fatal", zap.Error(err))
		_ = logger.Sync()
		log.Printf("Game error: %v", err)
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	shutdownTelemetry := setupTelemetry(ctx, cfg.Telemetry, logger)
	defer shutdownTelemetry()

	data, err := gamedata.LoadGameDataFrom(gamedata.Overlay(cfg.DataDir))
	if err != nil {
		return fmt.Errorf("loading game data: %w", err)
	}

	store, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	store = profile.Traced(store, logger.Named("profile"))

	deps := game.Deps{
		Data:   data,
		Rng:    dice.NewRandomRoller(cfg.Simulation.Seed),
		IDs:    uuid.NewGoogleUUIDGenerator(),
		Logger: logger.Named("game"),
	}
	session, err := loadSession(ctx, store, deps, cfg)
	if err != nil {
		return err
	}
	logger.Info("hero ready",
		zap.String("hero", session.Player().ID),
		zap.String("class", session.Player().ClassID),
		zap.Int("level", session.Player().Level),
		zap.String("storage", cfg.Storage.Backend))

	screen, err := ui.NewScreen()
	if err != nil {
		return fmt.Errorf("opening terminal: %w", err)
	}
	defer screen.Close()
	app := ui.NewApp(screen, data, logger.Named("ui"))

	runner := game.NewRunner(session, game.RunnerOptions{
		OnUpdate: app.Update,
		OnRunEnd: func(ctx context.Context, s *game.Session) {
			saveHero(ctx, store, s, logger)
		},
		Logger: logger.Named("runner"),
	})

	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		if err := runner.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("runner: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		// Quitting the UI stops the runner.
		defer stop()
		if err := app.Run(gctx, runner); err != nil {
			return fmt.Errorf("ui: %w", err)
		}
		return nil
	})
	waitErr := g.Wait()

	// The runner has exited, so the session is ours again.
	saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	saveHero(saveCtx, store, session, logger)

	return waitErr
}

// loadSession resumes the configured hero, creating and saving a new one on
// first launch.
func loadSession(ctx context.Context, store profile.Repository, deps game.Deps, cfg config.Config) (*game.Session, error) {
	doc, err := store.Load(ctx, cfg.Hero.ID)
	switch {
	case err == nil:
		return game.NewSession(deps, cfg.ToGame(), doc.Player, doc.Inventory, doc.Quests), nil
	case !errors.Is(err, profile.ErrNotFound):
		return nil, fmt.Errorf("loading hero %s: %w", cfg.Hero.ID, err)
	}

	p, inv, quests, err := game.NewHero(deps, cfg.Hero.Name, cfg.Hero.Class)
	if err != nil {
		return nil, fmt.Errorf("creating hero: %w", err)
	}
	p.ID = cfg.Hero.ID
	if err := store.Save(ctx, profile.NewDocument(p, inv, quests, time.Now())); err != nil {
		return nil, fmt.Errorf("saving new hero: %w", err)
	}
	return game.NewSession(deps, cfg.ToGame(), p, inv, quests), nil
}

func saveHero(ctx context.Context, store profile.Repository, s *game.Session, logger *zap.Logger) {
	doc := profile.NewDocument(s.Player(), s.Inventory(), s.Quests(), time.Now())
	if err := store.Save(ctx, doc); err != nil {
		logger.Error("saving hero failed", zap.String("hero", doc.HeroID), zap.Error(err))
	}
}

func setupTelemetry(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) func() {
	if !cfg.Enabled {
		telemetry.Disable()
		return func() {}
	}

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		Endpoint:    cfg.Endpoint,
		Insecure:    cfg.Insecure,
		SampleRatio: cfg.SampleRatio,
	})
	if err != nil {
		// Continue without telemetry - game still works
		logger.Warn("telemetry setup failed, running without observability", zap.Error(err))
		telemetry.Disable()
		return func() {}
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("shutting down telemetry", zap.Error(err))
		}
	}
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_BARQUEST_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")
	}
	dataset := os.Getenv("HONEYCOMB_BARQUEST_DATASET")
	if dataset == "" {
		dataset = "barquest" // default dataset name
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
