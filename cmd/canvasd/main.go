package main

import (
	"canvas-lab/domain"
	"canvas-lab/engine"
	"canvas-lab/engine/workers"
	"canvas-lab/internal"
	"canvas-lab/observability"
	"canvas-lab/repositories"
	"canvas-lab/search"
	"canvas-lab/services"
	"canvas-lab/sink"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Canvasd terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the engine lifecycle, and centralizes
// error reporting, so that every defer (database close, index flush) executes
// before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx := context.Background()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 3. Repositories & Services
	actionRepository := repositories.NewActionRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)
	roomRepository := repositories.NewRoomRepository(db)
	userRepository := repositories.NewUserRepository(db)

	directory := services.NewDirectory(roomRepository, userRepository, logger)
	if err := directory.EnsureCommunityCanvas(); err != nil {
		return exitRuntime, fmt.Errorf("community canvas bootstrap failed: %w", err)
	}

	// 4. Engine wiring
	stats := observability.NewStatsManager()
	sup := workers.NewSupervisor(logger, config.RestartInterval)
	registry := engine.NewRegistry()

	orchestrator := engine.NewOrchestrator(
		logger, sup, registry,
		actionRepository,
		messageRepository,
		stats,
		config.NumberOfWorkers, config.BufferSize,
		config.ChatWindow, config.SessionBufferSize,
		config.SinkTimeout, config.MetricInterval,
		charReplacement,
	)

	messageIndex := search.NewMessageIndex(blugeWriter, logger)
	orchestrator.Add(sink.NewSearchSink(messageIndex, logger, config.SearchBatchSize, config.SearchBufferTimeout))

	// The community canvas is never empty: a synthetic roster keeps
	// drawing and chatting so a first visitor sees a live room.
	orchestrator.AddWorkers(workers.NewSimulatedPeers(
		orchestrator,
		domain.CommunityCanvasID,
		syntheticRoster(),
		config.PeerDrawInterval, config.PeerCursorInterval,
		logger,
	))

	if logger.Enabled(ctx, slog.LevelDebug) && config.DebugPort != 0 {
		endpoint := "/inspect"
		logger.Info("Debug inspector available",
			"url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		internal.StartDebugServer(db, config.DebugPort, endpoint, internal.DefaultMapper, func() map[string]any {
			snapshot := orchestrator.Stats()
			return map[string]any{
				"actions":  snapshot.ActionsAppended,
				"messages": snapshot.MessagesPosted,
				"censored": snapshot.MessagesCensored,
				"cursors":  snapshot.CursorMoves,
				"fanned":   snapshot.EventsFanned,
				"dropped":  snapshot.EventsDropped,
				"rate":     fmt.Sprintf("%.1f/s", snapshot.EventRate),
			}
		})
	}

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 7. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)

	if logger.Enabled(ctx, slog.LevelDebug) {
		options = options.WithLoggingLevel(badger.DEBUG).
			WithBypassLockGuard(true)
	} else {
		options = options.WithLoggingLevel(badger.INFO)
	}

	return options
}

// syntheticRoster builds the fake participants of the community canvas.
// They are not registered users: they only exist inside the engine.
func syntheticRoster() []domain.User {
	names := []string{"Maya", "Leo", "Sofia", "Noah"}
	peers := make([]domain.User, 0, len(names))
	for i, name := range names {
		peers = append(peers, domain.User{
			ID:    fmt.Sprintf("peer-%d@canvas.local", i+1),
			Name:  name,
			Color: domain.UserColors[i%len(domain.UserColors)],
		})
	}
	return peers
}
