// Package main provides the server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ysdkhr/tubebox/internal/api"
	"github.com/ysdkhr/tubebox/internal/app/notification"
	"github.com/ysdkhr/tubebox/internal/app/store"
	"github.com/ysdkhr/tubebox/internal/infra/config"
	"github.com/ysdkhr/tubebox/internal/infra/engine"
	"github.com/ysdkhr/tubebox/internal/infra/logger"
	"github.com/ysdkhr/tubebox/internal/infra/storage"
	"github.com/ysdkhr/tubebox/internal/infra/youtube"
)

var (
	app        = kingpin.New("tubebox-server", "tubebox music player server")
	configPath = app.Flag("config", "Path to config file").Default("config/server.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger
	loggerConfig := logger.Config{
		Output: "stdout",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config
	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	// Run server (defer ensures cleanup runs on any exit from run)
	if err := run(cfg); err != nil {
		zlog.Error().Msgf("Server error: %v", err)
		os.Exit(1)
	}
}

// run executes the main server logic. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(cfg *config.Config) error {
	// Open persistent storage
	db, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()

	// Create metadata provider
	provider, err := youtube.NewProvider(cfg.Metadata.Provider.Type, cfg.Metadata.Provider.Settings)
	if err != nil {
		return fmt.Errorf("failed to create metadata provider: %w", err)
	}

	// Create notification manager and the player command bridge on top of it
	notifier := notification.NewManager()
	defer notifier.Close()
	bridge := engine.NewBridge(notifier)

	// Create the playback store
	st := store.New(store.Config{
		RestartThresholdSec: cfg.Playback.RestartThresholdSec,
		UnmuteVolume:        cfg.Playback.UnmuteVolume,
	}, bridge, db)
	defer st.Close()

	// Restore persisted state
	saved, ok, err := db.Load()
	if err != nil {
		return fmt.Errorf("failed to load persisted state: %w", err)
	}
	if ok {
		st.Restore(saved)
		zlog.Info().Msgf("Restored state: %d playlists", len(saved.Playlists))
	}

	// Forward store events to connected clients
	go api.RunEventPump(st, notifier)

	// Create HTTP router and server
	router := api.NewRouter(api.RouterConfig{
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		Debug:              zlog.Logger.GetLevel() <= zerolog.DebugLevel,
		ProgressDebounceMs: cfg.Playback.ProgressDebounceMs,
	}, st, provider, notifier)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		zlog.Info().Msgf("Starting server: addr=%s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		}
	}()

	// Wait for shutdown signal or server error
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		zlog.Info().Msg("Received shutdown signal...")
	case err := <-serverErrCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Msgf("Failed to shutdown server: %v", err)
	}

	zlog.Info().Msg("Server stopped")
	return nil
}
