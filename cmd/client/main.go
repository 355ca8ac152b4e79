package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	httpClient "github.com/voyago/tripsync/internal/client/api"
	"github.com/voyago/tripsync/internal/client/auth"
	"github.com/voyago/tripsync/internal/client/cli"
	"github.com/voyago/tripsync/internal/client/data"
	"github.com/voyago/tripsync/internal/client/iocli"
	"github.com/voyago/tripsync/internal/client/messaging"
	"github.com/voyago/tripsync/internal/client/resolver"
	"github.com/voyago/tripsync/internal/client/storage"
	"github.com/voyago/tripsync/internal/client/storage/boltdb"
	clientsync "github.com/voyago/tripsync/internal/client/sync"
	"github.com/voyago/tripsync/internal/client/transport"
	"github.com/voyago/tripsync/internal/clock"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", envOr("TRIPSYNC_SERVER", "http://localhost:8080"), "Server URL")
	dbPath := flag.String("db", envOr("TRIPSYNC_CLIENT_DB", "tripsync-client.db"), "Path to local database")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := newLogger(*verbose)
	io := iocli.NewStdio()

	args := flag.Args()
	command := ""
	if len(args) > 0 {
		command = args[0]
		args = args[1:]
	}

	ctx := context.Background()

	store, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	deviceID, err := ensureDeviceID(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize device id: %v\n", err)
		os.Exit(1)
	}

	clk := clock.NewWithDeviceID(deviceID)
	apiClient := httpClient.New(*serverURL, logger)
	session := auth.NewSession(apiClient, store, logger)

	engine := clientsync.NewEngine(
		apiClient, session, store, store, store, store,
		resolver.Default(), clk, clientsync.DefaultSettings(), logger,
	)

	wsClient := transport.NewClient(wsURL(*serverURL), session, store, transport.DefaultSettings(), logger)
	chat := messaging.NewCoordinator(wsClient, store, store, store, clk, engine.TriggerSync, logger)

	// Connectivity drives the sync loop: queued mutations drain as soon
	// as the live connection comes back.
	wsClient.ObserveStatus(func(status transport.Status) {
		engine.SetOnline(status == transport.StatusConnected)
	})

	runCtx, stopEngine := context.WithCancel(ctx)
	defer stopEngine()
	go engine.Run(runCtx)

	dataSvc := data.NewService(store, store, clk)

	c := cli.New(io, session, dataSvc, engine, chat)
	if command == "" {
		c.PrintUsage()
		os.Exit(1)
	}

	if err := c.Run(ctx, command, args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ensureDeviceID loads the device id, generating and persisting one on
// first run. The id must survive restarts: it tie-breaks concurrent
// edits, so changing it would reorder past conflicts.
func ensureDeviceID(ctx context.Context, store storage.MetadataStorage) (string, error) {
	deviceID, err := store.GetDeviceID(ctx)
	if err == nil {
		return deviceID, nil
	}
	if !errors.Is(err, storage.ErrMetadataNotFound) {
		return "", err
	}

	deviceID = uuid.NewString()
	if err := store.SaveDeviceID(ctx, deviceID); err != nil {
		return "", err
	}
	return deviceID, nil
}

// wsURL derives the websocket endpoint from the HTTP server URL.
func wsURL(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "https://"):
		return "wss://" + strings.TrimPrefix(serverURL, "https://")
	case strings.HasPrefix(serverURL, "http://"):
		return "ws://" + strings.TrimPrefix(serverURL, "http://")
	default:
		return serverURL
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func printVersion() {
	fmt.Printf("TripSync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
