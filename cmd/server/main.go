package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voyago/tripsync/internal/server/handlers"
	"github.com/voyago/tripsync/internal/server/hub"
	"github.com/voyago/tripsync/internal/server/middleware"
	"github.com/voyago/tripsync/internal/server/storage/sqlite"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	addr := flag.String("addr", envOr("TRIPSYNC_ADDR", ":8080"), "Listen address")
	dbPath := flag.String("db", envOr("TRIPSYNC_DB", "tripsync-server.db"), "Path to SQLite database")
	jwtSecret := flag.String("jwt-secret", os.Getenv("TRIPSYNC_JWT_SECRET"), "JWT signing secret")
	logLevel := flag.String("log-level", envOr("TRIPSYNC_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger := newLogger(*logLevel)

	if *jwtSecret == "" {
		logger.Error("a JWT secret is required; set --jwt-secret or TRIPSYNC_JWT_SECRET")
		os.Exit(1)
	}

	if err := run(logger, *addr, *dbPath, *jwtSecret); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, addr, dbPath, jwtSecret string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()

	jwtConfig := handlers.JWTConfig{
		Secret:          []byte(jwtSecret),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}

	roomHub := hub.New(logger, store)

	authHandler := handlers.NewAuthHandler(logger, store, store, jwtConfig)
	syncHandler := handlers.NewSyncHandler(logger, store, roomHub)
	wsHandler := handlers.NewWSHandler(logger, roomHub, jwtConfig)
	healthHandler := handlers.NewHealthHandler(logger, store.DB(), Version)

	authLimit := middleware.RateLimitMiddleware(10, time.Minute, logger)
	requireAuth := middleware.AuthMiddleware(logger, jwtConfig)

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/auth/register", authLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", authLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/refresh", authLimit(http.HandlerFunc(authHandler.Refresh)))
	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("POST /api/v1/sync/push", requireAuth(http.HandlerFunc(syncHandler.Push)))
	mux.Handle("GET /api/v1/sync/pull", requireAuth(http.HandlerFunc(syncHandler.Pull)))
	mux.Handle("GET /api/v1/ws", http.HandlerFunc(wsHandler.Serve))
	mux.Handle("GET /api/v1/health", http.HandlerFunc(healthHandler.Health))

	handler := middleware.RecoveryMiddleware(logger)(
		middleware.LoggingWithSkip(logger, []string{"/api/v1/health"})(mux),
	)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go cleanupExpiredTokens(ctx, logger, store)

	errC := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "version", Version)
		errC <- server.ListenAndServe()
	}()

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// cleanupExpiredTokens periodically drops refresh tokens past their
// expiry so the table does not grow without bound.
func cleanupExpiredTokens(ctx context.Context, logger *slog.Logger, store *sqlite.Storage) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := store.DeleteExpiredTokens(ctx); err != nil {
				logger.Error("token cleanup failed", "error", err)
			}
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func printVersion() {
	fmt.Printf("TripSync Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
