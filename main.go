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
	"strings"
	"syscall"
	"time"

	"github.com/wikitok/backend/api"
	"github.com/wikitok/backend/config"
	"github.com/wikitok/backend/datastore"
	rh "github.com/wikitok/backend/route-handlers"
	"github.com/wikitok/backend/session"
	"github.com/wikitok/backend/webutil"
)

const startupTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("WIKITOK_CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Config load failed", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := run(cfg); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := datastore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	defer db.Close()

	if err := datastore.EnsureSchema(ctx, db); err != nil {
		return err
	}

	userRepo := datastore.NewUserRepository(db)
	articleRepo := datastore.NewArticleRepository(db)
	interactionRepo := datastore.NewInteractionRepository(db)

	if err := seedDemoUser(ctx, userRepo, cfg.Auth); err != nil {
		return err
	}

	resolver, err := session.New(cfg.Auth.Mode, userRepo)
	if err != nil {
		return err
	}
	slog.Info("Session resolver ready", "mode", cfg.Auth.Mode)

	articleHandler := rh.NewArticleHandler(articleRepo)
	interactionHandler := rh.NewInteractionHandler(interactionRepo, articleRepo, resolver)
	userHandler := rh.NewUserHandler(interactionRepo, resolver)

	router := api.SetupRoutes(
		api.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		articleHandler,
		interactionHandler,
		userHandler,
	)

	return startServer(cfg.Server, router)
}

func seedDemoUser(ctx context.Context, users *datastore.UserRepository, auth config.AuthConfig) error {
	var tokenHash string
	if auth.DemoToken != "" {
		var err error
		if tokenHash, err = webutil.GenerateHash(auth.DemoToken); err != nil {
			return fmt.Errorf("failed to hash demo token: %w", err)
		}
	} else if auth.Mode == config.AuthModeToken {
		slog.Warn("Token auth enabled without a demo token; only users with stored tokens can sign in")
	}

	user, created, err := users.SeedDemoUser(ctx, auth.DemoEmail, auth.DemoUsername, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	if created {
		slog.Info("Seeded demo user", "id", user.ID, "email", user.Email)
	}
	return nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func startServer(cfg config.ServerConfig, router http.Handler) error {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-shutdownSignal: // Block until signal received
	}
	slog.Info("Shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("Server gracefully stopped")
	return nil
}
