package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/biblechat/biblechat-api/adapter/api"
	"github.com/biblechat/biblechat-api/internal/chat"
	"github.com/biblechat/biblechat-api/internal/entitlement/application"
	"github.com/biblechat/biblechat-api/internal/entitlement/domain"
	"github.com/biblechat/biblechat-api/internal/entitlement/infrastructure/persistence"
	"github.com/biblechat/biblechat-api/internal/identity"
	"github.com/biblechat/biblechat-api/internal/shared/infrastructure/migrations"
	"github.com/biblechat/biblechat-api/pkg/config"
	"github.com/biblechat/biblechat-api/pkg/observability"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "biblechat-api",
		Short: "Bible Chat backend API",
		Long: `The Bible Chat backend API serves the subscription entitlement check
and the scripted Bible chat responder used by the mobile and web clients.`,
	}
	rootCmd.AddCommand(newServeCmd(), newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func runServe() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := observability.NewLoggerFor(cfg.AppEnv, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	logger.Info("starting biblechat-api", "version", version, "env", cfg.AppEnv)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	subscriptions, closeStore, err := openSubscriptionStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	verifier, err := newVerifier(cfg, logger)
	if err != nil {
		return err
	}

	evaluator := application.NewEvaluator(verifier, subscriptions)
	entitlementHandler := api.NewEntitlementHandler(evaluator, time.Now, logger)
	chatHandler := api.NewChatHandler(chat.NewResponder(time.Now), logger)

	server := api.NewServer(api.ServerConfig{
		Addr:         cfg.HTTPAddr,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}, entitlementHandler, chatHandler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func openSubscriptionStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.SubscriptionRepository, func(), error) {
	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("pinging database: %w", err)
		}
		if err := migrations.RunPostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to database", "driver", cfg.DatabaseDriver)
		return persistence.NewPostgresSubscriptionRepository(pool), pool.Close, nil

	default:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		if err := migrations.RunSQLite(ctx, db); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("connected to database", "driver", cfg.DatabaseDriver, "path", cfg.SQLitePath)
		return persistence.NewSQLiteSubscriptionRepository(db), func() { db.Close() }, nil
	}
}

func newVerifier(cfg *config.Config, logger *slog.Logger) (domain.CredentialVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModePlatform:
		logger.Info("using platform identity verifier", "url", cfg.AuthPlatformURL)
		return identity.NewPlatformVerifier(identity.PlatformVerifierConfig{
			BaseURL: cfg.AuthPlatformURL,
			APIKey:  cfg.AuthPlatformKey,
			Timeout: cfg.AuthTimeout,
			Logger:  logger,
		}), nil
	case config.AuthModeJWT:
		logger.Info("using local JWT identity verifier")
		return identity.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}
