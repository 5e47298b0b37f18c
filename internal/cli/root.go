// Package cli implements the oressource-auth command line front end.
// It stands in for the browser view layer: every lifecycle operation
// of the session subsystem is reachable from a subcommand.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/oressource/auth-client-go/config"
	"github.com/oressource/auth-client-go/internal/adapters/filestore"
	pgstore "github.com/oressource/auth-client-go/internal/adapters/postgres"
	redisstore "github.com/oressource/auth-client-go/internal/adapters/redis"
	"github.com/oressource/auth-client-go/internal/authz"
	"github.com/oressource/auth-client-go/internal/heartbeat"
	"github.com/oressource/auth-client-go/internal/ports"
	"github.com/oressource/auth-client-go/internal/service"
	"github.com/oressource/auth-client-go/internal/store"
	"github.com/oressource/auth-client-go/internal/transport"
)

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// NewRootCmd builds the oressource-auth command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "oressource-auth",
		Short:         "Session and authorization client for the Oressource API",
		Long:          "Manages the cached Oressource session: login, logout, signup, password reset, authorization status, and the liveness heartbeat.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newSignupCmd())
	cmd.AddCommand(newPasswordCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newWatchCmd())

	return cmd
}

// app bundles the wired subsystem for one command invocation.
type app struct {
	cfg     config.AppConfig
	logger  *slog.Logger
	store   *store.Store
	oracle  *authz.Oracle
	service *service.SessionService
	api     ports.AuthAPI

	closers []func() error
}

// initLogger installs the process-wide slog logger.
func initLogger(isDev bool) *slog.Logger {
	level := slog.LevelInfo
	if isDev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
	return logger
}

// buildApp loads configuration, wires the stores, transport and
// service, and runs the one-time auth initialization.
func buildApp(ctx context.Context) (*app, error) {
	// Load .env file if it exists (development).
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("load .env file: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := initLogger(cfg.IsDev)

	a := &app{cfg: cfg, logger: logger}

	credentials, states, err := a.buildStores(ctx)
	if err != nil {
		return nil, err
	}

	a.store = store.New(store.Options{
		Credentials: credentials,
		States:      states,
		Logger:      logger,
	})
	a.oracle = authz.New(a.store)

	a.api = transport.NewClient(transport.Options{
		BaseURL:   cfg.API.BaseURL,
		LoginPath: cfg.API.LoginPath,
		Sessions:  a.store,
		Navigator: &logNavigator{logger: logger},
		Logger:    logger,
	})

	a.service = service.NewSessionService(service.SessionServiceOptions{
		Sessions: a.store,
		API:      a.api,
		Logger:   logger,
	})

	if err := a.service.InitializeAuth(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) buildStores(ctx context.Context) (ports.CredentialStore, ports.StateStore, error) {
	switch a.cfg.Storage.Backend {
	case config.StorageRedis:
		client := goredis.NewClient(&goredis.Options{
			Addr:     a.cfg.Storage.Redis.Addr,
			Password: a.cfg.Storage.Redis.Password,
			DB:       a.cfg.Storage.Redis.DB,
		})
		a.closers = append(a.closers, client.Close)
		prefix := a.cfg.Storage.Redis.KeyPrefix + a.cfg.Storage.TerminalID + ":"
		s := redisstore.NewStoreWithPrefix(client, prefix)
		return s.Credentials(), s.States(), nil

	case config.StoragePostgres:
		if a.cfg.Storage.Postgres.URL == "" {
			return nil, nil, errors.New("postgres storage selected but STORAGE_PG_URL is empty")
		}
		pool, err := pgxpool.New(ctx, a.cfg.Storage.Postgres.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})
		if err := pgstore.EnsureSchema(ctx, pool); err != nil {
			return nil, nil, err
		}
		s := pgstore.NewStore(pool, a.cfg.Storage.TerminalID)
		return s.Credentials(), s.States(), nil

	default:
		dir := a.cfg.Storage.Dir
		return filestore.NewCredentialStore(dir), filestore.NewStateStore(dir), nil
	}
}

func (a *app) heartbeatController() *heartbeat.Controller {
	return heartbeat.NewController(heartbeat.Options{
		Pinger:   a.api,
		Auth:     a.oracle,
		Interval: a.cfg.Heartbeat.Interval,
		Logger:   a.logger,
	})
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Error("close resource", "error", err)
		}
	}
}

// logNavigator is the CLI's stand-in for the browser router: a forced
// navigation (the 401 redirect) is reported rather than rendered.
type logNavigator struct {
	logger *slog.Logger
}

func (n *logNavigator) NavigateTo(path string) {
	n.logger.Info("session invalidated, navigation forced", "path", path)
}
