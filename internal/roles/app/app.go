package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aussiebroadwan/roles/internal/roles/service"
	"github.com/aussiebroadwan/roles/internal/roles/store"
	"github.com/aussiebroadwan/roles/internal/roles/store/drivers/postgres"
	"github.com/aussiebroadwan/roles/internal/roles/store/drivers/sqlite"
	"github.com/aussiebroadwan/roles/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application owns the store connection and the membership service built on it.
type Application struct {
	cfg    Config
	logger *slog.Logger
	db     store.Store

	Memberships *service.MembershipStore
}

// New opens the configured store and wires the membership service. Logs go to
// logOut (stderr when nil).
func New(ctx context.Context, cfg Config, logOut io.Writer) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "rolesctl",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			Output:  logOut,
		}),
	}

	if err := app.initDatabase(ctx); err != nil {
		return nil, err
	}

	memberships, err := service.NewMembershipStore(app.db, cfg.Application)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.Memberships = memberships

	return app, nil
}

func (app *Application) Logger() *slog.Logger { return app.logger }

func (app *Application) Config() Config { return app.cfg }

// Migrate applies pending schema migrations.
func (app *Application) Migrate() error {
	if err := app.db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied", "driver", app.cfg.Driver)
	return nil
}

// Close releases the database connection.
func (app *Application) Close() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

func (app *Application) initDatabase(ctx context.Context) error {
	db, err := openStore(ctx, app.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s database: %w", app.cfg.Driver, err)
	}
	app.db = db

	if app.cfg.AutoMigrate {
		if err := app.Migrate(); err != nil {
			_ = db.Close()
			return err
		}
	}

	app.logger.Debug("database opened", "driver", app.cfg.Driver, "application", app.cfg.Application)
	return nil
}

func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	switch cfg.Driver {
	case DriverPostgres:
		return postgres.NewStore(ctx, cfg.DSN)
	default:
		return sqlite.NewStore(cfg.DSN)
	}
}
