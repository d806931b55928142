package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	cataloginadapter "studylog/internal/modules/catalog/adapter/in"
	catalogoutadapter "studylog/internal/modules/catalog/adapter/out"
	catalogservice "studylog/internal/modules/catalog/service"
	catalogusecase "studylog/internal/modules/catalog/usecase"
	exerciseinadapter "studylog/internal/modules/exercise/adapter/in"
	exerciseoutadapter "studylog/internal/modules/exercise/adapter/out"
	exerciseservice "studylog/internal/modules/exercise/service"
	exerciseusecase "studylog/internal/modules/exercise/usecase"
	presenceoutadapter "studylog/internal/modules/presence/adapter/out"
	presencein "studylog/internal/modules/presence/port/in"
	presenceout "studylog/internal/modules/presence/port/out"
	presenceservice "studylog/internal/modules/presence/service"
	presenceusecase "studylog/internal/modules/presence/usecase"
	reportinadapter "studylog/internal/modules/report/adapter/in"
	reportoutadapter "studylog/internal/modules/report/adapter/out"
	reportservice "studylog/internal/modules/report/service"
	reportusecase "studylog/internal/modules/report/usecase"
	sessioninadapter "studylog/internal/modules/session/adapter/in"
	sessionoutadapter "studylog/internal/modules/session/adapter/out"
	sessionservice "studylog/internal/modules/session/service"
	sessionusecase "studylog/internal/modules/session/usecase"
	"studylog/internal/platform/clock"
	"studylog/internal/platform/config"
	"studylog/internal/platform/period"
	"studylog/internal/platform/sqldb"
	uiapp "studylog/internal/ui/app"
)

type Options struct {
	// Presence connects the configured sinks. One-shot commands leave it off
	// because the status would vanish with the process.
	Presence bool
	// PluginLog receives the presence plugin's own log lines.
	PluginLog io.Writer
}

type App struct {
	Config config.Config
	Logger *slog.Logger

	CatalogCLI  cataloginadapter.CLIHandler
	SessionCLI  sessioninadapter.CLIHandler
	ExerciseCLI exerciseinadapter.CLIHandler
	ReportCLI   reportinadapter.CLIHandler
	Presence    presencein.Usecase

	db *sqldb.DB
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	clk := clock.SystemClock{}

	db, err := sqldb.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, err
	}
	if _, err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	presenceWindow, err := period.Parse(cfg.Presence.Window, cfg.Presence.TrailingDays)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sink := newSink(cfg.Presence, opts)
	publisher := presenceservice.NewPublisher(sink, presenceservice.Options{
		Timeout:  cfg.Presence.Timeout,
		Attempts: cfg.Presence.Attempts,
		Logger:   logger.With("component", "presence"),
	})
	presenceUC := presenceusecase.NewInteractor(publisher, cfg.Presence.DefaultImageKey, logger)

	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(catalogoutadapter.NewSQLCatalogStore(db), db))
	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk, sessionoutadapter.NewSQLSessionStore(db), db),
		catalogUC,
		presenceUC,
		clk,
		sessionusecase.Options{PresenceWindow: presenceWindow, Logger: logger},
	)
	exerciseUC := exerciseusecase.NewInteractor(
		exerciseservice.NewLogService(clk, exerciseoutadapter.NewSQLLogStore(db), db),
		catalogUC,
		clk,
	)
	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(clk, sessionUC, catalogUC, exerciseUC, reportservice.Options{
			RecentHours:  cfg.Report.RecentHours,
			TrailingDays: cfg.Report.TrailingDays,
		}),
		reportoutadapter.NewMarkdownExporter(),
		cfg.Report.ExportPath,
		logger,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		CatalogCLI:  cataloginadapter.NewCLIHandler(catalogUC),
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		ExerciseCLI: exerciseinadapter.NewCLIHandler(exerciseUC),
		ReportCLI:   reportinadapter.NewCLIHandler(reportUC),
		Presence:    presenceUC,
		db:          db,
	}, nil
}

// newSink picks the presence sinks from configuration.
func newSink(cfg config.PresenceConfig, opts Options) presenceout.Sink {
	if !opts.Presence || !cfg.Enabled {
		return presenceoutadapter.NoopSink{}
	}
	sinks := []presenceout.Sink{}
	if cfg.Plugin != "" {
		sinks = append(sinks, presenceoutadapter.NewPluginSink(cfg.Plugin, cfg.DiscordClientID, opts.PluginLog))
	}
	if cfg.Redis.Addr != "" {
		sinks = append(sinks, presenceoutadapter.NewRedisSink(presenceoutadapter.RedisOptions{
			Addr:    cfg.Redis.Addr,
			Key:     cfg.Redis.Key,
			Channel: cfg.Redis.Channel,
			TTL:     cfg.Redis.TTL,
		}))
	}
	switch len(sinks) {
	case 0:
		return presenceoutadapter.NoopSink{}
	case 1:
		return sinks[0]
	default:
		return presenceoutadapter.NewFanOut(sinks...)
	}
}

func (a *App) MigrationStatus(ctx context.Context) ([]sqldb.MigrationStatus, error) {
	return a.db.Status(ctx)
}

// Close drains presence (bounded by ctx) and closes the database.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if a.Presence != nil {
		if err := a.Presence.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close presence: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	if err := app.Presence.Connect(ctx); err != nil {
		app.Logger.Warn("presence unavailable, continuing without it", "error", err)
	}
	model := uiapp.NewModel(app.CatalogCLI, app.SessionCLI, app.ExerciseCLI, app.ReportCLI, app.Presence)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
