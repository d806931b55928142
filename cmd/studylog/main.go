package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studylog/internal/bootstrap"
	"studylog/internal/platform/config"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/logging"
)

const shutdownTimeout = 5 * time.Second

type rootFlags struct {
	dataDir    string
	configPath string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error: "+apperrors.Message(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "studylog",
		Short:         "Study time tracker with Discord presence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", config.DefaultDataDir(), "data directory")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/config.yaml)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newCategoryCmd(flags))
	root.AddCommand(newMaterialCmd(flags))
	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newExerciseCmd(flags))
	root.AddCommand(newDashboardCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newMigrateCmd(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, string, error) {
	cfg, err := config.Load(flags.dataDir, flags.configPath)
	if err != nil {
		return config.Config{}, "", err
	}
	level := cfg.Log.Level
	if flags.logLevel != "" {
		level = flags.logLevel
	}
	return cfg, level, nil
}

// withApp wires the application for a one-shot command and closes it afterwards.
func withApp(cmd *cobra.Command, flags *rootFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	cfg, level, err := loadConfig(flags)
	if err != nil {
		return err
	}
	logger := logging.New(logging.FromEnvironment(level))
	ctx := cmd.Context()
	app, err := bootstrap.New(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		return err
	}
	defer closeApp(app)
	return fn(ctx, app)
}

func closeApp(app *bootstrap.App) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(ctx); err != nil {
		app.Logger.Warn("shutdown", "error", err)
	}
}

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, level, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// The alternate screen owns the terminal, so logs go to a file.
			logOut, closeLog := openLogFile(cfg.DataDir)
			defer closeLog()
			logger := logging.New(logging.Config{Level: level, JSON: true, Output: logOut})

			app, err := bootstrap.New(cmd.Context(), cfg, logger, bootstrap.Options{
				Presence:  true,
				PluginLog: logOut,
			})
			if err != nil {
				return err
			}
			defer closeApp(app)
			return bootstrap.RunTUI(cmd.Context(), app)
		},
	}
}

func openLogFile(dataDir string) (io.Writer, func()) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return io.Discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dataDir, config.AppName+".log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard, func() {}
	}
	return f, func() { _ = f.Close() }
}

func newMigrateCmd(flags *rootFlags) *cobra.Command {
	migrate := &cobra.Command{Use: "migrate", Short: "Database schema"}
	migrate.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				statuses, err := app.MigrationStatus(ctx)
				if err != nil {
					return err
				}
				for _, s := range statuses {
					state := "pending"
					if s.IsApplied {
						state = "applied " + s.AppliedAt
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%04d\t%s\t%s\n", s.Version, s.Name, state)
				}
				return nil
			})
		},
	})
	return migrate
}
