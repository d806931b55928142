package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"studylog/internal/bootstrap"
	reportdto "studylog/internal/modules/report/dto"
	"studylog/internal/platform/period"
)

func printWindow(cmd *cobra.Command, w reportdto.WindowTotal) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s\t%s\n", w.Label, w.Duration)
	for _, row := range w.ByCategory {
		_, _ = fmt.Fprintf(out, "  category\t%s\t%s\n", row.Name, row.Duration)
	}
	for _, row := range w.ByMaterial {
		_, _ = fmt.Fprintf(out, "  material\t%s\t%s\n", row.Name, row.Duration)
	}
}

func printRows(cmd *cobra.Command, rows []reportdto.SessionRow) {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  no sessions")
		return
	}
	for _, r := range rows {
		duration := r.Duration
		if r.Open {
			duration = r.Running
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %d\t%s\t%s\t%s\t%s\n", r.ID, r.MaterialName, r.Start, r.End, duration)
	}
}

func newDashboardCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show the active session, totals and recent sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				d, err := app.ReportCLI.Dashboard(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if d.Active != nil {
					_, _ = fmt.Fprintf(out, "active\t%s\t%s\t%s\n", d.Active.MaterialName, d.Active.Start, d.Active.Running)
				} else {
					_, _ = fmt.Fprintln(out, "active\t-")
				}
				printWindow(cmd, d.AllTime)
				printWindow(cmd, d.Month)
				printWindow(cmd, d.Trailing)
				_, _ = fmt.Fprintf(out, "recent (%dh)\n", d.RecentHours)
				printRows(cmd, d.Recent)
				_, _ = fmt.Fprintln(out, "earlier")
				printRows(cmd, d.Historical)
				if len(d.Exercise) > 0 {
					_, _ = fmt.Fprintf(out, "exercise (%s)\n", d.ExerciseLabel)
					for _, e := range d.Exercise {
						_, _ = fmt.Fprintf(out, "  %s\t%s\t%d\n", e.ExerciseName, e.Display, e.Count)
					}
				}
				return nil
			})
		},
	}
}

func newHistoryCmd(flags *rootFlags) *cobra.Command {
	var window string
	var days int
	history := &cobra.Command{
		Use:   "history",
		Short: "Show sessions and totals inside a window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				h, err := app.ReportCLI.History(ctx, window, days)
				if err != nil {
					return err
				}
				printWindow(cmd, h.Totals)
				printRows(cmd, h.Sessions)
				return nil
			})
		},
	}
	history.Flags().StringVar(&window, "window", string(period.Month), "window: all|month|trailing")
	history.Flags().IntVar(&days, "days", period.DefaultTrailingDays, "days for the trailing window")
	return history
}

func newReportCmd(flags *rootFlags) *cobra.Command {
	report := &cobra.Command{Use: "report", Short: "Reports"}

	var path string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard to a markdown file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.Export(ctx, path)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "report written: %s\n", out.Path)
				return nil
			})
		},
	}
	export.Flags().StringVar(&path, "path", "", "output file (default from config)")
	report.AddCommand(export)
	return report
}
