package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"studylog/internal/bootstrap"
	sessiondto "studylog/internal/modules/session/dto"
	"studylog/internal/platform/timefmt"
	"studylog/internal/platform/timeparse"
)

func printSession(cmd *cobra.Command, s sessiondto.SessionOutput) {
	duration := timefmt.SessionDuration(s.Minutes, s.Open)
	if s.Open {
		duration += " " + timefmt.Duration(s.RunningMinutes)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\t%s\n",
		s.ID, s.MaterialName, s.CategoryName, timefmt.Start(s.StartTime), timefmt.End(s.EndTime), duration)
}

func newSessionCmd(flags *rootFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session lifecycle"}

	session.AddCommand(&cobra.Command{
		Use:   "start <material-id>",
		Short: "Start a session for a material",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			materialID, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Start(ctx, materialID)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session started: %d %s at %s\n", out.ID, out.MaterialName, timefmt.Start(out.StartTime))
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "stop",
		Short: "Stop the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Stop(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session stopped: %d %s %s\n", out.ID, out.MaterialName, timefmt.Duration(out.Minutes))
				return nil
			})
		},
	})

	session.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.GetActive(ctx)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	})

	var since string
	var materialID int64
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := timeparse.ParseOptional(since, time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				sessions, err := app.SessionCLI.List(ctx, from, materialID, limit)
				if err != nil {
					return err
				}
				if len(sessions) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
					return nil
				}
				for _, s := range sessions {
					printSession(cmd, s)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&since, "since", "", "only sessions started at or after this time")
	list.Flags().Int64Var(&materialID, "material", 0, "only sessions for this material")
	list.Flags().IntVar(&limit, "limit", 50, "maximum rows")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.SessionCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	}

	var editMaterial int64
	var editStart, editEnd string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct a session's material or times",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			now := time.Now()
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				current, err := app.SessionCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				material, start, end := current.MaterialID, current.StartTime, current.EndTime
				if cmd.Flags().Changed("material") {
					material = editMaterial
				}
				if cmd.Flags().Changed("start") {
					if start, err = timeparse.Parse(editStart, now); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("end") {
					if end, err = timeparse.ParseOptional(editEnd, now); err != nil {
						return err
					}
				}
				out, err := app.SessionCLI.Edit(ctx, id, material, start, end)
				if err != nil {
					return err
				}
				printSession(cmd, out)
				return nil
			})
		},
	}
	edit.Flags().Int64Var(&editMaterial, "material", 0, "material id")
	edit.Flags().StringVar(&editStart, "start", "", "start time")
	edit.Flags().StringVar(&editEnd, "end", "", "end time (empty reopens the session)")

	session.AddCommand(list, show, edit, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.SessionCLI.Delete(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %d\n", id)
				return nil
			})
		},
	})
	return session
}
