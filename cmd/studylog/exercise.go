package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"studylog/internal/bootstrap"
	catalogdto "studylog/internal/modules/catalog/dto"
	exercisedto "studylog/internal/modules/exercise/dto"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
	"studylog/internal/platform/timefmt"
	"studylog/internal/platform/timeparse"
)

func newExerciseCmd(flags *rootFlags) *cobra.Command {
	exercise := &cobra.Command{Use: "exercise", Short: "Exercise catalog and logs"}
	exercise.AddCommand(newExerciseCategoryCmd(flags), newExerciseItemCmd(flags), newExerciseLogCmd(flags))
	return exercise
}

func newExerciseCategoryCmd(flags *rootFlags) *cobra.Command {
	category := &cobra.Command{Use: "category", Short: "Exercise categories"}

	category.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an exercise category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CatalogCLI.AddExerciseCategory(ctx, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise category added: %d %s\n", out.ID, out.Name)
				return nil
			})
		},
	})

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List exercise categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				categories, err := app.CatalogCLI.ListExerciseCategories(ctx, !all)
				if err != nil {
					return err
				}
				printCategories(cmd, categories)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive categories")

	var name string
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename or (de)activate an exercise category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				categories, err := app.CatalogCLI.ListExerciseCategories(ctx, false)
				if err != nil {
					return err
				}
				current, ok := findCategory(categories, id)
				if !ok {
					return fmt.Errorf("%w: exercise category %d", apperrors.ErrNotFound, id)
				}
				if cmd.Flags().Changed("name") {
					current.Name = name
				}
				if cmd.Flags().Changed("active") {
					current.Active = active
				}
				out, err := app.CatalogCLI.UpdateExerciseCategory(ctx, id, current.Name, current.Active)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise category updated: %d %s %s\n", out.ID, out.Name, activeMark(out.Active))
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().BoolVar(&active, "active", true, "whether the category is selectable")

	category.AddCommand(list, update, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an exercise category with no exercises",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.CatalogCLI.DeleteExerciseCategory(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise category deleted: %d\n", id)
				return nil
			})
		},
	})
	return category
}

func findCategory(categories []catalogdto.CategoryOutput, id int64) (catalogdto.CategoryOutput, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return catalogdto.CategoryOutput{}, false
}

func newExerciseItemCmd(flags *rootFlags) *cobra.Command {
	item := &cobra.Command{Use: "item", Short: "Exercises"}

	var categoryID int64
	var valueType string
	add := &cobra.Command{
		Use:   "add <name> --category <id> --type <count|duration>",
		Short: "Add an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.CatalogCLI.AddExercise(ctx, args[0], categoryID, valueType)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise added: %d %s (%s, %s)\n", out.ID, out.Name, out.CategoryName, out.ValueType)
				return nil
			})
		},
	}
	add.Flags().Int64Var(&categoryID, "category", 0, "exercise category id")
	add.Flags().StringVar(&valueType, "type", "count", "value type: count|duration")
	_ = add.MarkFlagRequired("category")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List exercises",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				exercises, err := app.CatalogCLI.ListExercises(ctx, !all)
				if err != nil {
					return err
				}
				if len(exercises) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no exercises")
					return nil
				}
				for _, e := range exercises {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Name, e.CategoryName, e.ValueType, activeMark(e.Active))
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include inactive exercises")

	var name, newType string
	var newCategory int64
	var active bool
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit an exercise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				current, err := app.CatalogCLI.GetExercise(ctx, id)
				if err != nil {
					return err
				}
				input := catalogdto.UpdateExerciseInput{
					ID:         id,
					Name:       current.Name,
					CategoryID: current.CategoryID,
					ValueType:  current.ValueType,
					Active:     current.Active,
				}
				if cmd.Flags().Changed("name") {
					input.Name = name
				}
				if cmd.Flags().Changed("category") {
					input.CategoryID = newCategory
				}
				if cmd.Flags().Changed("type") {
					input.ValueType = newType
				}
				if cmd.Flags().Changed("active") {
					input.Active = active
				}
				out, err := app.CatalogCLI.UpdateExercise(ctx, input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise updated: %d %s (%s, %s) %s\n", out.ID, out.Name, out.CategoryName, out.ValueType, activeMark(out.Active))
				return nil
			})
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().Int64Var(&newCategory, "category", 0, "new exercise category id")
	update.Flags().StringVar(&newType, "type", "", "value type: count|duration")
	update.Flags().BoolVar(&active, "active", true, "whether the exercise is selectable")

	item.AddCommand(add, list, update, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an exercise with no logs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.CatalogCLI.DeleteExercise(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exercise deleted: %d\n", id)
				return nil
			})
		},
	})
	return item
}

func printLog(cmd *cobra.Command, l exercisedto.LogOutput) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n", l.ID, timefmt.Start(l.RecordTime), l.ExerciseName, l.CategoryName, l.Display)
}

func parseValue(arg string) (float64, error) {
	v, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid value %q", apperrors.ErrInvalidInput, arg)
	}
	return v, nil
}

func newExerciseLogCmd(flags *rootFlags) *cobra.Command {
	logCmd := &cobra.Command{Use: "log", Short: "Exercise records"}

	var at string
	record := &cobra.Command{
		Use:   "record <exercise-id> <value>",
		Short: "Record an exercise (count, or minutes for duration exercises)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			exerciseID, err := parseID(args[0])
			if err != nil {
				return err
			}
			value, err := parseValue(args[1])
			if err != nil {
				return err
			}
			recordTime, err := timeparse.ParseOptional(at, time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ExerciseCLI.Record(ctx, exerciseID, value, recordTime)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "recorded: ")
				printLog(cmd, out)
				return nil
			})
		},
	}
	record.Flags().StringVar(&at, "at", "", "record time (default now)")

	var since string
	var exerciseID int64
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List exercise records, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, err := timeparse.ParseOptional(since, time.Now())
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				logs, err := app.ExerciseCLI.List(ctx, from, exerciseID, limit)
				if err != nil {
					return err
				}
				if len(logs) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}
				for _, l := range logs {
					printLog(cmd, l)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&since, "since", "", "only records at or after this time")
	list.Flags().Int64Var(&exerciseID, "exercise", 0, "only records for this exercise")
	list.Flags().IntVar(&limit, "limit", 50, "maximum rows")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one exercise record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ExerciseCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				printLog(cmd, out)
				return nil
			})
		},
	}

	var editExercise int64
	var editValue, editAt string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct an exercise record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				current, err := app.ExerciseCLI.Get(ctx, id)
				if err != nil {
					return err
				}
				exercise, value, recordTime := current.ExerciseID, current.Value, current.RecordTime
				if cmd.Flags().Changed("exercise") {
					exercise = editExercise
				}
				if cmd.Flags().Changed("value") {
					if value, err = parseValue(editValue); err != nil {
						return err
					}
				}
				if cmd.Flags().Changed("at") {
					if recordTime, err = timeparse.Parse(editAt, time.Now()); err != nil {
						return err
					}
				}
				out, err := app.ExerciseCLI.Edit(ctx, id, exercise, value, recordTime)
				if err != nil {
					return err
				}
				printLog(cmd, out)
				return nil
			})
		},
	}
	edit.Flags().Int64Var(&editExercise, "exercise", 0, "exercise id")
	edit.Flags().StringVar(&editValue, "value", "", "recorded value")
	edit.Flags().StringVar(&editAt, "at", "", "record time")

	var window string
	var days int
	totals := &cobra.Command{
		Use:   "totals",
		Short: "Sum exercise records per exercise",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ExerciseCLI.Totals(ctx, window, days)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.Label)
				if len(out.Totals) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no records")
					return nil
				}
				for _, t := range out.Totals {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d\n", t.CategoryName, t.ExerciseName, t.Display, t.Count)
				}
				return nil
			})
		},
	}
	totals.Flags().StringVar(&window, "window", string(period.Trailing), "window: all|month|trailing")
	totals.Flags().IntVar(&days, "days", period.DefaultTrailingDays, "days for the trailing window")

	logCmd.AddCommand(record, list, show, edit, totals, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an exercise record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.ExerciseCLI.Delete(ctx, id); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "record deleted: %d\n", id)
				return nil
			})
		},
	})
	return logCmd
}
