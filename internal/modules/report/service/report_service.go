package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogin "studylog/internal/modules/catalog/port/in"
	exercisedto "studylog/internal/modules/exercise/dto"
	exercisein "studylog/internal/modules/exercise/port/in"
	"studylog/internal/modules/report/domain"
	reportdto "studylog/internal/modules/report/dto"
	sessiondto "studylog/internal/modules/session/dto"
	sessionin "studylog/internal/modules/session/port/in"
	"studylog/internal/platform/clock"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
	"studylog/internal/platform/timefmt"
)

type Options struct {
	RecentHours  int
	TrailingDays int
}

// ReportService composes read-only views over the other modules.
type ReportService struct {
	clock    clock.Clock
	sessions sessionin.Usecase
	catalog  catalogin.Usecase
	exercise exercisein.Usecase
	opts     Options
}

func NewReportService(clk clock.Clock, sessions sessionin.Usecase, catalog catalogin.Usecase, exercise exercisein.Usecase, opts Options) *ReportService {
	if opts.RecentHours <= 0 {
		opts.RecentHours = domain.DefaultRecentHours
	}
	if opts.TrailingDays <= 0 {
		opts.TrailingDays = domain.DefaultTrailingDays
	}
	return &ReportService{clock: clk, sessions: sessions, catalog: catalog, exercise: exercise, opts: opts}
}

func (s *ReportService) Dashboard(ctx context.Context) (reportdto.DashboardOutput, error) {
	now := s.clock.Now()
	out := reportdto.DashboardOutput{GeneratedAt: now, RecentHours: s.opts.RecentHours}

	active, err := s.sessions.GetActive(ctx)
	switch {
	case err == nil:
		row := toRow(active)
		out.Active = &row
	case errors.Is(err, apperrors.ErrNoActiveSession):
	default:
		return reportdto.DashboardOutput{}, fmt.Errorf("active session: %w", err)
	}

	sessions, err := s.sessions.List(ctx, sessiondto.ListInput{})
	if err != nil {
		return reportdto.DashboardOutput{}, fmt.Errorf("list sessions: %w", err)
	}
	recent, historical := domain.SplitRecent(sessions, func(row sessiondto.SessionOutput) time.Time { return row.StartTime },
		domain.RecentBoundary(now, s.opts.RecentHours))
	out.Recent = toRows(recent)
	out.Historical = toRows(historical)

	if out.AllTime, err = s.windowTotal(ctx, period.AllTime()); err != nil {
		return reportdto.DashboardOutput{}, err
	}
	if out.Month, err = s.windowTotal(ctx, period.CurrentMonth()); err != nil {
		return reportdto.DashboardOutput{}, err
	}
	trailing := period.TrailingDays(s.opts.TrailingDays)
	if out.Trailing, err = s.windowTotal(ctx, trailing); err != nil {
		return reportdto.DashboardOutput{}, err
	}

	if s.exercise != nil {
		totals, err := s.exercise.Totals(ctx, exercisedto.TotalsInput{Window: string(trailing.Kind), Days: trailing.Days})
		if err != nil {
			return reportdto.DashboardOutput{}, fmt.Errorf("exercise totals: %w", err)
		}
		out.ExerciseLabel = totals.Label
		out.Exercise = toExerciseRows(totals.Totals)
	}

	if s.catalog != nil {
		if err := s.fillCatalog(ctx, &out); err != nil {
			return reportdto.DashboardOutput{}, err
		}
	}
	return out, nil
}

func (s *ReportService) History(ctx context.Context, window period.Window) (reportdto.HistoryOutput, error) {
	since := window.SincePtr(s.clock.Now())
	sessions, err := s.sessions.List(ctx, sessiondto.ListInput{Since: since})
	if err != nil {
		return reportdto.HistoryOutput{}, fmt.Errorf("list sessions: %w", err)
	}
	total, err := s.windowTotal(ctx, window)
	if err != nil {
		return reportdto.HistoryOutput{}, err
	}
	return reportdto.HistoryOutput{Totals: total, Sessions: toRows(sessions)}, nil
}

func (s *ReportService) windowTotal(ctx context.Context, window period.Window) (reportdto.WindowTotal, error) {
	totals, err := s.sessions.Totals(ctx, sessiondto.TotalsInput{Window: string(window.Kind), Days: window.Days})
	if err != nil {
		return reportdto.WindowTotal{}, fmt.Errorf("%s totals: %w", window.Kind, err)
	}
	return reportdto.WindowTotal{
		Window:     totals.Window,
		Label:      totals.Label,
		Since:      totals.Since,
		Minutes:    totals.Minutes,
		Duration:   timefmt.Duration(totals.Minutes),
		ByMaterial: toTotalRows(totals.ByMaterial),
		ByCategory: toTotalRows(totals.ByCategory),
	}, nil
}

func (s *ReportService) fillCatalog(ctx context.Context, out *reportdto.DashboardOutput) error {
	var err error
	if out.Categories, err = s.catalog.ListCategories(ctx, true); err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	if out.Materials, err = s.catalog.ListMaterials(ctx, true); err != nil {
		return fmt.Errorf("list materials: %w", err)
	}
	if out.ExerciseCategories, err = s.catalog.ListExerciseCategories(ctx, true); err != nil {
		return fmt.Errorf("list exercise categories: %w", err)
	}
	if out.Exercises, err = s.catalog.ListExercises(ctx, true); err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	return nil
}

func toRow(s sessiondto.SessionOutput) reportdto.SessionRow {
	return reportdto.SessionRow{
		ID:           s.ID,
		MaterialID:   s.MaterialID,
		MaterialName: s.MaterialName,
		CategoryName: s.CategoryName,
		StartTime:    s.StartTime,
		EndTime:      s.EndTime,
		Open:         s.Open,
		Minutes:      s.Minutes,
		Start:        timefmt.Start(s.StartTime),
		End:          timefmt.End(s.EndTime),
		Duration:     timefmt.SessionDuration(s.Minutes, s.Open),
		Running:      timefmt.Duration(s.RunningMinutes),
	}
}

func toRows(sessions []sessiondto.SessionOutput) []reportdto.SessionRow {
	out := make([]reportdto.SessionRow, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toRow(s))
	}
	return out
}

func toTotalRows(rollups []sessiondto.RollupOutput) []reportdto.TotalRow {
	out := make([]reportdto.TotalRow, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, reportdto.TotalRow{ID: r.ID, Name: r.Name, Minutes: r.Minutes, Duration: timefmt.Duration(r.Minutes)})
	}
	return out
}

func toExerciseRows(totals []exercisedto.TotalOutput) []reportdto.ExerciseRow {
	out := make([]reportdto.ExerciseRow, 0, len(totals))
	for _, t := range totals {
		out = append(out, reportdto.ExerciseRow{
			ExerciseID:   t.ExerciseID,
			ExerciseName: t.ExerciseName,
			CategoryName: t.CategoryName,
			ValueType:    t.ValueType,
			Count:        t.Count,
			Sum:          t.Sum,
			Display:      t.Display,
		})
	}
	return out
}
