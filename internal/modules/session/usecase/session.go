package usecase

import (
	"context"
	"fmt"
	"log/slog"

	catalogin "studylog/internal/modules/catalog/port/in"
	presencedto "studylog/internal/modules/presence/dto"
	presencein "studylog/internal/modules/presence/port/in"
	"studylog/internal/modules/session/domain"
	sessiondto "studylog/internal/modules/session/dto"
	sessionin "studylog/internal/modules/session/port/in"
	"studylog/internal/modules/session/service"
	"studylog/internal/platform/clock"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
)

type Options struct {
	// PresenceWindow is the period reported next to the all-time total.
	PresenceWindow period.Window
	Logger         *slog.Logger
}

type Interactor struct {
	svc      *service.SessionService
	catalog  catalogin.Usecase
	presence presencein.Usecase
	clock    clock.Clock
	window   period.Window
	logger   *slog.Logger
}

func NewInteractor(svc *service.SessionService, catalog catalogin.Usecase, presence presencein.Usecase, clk clock.Clock, opts Options) sessionin.Usecase {
	if opts.PresenceWindow.Kind == "" {
		opts.PresenceWindow = period.CurrentMonth()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Interactor{
		svc:      svc,
		catalog:  catalog,
		presence: presence,
		clock:    clk,
		window:   opts.PresenceWindow,
		logger:   opts.Logger,
	}
}

func (i *Interactor) Start(ctx context.Context, input sessiondto.StartInput) (sessiondto.SessionOutput, error) {
	if i.catalog == nil {
		return sessiondto.SessionOutput{}, fmt.Errorf("catalog usecase is not configured")
	}
	material, err := i.catalog.GetMaterial(ctx, input.MaterialID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if !material.Active {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: material %q is inactive", apperrors.ErrInvalidInput, material.Name)
	}

	session, err := i.svc.Start(ctx, material.ID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}

	if i.presence != nil {
		figures, err := i.svc.PresenceFigures(ctx, material.ID, i.window)
		if err != nil {
			i.logger.Warn("presence figures unavailable", "material_id", material.ID, "error", err)
		} else {
			i.presence.Publish(ctx, presencedto.PublishInput{
				MaterialName:         material.Name,
				ImageKey:             material.ImageKey,
				StartedAt:            session.StartTime,
				MaterialTotalMinutes: figures.MaterialTotal,
				WindowLabel:          i.window.Label(),
				MaterialWindowMin:    figures.MaterialWindow,
				OverallWindowMin:     figures.OverallWindow,
			})
		}
	}
	return i.toOutput(session), nil
}

func (i *Interactor) Stop(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Stop(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if i.presence != nil {
		i.presence.Clear(ctx)
	}
	return i.toOutput(session), nil
}

func (i *Interactor) Update(ctx context.Context, input sessiondto.UpdateInput) (sessiondto.SessionOutput, error) {
	if i.catalog != nil {
		if _, err := i.catalog.GetMaterial(ctx, input.MaterialID); err != nil {
			return sessiondto.SessionOutput{}, err
		}
	}
	session, err := i.svc.Update(ctx, domain.Session{
		ID:         input.ID,
		MaterialID: input.MaterialID,
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
	})
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(session), nil
}

func (i *Interactor) Delete(ctx context.Context, id int64) error {
	removed, err := i.svc.Delete(ctx, id)
	if err != nil {
		return err
	}
	if removed.IsOpen() && i.presence != nil {
		i.presence.Clear(ctx)
	}
	return nil
}

func (i *Interactor) Get(ctx context.Context, id int64) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Get(ctx, id)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(session), nil
}

func (i *Interactor) List(ctx context.Context, input sessiondto.ListInput) ([]sessiondto.SessionOutput, error) {
	sessions, err := i.svc.List(ctx, domain.Filter{
		Since:      input.Since,
		Until:      input.Until,
		MaterialID: input.MaterialID,
		Ascending:  input.Ascending,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, i.toOutput(session))
	}
	return out, nil
}

func (i *Interactor) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Active(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return i.toOutput(session), nil
}

func (i *Interactor) Totals(ctx context.Context, input sessiondto.TotalsInput) (sessiondto.TotalsOutput, error) {
	window, err := period.Parse(input.Window, input.Days)
	if err != nil {
		return sessiondto.TotalsOutput{}, err
	}
	totals, err := i.svc.Totals(ctx, window)
	if err != nil {
		return sessiondto.TotalsOutput{}, err
	}
	return sessiondto.TotalsOutput{
		Window:     string(window.Kind),
		Label:      window.Label(),
		Since:      totals.Since,
		Minutes:    totals.Minutes,
		ByMaterial: toRollups(totals.ByMaterial),
		ByCategory: toRollups(totals.ByCategory),
	}, nil
}

func (i *Interactor) toOutput(session domain.Session) sessiondto.SessionOutput {
	return sessiondto.SessionOutput{
		ID:             session.ID,
		MaterialID:     session.MaterialID,
		MaterialName:   session.MaterialName,
		CategoryID:     session.CategoryID,
		CategoryName:   session.CategoryName,
		StartTime:      session.StartTime,
		EndTime:        session.EndTime,
		Open:           session.IsOpen(),
		Minutes:        session.ElapsedMinutes(),
		RunningMinutes: session.RunningMinutes(i.clock.Now()),
	}
}

func toRollups(rollups []domain.Rollup) []sessiondto.RollupOutput {
	out := make([]sessiondto.RollupOutput, 0, len(rollups))
	for _, r := range rollups {
		out = append(out, sessiondto.RollupOutput{ID: r.ID, Name: r.Name, Minutes: r.Minutes})
	}
	return out
}
