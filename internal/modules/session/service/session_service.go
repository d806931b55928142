package service

import (
	"context"
	"fmt"

	"studylog/internal/modules/session/domain"
	sessionout "studylog/internal/modules/session/port/out"
	"studylog/internal/platform/clock"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
	"studylog/internal/platform/tx"
)

type SessionService struct {
	clock clock.Clock
	store sessionout.Store
	tx    tx.Manager
}

func NewSessionService(clock clock.Clock, store sessionout.Store, txm tx.Manager) *SessionService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &SessionService{clock: clock, store: store, tx: txm}
}

func (s *SessionService) Start(ctx context.Context, materialID int64) (domain.Session, error) {
	if materialID <= 0 {
		return domain.Session{}, fmt.Errorf("%w: material is required", apperrors.ErrInvalidInput)
	}
	var session domain.Session
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		id, err := s.store.InsertOpen(txCtx, materialID, s.clock.Now())
		if err != nil {
			return err
		}
		session, err = s.store.FindByID(txCtx, id)
		return err
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("start session: %w", err)
	}
	return session, nil
}

func (s *SessionService) Stop(ctx context.Context) (domain.Session, error) {
	var session domain.Session
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		id, err := s.store.CloseOpen(txCtx, s.clock.Now())
		if err != nil {
			return err
		}
		session, err = s.store.FindByID(txCtx, id)
		return err
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("stop session: %w", err)
	}
	return session, nil
}

// Update overwrites material, start and end after validation. Clearing
// the end time reopens the session, which the store refuses while another
// session is open.
func (s *SessionService) Update(ctx context.Context, session domain.Session) (domain.Session, error) {
	if err := session.Validate(); err != nil {
		return domain.Session{}, err
	}
	var updated domain.Session
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindByID(txCtx, session.ID); err != nil {
			return err
		}
		if err := s.store.Update(txCtx, session); err != nil {
			return err
		}
		var err error
		updated, err = s.store.FindByID(txCtx, session.ID)
		return err
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("update session %d: %w", session.ID, err)
	}
	return updated, nil
}

// Delete removes the session and returns what was removed.
func (s *SessionService) Delete(ctx context.Context, id int64) (domain.Session, error) {
	var removed domain.Session
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		var err error
		removed, err = s.store.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		return s.store.Delete(txCtx, id)
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("delete session %d: %w", id, err)
	}
	return removed, nil
}

func (s *SessionService) Get(ctx context.Context, id int64) (domain.Session, error) {
	return s.store.FindByID(ctx, id)
}

// Active returns the open session, or apperrors.ErrNoActiveSession.
func (s *SessionService) Active(ctx context.Context) (domain.Session, error) {
	return s.store.FindOpen(ctx)
}

func (s *SessionService) List(ctx context.Context, filter domain.Filter) ([]domain.Session, error) {
	return s.store.List(ctx, filter)
}

// Totals aggregates sessions that started inside the window.
func (s *SessionService) Totals(ctx context.Context, window period.Window) (domain.Totals, error) {
	now := s.clock.Now()
	sessions, err := s.store.List(ctx, domain.Filter{Since: window.SincePtr(now)})
	if err != nil {
		return domain.Totals{}, err
	}
	return domain.Summarize(sessions, window, now), nil
}

// PresenceFigures are the aggregates shown while a material is being studied.
type PresenceFigures struct {
	MaterialTotal  int
	MaterialWindow int
	OverallWindow  int
}

func (s *SessionService) PresenceFigures(ctx context.Context, materialID int64, window period.Window) (PresenceFigures, error) {
	sessions, err := s.store.List(ctx, domain.Filter{})
	if err != nil {
		return PresenceFigures{}, err
	}
	now := s.clock.Now()
	all := domain.RollupByMaterial(sessions)
	inWindow := domain.InWindow(sessions, window, now)
	return PresenceFigures{
		MaterialTotal:  domain.MinutesFor(all, materialID),
		MaterialWindow: domain.MinutesFor(domain.RollupByMaterial(inWindow), materialID),
		OverallWindow:  domain.TotalMinutes(inWindow),
	}, nil
}
