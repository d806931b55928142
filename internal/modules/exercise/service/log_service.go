package service

import (
	"context"
	"fmt"

	"studylog/internal/modules/exercise/domain"
	exerciseout "studylog/internal/modules/exercise/port/out"
	"studylog/internal/platform/clock"
	"studylog/internal/platform/period"
	"studylog/internal/platform/tx"
)

type LogService struct {
	clock clock.Clock
	store exerciseout.Store
	tx    tx.Manager
}

func NewLogService(clock clock.Clock, store exerciseout.Store, txm tx.Manager) *LogService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &LogService{clock: clock, store: store, tx: txm}
}

// Record stores log, stamping it with the current time when none is given.
func (s *LogService) Record(ctx context.Context, log domain.Log) (domain.Log, error) {
	if log.RecordTime.IsZero() {
		log.RecordTime = s.clock.Now()
	}
	if err := log.Validate(); err != nil {
		return domain.Log{}, err
	}
	var saved domain.Log
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		id, err := s.store.Insert(txCtx, log)
		if err != nil {
			return err
		}
		saved, err = s.store.FindByID(txCtx, id)
		return err
	})
	if err != nil {
		return domain.Log{}, fmt.Errorf("record exercise: %w", err)
	}
	return saved, nil
}

func (s *LogService) Update(ctx context.Context, log domain.Log) (domain.Log, error) {
	if err := log.Validate(); err != nil {
		return domain.Log{}, err
	}
	var updated domain.Log
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		if err := s.store.Update(txCtx, log); err != nil {
			return err
		}
		var err error
		updated, err = s.store.FindByID(txCtx, log.ID)
		return err
	})
	if err != nil {
		return domain.Log{}, fmt.Errorf("update exercise log %d: %w", log.ID, err)
	}
	return updated, nil
}

func (s *LogService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete exercise log %d: %w", id, err)
	}
	return nil
}

func (s *LogService) Get(ctx context.Context, id int64) (domain.Log, error) {
	return s.store.FindByID(ctx, id)
}

func (s *LogService) List(ctx context.Context, filter domain.Filter) ([]domain.Log, error) {
	return s.store.List(ctx, filter)
}

func (s *LogService) Totals(ctx context.Context, window period.Window) ([]domain.Total, error) {
	logs, err := s.store.List(ctx, domain.Filter{Since: window.SincePtr(s.clock.Now())})
	if err != nil {
		return nil, err
	}
	return domain.Summarize(logs), nil
}
