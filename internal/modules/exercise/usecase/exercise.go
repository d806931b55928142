package usecase

import (
	"context"
	"fmt"

	catalogin "studylog/internal/modules/catalog/port/in"
	"studylog/internal/modules/exercise/domain"
	exercisedto "studylog/internal/modules/exercise/dto"
	exercisein "studylog/internal/modules/exercise/port/in"
	"studylog/internal/modules/exercise/service"
	"studylog/internal/platform/clock"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
)

type Interactor struct {
	svc     *service.LogService
	catalog catalogin.Usecase
	clock   clock.Clock
}

func NewInteractor(svc *service.LogService, catalog catalogin.Usecase, clk clock.Clock) exercisein.Usecase {
	return &Interactor{svc: svc, catalog: catalog, clock: clk}
}

func (i *Interactor) Record(ctx context.Context, input exercisedto.RecordInput) (exercisedto.LogOutput, error) {
	valueType, err := i.exerciseValueType(ctx, input.ExerciseID, true)
	if err != nil {
		return exercisedto.LogOutput{}, err
	}
	log := domain.Log{ExerciseID: input.ExerciseID, Value: input.Value, ValueType: valueType}
	if input.RecordTime != nil {
		log.RecordTime = *input.RecordTime
	}
	saved, err := i.svc.Record(ctx, log)
	if err != nil {
		return exercisedto.LogOutput{}, err
	}
	return toOutput(saved), nil
}

// UpdateLog rewrites the record. The value type follows the (possibly new) exercise.
func (i *Interactor) UpdateLog(ctx context.Context, input exercisedto.UpdateLogInput) (exercisedto.LogOutput, error) {
	valueType, err := i.exerciseValueType(ctx, input.ExerciseID, false)
	if err != nil {
		return exercisedto.LogOutput{}, err
	}
	updated, err := i.svc.Update(ctx, domain.Log{
		ID:         input.ID,
		ExerciseID: input.ExerciseID,
		Value:      input.Value,
		ValueType:  valueType,
		RecordTime: input.RecordTime,
	})
	if err != nil {
		return exercisedto.LogOutput{}, err
	}
	return toOutput(updated), nil
}

func (i *Interactor) DeleteLog(ctx context.Context, id int64) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) GetLog(ctx context.Context, id int64) (exercisedto.LogOutput, error) {
	log, err := i.svc.Get(ctx, id)
	if err != nil {
		return exercisedto.LogOutput{}, err
	}
	return toOutput(log), nil
}

func (i *Interactor) ListLogs(ctx context.Context, input exercisedto.ListInput) ([]exercisedto.LogOutput, error) {
	logs, err := i.svc.List(ctx, domain.Filter{
		Since:      input.Since,
		Until:      input.Until,
		ExerciseID: input.ExerciseID,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]exercisedto.LogOutput, 0, len(logs))
	for _, log := range logs {
		out = append(out, toOutput(log))
	}
	return out, nil
}

func (i *Interactor) Totals(ctx context.Context, input exercisedto.TotalsInput) (exercisedto.TotalsOutput, error) {
	window, err := period.Parse(input.Window, input.Days)
	if err != nil {
		return exercisedto.TotalsOutput{}, err
	}
	totals, err := i.svc.Totals(ctx, window)
	if err != nil {
		return exercisedto.TotalsOutput{}, err
	}
	out := exercisedto.TotalsOutput{
		Window: string(window.Kind),
		Label:  window.Label(),
		Since:  window.SincePtr(i.clock.Now()),
		Totals: make([]exercisedto.TotalOutput, 0, len(totals)),
	}
	for _, t := range totals {
		out.Totals = append(out.Totals, exercisedto.TotalOutput{
			ExerciseID:   t.ExerciseID,
			ExerciseName: t.ExerciseName,
			CategoryName: t.CategoryName,
			ValueType:    string(t.ValueType),
			Sum:          t.Sum,
			Count:        t.Count,
			Display:      domain.FormatValue(t.Sum, t.ValueType),
		})
	}
	return out, nil
}

func (i *Interactor) exerciseValueType(ctx context.Context, exerciseID int64, requireActive bool) (domain.ValueType, error) {
	if i.catalog == nil {
		return "", fmt.Errorf("catalog usecase is not configured")
	}
	if exerciseID <= 0 {
		return "", fmt.Errorf("%w: exercise is required", apperrors.ErrInvalidInput)
	}
	exercise, err := i.catalog.GetExercise(ctx, exerciseID)
	if err != nil {
		return "", err
	}
	if requireActive && !exercise.Active {
		return "", fmt.Errorf("%w: exercise %q is inactive", apperrors.ErrInvalidInput, exercise.Name)
	}
	return domain.ValueType(exercise.ValueType), nil
}

func toOutput(log domain.Log) exercisedto.LogOutput {
	return exercisedto.LogOutput{
		ID:           log.ID,
		ExerciseID:   log.ExerciseID,
		ExerciseName: log.ExerciseName,
		CategoryID:   log.CategoryID,
		CategoryName: log.CategoryName,
		Value:        log.Value,
		ValueType:    string(log.ValueType),
		Display:      domain.FormatValue(log.Value, log.ValueType),
		RecordTime:   log.RecordTime,
	}
}
