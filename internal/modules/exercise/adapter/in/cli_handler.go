package in

import (
	"context"
	"time"

	exercisedto "studylog/internal/modules/exercise/dto"
	exercisein "studylog/internal/modules/exercise/port/in"
)

type CLIHandler struct {
	usecase exercisein.Usecase
}

func NewCLIHandler(usecase exercisein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Record(ctx context.Context, exerciseID int64, value float64, at *time.Time) (exercisedto.LogOutput, error) {
	return h.usecase.Record(ctx, exercisedto.RecordInput{ExerciseID: exerciseID, Value: value, RecordTime: at})
}

func (h CLIHandler) Edit(ctx context.Context, id, exerciseID int64, value float64, at time.Time) (exercisedto.LogOutput, error) {
	return h.usecase.UpdateLog(ctx, exercisedto.UpdateLogInput{ID: id, ExerciseID: exerciseID, Value: value, RecordTime: at})
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.DeleteLog(ctx, id)
}

func (h CLIHandler) Get(ctx context.Context, id int64) (exercisedto.LogOutput, error) {
	return h.usecase.GetLog(ctx, id)
}

func (h CLIHandler) List(ctx context.Context, since *time.Time, exerciseID int64, limit int) ([]exercisedto.LogOutput, error) {
	return h.usecase.ListLogs(ctx, exercisedto.ListInput{Since: since, ExerciseID: exerciseID, Limit: limit})
}

func (h CLIHandler) Totals(ctx context.Context, window string, days int) (exercisedto.TotalsOutput, error) {
	return h.usecase.Totals(ctx, exercisedto.TotalsInput{Window: window, Days: days})
}
