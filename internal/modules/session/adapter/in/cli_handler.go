package in

import (
	"context"
	"time"

	sessiondto "studylog/internal/modules/session/dto"
	sessionin "studylog/internal/modules/session/port/in"
)

type CLIHandler struct {
	usecase sessionin.Usecase
}

func NewCLIHandler(usecase sessionin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, materialID int64) (sessiondto.SessionOutput, error) {
	return h.usecase.Start(ctx, sessiondto.StartInput{MaterialID: materialID})
}

func (h CLIHandler) Stop(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) GetActive(ctx context.Context) (sessiondto.SessionOutput, error) {
	return h.usecase.GetActive(ctx)
}

func (h CLIHandler) Get(ctx context.Context, id int64) (sessiondto.SessionOutput, error) {
	return h.usecase.Get(ctx, id)
}

func (h CLIHandler) List(ctx context.Context, since *time.Time, materialID int64, limit int) ([]sessiondto.SessionOutput, error) {
	return h.usecase.List(ctx, sessiondto.ListInput{Since: since, MaterialID: materialID, Limit: limit})
}

func (h CLIHandler) Edit(ctx context.Context, id, materialID int64, start time.Time, end *time.Time) (sessiondto.SessionOutput, error) {
	return h.usecase.Update(ctx, sessiondto.UpdateInput{ID: id, MaterialID: materialID, StartTime: start, EndTime: end})
}

func (h CLIHandler) Delete(ctx context.Context, id int64) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Totals(ctx context.Context, window string, days int) (sessiondto.TotalsOutput, error) {
	return h.usecase.Totals(ctx, sessiondto.TotalsInput{Window: window, Days: days})
}
