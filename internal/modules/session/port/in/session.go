package in

import (
	"context"

	"studylog/internal/modules/session/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Stop(ctx context.Context) (dto.SessionOutput, error)
	Update(ctx context.Context, input dto.UpdateInput) (dto.SessionOutput, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (dto.SessionOutput, error)
	List(ctx context.Context, input dto.ListInput) ([]dto.SessionOutput, error)
	GetActive(ctx context.Context) (dto.SessionOutput, error)
	Totals(ctx context.Context, input dto.TotalsInput) (dto.TotalsOutput, error)
}
