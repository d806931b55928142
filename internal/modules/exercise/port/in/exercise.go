package in

import (
	"context"

	"studylog/internal/modules/exercise/dto"
)

type Usecase interface {
	Record(ctx context.Context, input dto.RecordInput) (dto.LogOutput, error)
	UpdateLog(ctx context.Context, input dto.UpdateLogInput) (dto.LogOutput, error)
	DeleteLog(ctx context.Context, id int64) error
	GetLog(ctx context.Context, id int64) (dto.LogOutput, error)
	ListLogs(ctx context.Context, input dto.ListInput) ([]dto.LogOutput, error)
	Totals(ctx context.Context, input dto.TotalsInput) (dto.TotalsOutput, error)
}
