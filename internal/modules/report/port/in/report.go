package in

import (
	"context"

	"studylog/internal/modules/report/dto"
)

type Usecase interface {
	Dashboard(ctx context.Context) (dto.DashboardOutput, error)
	History(ctx context.Context, input dto.HistoryInput) (dto.HistoryOutput, error)
	Export(ctx context.Context, input dto.ExportInput) (dto.ExportOutput, error)
}
