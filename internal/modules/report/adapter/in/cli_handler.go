package in

import (
	"context"

	reportdto "studylog/internal/modules/report/dto"
	reportin "studylog/internal/modules/report/port/in"
)

type CLIHandler struct {
	usecase reportin.Usecase
}

func NewCLIHandler(usecase reportin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Dashboard(ctx context.Context) (reportdto.DashboardOutput, error) {
	return h.usecase.Dashboard(ctx)
}

func (h CLIHandler) History(ctx context.Context, window string, days int) (reportdto.HistoryOutput, error) {
	return h.usecase.History(ctx, reportdto.HistoryInput{Window: window, Days: days})
}

func (h CLIHandler) Export(ctx context.Context, path string) (reportdto.ExportOutput, error) {
	return h.usecase.Export(ctx, reportdto.ExportInput{Path: path})
}
