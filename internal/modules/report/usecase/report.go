package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	reportdto "studylog/internal/modules/report/dto"
	reportin "studylog/internal/modules/report/port/in"
	reportout "studylog/internal/modules/report/port/out"
	"studylog/internal/modules/report/service"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/period"
)

type Interactor struct {
	svc         *service.ReportService
	exporter    reportout.Exporter
	defaultPath string
	logger      *slog.Logger
}

func NewInteractor(svc *service.ReportService, exporter reportout.Exporter, defaultPath string, logger *slog.Logger) reportin.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{svc: svc, exporter: exporter, defaultPath: defaultPath, logger: logger}
}

func (i *Interactor) Dashboard(ctx context.Context) (reportdto.DashboardOutput, error) {
	return i.svc.Dashboard(ctx)
}

func (i *Interactor) History(ctx context.Context, input reportdto.HistoryInput) (reportdto.HistoryOutput, error) {
	window, err := period.Parse(input.Window, input.Days)
	if err != nil {
		return reportdto.HistoryOutput{}, err
	}
	return i.svc.History(ctx, window)
}

func (i *Interactor) Export(ctx context.Context, input reportdto.ExportInput) (reportdto.ExportOutput, error) {
	if i.exporter == nil {
		return reportdto.ExportOutput{}, fmt.Errorf("report exporter is not configured")
	}
	path := strings.TrimSpace(input.Path)
	if path == "" {
		path = i.defaultPath
	}
	if path == "" {
		return reportdto.ExportOutput{}, fmt.Errorf("%w: export path is required", apperrors.ErrInvalidInput)
	}
	dashboard, err := i.svc.Dashboard(ctx)
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	written, err := i.exporter.Export(ctx, path, dashboard)
	if err != nil {
		return reportdto.ExportOutput{}, err
	}
	i.logger.Info("report exported", "path", written, "sessions", len(dashboard.Recent)+len(dashboard.Historical))
	return reportdto.ExportOutput{Path: written, GeneratedAt: dashboard.GeneratedAt}, nil
}
