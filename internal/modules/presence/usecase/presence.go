package usecase

import (
	"context"
	"log/slog"

	"studylog/internal/modules/presence/domain"
	"studylog/internal/modules/presence/dto"
	presencein "studylog/internal/modules/presence/port/in"
	"studylog/internal/modules/presence/service"
)

type Interactor struct {
	publisher       *service.Publisher
	defaultImageKey string
	logger          *slog.Logger
}

func NewInteractor(publisher *service.Publisher, defaultImageKey string, logger *slog.Logger) presencein.Usecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interactor{publisher: publisher, defaultImageKey: defaultImageKey, logger: logger}
}

func (i *Interactor) Connect(ctx context.Context) error {
	return i.publisher.Connect(ctx)
}

func (i *Interactor) Publish(_ context.Context, input dto.PublishInput) {
	status := domain.BuildStatus(domain.Figures{
		MaterialName:    input.MaterialName,
		ImageKey:        input.ImageKey,
		StartedAt:       input.StartedAt,
		MaterialTotal:   input.MaterialTotalMinutes,
		WindowLabel:     input.WindowLabel,
		MaterialWindow:  input.MaterialWindowMin,
		OverallWindow:   input.OverallWindowMin,
		DefaultImageKey: i.defaultImageKey,
	})
	if err := i.publisher.Enqueue(domain.Command{Kind: domain.CommandUpdate, Status: status}); err != nil {
		i.logger.Warn("presence publish skipped", "error", err)
	}
}

func (i *Interactor) Clear(_ context.Context) {
	if err := i.publisher.Enqueue(domain.Command{Kind: domain.CommandClear}); err != nil {
		i.logger.Warn("presence clear skipped", "error", err)
	}
}

func (i *Interactor) Health(_ context.Context) dto.HealthOutput {
	h := i.publisher.Health()
	return dto.HealthOutput{
		Sink:      h.Sink,
		Connected: h.Connected,
		Pending:   h.Pending,
		Delivered: h.Delivered,
		Failed:    h.Failed,
		LastError: h.LastError,
	}
}

func (i *Interactor) Close(ctx context.Context) error {
	return i.publisher.Close(ctx)
}
