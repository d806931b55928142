package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"studylog/internal/modules/presence/domain"
	"studylog/internal/modules/presence/dto"
	"studylog/internal/modules/presence/service"
	"studylog/internal/modules/presence/usecase"
)

type captureSink struct {
	mu       sync.Mutex
	statuses []domain.Status
	clears   int
}

func (s *captureSink) Name() string                  { return "capture" }
func (s *captureSink) Connect(context.Context) error { return nil }
func (s *captureSink) Close() error                  { return nil }
func (s *captureSink) Update(_ context.Context, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, status)
	return nil
}
func (s *captureSink) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clears++
	return nil
}

func TestPublishThenClear(t *testing.T) {
	t.Parallel()
	sink := &captureSink{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := service.NewPublisher(sink, service.Options{Logger: logger})
	uc := usecase.NewInteractor(publisher, "fallback", logger)

	started := time.Date(2024, 4, 2, 20, 0, 0, 0, time.UTC)
	uc.Publish(context.Background(), dto.PublishInput{
		MaterialName:         "微積分",
		StartedAt:            started,
		MaterialTotalMinutes: 61,
		WindowLabel:          "今月",
		MaterialWindowMin:    5,
		OverallWindowMin:     125,
	})
	uc.Clear(context.Background())
	if err := uc.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(sink.statuses) != 1 || sink.clears != 1 {
		t.Fatalf("expected one update and one clear, got %d/%d", len(sink.statuses), sink.clears)
	}
	got := sink.statuses[0]
	if got.State != "累計:1時間1分(うち今月:0時間5分)" {
		t.Fatalf("unexpected state %q", got.State)
	}
	if got.LargeText != "今月の総計:2時間5分" || got.LargeImage != "fallback" {
		t.Fatalf("unexpected status %+v", got)
	}
	if got.StartEpoch() != started.Unix() {
		t.Fatalf("unexpected start epoch %d", got.StartEpoch())
	}

	health := uc.Health(context.Background())
	if health.Delivered != 2 || health.Sink != "capture" {
		t.Fatalf("unexpected health %+v", health)
	}

	uc.Publish(context.Background(), dto.PublishInput{MaterialName: "late"})
	if len(sink.statuses) != 1 {
		t.Fatalf("publish after close must be dropped")
	}
}
