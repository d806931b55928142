package out

import (
	"context"

	"studylog/internal/modules/presence/domain"
)

// Sink delivers statuses to one external observer.
type Sink interface {
	Name() string
	Connect(ctx context.Context) error
	Update(ctx context.Context, status domain.Status) error
	Clear(ctx context.Context) error
	Close() error
}
