package in

import (
	"context"

	"studylog/internal/modules/presence/dto"
)

// Usecase broadcasts the active study session. Publish and Clear never
// block on the external service and never report its failures.
type Usecase interface {
	Connect(ctx context.Context) error
	Publish(ctx context.Context, input dto.PublishInput)
	Clear(ctx context.Context)
	Health(ctx context.Context) dto.HealthOutput
	Close(ctx context.Context) error
}
