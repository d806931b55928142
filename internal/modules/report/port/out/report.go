package out

import (
	"context"

	"studylog/internal/modules/report/dto"
)

// Exporter persists a rendered dashboard and returns where it went.
type Exporter interface {
	Export(ctx context.Context, path string, dashboard dto.DashboardOutput) (string, error)
}
