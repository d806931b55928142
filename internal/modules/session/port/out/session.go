package out

import (
	"context"
	"time"

	"studylog/internal/modules/session/domain"
)

// Store owns session rows. The single open session is enforced here:
// InsertOpen fails with apperrors.ErrActiveSessionExists and CloseOpen with
// apperrors.ErrNoActiveSession.
type Store interface {
	InsertOpen(ctx context.Context, materialID int64, start time.Time) (int64, error)
	CloseOpen(ctx context.Context, end time.Time) (int64, error)
	Update(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Session, error)
	FindOpen(ctx context.Context) (domain.Session, error)
	List(ctx context.Context, filter domain.Filter) ([]domain.Session, error)
}
