package out

import (
	"context"

	"studylog/internal/modules/exercise/domain"
)

type Store interface {
	Insert(ctx context.Context, log domain.Log) (int64, error)
	Update(ctx context.Context, log domain.Log) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (domain.Log, error)
	List(ctx context.Context, filter domain.Filter) ([]domain.Log, error)
}
