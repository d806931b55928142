package out

import (
	"context"

	"studylog/internal/modules/catalog/domain"
)

// Store persists both catalog kinds. Find and Update report
// apperrors.ErrNotFound for unknown ids.
type Store interface {
	InsertCategory(ctx context.Context, category domain.Category) (int64, error)
	UpdateCategory(ctx context.Context, category domain.Category) error
	DeleteCategory(ctx context.Context, kind domain.Kind, id int64) error
	FindCategory(ctx context.Context, kind domain.Kind, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Category, error)
	CountItems(ctx context.Context, kind domain.Kind, categoryID int64) (int, error)

	InsertItem(ctx context.Context, item domain.Item) (int64, error)
	UpdateItem(ctx context.Context, item domain.Item) error
	DeleteItem(ctx context.Context, kind domain.Kind, id int64) error
	FindItem(ctx context.Context, kind domain.Kind, id int64) (domain.Item, error)
	ListItems(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Item, error)
	CountRecords(ctx context.Context, kind domain.Kind, itemID int64) (int, error)
}
