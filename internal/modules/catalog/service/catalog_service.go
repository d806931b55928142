package service

import (
	"context"
	"fmt"

	"studylog/internal/modules/catalog/domain"
	catalogout "studylog/internal/modules/catalog/port/out"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/tx"
)

type CatalogService struct {
	store catalogout.Store
	tx    tx.Manager
}

func NewCatalogService(store catalogout.Store, txm tx.Manager) *CatalogService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	return &CatalogService{store: store, tx: txm}
}

func (s *CatalogService) AddCategory(ctx context.Context, kind domain.Kind, name string) (domain.Category, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.Category{}, err
	}
	category := domain.Category{Kind: kind, Name: name, Active: true}
	if err := category.Validate(); err != nil {
		return domain.Category{}, err
	}
	id, err := s.store.InsertCategory(ctx, category)
	if err != nil {
		return domain.Category{}, err
	}
	category.ID = id
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error) {
	name, err := domain.NormalizeName(category.Name)
	if err != nil {
		return domain.Category{}, err
	}
	category.Name = name
	if err := category.Validate(); err != nil {
		return domain.Category{}, err
	}
	if err := s.store.UpdateCategory(ctx, category); err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

// DeleteCategory removes a category that no item references.
func (s *CatalogService) DeleteCategory(ctx context.Context, kind domain.Kind, id int64) error {
	return s.tx.Within(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindCategory(txCtx, kind, id); err != nil {
			return err
		}
		n, err := s.store.CountItems(txCtx, kind, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s %d has %d %s(s)", apperrors.ErrDependency, kind.CategoryNoun(), id, n, kind.ItemNoun())
		}
		return s.store.DeleteCategory(txCtx, kind, id)
	})
}

func (s *CatalogService) GetCategory(ctx context.Context, kind domain.Kind, id int64) (domain.Category, error) {
	return s.store.FindCategory(ctx, kind, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Category, error) {
	return s.store.ListCategories(ctx, kind, activeOnly)
}

func (s *CatalogService) AddItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	item.Active = true
	return s.saveItem(ctx, item, true)
}

func (s *CatalogService) UpdateItem(ctx context.Context, item domain.Item) (domain.Item, error) {
	return s.saveItem(ctx, item, false)
}

func (s *CatalogService) saveItem(ctx context.Context, item domain.Item, insert bool) (domain.Item, error) {
	name, err := domain.NormalizeName(item.Name)
	if err != nil {
		return domain.Item{}, err
	}
	item.Name = name
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}
	err = s.tx.Within(ctx, func(txCtx context.Context) error {
		category, err := s.store.FindCategory(txCtx, item.Kind, item.CategoryID)
		if err != nil {
			return err
		}
		item.CategoryName = category.Name
		if insert {
			id, err := s.store.InsertItem(txCtx, item)
			if err != nil {
				return err
			}
			item.ID = id
			return nil
		}
		return s.store.UpdateItem(txCtx, item)
	})
	if err != nil {
		return domain.Item{}, err
	}
	return item, nil
}

// DeleteItem removes a material or exercise with no recorded sessions or logs.
func (s *CatalogService) DeleteItem(ctx context.Context, kind domain.Kind, id int64) error {
	return s.tx.Within(ctx, func(txCtx context.Context) error {
		if _, err := s.store.FindItem(txCtx, kind, id); err != nil {
			return err
		}
		n, err := s.store.CountRecords(txCtx, kind, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %s %d has %d %s(s)", apperrors.ErrDependency, kind.ItemNoun(), id, n, kind.RecordNoun())
		}
		return s.store.DeleteItem(txCtx, kind, id)
	})
}

func (s *CatalogService) GetItem(ctx context.Context, kind domain.Kind, id int64) (domain.Item, error) {
	return s.store.FindItem(ctx, kind, id)
}

func (s *CatalogService) ListItems(ctx context.Context, kind domain.Kind, activeOnly bool) ([]domain.Item, error) {
	return s.store.ListItems(ctx, kind, activeOnly)
}
