package usecase

import (
	"context"

	"studylog/internal/modules/catalog/domain"
	"studylog/internal/modules/catalog/dto"
	catalogin "studylog/internal/modules/catalog/port/in"
	"studylog/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) AddCategory(ctx context.Context, input dto.AddCategoryInput) (dto.CategoryOutput, error) {
	return i.addCategory(ctx, domain.KindStudy, input)
}

func (i *Interactor) UpdateCategory(ctx context.Context, input dto.UpdateCategoryInput) (dto.CategoryOutput, error) {
	return i.updateCategory(ctx, domain.KindStudy, input)
}

func (i *Interactor) DeleteCategory(ctx context.Context, id int64) error {
	return i.svc.DeleteCategory(ctx, domain.KindStudy, id)
}

func (i *Interactor) GetCategory(ctx context.Context, id int64) (dto.CategoryOutput, error) {
	return i.getCategory(ctx, domain.KindStudy, id)
}

func (i *Interactor) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error) {
	return i.listCategories(ctx, domain.KindStudy, activeOnly)
}

func (i *Interactor) AddExerciseCategory(ctx context.Context, input dto.AddCategoryInput) (dto.CategoryOutput, error) {
	return i.addCategory(ctx, domain.KindExercise, input)
}

func (i *Interactor) UpdateExerciseCategory(ctx context.Context, input dto.UpdateCategoryInput) (dto.CategoryOutput, error) {
	return i.updateCategory(ctx, domain.KindExercise, input)
}

func (i *Interactor) DeleteExerciseCategory(ctx context.Context, id int64) error {
	return i.svc.DeleteCategory(ctx, domain.KindExercise, id)
}

func (i *Interactor) GetExerciseCategory(ctx context.Context, id int64) (dto.CategoryOutput, error) {
	return i.getCategory(ctx, domain.KindExercise, id)
}

func (i *Interactor) ListExerciseCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error) {
	return i.listCategories(ctx, domain.KindExercise, activeOnly)
}

func (i *Interactor) AddMaterial(ctx context.Context, input dto.AddMaterialInput) (dto.MaterialOutput, error) {
	item, err := i.svc.AddItem(ctx, domain.Item{
		Kind:       domain.KindStudy,
		Name:       input.Name,
		CategoryID: input.CategoryID,
		ImageKey:   input.ImageKey,
	})
	if err != nil {
		return dto.MaterialOutput{}, err
	}
	return toMaterialOutput(item), nil
}

func (i *Interactor) UpdateMaterial(ctx context.Context, input dto.UpdateMaterialInput) (dto.MaterialOutput, error) {
	item, err := i.svc.UpdateItem(ctx, domain.Item{
		ID:         input.ID,
		Kind:       domain.KindStudy,
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Active:     input.Active,
		ImageKey:   input.ImageKey,
	})
	if err != nil {
		return dto.MaterialOutput{}, err
	}
	return toMaterialOutput(item), nil
}

func (i *Interactor) DeleteMaterial(ctx context.Context, id int64) error {
	return i.svc.DeleteItem(ctx, domain.KindStudy, id)
}

func (i *Interactor) GetMaterial(ctx context.Context, id int64) (dto.MaterialOutput, error) {
	item, err := i.svc.GetItem(ctx, domain.KindStudy, id)
	if err != nil {
		return dto.MaterialOutput{}, err
	}
	return toMaterialOutput(item), nil
}

func (i *Interactor) ListMaterials(ctx context.Context, activeOnly bool) ([]dto.MaterialOutput, error) {
	items, err := i.svc.ListItems(ctx, domain.KindStudy, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toMaterialOutput(item))
	}
	return out, nil
}

func (i *Interactor) AddExercise(ctx context.Context, input dto.AddExerciseInput) (dto.ExerciseOutput, error) {
	item, err := i.svc.AddItem(ctx, domain.Item{
		Kind:       domain.KindExercise,
		Name:       input.Name,
		CategoryID: input.CategoryID,
		ValueType:  domain.ValueType(input.ValueType),
	})
	if err != nil {
		return dto.ExerciseOutput{}, err
	}
	return toExerciseOutput(item), nil
}

func (i *Interactor) UpdateExercise(ctx context.Context, input dto.UpdateExerciseInput) (dto.ExerciseOutput, error) {
	item, err := i.svc.UpdateItem(ctx, domain.Item{
		ID:         input.ID,
		Kind:       domain.KindExercise,
		Name:       input.Name,
		CategoryID: input.CategoryID,
		Active:     input.Active,
		ValueType:  domain.ValueType(input.ValueType),
	})
	if err != nil {
		return dto.ExerciseOutput{}, err
	}
	return toExerciseOutput(item), nil
}

func (i *Interactor) DeleteExercise(ctx context.Context, id int64) error {
	return i.svc.DeleteItem(ctx, domain.KindExercise, id)
}

func (i *Interactor) GetExercise(ctx context.Context, id int64) (dto.ExerciseOutput, error) {
	item, err := i.svc.GetItem(ctx, domain.KindExercise, id)
	if err != nil {
		return dto.ExerciseOutput{}, err
	}
	return toExerciseOutput(item), nil
}

func (i *Interactor) ListExercises(ctx context.Context, activeOnly bool) ([]dto.ExerciseOutput, error) {
	items, err := i.svc.ListItems(ctx, domain.KindExercise, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExerciseOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toExerciseOutput(item))
	}
	return out, nil
}

func (i *Interactor) addCategory(ctx context.Context, kind domain.Kind, input dto.AddCategoryInput) (dto.CategoryOutput, error) {
	category, err := i.svc.AddCategory(ctx, kind, input.Name)
	if err != nil {
		return dto.CategoryOutput{}, err
	}
	return toCategoryOutput(category), nil
}

func (i *Interactor) updateCategory(ctx context.Context, kind domain.Kind, input dto.UpdateCategoryInput) (dto.CategoryOutput, error) {
	category, err := i.svc.UpdateCategory(ctx, domain.Category{ID: input.ID, Kind: kind, Name: input.Name, Active: input.Active})
	if err != nil {
		return dto.CategoryOutput{}, err
	}
	return toCategoryOutput(category), nil
}

func (i *Interactor) getCategory(ctx context.Context, kind domain.Kind, id int64) (dto.CategoryOutput, error) {
	category, err := i.svc.GetCategory(ctx, kind, id)
	if err != nil {
		return dto.CategoryOutput{}, err
	}
	return toCategoryOutput(category), nil
}

func (i *Interactor) listCategories(ctx context.Context, kind domain.Kind, activeOnly bool) ([]dto.CategoryOutput, error) {
	categories, err := i.svc.ListCategories(ctx, kind, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryOutput, 0, len(categories))
	for _, category := range categories {
		out = append(out, toCategoryOutput(category))
	}
	return out, nil
}

func toCategoryOutput(category domain.Category) dto.CategoryOutput {
	return dto.CategoryOutput{ID: category.ID, Name: category.Name, Active: category.Active}
}

func toMaterialOutput(item domain.Item) dto.MaterialOutput {
	return dto.MaterialOutput{
		ID:           item.ID,
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		Active:       item.Active,
		ImageKey:     item.ImageKey,
	}
}

func toExerciseOutput(item domain.Item) dto.ExerciseOutput {
	return dto.ExerciseOutput{
		ID:           item.ID,
		Name:         item.Name,
		CategoryID:   item.CategoryID,
		CategoryName: item.CategoryName,
		ValueType:    string(item.ValueType),
		Active:       item.Active,
	}
}
