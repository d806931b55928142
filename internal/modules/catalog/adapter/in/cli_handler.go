package in

import (
	"context"

	"studylog/internal/modules/catalog/dto"
	catalogin "studylog/internal/modules/catalog/port/in"
)

type CLIHandler struct {
	usecase catalogin.Usecase
}

func NewCLIHandler(usecase catalogin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) AddCategory(ctx context.Context, name string) (dto.CategoryOutput, error) {
	return h.usecase.AddCategory(ctx, dto.AddCategoryInput{Name: name})
}

func (h CLIHandler) UpdateCategory(ctx context.Context, id int64, name string, active bool) (dto.CategoryOutput, error) {
	return h.usecase.UpdateCategory(ctx, dto.UpdateCategoryInput{ID: id, Name: name, Active: active})
}

func (h CLIHandler) DeleteCategory(ctx context.Context, id int64) error {
	return h.usecase.DeleteCategory(ctx, id)
}

func (h CLIHandler) GetCategory(ctx context.Context, id int64) (dto.CategoryOutput, error) {
	return h.usecase.GetCategory(ctx, id)
}

func (h CLIHandler) ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error) {
	return h.usecase.ListCategories(ctx, activeOnly)
}

func (h CLIHandler) AddMaterial(ctx context.Context, name string, categoryID int64, imageKey string) (dto.MaterialOutput, error) {
	return h.usecase.AddMaterial(ctx, dto.AddMaterialInput{Name: name, CategoryID: categoryID, ImageKey: imageKey})
}

func (h CLIHandler) UpdateMaterial(ctx context.Context, input dto.UpdateMaterialInput) (dto.MaterialOutput, error) {
	return h.usecase.UpdateMaterial(ctx, input)
}

func (h CLIHandler) DeleteMaterial(ctx context.Context, id int64) error {
	return h.usecase.DeleteMaterial(ctx, id)
}

func (h CLIHandler) GetMaterial(ctx context.Context, id int64) (dto.MaterialOutput, error) {
	return h.usecase.GetMaterial(ctx, id)
}

func (h CLIHandler) ListMaterials(ctx context.Context, activeOnly bool) ([]dto.MaterialOutput, error) {
	return h.usecase.ListMaterials(ctx, activeOnly)
}

func (h CLIHandler) AddExerciseCategory(ctx context.Context, name string) (dto.CategoryOutput, error) {
	return h.usecase.AddExerciseCategory(ctx, dto.AddCategoryInput{Name: name})
}

func (h CLIHandler) UpdateExerciseCategory(ctx context.Context, id int64, name string, active bool) (dto.CategoryOutput, error) {
	return h.usecase.UpdateExerciseCategory(ctx, dto.UpdateCategoryInput{ID: id, Name: name, Active: active})
}

func (h CLIHandler) DeleteExerciseCategory(ctx context.Context, id int64) error {
	return h.usecase.DeleteExerciseCategory(ctx, id)
}

func (h CLIHandler) ListExerciseCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error) {
	return h.usecase.ListExerciseCategories(ctx, activeOnly)
}

func (h CLIHandler) AddExercise(ctx context.Context, name string, categoryID int64, valueType string) (dto.ExerciseOutput, error) {
	return h.usecase.AddExercise(ctx, dto.AddExerciseInput{Name: name, CategoryID: categoryID, ValueType: valueType})
}

func (h CLIHandler) UpdateExercise(ctx context.Context, input dto.UpdateExerciseInput) (dto.ExerciseOutput, error) {
	return h.usecase.UpdateExercise(ctx, input)
}

func (h CLIHandler) DeleteExercise(ctx context.Context, id int64) error {
	return h.usecase.DeleteExercise(ctx, id)
}

func (h CLIHandler) GetExercise(ctx context.Context, id int64) (dto.ExerciseOutput, error) {
	return h.usecase.GetExercise(ctx, id)
}

func (h CLIHandler) ListExercises(ctx context.Context, activeOnly bool) ([]dto.ExerciseOutput, error) {
	return h.usecase.ListExercises(ctx, activeOnly)
}
