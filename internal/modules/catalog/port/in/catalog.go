package in

import (
	"context"

	"studylog/internal/modules/catalog/dto"
)

type Usecase interface {
	AddCategory(ctx context.Context, input dto.AddCategoryInput) (dto.CategoryOutput, error)
	UpdateCategory(ctx context.Context, input dto.UpdateCategoryInput) (dto.CategoryOutput, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (dto.CategoryOutput, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error)

	AddMaterial(ctx context.Context, input dto.AddMaterialInput) (dto.MaterialOutput, error)
	UpdateMaterial(ctx context.Context, input dto.UpdateMaterialInput) (dto.MaterialOutput, error)
	DeleteMaterial(ctx context.Context, id int64) error
	GetMaterial(ctx context.Context, id int64) (dto.MaterialOutput, error)
	ListMaterials(ctx context.Context, activeOnly bool) ([]dto.MaterialOutput, error)

	AddExerciseCategory(ctx context.Context, input dto.AddCategoryInput) (dto.CategoryOutput, error)
	UpdateExerciseCategory(ctx context.Context, input dto.UpdateCategoryInput) (dto.CategoryOutput, error)
	DeleteExerciseCategory(ctx context.Context, id int64) error
	GetExerciseCategory(ctx context.Context, id int64) (dto.CategoryOutput, error)
	ListExerciseCategories(ctx context.Context, activeOnly bool) ([]dto.CategoryOutput, error)

	AddExercise(ctx context.Context, input dto.AddExerciseInput) (dto.ExerciseOutput, error)
	UpdateExercise(ctx context.Context, input dto.UpdateExerciseInput) (dto.ExerciseOutput, error)
	DeleteExercise(ctx context.Context, id int64) error
	GetExercise(ctx context.Context, id int64) (dto.ExerciseOutput, error)
	ListExercises(ctx context.Context, activeOnly bool) ([]dto.ExerciseOutput, error)
}
