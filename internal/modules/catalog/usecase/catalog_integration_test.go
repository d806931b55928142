package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	catalogout "studylog/internal/modules/catalog/adapter/out"
	"studylog/internal/modules/catalog/dto"
	catalogin "studylog/internal/modules/catalog/port/in"
	"studylog/internal/modules/catalog/service"
	"studylog/internal/modules/catalog/usecase"
	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/sqldb"
)

func newCatalog(t *testing.T) (catalogin.Usecase, *sqldb.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := sqldb.Open(ctx, "sqlite", filepath.Join(t.TempDir(), "studylog.db"), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc := service.NewCatalogService(catalogout.NewSQLCatalogStore(db), db)
	return usecase.NewInteractor(svc), db
}

func TestAddListAndGetMaterial(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newCatalog(t)

	category, err := uc.AddCategory(ctx, dto.AddCategoryInput{Name: "  語学 "})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	if category.Name != "語学" || !category.Active {
		t.Fatalf("unexpected category: %+v", category)
	}
	material, err := uc.AddMaterial(ctx, dto.AddMaterialInput{Name: "英単語帳", CategoryID: category.ID, ImageKey: "book"})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}

	got, err := uc.GetMaterial(ctx, material.ID)
	if err != nil {
		t.Fatalf("get material: %v", err)
	}
	if got.CategoryName != "語学" || got.ImageKey != "book" || !got.Active {
		t.Fatalf("unexpected material: %+v", got)
	}

	if _, err := uc.UpdateMaterial(ctx, dto.UpdateMaterialInput{ID: material.ID, Name: "英単語帳", CategoryID: category.ID, Active: false}); err != nil {
		t.Fatalf("deactivate material: %v", err)
	}
	active, err := uc.ListMaterials(ctx, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("inactive material listed as available: %+v", active)
	}
	all, err := uc.ListMaterials(ctx, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 1 || all[0].Active {
		t.Fatalf("unexpected materials: %+v", all)
	}
}

func TestDeleteCategoryGuardsDependents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newCatalog(t)

	category, err := uc.AddCategory(ctx, dto.AddCategoryInput{Name: "数学"})
	if err != nil {
		t.Fatalf("add category: %v", err)
	}
	material, err := uc.AddMaterial(ctx, dto.AddMaterialInput{Name: "線形代数", CategoryID: category.ID})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}

	err = uc.DeleteCategory(ctx, category.ID)
	if !errors.Is(err, apperrors.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, err := uc.GetCategory(ctx, category.ID); err != nil {
		t.Fatalf("category removed despite dependents: %v", err)
	}
	if _, err := uc.GetMaterial(ctx, material.ID); err != nil {
		t.Fatalf("material removed: %v", err)
	}

	if err := uc.DeleteMaterial(ctx, material.ID); err != nil {
		t.Fatalf("delete material: %v", err)
	}
	if err := uc.DeleteCategory(ctx, category.ID); err != nil {
		t.Fatalf("delete empty category: %v", err)
	}
	if _, err := uc.GetCategory(ctx, category.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteMaterialWithSessionsFails(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, db := newCatalog(t)

	category, _ := uc.AddCategory(ctx, dto.AddCategoryInput{Name: "物理"})
	material, err := uc.AddMaterial(ctx, dto.AddMaterialInput{Name: "力学", CategoryID: category.ID})
	if err != nil {
		t.Fatalf("add material: %v", err)
	}
	if _, err := db.Exec(ctx, `INSERT INTO sessions (material_id, start_time, end_time) VALUES (?, ?, ?)`,
		material.ID, "2024-01-01T10:00:00.000Z", "2024-01-01T11:00:00.000Z"); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	if err := uc.DeleteMaterial(ctx, material.ID); !errors.Is(err, apperrors.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCatalogValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, _ := newCatalog(t)

	if _, err := uc.AddCategory(ctx, dto.AddCategoryInput{Name: "   "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := uc.AddMaterial(ctx, dto.AddMaterialInput{Name: "orphan", CategoryID: 42}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for missing category, got %v", err)
	}
	if _, err := uc.UpdateCategory(ctx, dto.UpdateCategoryInput{ID: 99, Name: "x", Active: true}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on update, got %v", err)
	}
	if err := uc.DeleteMaterial(ctx, 7); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found on delete, got %v", err)
	}
}

func TestExerciseCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc, db := newCatalog(t)

	category, err := uc.AddExerciseCategory(ctx, dto.AddCategoryInput{Name: "筋トレ"})
	if err != nil {
		t.Fatalf("add exercise category: %v", err)
	}
	if _, err := uc.AddExercise(ctx, dto.AddExerciseInput{Name: "腕立て", CategoryID: category.ID, ValueType: "reps"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid value type, got %v", err)
	}
	exercise, err := uc.AddExercise(ctx, dto.AddExerciseInput{Name: "腕立て", CategoryID: category.ID, ValueType: "count"})
	if err != nil {
		t.Fatalf("add exercise: %v", err)
	}
	if exercise.ValueType != "count" || exercise.CategoryName != "筋トレ" {
		t.Fatalf("unexpected exercise: %+v", exercise)
	}

	studyCategories, err := uc.ListCategories(ctx, false)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(studyCategories) != 0 {
		t.Fatalf("exercise category leaked into study catalog: %+v", studyCategories)
	}

	if _, err := db.Exec(ctx, `INSERT INTO exercise_sessions (exercise_id, value, value_type, record_time) VALUES (?, ?, ?, ?)`,
		exercise.ID, 30.0, "count", "2024-01-01T10:00:00.000Z"); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	if err := uc.DeleteExercise(ctx, exercise.ID); !errors.Is(err, apperrors.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if err := uc.DeleteExerciseCategory(ctx, category.ID); !errors.Is(err, apperrors.ErrDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
