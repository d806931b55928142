package dto

type AddCategoryInput struct {
	Name string
}

type UpdateCategoryInput struct {
	ID     int64
	Name   string
	Active bool
}

type CategoryOutput struct {
	ID     int64
	Name   string
	Active bool
}

type AddMaterialInput struct {
	Name       string
	CategoryID int64
	ImageKey   string
}

type UpdateMaterialInput struct {
	ID         int64
	Name       string
	CategoryID int64
	Active     bool
	ImageKey   string
}

type MaterialOutput struct {
	ID           int64
	Name         string
	CategoryID   int64
	CategoryName string
	Active       bool
	ImageKey     string
}

type AddExerciseInput struct {
	Name       string
	CategoryID int64
	ValueType  string
}

type UpdateExerciseInput struct {
	ID         int64
	Name       string
	CategoryID int64
	ValueType  string
	Active     bool
}

type ExerciseOutput struct {
	ID           int64
	Name         string
	CategoryID   int64
	CategoryName string
	ValueType    string
	Active       bool
}
