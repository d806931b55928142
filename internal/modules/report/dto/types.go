package dto

import (
	"time"

	catalogdto "studylog/internal/modules/catalog/dto"
)

// SessionRow is a session with its display strings already rendered.
type SessionRow struct {
	ID           int64
	MaterialID   int64
	MaterialName string
	CategoryName string
	StartTime    time.Time
	EndTime      *time.Time
	Open         bool
	Minutes      int
	Start        string
	End          string
	Duration     string
	Running      string
}

type TotalRow struct {
	ID       int64
	Name     string
	Minutes  int
	Duration string
}

type WindowTotal struct {
	Window     string
	Label      string
	Since      *time.Time
	Minutes    int
	Duration   string
	ByMaterial []TotalRow
	ByCategory []TotalRow
}

type ExerciseRow struct {
	ExerciseID   int64
	ExerciseName string
	CategoryName string
	ValueType    string
	Count        int
	Sum          float64
	Display      string
}

type DashboardOutput struct {
	GeneratedAt time.Time
	RecentHours int
	Active      *SessionRow
	Recent      []SessionRow
	Historical  []SessionRow
	AllTime     WindowTotal
	Month       WindowTotal
	Trailing    WindowTotal

	ExerciseLabel string
	Exercise      []ExerciseRow

	Categories         []catalogdto.CategoryOutput
	Materials          []catalogdto.MaterialOutput
	ExerciseCategories []catalogdto.CategoryOutput
	Exercises          []catalogdto.ExerciseOutput
}

type HistoryInput struct {
	Window string
	Days   int
}

type HistoryOutput struct {
	Totals   WindowTotal
	Sessions []SessionRow
}

type ExportInput struct {
	// Path defaults to the configured export path.
	Path string
}

type ExportOutput struct {
	Path        string
	GeneratedAt time.Time
}
