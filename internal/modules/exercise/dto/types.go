package dto

import "time"

type RecordInput struct {
	ExerciseID int64
	Value      float64
	// RecordTime defaults to now.
	RecordTime *time.Time
}

type UpdateLogInput struct {
	ID         int64
	ExerciseID int64
	Value      float64
	RecordTime time.Time
}

type ListInput struct {
	Since      *time.Time
	Until      *time.Time
	ExerciseID int64
	Limit      int
}

type LogOutput struct {
	ID           int64
	ExerciseID   int64
	ExerciseName string
	CategoryID   int64
	CategoryName string
	Value        float64
	ValueType    string
	Display      string
	RecordTime   time.Time
}

type TotalsInput struct {
	Window string
	Days   int
}

type TotalOutput struct {
	ExerciseID   int64
	ExerciseName string
	CategoryName string
	ValueType    string
	Sum          float64
	Count        int
	Display      string
}

type TotalsOutput struct {
	Window string
	Label  string
	Since  *time.Time
	Totals []TotalOutput
}
