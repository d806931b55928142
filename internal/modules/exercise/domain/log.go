package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	apperrors "studylog/internal/platform/errors"
	"studylog/internal/platform/timefmt"
)

type ValueType string

const (
	ValueCount    ValueType = "count"
	ValueDuration ValueType = "duration"
)

func (v ValueType) Validate() error {
	switch v {
	case ValueCount, ValueDuration:
		return nil
	default:
		return fmt.Errorf("%w: unsupported value type %q", apperrors.ErrInvalidInput, v)
	}
}

// Log is one point-in-time exercise record. Duration values are minutes.
type Log struct {
	ID           int64
	ExerciseID   int64
	ExerciseName string
	CategoryID   int64
	CategoryName string
	Value        float64
	ValueType    ValueType
	RecordTime   time.Time
}

func (l Log) Validate() error {
	if l.ExerciseID <= 0 {
		return fmt.Errorf("%w: exercise is required", apperrors.ErrInvalidInput)
	}
	if math.IsNaN(l.Value) || math.IsInf(l.Value, 0) || l.Value < 0 {
		return fmt.Errorf("%w: value must be a non-negative number", apperrors.ErrInvalidInput)
	}
	if l.RecordTime.IsZero() {
		return fmt.Errorf("%w: record time is required", apperrors.ErrInvalidInput)
	}
	return l.ValueType.Validate()
}

type Filter struct {
	Since      *time.Time
	Until      *time.Time
	ExerciseID int64
	Limit      int
}

// FormatValue renders a value in the unit of its type.
func FormatValue(value float64, valueType ValueType) string {
	if valueType == ValueDuration {
		return timefmt.Duration(int(value))
	}
	return strconv.FormatFloat(value, 'f', -1, 64) + "回"
}

type Total struct {
	ExerciseID   int64
	ExerciseName string
	CategoryName string
	ValueType    ValueType
	Sum          float64
	Count        int
}

// Summarize sums values per exercise, ordered by category then name.
func Summarize(logs []Log) []Total {
	index := map[int64]int{}
	out := []Total{}
	for _, l := range logs {
		i, ok := index[l.ExerciseID]
		if !ok {
			i = len(out)
			index[l.ExerciseID] = i
			out = append(out, Total{
				ExerciseID:   l.ExerciseID,
				ExerciseName: l.ExerciseName,
				CategoryName: l.CategoryName,
				ValueType:    l.ValueType,
			})
		}
		out[i].Sum += l.Value
		out[i].Count++
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CategoryName != out[b].CategoryName {
			return out[a].CategoryName < out[b].CategoryName
		}
		return out[a].ExerciseName < out[b].ExerciseName
	})
	return out
}
