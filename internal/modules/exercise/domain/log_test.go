package domain

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "studylog/internal/platform/errors"
)

func TestLogValidate(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	valid := Log{ExerciseID: 1, Value: 20, ValueType: ValueCount, RecordTime: at}
	assert.NoError(t, valid.Validate())

	cases := map[string]Log{
		"missing exercise": {Value: 1, ValueType: ValueCount, RecordTime: at},
		"negative value":   {ExerciseID: 1, Value: -1, ValueType: ValueCount, RecordTime: at},
		"nan value":        {ExerciseID: 1, Value: math.NaN(), ValueType: ValueCount, RecordTime: at},
		"zero time":        {ExerciseID: 1, Value: 1, ValueType: ValueCount},
		"bad type":         {ExerciseID: 1, Value: 1, ValueType: "weight", RecordTime: at},
	}
	for name, log := range cases {
		err := log.Validate()
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	logs := []Log{
		{ExerciseID: 2, ExerciseName: "ランニング", CategoryName: "有酸素", Value: 30, ValueType: ValueDuration},
		{ExerciseID: 1, ExerciseName: "腕立て", CategoryName: "筋トレ", Value: 20, ValueType: ValueCount},
		{ExerciseID: 1, ExerciseName: "腕立て", CategoryName: "筋トレ", Value: 15, ValueType: ValueCount},
		{ExerciseID: 2, ExerciseName: "ランニング", CategoryName: "有酸素", Value: 45, ValueType: ValueDuration},
	}
	totals := Summarize(logs)
	assert.Len(t, totals, 2)
	assert.Equal(t, "ランニング", totals[0].ExerciseName)
	assert.Equal(t, 75.0, totals[0].Sum)
	assert.Equal(t, 2, totals[0].Count)
	assert.Equal(t, 35.0, totals[1].Sum)
	assert.Empty(t, Summarize(nil))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "1時間15分", FormatValue(75, ValueDuration))
	assert.Equal(t, "20回", FormatValue(20, ValueCount))
	assert.Equal(t, "2.5回", FormatValue(2.5, ValueCount))
}
