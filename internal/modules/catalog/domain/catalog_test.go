package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studylog/internal/platform/errors"
)

func TestNormalizeName(t *testing.T) {
	t.Parallel()
	got, err := NormalizeName("  数学  ")
	require.NoError(t, err)
	assert.Equal(t, "数学", got)

	_, err = NormalizeName(" \t ")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestItemValidate(t *testing.T) {
	t.Parallel()
	material := Item{Kind: KindStudy, Name: "英単語", CategoryID: 1}
	require.NoError(t, material.Validate())

	exercise := Item{Kind: KindExercise, Name: "腕立て", CategoryID: 1}
	assert.ErrorIs(t, exercise.Validate(), apperrors.ErrInvalidInput)

	exercise.ValueType = ValueCount
	require.NoError(t, exercise.Validate())

	orphan := Item{Kind: KindStudy, Name: "x"}
	assert.ErrorIs(t, orphan.Validate(), apperrors.ErrInvalidInput)
}

func TestKindNouns(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "material", KindStudy.ItemNoun())
	assert.Equal(t, "exercise log", KindExercise.RecordNoun())
	assert.Error(t, Kind("other").Validate())
}
