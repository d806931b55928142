package timeparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExactLayouts(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := Parse("2024-05-30T09:15", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 30, 9, 15, 0, 0, time.UTC), got)

	got, err = Parse("2024-05-30 21:00", now)
	require.NoError(t, err)
	assert.Equal(t, 21, got.Hour())

	got, err = Parse("2024-05-30T09:15:00+09:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 30, 0, 15, 0, 0, time.UTC), got.UTC())

	got, err = Parse("now", now)
	require.NoError(t, err)
	assert.Equal(t, now, got)
}

func TestParseOptional(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := ParseOptional("  ", now)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseOptional("2024-06-01T10:00", now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.Hour())
}

func TestParseRejectsEmpty(t *testing.T) {
	t.Parallel()
	_, err := Parse("", time.Now())
	assert.Error(t, err)
}
