package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "studylog/internal/platform/errors"
)

func TestKindClassifiesWrappedErrors(t *testing.T) {
	t.Parallel()
	cases := map[error]apperrors.ErrorKind{
		fmt.Errorf("start: %w", apperrors.ErrActiveSessionExists): apperrors.KindConflict,
		fmt.Errorf("stop: %w", apperrors.ErrNoActiveSession):      apperrors.KindNotFound,
		fmt.Errorf("delete: %w", apperrors.ErrDependency):         apperrors.KindDependency,
		fmt.Errorf("name: %w", apperrors.ErrInvalidInput):         apperrors.KindInvalid,
		errors.New("disk full"):                                   apperrors.KindInternal,
	}
	for err, want := range cases {
		assert.Equal(t, want, apperrors.Kind(err), err.Error())
	}
	assert.Equal(t, apperrors.ErrorKind(""), apperrors.Kind(nil))
}

func TestRecoverable(t *testing.T) {
	t.Parallel()
	assert.True(t, apperrors.Recoverable(apperrors.ErrDependency))
	assert.False(t, apperrors.Recoverable(errors.New("boom")))
	assert.False(t, apperrors.Recoverable(nil))
}

func TestMessage(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "進行中のセッションが既に存在します。", apperrors.Message(fmt.Errorf("start: %w", apperrors.ErrActiveSessionExists)))
	assert.Equal(t, "進行中のセッションがありません。", apperrors.Message(apperrors.ErrNoActiveSession))
	assert.Equal(t, "boom", apperrors.Message(errors.New("boom")))
	assert.Empty(t, apperrors.Message(nil))
}
