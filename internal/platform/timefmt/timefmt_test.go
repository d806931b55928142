package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	t.Parallel()
	cases := map[int]string{
		0:   "0時間0分",
		59:  "0時間59分",
		60:  "1時間0分",
		125: "2時間5分",
		-10: "0時間0分",
	}
	for minutes, want := range cases {
		assert.Equal(t, want, Duration(minutes), "minutes=%d", minutes)
	}
}

func TestSessionDurationOpen(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "進行中", SessionDuration(300, true))
	assert.Equal(t, "5時間0分", SessionDuration(300, false))
}

func TestTimestamps(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 3, 9, 8, 5, 0, 0, time.Local)
	assert.Equal(t, "2024年03月09日 08時05分", Start(at))
	assert.Equal(t, "08時05分", End(&at))
	assert.Equal(t, "未終了", End(nil))
	assert.Equal(t, "2024-03-09T08:05", InputValue(at))
	assert.Equal(t, "", InputValuePtr(nil))
}
