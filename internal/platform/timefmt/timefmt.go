// Package timefmt renders durations and timestamps for display. The helpers
// carry no business rules; callers pass already-computed values.
package timefmt

import (
	"fmt"
	"time"
)

const (
	startLayout = "2006年01月02日 15時04分"
	endLayout   = "15時04分"
	inputLayout = "2006-01-02T15:04"

	// InProgress is shown in place of a duration while a session is open.
	InProgress = "進行中"
	// NotEnded is shown in place of an end time while a session is open.
	NotEnded = "未終了"
)

// Duration renders whole minutes as "H時間M分". Negative input renders as zero.
func Duration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d時間%d分", minutes/60, minutes%60)
}

// SessionDuration renders the elapsed minutes of a session, or InProgress when it is open.
func SessionDuration(minutes int, open bool) string {
	if open {
		return InProgress
	}
	return Duration(minutes)
}

func Start(t time.Time) string {
	return t.Local().Format(startLayout)
}

func End(t *time.Time) string {
	if t == nil {
		return NotEnded
	}
	return t.Local().Format(endLayout)
}

// InputValue formats t for a datetime-local style input field.
func InputValue(t time.Time) string {
	return t.Local().Format(inputLayout)
}

func InputValuePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return InputValue(*t)
}
