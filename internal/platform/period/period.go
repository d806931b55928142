package period

import (
	"fmt"
	"time"

	apperrors "studylog/internal/platform/errors"
)

type Kind string

const (
	All      Kind = "all"
	Month    Kind = "month"
	Trailing Kind = "trailing"

	DefaultTrailingDays = 30
)

// Window selects records by their start (or record) time before aggregation.
type Window struct {
	Kind Kind
	Days int
}

func AllTime() Window { return Window{Kind: All} }

func CurrentMonth() Window { return Window{Kind: Month} }

func TrailingDays(days int) Window {
	if days <= 0 {
		days = DefaultTrailingDays
	}
	return Window{Kind: Trailing, Days: days}
}

func Parse(kind string, days int) (Window, error) {
	switch Kind(kind) {
	case "", All:
		return AllTime(), nil
	case Month:
		return CurrentMonth(), nil
	case Trailing:
		return TrailingDays(days), nil
	default:
		return Window{}, fmt.Errorf("%w: unsupported window %q", apperrors.ErrInvalidInput, kind)
	}
}

// Since returns the inclusive lower bound. The second result is false for
// the all-time window.
func (w Window) Since(now time.Time) (time.Time, bool) {
	switch w.Kind {
	case Month:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), true
	case Trailing:
		return now.AddDate(0, 0, -w.days()), true
	default:
		return time.Time{}, false
	}
}

// SincePtr is Since for filters that take an optional bound.
func (w Window) SincePtr(now time.Time) *time.Time {
	since, ok := w.Since(now)
	if !ok {
		return nil
	}
	return &since
}

func (w Window) Contains(t, now time.Time) bool {
	since, bounded := w.Since(now)
	return !bounded || !t.Before(since)
}

func (w Window) Label() string {
	switch w.Kind {
	case Month:
		return "今月"
	case Trailing:
		return fmt.Sprintf("直近%d日", w.days())
	default:
		return "全期間"
	}
}

func (w Window) days() int {
	if w.Days <= 0 {
		return DefaultTrailingDays
	}
	return w.Days
}
