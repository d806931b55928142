package domain

import (
	"fmt"
	"time"

	apperrors "studylog/internal/platform/errors"
)

// Session is one stretch of study on a material. A nil EndTime marks the
// open session; storage allows at most one.
type Session struct {
	ID           int64
	MaterialID   int64
	MaterialName string
	CategoryID   int64
	CategoryName string
	StartTime    time.Time
	EndTime      *time.Time
}

func (s Session) IsOpen() bool {
	return s.EndTime == nil
}

// ElapsedMinutes is the truncated length of a closed session. Open
// sessions and negative spans count as zero.
func (s Session) ElapsedMinutes() int {
	if s.EndTime == nil {
		return 0
	}
	d := s.EndTime.Sub(s.StartTime)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// RunningMinutes is the wall-clock length so far, for display only.
func (s Session) RunningMinutes(now time.Time) int {
	if s.EndTime != nil {
		return s.ElapsedMinutes()
	}
	d := now.Sub(s.StartTime)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

func (s Session) Validate() error {
	if s.MaterialID <= 0 {
		return fmt.Errorf("%w: material is required", apperrors.ErrInvalidInput)
	}
	if s.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", apperrors.ErrInvalidInput)
	}
	if s.EndTime != nil && s.EndTime.Before(s.StartTime) {
		return fmt.Errorf("%w: end time %s is before start time %s", apperrors.ErrInvalidInput,
			s.EndTime.Format(time.RFC3339), s.StartTime.Format(time.RFC3339))
	}
	return nil
}

// Filter narrows a session listing. Zero values disable a condition.
type Filter struct {
	Since      *time.Time
	Until      *time.Time
	MaterialID int64
	Ascending  bool
	Limit      int
}
