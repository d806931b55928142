package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall time so calendar windows follow the user's zone.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}
