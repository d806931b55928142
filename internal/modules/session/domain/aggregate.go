package domain

import (
	"sort"
	"time"

	"studylog/internal/platform/period"
)

// InWindow keeps the sessions whose start falls inside w.
func InWindow(sessions []Session, w period.Window, now time.Time) []Session {
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if w.Contains(s.StartTime, now) {
			out = append(out, s)
		}
	}
	return out
}

// TotalMinutes sums closed sessions. Each session is truncated to whole
// minutes before summing; open sessions add nothing.
func TotalMinutes(sessions []Session) int {
	total := 0
	for _, s := range sessions {
		total += s.ElapsedMinutes()
	}
	return total
}

type Rollup struct {
	ID      int64
	Name    string
	Minutes int
}

func RollupByMaterial(sessions []Session) []Rollup {
	return rollup(sessions, func(s Session) (int64, string) { return s.MaterialID, s.MaterialName })
}

func RollupByCategory(sessions []Session) []Rollup {
	return rollup(sessions, func(s Session) (int64, string) { return s.CategoryID, s.CategoryName })
}

// rollup groups closed sessions, largest total first.
func rollup(sessions []Session, key func(Session) (int64, string)) []Rollup {
	index := map[int64]int{}
	out := []Rollup{}
	for _, s := range sessions {
		if s.IsOpen() {
			continue
		}
		id, name := key(s)
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, Rollup{ID: id, Name: name})
		}
		out[i].Minutes += s.ElapsedMinutes()
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Minutes != out[b].Minutes {
			return out[a].Minutes > out[b].Minutes
		}
		return out[a].Name < out[b].Name
	})
	return out
}

func MinutesFor(rollups []Rollup, id int64) int {
	for _, r := range rollups {
		if r.ID == id {
			return r.Minutes
		}
	}
	return 0
}

type Totals struct {
	Window     period.Window
	Since      *time.Time
	Minutes    int
	ByMaterial []Rollup
	ByCategory []Rollup
}

// Summarize aggregates the sessions that fall inside w.
func Summarize(sessions []Session, w period.Window, now time.Time) Totals {
	in := InWindow(sessions, w, now)
	totals := Totals{
		Window:     w,
		Minutes:    TotalMinutes(in),
		ByMaterial: RollupByMaterial(in),
		ByCategory: RollupByCategory(in),
	}
	totals.Since = w.SincePtr(now)
	return totals
}

func SortByStartDesc(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].ID > sessions[j].ID
		}
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
}
