package domain

import (
	"sort"
	"time"
)

const (
	DefaultRecentHours  = 24
	DefaultTrailingDays = 30
)

// RecentBoundary is the earliest start that still counts as recent.
func RecentBoundary(now time.Time, hours int) time.Time {
	if hours <= 0 {
		hours = DefaultRecentHours
	}
	return now.Add(-time.Duration(hours) * time.Hour)
}

// SplitRecent partitions items by start time: start >= boundary is recent,
// everything earlier is historical. Both halves are newest first.
func SplitRecent[T any](items []T, start func(T) time.Time, boundary time.Time) (recent, historical []T) {
	recent = []T{}
	historical = []T{}
	for _, item := range items {
		if start(item).Before(boundary) {
			historical = append(historical, item)
		} else {
			recent = append(recent, item)
		}
	}
	newestFirst := func(list []T) {
		sort.SliceStable(list, func(i, j int) bool { return start(list[i]).After(start(list[j])) })
	}
	newestFirst(recent)
	newestFirst(historical)
	return recent, historical
}
