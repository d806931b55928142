package dto

import "time"

// PublishInput carries freshly computed aggregates for the session that
// just started. All minute values are whole minutes.
type PublishInput struct {
	MaterialName         string
	ImageKey             string
	StartedAt            time.Time
	MaterialTotalMinutes int
	WindowLabel          string
	MaterialWindowMin    int
	OverallWindowMin     int
}

type HealthOutput struct {
	Sink      string
	Connected bool
	Pending   int
	Delivered int
	Failed    int
	LastError string
}
