package domain

import (
	"fmt"
	"strings"
	"time"

	"studylog/internal/platform/timefmt"
)

const DefaultImageKey = "image"

// Status is what the external observer shows for the active session.
type Status struct {
	Details    string    `json:"details"`
	State      string    `json:"state"`
	LargeImage string    `json:"large_image"`
	LargeText  string    `json:"large_text"`
	StartedAt  time.Time `json:"started_at"`
}

func (s Status) StartEpoch() int64 {
	return s.StartedAt.Unix()
}

// Figures are the aggregates a status is rendered from.
type Figures struct {
	MaterialName    string
	ImageKey        string
	StartedAt       time.Time
	MaterialTotal   int
	WindowLabel     string
	MaterialWindow  int
	OverallWindow   int
	DefaultImageKey string
}

// BuildStatus renders figures into the broadcast payload:
// state "累計:<total>(うち<label>:<window>)" and large text "<label>の総計:<overall>".
func BuildStatus(f Figures) Status {
	label := strings.TrimSpace(f.WindowLabel)
	if label == "" {
		label = "今月"
	}
	image := strings.TrimSpace(f.ImageKey)
	if image == "" {
		image = strings.TrimSpace(f.DefaultImageKey)
	}
	if image == "" {
		image = DefaultImageKey
	}
	return Status{
		Details:    f.MaterialName,
		State:      fmt.Sprintf("累計:%s(うち%s:%s)", timefmt.Duration(f.MaterialTotal), label, timefmt.Duration(f.MaterialWindow)),
		LargeImage: image,
		LargeText:  fmt.Sprintf("%sの総計:%s", label, timefmt.Duration(f.OverallWindow)),
		StartedAt:  f.StartedAt,
	}
}

type CommandKind string

const (
	CommandUpdate CommandKind = "update"
	CommandClear  CommandKind = "clear"
)

// Command is one queued delivery to the sink.
type Command struct {
	Kind   CommandKind
	Status Status
}
