// Package timeparse reads user supplied timestamps. Exact layouts are tried
// first; anything else goes through natural language parsing.
package timeparse

import (
	"fmt"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

var layouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04",
	"2006-01-02",
}

// Parse interprets input relative to now. Zone-less values use now's location.
func Parse(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	if strings.EqualFold(input, "now") {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}

	cfg := &dateparser.Configuration{
		CurrentTime: now,
	}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", input, err)
	}
	return result.Time, nil
}

// ParseOptional returns nil for blank input.
func ParseOptional(input string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	t, err := Parse(input, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
