package out

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studylog/internal/modules/presence/domain"
	presenceout "studylog/internal/modules/presence/port/out"
)

// FanOut sends every call to all sinks and joins their errors.
type FanOut struct {
	sinks []presenceout.Sink
}

func NewFanOut(sinks ...presenceout.Sink) *FanOut {
	return &FanOut{sinks: sinks}
}

var _ presenceout.Sink = (*FanOut)(nil)

func (f *FanOut) Name() string {
	names := make([]string, 0, len(f.sinks))
	for _, sink := range f.sinks {
		names = append(names, sink.Name())
	}
	return "fanout(" + strings.Join(names, ",") + ")"
}

func (f *FanOut) Connect(ctx context.Context) error {
	return f.each(func(sink presenceout.Sink) error { return sink.Connect(ctx) })
}

func (f *FanOut) Update(ctx context.Context, status domain.Status) error {
	return f.each(func(sink presenceout.Sink) error { return sink.Update(ctx, status) })
}

func (f *FanOut) Clear(ctx context.Context) error {
	return f.each(func(sink presenceout.Sink) error { return sink.Clear(ctx) })
}

func (f *FanOut) Close() error {
	return f.each(func(sink presenceout.Sink) error { return sink.Close() })
}

func (f *FanOut) each(call func(presenceout.Sink) error) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := call(sink); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// NoopSink accepts everything. Used when presence is disabled.
type NoopSink struct{}

var _ presenceout.Sink = NoopSink{}

func (NoopSink) Name() string                                { return "noop" }
func (NoopSink) Connect(context.Context) error               { return nil }
func (NoopSink) Update(context.Context, domain.Status) error { return nil }
func (NoopSink) Clear(context.Context) error                 { return nil }
func (NoopSink) Close() error                                { return nil }
