package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"studylog/internal/modules/presence/domain"
	presenceout "studylog/internal/modules/presence/port/out"
)

const (
	defaultTimeout   = 3 * time.Second
	defaultAttempts  = 3
	initialBackoff   = 500 * time.Millisecond
	maxBackoff       = 15 * time.Second
	defaultQueueSize = 16
)

var ErrPublisherClosed = errors.New("presence publisher closed")

type Options struct {
	Timeout        time.Duration
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	QueueSize      int
	Logger         *slog.Logger
}

type Health struct {
	Sink      string
	Connected bool
	Pending   int
	Delivered int
	Failed    int
	LastError string
}

// Publisher delivers commands to the sink from a single worker goroutine,
// in enqueue order. Callers never wait on the sink.
type Publisher struct {
	sink   presenceout.Sink
	opts   Options
	logger *slog.Logger

	queue chan domain.Command
	done  chan struct{}
	abort chan struct{}

	mu        sync.Mutex
	closed    bool
	connected bool
	delivered int
	failed    int
	lastErr   string
}

func NewPublisher(sink presenceout.Sink, opts Options) *Publisher {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Attempts < 1 {
		opts.Attempts = defaultAttempts
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = initialBackoff
	}
	if opts.MaxBackoff < opts.InitialBackoff {
		opts.MaxBackoff = maxBackoff
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &Publisher{
		sink:   sink,
		opts:   opts,
		logger: opts.Logger.With("sink", sink.Name()),
		queue:  make(chan domain.Command, opts.QueueSize),
		done:   make(chan struct{}),
		abort:  make(chan struct{}),
	}
	go p.run()
	return p
}

// Connect dials the sink once up front. A failure is logged and retried on
// the next delivery.
func (p *Publisher) Connect(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.Timeout)
	defer cancel()
	if err := p.sink.Connect(callCtx); err != nil {
		p.recordError(err)
		p.logger.Warn("presence connect failed", "error", err)
		return fmt.Errorf("connect %s: %w", p.sink.Name(), err)
	}
	p.mu.Lock()
	p.connected = true
	p.mu.Unlock()
	return nil
}

// Enqueue hands cmd to the worker. When the queue is full the oldest
// pending command is dropped, since later commands supersede it.
func (p *Publisher) Enqueue(cmd domain.Command) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.queue <- cmd:
		return nil
	default:
	}
	select {
	case dropped := <-p.queue:
		p.logger.Warn("presence queue full, dropping oldest", "kind", dropped.Kind)
	default:
	}
	select {
	case p.queue <- cmd:
	default:
		p.logger.Warn("presence queue full, dropping command", "kind", cmd.Kind)
	}
	return nil
}

// Close stops accepting commands and waits for pending ones until ctx
// ends, then releases the sink.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	select {
	case <-p.done:
	case <-ctx.Done():
		close(p.abort)
		<-p.done
	}
	return p.sink.Close()
}

func (p *Publisher) Health() Health {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Health{
		Sink:      p.sink.Name(),
		Connected: p.connected,
		Pending:   len(p.queue),
		Delivered: p.delivered,
		Failed:    p.failed,
		LastError: p.lastErr,
	}
}

func (p *Publisher) run() {
	defer close(p.done)
	for cmd := range p.queue {
		if p.aborted() {
			p.recordFailure(cmd, ErrPublisherClosed)
			continue
		}
		p.deliver(cmd)
	}
}

func (p *Publisher) deliver(cmd domain.Command) {
	backoff := p.opts.InitialBackoff
	for attempt := 1; ; attempt++ {
		err := p.send(cmd)
		if err == nil {
			p.mu.Lock()
			p.delivered++
			p.mu.Unlock()
			return
		}
		p.logger.Warn("presence delivery failed", "kind", cmd.Kind, "attempt", attempt, "error", err)
		if attempt >= p.opts.Attempts {
			p.recordFailure(cmd, err)
			return
		}
		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-p.abort:
			timer.Stop()
			p.recordFailure(cmd, err)
			return
		}
		backoff *= 2
		if backoff > p.opts.MaxBackoff {
			backoff = p.opts.MaxBackoff
		}
	}
}

func (p *Publisher) send(cmd domain.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	p.mu.Lock()
	connected := p.connected
	p.mu.Unlock()
	if !connected {
		if err := p.sink.Connect(ctx); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		p.mu.Lock()
		p.connected = true
		p.mu.Unlock()
	}

	var err error
	switch cmd.Kind {
	case domain.CommandUpdate:
		err = p.sink.Update(ctx, cmd.Status)
	case domain.CommandClear:
		err = p.sink.Clear(ctx)
	default:
		return fmt.Errorf("unknown presence command %q", cmd.Kind)
	}
	if err != nil {
		p.mu.Lock()
		p.connected = false
		p.mu.Unlock()
	}
	return err
}

func (p *Publisher) aborted() bool {
	select {
	case <-p.abort:
		return true
	default:
		return false
	}
}

func (p *Publisher) recordFailure(cmd domain.Command, err error) {
	p.mu.Lock()
	p.failed++
	p.lastErr = err.Error()
	p.mu.Unlock()
	p.logger.Error("presence command dropped", "kind", cmd.Kind, "error", err)
}

func (p *Publisher) recordError(err error) {
	p.mu.Lock()
	p.lastErr = err.Error()
	p.mu.Unlock()
}
