package out

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"studylog/internal/modules/presence/domain"
	presenceout "studylog/internal/modules/presence/port/out"
)

// RedisSink mirrors the current status into a key and announces every
// change on a pub/sub channel, so dashboards and bots can follow along.
type RedisSink struct {
	client  *redis.Client
	key     string
	channel string
	ttl     time.Duration
	now     func() time.Time
}

type RedisOptions struct {
	Addr    string
	Key     string
	Channel string
	TTL     time.Duration
}

type presenceEvent struct {
	Type   string         `json:"type"`
	Status *domain.Status `json:"status,omitempty"`
	At     time.Time      `json:"at"`
}

func NewRedisSink(opts RedisOptions) *RedisSink {
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr:         opts.Addr,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		}),
		key:     opts.Key,
		channel: opts.Channel,
		ttl:     opts.TTL,
		now:     time.Now,
	}
}

var _ presenceout.Sink = (*RedisSink)(nil)

func (s *RedisSink) Name() string {
	return "redis:" + s.client.Options().Addr
}

func (s *RedisSink) Connect(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisSink) Update(ctx context.Context, status domain.Status) error {
	payload, err := encodeEvent(domain.CommandUpdate, &status, s.now())
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key, payload, s.ttl)
	pipe.Publish(ctx, s.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis update: %w", err)
	}
	return nil
}

func (s *RedisSink) Clear(ctx context.Context) error {
	payload, err := encodeEvent(domain.CommandClear, nil, s.now())
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	pipe.Publish(ctx, s.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	return nil
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}

func encodeEvent(kind domain.CommandKind, status *domain.Status, at time.Time) ([]byte, error) {
	payload, err := json.Marshal(presenceEvent{Type: string(kind), Status: status, At: at.UTC()})
	if err != nil {
		return nil, fmt.Errorf("encode presence event: %w", err)
	}
	return payload, nil
}
