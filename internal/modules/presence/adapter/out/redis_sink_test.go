package out

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"studylog/internal/modules/presence/domain"
)

func TestEncodeEvent(t *testing.T) {
	t.Parallel()
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	status := domain.Status{Details: "英単語", State: "累計:0時間30分(うち今月:0時間30分)", LargeImage: "image"}

	raw, err := encodeEvent(domain.CommandUpdate, &status, at)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "update", decoded["type"])
	require.Equal(t, "2024-05-01T00:00:00Z", decoded["at"])
	require.Equal(t, "英単語", decoded["status"].(map[string]any)["details"])

	raw, err = encodeEvent(domain.CommandClear, nil, at)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, "clear", decoded["type"])
	_, hasStatus := decoded["status"]
	require.False(t, hasStatus)
}

// Runs against a real server when STUDYLOG_TEST_REDIS_ADDR is set.
func TestRedisSinkLive(t *testing.T) {
	addr := os.Getenv("STUDYLOG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STUDYLOG_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key := "studylog:test:" + time.Now().Format("150405.000000")
	sink := NewRedisSink(RedisOptions{Addr: addr, Key: key, Channel: key + ":events", TTL: time.Minute})
	t.Cleanup(func() { _ = sink.Close() })
	require.NoError(t, sink.Connect(ctx))

	watcher := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = watcher.Close() })
	sub := watcher.Subscribe(ctx, key+":events")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, sink.Update(ctx, domain.Status{Details: "英単語"}))
	stored, err := watcher.Get(ctx, key).Result()
	require.NoError(t, err)
	require.Contains(t, stored, "英単語")
	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Contains(t, msg.Payload, `"type":"update"`)

	require.NoError(t, sink.Clear(ctx))
	_, err = watcher.Get(ctx, key).Result()
	require.ErrorIs(t, err, redis.Nil)
}
