package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

type mockRedisEvaler struct {
	lastScript string
	lastKeys   []string
	lastArgs   []interface{}
	result     int64
	err        error
}

func (m *mockRedisEvaler) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	m.lastScript = script
	m.lastKeys = keys
	m.lastArgs = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func TestRedisLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("nil receiver fail-open", func(t *testing.T) {
		var l *RedisLimiter
		if !l.Allow(ctx, "session") {
			t.Fatalf("expected fail-open for nil limiter")
		}
	})

	t.Run("nil client yields nil limiter", func(t *testing.T) {
		if NewRedisLimiter(nil, time.Minute, 3, nil) != nil {
			t.Fatalf("expected nil limiter without client")
		}
	})

	t.Run("empty key rejected", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{result: 1}, time.Minute, 3, nil)
		if l.Allow(ctx, "   ") {
			t.Fatalf("expected empty key to be rejected")
		}
	})

	t.Run("allow when count within max", func(t *testing.T) {
		mock := &mockRedisEvaler{result: 2}
		l := newRedisLimiter(mock, 2*time.Minute, 3, nil)
		if !l.Allow(ctx, " Session-ABC ") {
			t.Fatalf("expected allow when count <= max")
		}
		if len(mock.lastKeys) != 1 || mock.lastKeys[0] != "chat:rl:session-abc" {
			t.Fatalf("unexpected key normalization, got %+v", mock.lastKeys)
		}
		if len(mock.lastArgs) != 1 || mock.lastArgs[0] != 120 {
			t.Fatalf("expected TTL seconds=120, got %+v", mock.lastArgs)
		}
		if mock.lastScript != allowScript {
			t.Fatalf("expected script to match")
		}
	})

	t.Run("deny when count exceeds max", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{result: 4}, time.Minute, 3, nil)
		if l.Allow(ctx, "session") {
			t.Fatalf("expected deny when count > max")
		}
	})

	t.Run("redis error fail-open", func(t *testing.T) {
		l := newRedisLimiter(&mockRedisEvaler{err: errors.New("redis down")}, time.Minute, 3, nil)
		if !l.Allow(ctx, "session") {
			t.Fatalf("expected fail-open on redis errors")
		}
	})
}
