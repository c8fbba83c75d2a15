package ratelimit

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const allowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLimiter caps visitor messages per key inside a fixed window. It fails
// open when Redis is unavailable.
type RedisLimiter struct {
	client  redisEvaler
	window  time.Duration
	max     int
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewRedisLimiter returns nil when client is nil so callers can skip limiting.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int, logger *zap.Logger) *RedisLimiter {
	if client == nil {
		return nil
	}
	return newRedisLimiter(client, window, max, logger)
}

func newRedisLimiter(client redisEvaler, window time.Duration, max int, logger *zap.Logger) *RedisLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLimiter{
		client:  client,
		window:  window,
		max:     max,
		prefix:  "chat:rl:",
		timeout: 500 * time.Millisecond,
		logger:  logger,
	}
}

// Allow reports whether key may send another message.
func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(key))
	if normalized == "" {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, allowScript, []string{l.prefix + normalized}, seconds).Int()
	if err != nil {
		l.logger.Warn("rate limiter unavailable, allowing", zap.String("key", normalized), zap.Error(err))
		return true
	}
	return count <= l.max
}
