package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var fixedWindowScript = goredis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

// Limiter es una ventana fija por key respaldada en Redis, compartida entre réplicas.
type Limiter struct {
	client *goredis.Client
	prefix string
	limit  int
	window time.Duration
	now    func() time.Time
}

func New(client *goredis.Client, prefix string, limit int, window time.Duration) (*Limiter, error) {
	if client == nil {
		return nil, errors.New("rate limiter requires a redis client")
	}
	if limit <= 0 || window <= 0 {
		return nil, errors.New("rate limiter requires positive limit and window")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "pet-adoption:ratelimit"
	}
	return &Limiter{client: client, prefix: prefix, limit: limit, window: window, now: time.Now}, nil
}

// Allow devuelve false cuando la key excedió la cuota de la ventana actual.
// Los errores de Redis se devuelven; el middleware decide si falla abierto.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		key = "unknown"
	}
	windowMs := l.window.Milliseconds()
	slot := l.now().UTC().UnixMilli() / windowMs
	redisKey := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	n, err := fixedWindowScript.Run(ctx, l.client, []string{redisKey}, windowMs).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}
	return n <= int64(l.limit), nil
}

// RetryAfter es lo que falta para que cierre la ventana actual.
func (l *Limiter) RetryAfter() time.Duration {
	windowMs := l.window.Milliseconds()
	left := windowMs - l.now().UTC().UnixMilli()%windowMs
	return time.Duration(left) * time.Millisecond
}
