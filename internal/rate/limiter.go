package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter implements a Redis-backed fixed-window rate limiter shared
// across every instance of the service. Used to throttle login attempts per
// email/IP so a brute-force attempt against one instance can't simply
// retry against another.
type Limiter struct {
	client *redis.Client
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow reports whether the key still has credit within the window, atomically
// incrementing its counter via a Lua script so check-and-increment never races.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	script := redis.NewScript(`
	local current
	current = redis.call('INCR', KEYS[1])
	if tonumber(current) == 1 then
	  redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	if tonumber(current) > tonumber(ARGV[1]) then
	  return 0
	end
	return tonumber(current)
	`)

	ms := window.Milliseconds()
	result, err := script.Run(ctx, l.client, []string{fmt.Sprintf("rate:%s", key)}, limit, ms).Result()
	if err != nil {
		return false, err
	}

	allowed, ok := result.(int64)
	if !ok {
		return false, nil
	}

	return allowed > 0, nil
}
