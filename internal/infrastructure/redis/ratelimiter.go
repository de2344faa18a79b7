package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// fixedWindowScript increments the counter and starts the window on the
// first hit. Returns {count, pttl_ms}.
var fixedWindowScript = goredis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {c, redis.call("PTTL", KEYS[1])}
`)

// FixedWindowLimiter counts hits per key in redis. The key already carries
// the scope and the client identity.
type FixedWindowLimiter struct {
	rdb *goredis.Client
	now func() time.Time
}

func NewFixedWindowLimiter(c *Client) *FixedWindowLimiter {
	return &FixedWindowLimiter{rdb: rdbOf(c), now: time.Now}
}

type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	Count      int
	RetryAfter time.Duration // 0 if allowed
	ResetAt    time.Time
}

// Allow reports whether another hit on key fits in the window. Without
// redis every hit is allowed.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Decision, error) {
	if limit <= 0 || l.rdb == nil {
		return Decision{Allowed: true, Limit: limit, Remaining: max(limit, 0)}, nil
	}
	if window < time.Millisecond {
		window = time.Minute
	}

	res, err := fixedWindowScript.Run(ctx, l.rdb, []string{key}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("ratelimit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected reply of length %d", len(res))
	}

	count := int(res[0])
	ttl := time.Duration(res[1]) * time.Millisecond
	if ttl <= 0 {
		ttl = window
	}

	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
		Count:     count,
		ResetAt:   l.now().Add(ttl),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d, nil
}
