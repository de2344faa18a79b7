package middleware

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/httprate"

	"github.com/baechuer/france-explorer/internal/domain"
	"github.com/baechuer/france-explorer/internal/infrastructure/redis"
	"github.com/baechuer/france-explorer/internal/logger"
)

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (redis.Decision, error)
}

// FixedWindowConfig defines one rate-limited scope.
type FixedWindowConfig struct {
	Scope  string
	Limit  int
	Window time.Duration
}

// RateLimitFixedWindow counts hits per client IP in redis. When no limiter
// is configured, or redis fails, the request goes through an in-process
// limiter with the same budget instead.
func RateLimitFixedWindow(limiter RateLimiter, cfg FixedWindowConfig, writeErr WriteErrFunc) func(http.Handler) http.Handler {
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	if cfg.Scope == "" {
		cfg.Scope = "default"
	}

	local := httprate.Limit(
		cfg.Limit,
		cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			writeErr(w, r, domain.ErrRateLimited(cfg.Scope))
		}),
	)

	return func(next http.Handler) http.Handler {
		fallback := local(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			if limiter == nil {
				fallback.ServeHTTP(w, r)
				return
			}

			bucket := windowBucket(time.Now(), cfg.Window)
			key := fmt.Sprintf("rl:%s:ip:%s:%d", cfg.Scope, clientIP(r), bucket)

			dec, err := limiter.Allow(r.Context(), key, cfg.Limit, cfg.Window)
			if err != nil {
				logger.WithCtx(r.Context()).Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable, using local limiter")
				fallback.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(dec.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(dec.Remaining))

			if !dec.Allowed {
				if dec.RetryAfter > 0 {
					secs := int((dec.RetryAfter + time.Second - 1) / time.Second)
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				writeErr(w, r, domain.ErrRateLimited(cfg.Scope))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func windowBucket(now time.Time, window time.Duration) int64 {
	sec := int64(window.Seconds())
	if sec <= 0 {
		sec = 60
	}
	return now.Unix() / sec
}

// clientIP reads RemoteAddr; proxies are resolved upstream by chi's RealIP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
