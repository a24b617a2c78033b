package httpmiddleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimitConfig configures the sliding window rate limiter.
type RateLimitConfig struct {
	// Max is the maximum number of requests allowed per window.
	Max int
	// Window is the duration of each window.
	Window time.Duration
	// KeyFunc extracts the rate limit key from a request.
	// If nil, the client IP address is used.
	KeyFunc func(*http.Request) string
}

// RateLimiter counts requests per key in Redis so every API replica shares
// the same budget. Counts are kept per fixed window; the previous window is
// weighted by how much of it still overlaps the sliding window.
type RateLimiter struct {
	client redis.Cmdable
	cfg    RateLimitConfig
	now    func() time.Time
}

// NewRateLimiter returns a RateLimiter storing counters through client.
func NewRateLimiter(client redis.Cmdable, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	return &RateLimiter{client: client, cfg: cfg, now: time.Now}
}

// Allow counts one request for key and reports whether it is within the limit.
// Rejected requests are counted too, so a client hammering the API stays
// limited until it slows down.
func (l *RateLimiter) Allow(ctx context.Context, key string) (remaining int, resetAt time.Time, allowed bool, err error) {
	now := l.now()
	currStart := now.Truncate(l.cfg.Window)
	prevStart := currStart.Add(-l.cfg.Window)
	resetAt = currStart.Add(l.cfg.Window)

	currKey := l.windowKey(key, currStart)
	var (
		incr *redis.IntCmd
		prev *redis.StringCmd
	)
	_, err = l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, currKey)
		p.Expire(ctx, currKey, 2*l.cfg.Window)
		prev = p.Get(ctx, l.windowKey(key, prevStart))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, resetAt, true, errors.Wrap(err, "count request")
	}

	prevCount, err := prev.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, resetAt, true, errors.Wrap(err, "read previous window")
	}

	overlap := 1 - now.Sub(currStart).Seconds()/l.cfg.Window.Seconds()
	effective := float64(prevCount)*overlap + float64(incr.Val())
	if effective > float64(l.cfg.Max) {
		return 0, resetAt, false, nil
	}
	return max(int(float64(l.cfg.Max)-effective), 0), resetAt, true, nil
}

func (l *RateLimiter) windowKey(key string, start time.Time) string {
	return rateLimitKeyPrefix + key + ":" + strconv.FormatInt(start.Unix(), 10)
}

// Middleware enforces the limit. Over-limit requests get 429 with a JSON
// body and Retry-After; every response carries the X-RateLimit-* headers.
// When Redis is unavailable requests are let through and the failure logged.
func (l *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, allowed, err := l.Allow(r.Context(), l.cfg.KeyFunc(r))
			if err != nil {
				zctx.From(r.Context()).Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !allowed {
				retryAfter := max(resetAt.Sub(l.now()), 0)
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))

				var e jx.Encoder
				e.ObjStart()
				e.FieldStart("code")
				e.Int(http.StatusTooManyRequests)
				e.FieldStart("message")
				e.Str("rate limit exceeded")
				e.ObjEnd()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write(e.Bytes())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the client IP from the request, checking
// X-Forwarded-For first, then X-Real-IP, then falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
