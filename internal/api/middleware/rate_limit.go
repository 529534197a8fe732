package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/config"
	appErrors "github.com/cooleo273/ecommerce-platform/internal/errors"
	"github.com/cooleo273/ecommerce-platform/internal/utils/response"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles a route with a sliding window of attempts per
// client, tracked in a redis sorted set keyed by remote IP.
type RateLimiter struct {
	client *redis.Client
	cfg    *config.RateLimit
}

func NewRateLimiter(client *redis.Client, cfg *config.RateLimit) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

// Limit wraps a handler. When redis is unreachable the request is let
// through; losing the limiter must not take down logins.
func (l *RateLimiter) Limit(scope string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		if !l.cfg.Enabled {
			next(w, r)

			return
		}

		allowed, retryAfter, err := l.check(r, scope)
		if err != nil {
			LoggerFromContext(r.Context()).Warn("rate limiter unavailable", slog.Any("error", err))
			next(w, r)

			return
		}

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			response.Error(w, appErrors.RateLimitError("Too many attempts, please try again later"))

			return
		}

		next(w, r)
	}
}

func (l *RateLimiter) check(r *http.Request, scope string) (bool, int, error) {

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	key := fmt.Sprintf("ratelimit:%s:%s", scope, host)
	now := time.Now()
	windowStart := now.Add(-l.cfg.WindowSize).UnixMilli()

	pipe := l.client.Pipeline()
	pipe.ZRemRangeByScore(r.Context(), key, "0", strconv.FormatInt(windowStart, 10))
	pipe.ZAdd(r.Context(), key, redis.Z{Score: float64(now.UnixMilli()), Member: now.UnixNano()})
	count := pipe.ZCard(r.Context(), key)
	pipe.Expire(r.Context(), key, l.cfg.WindowSize)

	if _, err := pipe.Exec(r.Context()); err != nil {
		return false, 0, fmt.Errorf("failed to run rate limit pipeline: %w", err)
	}

	if count.Val() > int64(l.cfg.MaxAttempts) {
		return false, int(l.cfg.WindowSize.Seconds()), nil
	}

	return true, 0, nil
}
