package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/api/middleware"
	"github.com/cooleo273/ecommerce-platform/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func limiterConfig(enabled bool) *config.RateLimit {
	return &config.RateLimit{
		Enabled:     enabled,
		MaxAttempts: 5,
		WindowSize:  15 * time.Minute,
	}
}

func countingHandler(calls *int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}
}

func TestRateLimiter_DisabledPassesThrough(t *testing.T) {
	client, _ := redismock.NewClientMock()
	limiter := middleware.NewRateLimiter(client, limiterConfig(false))

	calls := 0
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	rec := httptest.NewRecorder()

	limiter.Limit("login", countingHandler(&calls))(rec, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_FailsOpenWhenRedisUnavailable(t *testing.T) {
	// No expectations registered, so every command errors.
	client, _ := redismock.NewClientMock()
	limiter := middleware.NewRateLimiter(client, limiterConfig(true))

	calls := 0
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	rec := httptest.NewRecorder()

	limiter.Limit("login", countingHandler(&calls))(rec, req)

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_BlocksAboveWindowLimit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	limiter := middleware.NewRateLimiter(client, limiterConfig(true))

	matchAny := func(expected, actual []interface{}) error { return nil }

	mock.CustomMatch(matchAny).ExpectZRemRangeByScore("ratelimit:login:192.0.2.1", "0", "0").SetVal(0)
	mock.CustomMatch(matchAny).ExpectZAdd("ratelimit:login:192.0.2.1", redis.Z{}).SetVal(1)
	mock.CustomMatch(matchAny).ExpectZCard("ratelimit:login:192.0.2.1").SetVal(6)
	mock.CustomMatch(matchAny).ExpectExpire("ratelimit:login:192.0.2.1", 15*time.Minute).SetVal(true)

	calls := 0
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	req.RemoteAddr = "192.0.2.1:52100"
	rec := httptest.NewRecorder()

	limiter.Limit("login", countingHandler(&calls))(rec, req)

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "900", rec.Header().Get("Retry-After"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
