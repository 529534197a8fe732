package cache_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/cooleo273/ecommerce-platform/internal/cache"
	"github.com/cooleo273/ecommerce-platform/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProduct struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

func setupCacheTest(t *testing.T) (cache.Cache, redismock.ClientMock) {
	t.Helper()

	client, mock := redismock.NewClientMock()

	c := cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: 5 * time.Minute})

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	return c, mock
}

func TestGet_HitUnmarshalsValue(t *testing.T) {
	c, mock := setupCacheTest(t)

	stored, err := json.Marshal(cachedProduct{Name: "Keyboard", Price: 49.99})
	require.NoError(t, err)

	mock.ExpectGet("product:abc").SetVal(string(stored))

	var got cachedProduct
	found, err := c.Get(context.Background(), "product:abc", &got)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Keyboard", got.Name)
	assert.InDelta(t, 49.99, got.Price, 0.001)
}

func TestGet_MissIsNotAnError(t *testing.T) {
	c, mock := setupCacheTest(t)

	mock.ExpectGet("product:missing").RedisNil()

	var got cachedProduct
	found, err := c.Get(context.Background(), "product:missing", &got)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestGet_CorruptPayloadReturnsError(t *testing.T) {
	c, mock := setupCacheTest(t)

	mock.ExpectGet("product:abc").SetVal("not-json")

	var got cachedProduct
	found, err := c.Get(context.Background(), "product:abc", &got)

	require.Error(t, err)
	assert.False(t, found)
}

func TestSet_UsesProvidedTTL(t *testing.T) {
	c, mock := setupCacheTest(t)

	value := cachedProduct{Name: "Mouse", Price: 19.99}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectSet("product:abc", data, time.Minute).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "product:abc", value, time.Minute))
}

func TestSet_ZeroTTLFallsBackToDefault(t *testing.T) {
	c, mock := setupCacheTest(t)

	value := cachedProduct{Name: "Mouse", Price: 19.99}
	data, err := json.Marshal(value)
	require.NoError(t, err)

	mock.ExpectSet("product:abc", data, 5*time.Minute).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), "product:abc", value, 0))
}

func TestDelete(t *testing.T) {
	c, mock := setupCacheTest(t)

	mock.ExpectDel("product:abc").SetVal(1)

	require.NoError(t, c.Delete(context.Background(), "product:abc"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "product:123", cache.Key("product", "123"))
}
