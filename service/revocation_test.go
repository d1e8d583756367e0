// file: service/revocation_test.go

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCacheClient struct{ mock.Mock }

func (m *mockCacheClient) Get(ctx context.Context, key string) *redis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*redis.StringCmd)
}
func (m *mockCacheClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}
func (m *mockCacheClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func TestRevocationCache_Revoke(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the sentinel with a 24h TTL", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		mockCache.On("Set", ctx, "some.jwt.token", revokedSentinel, 24*time.Hour).
			Return(redis.NewStatusResult("OK", nil)).Once()

		cache := NewRevocationCache(mockCache)
		err := cache.Revoke(ctx, "some.jwt.token")

		assert.NoError(t, err)
		mockCache.AssertExpectations(t)
	})

	t.Run("is idempotent", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		mockCache.On("Set", ctx, "some.jwt.token", revokedSentinel, 24*time.Hour).
			Return(redis.NewStatusResult("OK", nil)).Twice()

		cache := NewRevocationCache(mockCache)
		assert.NoError(t, cache.Revoke(ctx, "some.jwt.token"))
		assert.NoError(t, cache.Revoke(ctx, "some.jwt.token"))
		mockCache.AssertExpectations(t)
	})

	t.Run("surfaces store errors", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		storeErr := errors.New("redis down")
		mockCache.On("Set", ctx, "some.jwt.token", revokedSentinel, 24*time.Hour).
			Return(redis.NewStatusResult("", storeErr)).Once()

		cache := NewRevocationCache(mockCache)
		assert.ErrorIs(t, cache.Revoke(ctx, "some.jwt.token"), storeErr)
	})
}

func TestRevocationCache_IsRevoked(t *testing.T) {
	ctx := context.Background()

	t.Run("present token is revoked", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		mockCache.On("Get", ctx, "revoked.jwt").
			Return(redis.NewStringResult(revokedSentinel, nil)).Once()

		cache := NewRevocationCache(mockCache)
		revoked, err := cache.IsRevoked(ctx, "revoked.jwt")

		assert.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("absent token is not revoked", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		mockCache.On("Get", ctx, "live.jwt").
			Return(redis.NewStringResult("", redis.Nil)).Once()

		cache := NewRevocationCache(mockCache)
		revoked, err := cache.IsRevoked(ctx, "live.jwt")

		assert.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("store errors are surfaced, not treated as revoked", func(t *testing.T) {
		mockCache := new(mockCacheClient)
		storeErr := errors.New("redis down")
		mockCache.On("Get", ctx, "live.jwt").
			Return(redis.NewStringResult("", storeErr)).Once()

		cache := NewRevocationCache(mockCache)
		revoked, err := cache.IsRevoked(ctx, "live.jwt")

		assert.ErrorIs(t, err, storeErr)
		assert.False(t, revoked)
	})
}
