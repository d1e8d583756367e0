// file: service/revocation.go

package service

import (
	"context"
	"go-collab-api/logger"
	"time"

	"github.com/redis/go-redis/v9"
)

// revocationTTL bounds how long a revoked token is remembered. It matches the
// token lifetime, so an entry only expires once the token it denies is
// already unverifiable on its own.
const revocationTTL = 24 * time.Hour

const revokedSentinel = "logout"

// RevocationCache is a time-bounded denylist of invalidated bearer tokens.
// Presence of a token here forces rejection regardless of signature validity;
// expiry is handled by the store itself, no cleanup pass needed.
type RevocationCache struct {
	cache ICacheClient
}

func NewRevocationCache(cache ICacheClient) *RevocationCache {
	return &RevocationCache{cache: cache}
}

// Revoke places the token on the denylist. Revoking an already revoked token
// just refreshes its TTL, so the call is safe to repeat.
func (c *RevocationCache) Revoke(ctx context.Context, token string) error {
	if err := c.cache.Set(ctx, token, revokedSentinel, revocationTTL).Err(); err != nil {
		logger.Log.WithError(err).Error("Failed to write token revocation entry")
		return err
	}
	return nil
}

// IsRevoked reports whether the token has been invalidated.
func (c *RevocationCache) IsRevoked(ctx context.Context, token string) (bool, error) {
	_, err := c.cache.Get(ctx, token).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		logger.Log.WithError(err).Error("Failed to check token revocation entry")
		return false, err
	}
	return true, nil
}
