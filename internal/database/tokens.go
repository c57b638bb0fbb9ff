package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBlacklistPrefix = "studyhub:token:revoked:"

// BlacklistToken marks a JWT as revoked until its natural expiry.
func BlacklistToken(ctx context.Context, rdb *redis.Client, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return rdb.Set(ctx, tokenBlacklistPrefix+token, "1", ttl).Err()
}

// IsTokenBlacklisted reports whether a JWT was revoked by logout.
func IsTokenBlacklisted(ctx context.Context, rdb *redis.Client, token string) bool {
	if rdb == nil {
		return false
	}
	n, err := rdb.Exists(ctx, tokenBlacklistPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
