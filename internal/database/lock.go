package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const organizeLockKey = "studyhub:organize:lock"

// OrganizeLock is a redis-backed mutual-exclusion lock guarding the file
// reorganization batch: at most one run in flight per deployment. The TTL
// bounds how long a crashed run can hold the lock.
type OrganizeLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrganizeLock(rdb *redis.Client, ttl time.Duration) *OrganizeLock {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &OrganizeLock{rdb: rdb, ttl: ttl}
}

// Acquire attempts to take the lock. Returns false when another run holds it.
func (l *OrganizeLock) Acquire(ctx context.Context) (bool, error) {
	return l.rdb.SetNX(ctx, organizeLockKey, "1", l.ttl).Result()
}

// Release drops the lock.
func (l *OrganizeLock) Release(ctx context.Context) error {
	return l.rdb.Del(ctx, organizeLockKey).Err()
}
