package cache

import (
	"context"
	"time"

	"student-data-system/config"

	"github.com/redis/go-redis/v9"
)

// KeyStudentStats caches the stats aggregation; every roster mutation
// deletes it.
const KeyStudentStats = "sds:stats:student"

const loginFailPrefix = "sds:login:fail:"

// Init returns a redis client, or nil when no host is configured. All
// helpers in this package accept a nil client and degrade to no-ops, so
// redis stays optional.
func Init() *redis.Client {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// GetJSON fetches a cached value; ok is false on miss, nil client or
// redis failure.
func GetJSON(ctx context.Context, rdb *redis.Client, key string) (string, bool) {
	if rdb == nil {
		return "", false
	}
	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// SetJSON stores a value with TTL; failures are ignored, the cache is
// best effort.
func SetJSON(ctx context.Context, rdb *redis.Client, key, val string, ttl time.Duration) {
	if rdb == nil {
		return
	}
	rdb.Set(ctx, key, val, ttl)
}

// Invalidate drops a cached key after a mutation.
func Invalidate(ctx context.Context, rdb *redis.Client, key string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, key)
}

// LoginFailures bumps the failure counter for a NIS and returns the new
// count. The counter expires after window. Returns 0 with a nil client.
func LoginFailures(ctx context.Context, rdb *redis.Client, nis string, window time.Duration) int64 {
	if rdb == nil {
		return 0
	}
	key := loginFailPrefix + nis
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0
	}
	if count == 1 {
		rdb.Expire(ctx, key, window)
	}
	return count
}

// BlockedLogins reports the current failure count without bumping it.
func BlockedLogins(ctx context.Context, rdb *redis.Client, nis string) int64 {
	if rdb == nil {
		return 0
	}
	count, err := rdb.Get(ctx, loginFailPrefix+nis).Int64()
	if err != nil {
		return 0
	}
	return count
}

// ClearLoginFailures resets the counter after a successful login.
func ClearLoginFailures(ctx context.Context, rdb *redis.Client, nis string) {
	if rdb == nil {
		return
	}
	rdb.Del(ctx, loginFailPrefix+nis)
}
