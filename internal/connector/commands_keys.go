package connector

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Keys lists the keys matching pattern.
func (c *Connector) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		return nil, c.invalid(ctx, "keys", pattern, "empty pattern")
	}

	return run(ctx, c, command{name: "keys", key: pattern}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.Keys(ctx, pattern).Result()
	})
}

// Exists counts how many of keys exist.
func (c *Connector) Exists(ctx context.Context, keys ...string) (int64, error) {
	if !nonEmpty(keys) {
		return 0, c.invalid(ctx, "exists", joinKeys(keys), "empty key")
	}

	return run(ctx, c, command{name: "exists", key: joinKeys(keys)}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.Exists(ctx, keys...).Result()
	})
}

// PTTL returns the remaining time to live of key. Redis conventions apply:
// -1 when the key has no expiry and -2 when it does not exist.
func (c *Connector) PTTL(ctx context.Context, key string) (time.Duration, error) {
	if key == "" {
		return 0, c.invalid(ctx, "pttl", key, "empty key")
	}

	return run(ctx, c, command{name: "pttl", key: key}, func(ctx context.Context, h redis.UniversalClient) (time.Duration, error) {
		return h.PTTL(ctx, key).Result()
	})
}

// Expire sets a timeout on key and reports whether the key exists.
func (c *Connector) Expire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, c.invalid(ctx, "expire", key, "empty key")
	}

	return run(ctx, c, command{name: "expire", key: key}, func(ctx context.Context, h redis.UniversalClient) (bool, error) {
		return h.Expire(ctx, key, ttl).Result()
	})
}

// Del removes keys and returns how many existed.
func (c *Connector) Del(ctx context.Context, keys ...string) (int64, error) {
	if !nonEmpty(keys) {
		return 0, c.invalid(ctx, "del", joinKeys(keys), "empty key")
	}

	return run(ctx, c, command{name: "del", key: joinKeys(keys)}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.Del(ctx, keys...).Result()
	})
}

// FlushDB removes every key of the selected database.
func (c *Connector) FlushDB(ctx context.Context) error {
	_, err := run(ctx, c, command{name: "flushDB", key: "*"}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.FlushDB(ctx).Result()
	})

	return err
}

// nonEmpty reports whether values has at least one element and none is "".
func nonEmpty(values []string) bool {
	if len(values) == 0 {
		return false
	}

	for _, v := range values {
		if v == "" {
			return false
		}
	}

	return true
}

func joinKeys(keys []string) string {
	return strings.Join(keys, ",")
}
