package connector

import (
	"context"
	"time"

	"github.com/gabapcia/redisproxy/internal/pkg/types"

	redis "github.com/redis/go-redis/v9"
)

// LPush prepends values to the list at key and returns its new length.
func (c *Connector) LPush(ctx context.Context, key string, values ...any) (int64, error) {
	if key == "" || len(values) == 0 {
		return 0, c.invalid(ctx, "lPush", key, "empty key or values")
	}

	return run(ctx, c, command{name: "lPush", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.LPush(ctx, key, values...).Result()
	})
}

// RPush appends values to the list at key and returns its new length.
func (c *Connector) RPush(ctx context.Context, key string, values ...any) (int64, error) {
	if key == "" || len(values) == 0 {
		return 0, c.invalid(ctx, "rPush", key, "empty key or values")
	}

	return run(ctx, c, command{name: "rPush", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.RPush(ctx, key, values...).Result()
	})
}

// RPop removes and returns the last element, or ErrNotFound on an empty list.
func (c *Connector) RPop(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", c.invalid(ctx, "rPop", key, "empty key")
	}

	return run(ctx, c, command{name: "rPop", key: key}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.RPop(ctx, key).Result()
	})
}

// LRange returns the elements between start and stop, both inclusive.
func (c *Connector) LRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "lRange", key, "empty key")
	}

	return run(ctx, c, command{name: "lRange", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.LRange(ctx, key, start, stop).Result()
	})
}

// LIndex returns the element at index, or ErrNotFound when out of range.
func (c *Connector) LIndex(ctx context.Context, key string, index int64) (string, error) {
	if key == "" {
		return "", c.invalid(ctx, "lIndex", key, "empty key")
	}

	return run(ctx, c, command{name: "lIndex", key: key}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.LIndex(ctx, key, index).Result()
	})
}

// LRem removes count occurrences of value and returns how many were removed.
func (c *Connector) LRem(ctx context.Context, key string, count int64, value any) (int64, error) {
	if key == "" {
		return 0, c.invalid(ctx, "lRem", key, "empty key")
	}

	return run(ctx, c, command{name: "lRem", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.LRem(ctx, key, count, value).Result()
	})
}

// BLPop pops the first element of the first non-empty list among keys,
// waiting up to timeout. It returns [key, value], or ErrNotFound on timeout.
func (c *Connector) BLPop(ctx context.Context, timeout time.Duration, keys ...string) ([]string, error) {
	if !nonEmpty(keys) {
		return nil, c.invalid(ctx, "blPop", joinKeys(keys), "empty keys")
	}
	if timeout < 0 {
		return nil, c.invalid(ctx, "blPop", joinKeys(keys), "negative timeout")
	}

	return run(ctx, c, command{name: "blPop", key: joinKeys(keys)}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.BLPop(ctx, timeout, keys...).Result()
	})
}

// LLen returns the length of the list at key.
func (c *Connector) LLen(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, c.invalid(ctx, "lLen", key, "empty key")
	}

	return run(ctx, c, command{name: "lLen", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.LLen(ctx, key).Result()
	})
}

// LLens returns the length of every list in keys. Repeated keys are queried
// once.
func (c *Connector) LLens(ctx context.Context, keys ...string) (map[string]int64, error) {
	if !nonEmpty(keys) {
		return nil, c.invalid(ctx, "lLen", joinKeys(keys), "empty keys")
	}

	return run(ctx, c, command{name: "lLen", key: joinKeys(keys)}, func(ctx context.Context, h redis.UniversalClient) (map[string]int64, error) {
		counts := make(map[string]int64, len(keys))
		for key := range types.NewSet(keys...).ToIter() {
			n, err := h.LLen(ctx, key).Result()
			if err != nil {
				return nil, err
			}
			counts[key] = n
		}

		return counts, nil
	})
}
