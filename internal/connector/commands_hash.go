package connector

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// HSet sets field in the hash at key and returns the number of fields added.
func (c *Connector) HSet(ctx context.Context, key, field string, value any) (int64, error) {
	if key == "" || field == "" {
		return 0, c.invalid(ctx, "hSet", key, "empty key or field")
	}
	if value == nil {
		return 0, c.invalid(ctx, "hSet", key, "nil value")
	}

	return run(ctx, c, command{name: "hSet", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.HSet(ctx, key, field, value).Result()
	})
}

// HGet returns field of the hash at key, or ErrNotFound.
func (c *Connector) HGet(ctx context.Context, key, field string) (string, error) {
	if key == "" || field == "" {
		return "", c.invalid(ctx, "hGet", key, "empty key or field")
	}

	return run(ctx, c, command{name: "hGet", key: key}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.HGet(ctx, key, field).Result()
	})
}

// HDel removes fields from the hash at key.
func (c *Connector) HDel(ctx context.Context, key string, fields ...string) (int64, error) {
	if key == "" || !nonEmpty(fields) {
		return 0, c.invalid(ctx, "hDel", key, "empty key or field")
	}

	return run(ctx, c, command{name: "hDel", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.HDel(ctx, key, fields...).Result()
	})
}

// HMGet returns the values of fields in order; missing fields are nil.
func (c *Connector) HMGet(ctx context.Context, key string, fields ...string) ([]any, error) {
	if key == "" || !nonEmpty(fields) {
		return nil, c.invalid(ctx, "hMGet", key, "empty key or fields")
	}

	return run(ctx, c, command{name: "hMGet", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]any, error) {
		return h.HMGet(ctx, key, fields...).Result()
	})
}

// HGetAll returns every field of the hash at key.
func (c *Connector) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "hGetAll", key, "empty key")
	}

	return run(ctx, c, command{name: "hGetAll", key: key}, func(ctx context.Context, h redis.UniversalClient) (map[string]string, error) {
		return h.HGetAll(ctx, key).Result()
	})
}

// HMSet writes every field of values into the hash at key.
func (c *Connector) HMSet(ctx context.Context, key string, values map[string]any) error {
	if key == "" || len(values) == 0 {
		return c.invalid(ctx, "hMSet", key, "empty key or values")
	}

	_, err := run(ctx, c, command{name: "hMSet", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.HSet(ctx, key, values).Result()
	})

	return err
}

// HVals returns the values of the hash at key.
func (c *Connector) HVals(ctx context.Context, key string) ([]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "hVals", key, "empty key")
	}

	return run(ctx, c, command{name: "hVals", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.HVals(ctx, key).Result()
	})
}

// HIncrBy increments field of the hash at key. An integral step runs HINCRBY,
// a float step runs HINCRBYFLOAT. A zero step is rejected.
func (c *Connector) HIncrBy(ctx context.Context, key, field string, step Number) (Number, error) {
	if key == "" || field == "" {
		return Number{}, c.invalid(ctx, "hIncrBy", key, "empty key or field")
	}
	if step.IsZero() {
		return Number{}, c.invalid(ctx, "hIncrBy", key, "zero or invalid step")
	}

	if step.IsInt() {
		v, err := run(ctx, c, command{name: "hIncrBy", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
			return h.HIncrBy(ctx, key, field, step.i).Result()
		})
		if err != nil {
			return Number{}, err
		}
		return Int(v), nil
	}

	v, err := run(ctx, c, command{name: "hIncrByFloat", key: key}, func(ctx context.Context, h redis.UniversalClient) (float64, error) {
		return h.HIncrByFloat(ctx, key, field, step.f).Result()
	})
	if err != nil {
		return Number{}, err
	}

	return Float(v), nil
}
