package connector

import (
	"context"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// SetOptions controls a Set call.
type SetOptions struct {
	// Mode is "", "NX" (only if absent) or "XX" (only if present).
	Mode string
	// TTL expires the key after the given duration. Zero keeps it forever.
	TTL time.Duration
}

// Ping checks the link with a PING round trip.
func (c *Connector) Ping(ctx context.Context) error {
	_, err := run(ctx, c, command{name: "ping"}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.Ping(ctx).Result()
	})

	return err
}

// Get returns the value of key, or ErrNotFound when it does not exist.
func (c *Connector) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", c.invalid(ctx, "get", key, "empty key")
	}

	return run(ctx, c, command{name: "get", key: key}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.Get(ctx, key).Result()
	})
}

// Set writes value under key. A conditional set that did not apply returns
// ErrNotStored.
func (c *Connector) Set(ctx context.Context, key string, value any, opts SetOptions) error {
	if key == "" {
		return c.invalid(ctx, "set", key, "empty key")
	}

	mode := strings.ToUpper(opts.Mode)
	switch mode {
	case "", "NX", "XX":
	default:
		return c.invalid(ctx, "set", key, "unsupported mode "+opts.Mode)
	}

	if opts.TTL < 0 {
		return c.invalid(ctx, "set", key, "negative ttl")
	}

	args := redis.SetArgs{Mode: mode, TTL: opts.TTL}
	_, err := run(ctx, c, command{name: "set", key: key, miss: ErrNotStored}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.SetArgs(ctx, key, value, args).Result()
	})

	return err
}

// SetNX writes value only when key does not exist and reports whether it did.
func (c *Connector) SetNX(ctx context.Context, key string, value any) (bool, error) {
	if key == "" {
		return false, c.invalid(ctx, "setnx", key, "empty key")
	}

	return run(ctx, c, command{name: "setnx", key: key}, func(ctx context.Context, h redis.UniversalClient) (bool, error) {
		return h.SetNX(ctx, key, value, 0).Result()
	})
}

// GetSet writes value and returns the previous one, or ErrNotFound when the
// key did not exist (the write still happened).
func (c *Connector) GetSet(ctx context.Context, key string, value any) (string, error) {
	if key == "" {
		return "", c.invalid(ctx, "getset", key, "empty key")
	}

	return run(ctx, c, command{name: "getset", key: key}, func(ctx context.Context, h redis.UniversalClient) (string, error) {
		return h.GetSet(ctx, key, value).Result()
	})
}

// IncrBy increments key by step. An integral step runs INCRBY, a float step
// runs INCRBYFLOAT; the result has the same kind as step.
func (c *Connector) IncrBy(ctx context.Context, key string, step Number) (Number, error) {
	if key == "" {
		return Number{}, c.invalid(ctx, "incrBy", key, "empty key")
	}

	switch {
	case step.IsInt():
		v, err := run(ctx, c, command{name: "incrBy", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
			return h.IncrBy(ctx, key, step.i).Result()
		})
		if err != nil {
			return Number{}, err
		}
		return Int(v), nil
	case step.IsFloat():
		v, err := run(ctx, c, command{name: "incrByFloat", key: key}, func(ctx context.Context, h redis.UniversalClient) (float64, error) {
			return h.IncrByFloat(ctx, key, step.f).Result()
		})
		if err != nil {
			return Number{}, err
		}
		return Float(v), nil
	default:
		return Number{}, c.invalid(ctx, "incrBy", key, "invalid step type")
	}
}

// DecrBy decrements key by step.
func (c *Connector) DecrBy(ctx context.Context, key string, step int64) (int64, error) {
	if key == "" {
		return 0, c.invalid(ctx, "decrBy", key, "empty key")
	}

	return run(ctx, c, command{name: "decrBy", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.DecrBy(ctx, key, step).Result()
	})
}
