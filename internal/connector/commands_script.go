package connector

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// EvalLua runs script. The first numKeys entries of params are key names and
// must be strings; the rest are passed as ARGV. A script returning nil yields
// ErrNotFound.
func (c *Connector) EvalLua(ctx context.Context, script string, params []any, numKeys int) (any, error) {
	if script == "" {
		return nil, c.invalid(ctx, "evalLua", "", "empty script")
	}
	if numKeys < 0 || numKeys > len(params) {
		return nil, c.invalid(ctx, "evalLua", "", fmt.Sprintf("numKeys %d out of range for %d params", numKeys, len(params)))
	}

	keys := make([]string, numKeys)
	for i := range numKeys {
		key, ok := params[i].(string)
		if !ok || key == "" {
			return nil, c.invalid(ctx, "evalLua", "", fmt.Sprintf("param %d is not a key name", i))
		}
		keys[i] = key
	}
	args := params[numKeys:]

	return run(ctx, c, command{name: "evalLua", key: joinKeys(keys)}, func(ctx context.Context, h redis.UniversalClient) (any, error) {
		return h.Eval(ctx, script, keys, args...).Result()
	})
}
