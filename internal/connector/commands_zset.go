package connector

import (
	"context"

	redis "github.com/redis/go-redis/v9"
)

// ScoredMember is a sorted set member with its score.
type ScoredMember struct {
	Member string
	Score  float64
}

// ScoreRange selects members by score. Empty bounds mean -inf and +inf;
// exclusive bounds use the "(" prefix. Count zero means no limit.
type ScoreRange struct {
	Min, Max      string
	Offset, Count int64
}

func (r ScoreRange) toRedis() *redis.ZRangeBy {
	by := &redis.ZRangeBy{Min: r.Min, Max: r.Max, Offset: r.Offset, Count: r.Count}
	if by.Min == "" {
		by.Min = "-inf"
	}
	if by.Max == "" {
		by.Max = "+inf"
	}

	return by
}

func toScored(zs []redis.Z) []ScoredMember {
	out := make([]ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		out = append(out, ScoredMember{Member: member, Score: z.Score})
	}

	return out
}

// ZAdd adds member with score and returns the number of new members.
func (c *Connector) ZAdd(ctx context.Context, key string, score float64, member any) (int64, error) {
	if key == "" || member == nil {
		return 0, c.invalid(ctx, "zAdd", key, "empty key or member")
	}

	return run(ctx, c, command{name: "zAdd", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Result()
	})
}

// ZRange returns members ranked between start and stop, lowest score first.
func (c *Connector) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRange", key, "empty key")
	}

	return run(ctx, c, command{name: "zRange", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.ZRange(ctx, key, start, stop).Result()
	})
}

// ZRangeWithScores is ZRange returning scores too.
func (c *Connector) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRange", key, "empty key")
	}

	zs, err := run(ctx, c, command{name: "zRange", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]redis.Z, error) {
		return h.ZRangeWithScores(ctx, key, start, stop).Result()
	})
	if err != nil {
		return nil, err
	}

	return toScored(zs), nil
}

// ZRevRange returns members ranked between start and stop, highest score first.
func (c *Connector) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRevRange", key, "empty key")
	}

	return run(ctx, c, command{name: "zRevRange", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.ZRevRange(ctx, key, start, stop).Result()
	})
}

// ZRevRangeWithScores is ZRevRange returning scores too.
func (c *Connector) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRevRange", key, "empty key")
	}

	zs, err := run(ctx, c, command{name: "zRevRange", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]redis.Z, error) {
		return h.ZRevRangeWithScores(ctx, key, start, stop).Result()
	})
	if err != nil {
		return nil, err
	}

	return toScored(zs), nil
}

// ZRangeByScore returns members whose score falls in r.
func (c *Connector) ZRangeByScore(ctx context.Context, key string, r ScoreRange) ([]string, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRangeByScore", key, "empty key")
	}

	return run(ctx, c, command{name: "zRangeByScore", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]string, error) {
		return h.ZRangeByScore(ctx, key, r.toRedis()).Result()
	})
}

// ZRangeByScoreWithScores is ZRangeByScore returning scores too.
func (c *Connector) ZRangeByScoreWithScores(ctx context.Context, key string, r ScoreRange) ([]ScoredMember, error) {
	if key == "" {
		return nil, c.invalid(ctx, "zRangeByScore", key, "empty key")
	}

	zs, err := run(ctx, c, command{name: "zRangeByScore", key: key}, func(ctx context.Context, h redis.UniversalClient) ([]redis.Z, error) {
		return h.ZRangeByScoreWithScores(ctx, key, r.toRedis()).Result()
	})
	if err != nil {
		return nil, err
	}

	return toScored(zs), nil
}

// ZRem removes members and returns how many existed.
func (c *Connector) ZRem(ctx context.Context, key string, members ...any) (int64, error) {
	if key == "" || len(members) == 0 {
		return 0, c.invalid(ctx, "zRem", key, "empty key or members")
	}

	return run(ctx, c, command{name: "zRem", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.ZRem(ctx, key, members...).Result()
	})
}

// ZCard returns the number of members of the sorted set at key.
func (c *Connector) ZCard(ctx context.Context, key string) (int64, error) {
	if key == "" {
		return 0, c.invalid(ctx, "zCard", key, "empty key")
	}

	return run(ctx, c, command{name: "zCard", key: key}, func(ctx context.Context, h redis.UniversalClient) (int64, error) {
		return h.ZCard(ctx, key).Result()
	})
}
