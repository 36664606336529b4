package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	infraredis "github.com/gabapcia/redisproxy/internal/infra/storage/redis"

	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// command names a dispatched call for logs, metrics and spans.
type command struct {
	name string
	key  string

	// miss is returned when the backend answers redis.Nil. Defaults to ErrNotFound.
	miss error
}

func (cmd command) missErr() error {
	if cmd.miss == nil {
		return ErrNotFound
	}

	return cmd.miss
}

// run dispatches fn against the current client and classifies its outcome.
//
// When Options.ReconnectOnFailure is set and the command provably never reached
// the server, the link is recovered and the command sent once more. Errors
// that may follow an executed command, such as read timeouts, are never
// retried. The failure that triggered the recovery is still logged at fatal
// level.
func run[T any](ctx context.Context, c *Connector, cmd command, fn func(context.Context, redis.UniversalClient) (T, error)) (T, error) {
	var zero T
	if c.closed.Load() {
		return zero, ErrClosed
	}

	ctx, span := c.tracer.Start(ctx, "redis."+cmd.name, trace.WithAttributes(
		attribute.String("db.system", "redis"),
		attribute.String("db.operation", cmd.name),
		attribute.String("server.address", c.opts.Host),
		attribute.Int("server.port", c.opts.Port),
	))
	defer span.End()

	start := time.Now()
	h, gen := c.current()

	res, err := fn(ctx, h)
	if c.opts.ReconnectOnFailure && infraredis.IsUndelivered(err) && ctx.Err() == nil {
		c.failed(cmd, err)

		if rerr := c.reconnect(ctx, gen); rerr != nil {
			c.finish(ctx, span, cmd, outcomeFailure, start, rerr)
			return zero, ErrFailure
		}

		h, _ = c.current()
		res, err = fn(ctx, h)
	}

	switch {
	case err == nil:
		c.finish(ctx, span, cmd, outcomeOK, start, nil)
		return res, nil
	case errors.Is(err, redis.Nil):
		c.missed(cmd)
		c.finish(ctx, span, cmd, outcomeMiss, start, nil)
		return zero, cmd.missErr()
	default:
		c.failed(cmd, err)
		c.finish(ctx, span, cmd, outcomeFailure, start, err)
		return zero, ErrFailure
	}
}

func (c *Connector) finish(ctx context.Context, span trace.Span, cmd command, outcome string, start time.Time, err error) {
	span.SetAttributes(attribute.String("redisproxy.outcome", outcome))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	c.metrics.command(ctx, c.Endpoint(), cmd.name, outcome, start)
}

// failed logs a backend failure at fatal level without exiting.
func (c *Connector) failed(cmd command, err error) {
	c.setLastError(fmt.Sprintf("redis_error: redis is down or overload cmd[%s] key[%s] host[%s] port[%d] errno[%d] errMsg[%v]",
		cmd.name, cmd.key, c.opts.Host, c.opts.Port, CodeFailure, err))

	c.critical.Fatalw("redis_error: redis is down or overload",
		"command", cmd.name,
		"key", cmd.key,
		"errno", CodeFailure,
		"errMsg", err.Error(),
	)
}

// missed logs a soft miss at warning level.
func (c *Connector) missed(cmd command) {
	miss := cmd.missErr()
	msg := "redis_error: not exist"
	if errors.Is(miss, ErrNotStored) {
		msg = "redis_error: not stored"
	}

	c.setLastError(fmt.Sprintf("%s cmd[%s] key[%s] host[%s] port[%d]",
		msg, cmd.name, cmd.key, c.opts.Host, c.opts.Port))

	c.log.Warnw(msg,
		"command", cmd.name,
		"key", cmd.key,
		"errno", CodeOf(miss),
	)
}

// invalid records a rejected call. Nothing is sent to the backend.
func (c *Connector) invalid(ctx context.Context, name, key, reason string) error {
	c.log.Debugw("redis command rejected",
		"command", name,
		"key", key,
		"reason", reason,
		"errno", CodeInvalidArguments,
	)
	c.metrics.command(ctx, c.Endpoint(), name, outcomeInvalid, time.Time{})

	return fmt.Errorf("%w: %s: %s", ErrInvalidArguments, name, reason)
}
