package connector

import (
	"context"
	"fmt"

	"github.com/gabapcia/redisproxy/internal/pkg/resilience/retry"

	redis "github.com/redis/go-redis/v9"
)

// Reconnect discards the current client, dials a fresh one and checks it with
// PING. Failed attempts are logged at fatal level and retried after
// Options.ReconnectDelay, up to Options.ReconnectMaxAttempts (unlimited when
// zero). It blocks until the link is back, the attempts are exhausted or ctx
// is done; the process is never terminated.
func (c *Connector) Reconnect(ctx context.Context) error {
	_, gen := c.current()
	return c.reconnect(ctx, gen)
}

// reconnect recovers the link observed broken at generation seen. Callers
// that raced on the same broken client wait for the first recovery and
// return without dialing again.
func (c *Connector) reconnect(ctx context.Context, seen uint64) error {
	c.reconnectMu.Lock()
	defer c.reconnectMu.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}

	old, gen := c.current()
	if gen != seen {
		return nil
	}

	_ = old.Close()

	var fresh redis.UniversalClient
	attempt := func() error {
		h := c.dial(c.opts)
		if err := h.Ping(ctx).Err(); err != nil {
			_ = h.Close()
			return err
		}

		fresh = h
		return nil
	}

	r := retry.New(
		retry.WithAttempts(c.opts.ReconnectMaxAttempts),
		retry.WithFixedDelay(c.opts.ReconnectDelay),
		retry.WithOnRetry(func(n uint, err error) {
			c.metrics.reconnect(ctx, c.Endpoint(), outcomeFailure)
			c.logLinkFailure(opReconnect, CodeConnectionFailure, err)
		}),
	)

	if err := r.Execute(ctx, attempt); err != nil {
		return fmt.Errorf("%w: reconnect: %w", ErrConnectionFailure, err)
	}

	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		_ = fresh.Close()
		return ErrClosed
	}
	c.handle = fresh
	c.generation++
	c.mu.Unlock()

	c.metrics.reconnect(ctx, c.Endpoint(), outcomeOK)
	c.log.Infow("redis connector reconnected", "generation", gen+1)

	return nil
}
