// Package connector exposes redis commands through a uniform surface.
//
// A Connector owns one go-redis client for one endpoint. Every command
// validates its input, dispatches to the client and classifies the outcome:
//
//   - ErrInvalidArguments: rejected before the backend is contacted.
//   - ErrNotFound: the backend has no value (soft miss, logged as warning).
//   - ErrFailure: the backend call failed (logged at fatal level).
//
// Backend diagnostics never travel in the returned error; they are written to
// the log and kept in LastError.
//
// When the link breaks the Connector replaces its client in place through
// Reconnect, which blocks and retries with a fixed delay until the backend
// answers again.
package connector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	infraredis "github.com/gabapcia/redisproxy/internal/infra/storage/redis"
	"github.com/gabapcia/redisproxy/internal/pkg/logger"
	"github.com/gabapcia/redisproxy/internal/pkg/validator"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	opConnect   = "connect"
	opAuth      = "auth"
	opReconnect = "reconnect"
)

// Connector owns the client of one endpoint and exposes the command surface.
// It is safe for concurrent use.
type Connector struct {
	id   string
	opts Options
	dial Dialer

	log      *zap.SugaredLogger
	critical *zap.SugaredLogger
	metrics  *instruments
	tracer   trace.Tracer

	// mu guards handle and generation. The handle is replaced wholesale on
	// reconnect; generation counts the replacements.
	mu         sync.RWMutex
	handle     redis.UniversalClient
	generation uint64

	// reconnectMu serializes recoveries.
	reconnectMu sync.Mutex

	errMu   sync.Mutex
	lastErr string

	closed atomic.Bool
}

// New opens the link to the endpoint and authenticates when a password is
// set. Zero host and port fall back to 127.0.0.1:6379.
//
// If the endpoint is unreachable or rejects the password the failure is
// logged at fatal level and a *StartupError is returned.
func New(ctx context.Context, opts Options, options ...Option) (*Connector, error) {
	opts = opts.withDefaults()
	if err := validator.Validate(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	d := newDeps(options...)

	metrics, err := newInstruments(d.meterProvider)
	if err != nil {
		return nil, fmt.Errorf("connector metrics: %w", err)
	}

	id := uuid.NewString()
	log := d.log.With("connector_id", id, "host", opts.Host, "port", opts.Port)

	c := &Connector{
		id:       id,
		opts:     opts,
		dial:     d.dial,
		log:      log,
		critical: logger.NonExiting(log),
		metrics:  metrics,
		tracer:   d.tracerProvider.Tracer(instrumentationName),
	}

	handle := c.dial(opts)
	if err := handle.Ping(ctx).Err(); err != nil {
		_ = handle.Close()

		op := opConnect
		if infraredis.IsAuthError(err) {
			op = opAuth
		}

		serr := &StartupError{Op: op, Host: opts.Host, Port: opts.Port, Err: err}
		c.logLinkFailure(op, serr.Code(), err)
		return nil, serr
	}

	c.handle = handle
	c.log.Infow("redis connector ready", "db", opts.DB, "authenticated", opts.Password != "")

	return c, nil
}

// logLinkFailure writes the fatal entry for a failed connect, auth or
// reconnect. The password is never written.
func (c *Connector) logLinkFailure(op string, code Code, err error) {
	c.setLastError(fmt.Sprintf("redis_error: %s failed errno[%d] errMsg[%v] host[%s] port[%d] params[%s]",
		op, code, err, c.opts.Host, c.opts.Port, c.maskedParams()))

	c.critical.Fatalw("redis link failure",
		"op", op,
		"errno", code,
		"errMsg", err.Error(),
		"params", c.maskedParams(),
	)
}

func (c *Connector) maskedParams() string {
	if c.opts.Password == "" {
		return "pwd:"
	}

	return "pwd:***"
}

// current returns the handle in use and its generation.
func (c *Connector) current() (redis.UniversalClient, uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.handle, c.generation
}

// ID identifies the connector in logs.
func (c *Connector) ID() string { return c.id }

// Endpoint returns host:port.
func (c *Connector) Endpoint() string { return c.opts.Addr() }

// Options returns the options the connector was built with, defaults applied.
func (c *Connector) Options() Options { return c.opts }

// LastError returns the diagnostic of the most recent failure or miss.
func (c *Connector) LastError() string {
	c.errMu.Lock()
	defer c.errMu.Unlock()

	return c.lastErr
}

func (c *Connector) setLastError(msg string) {
	c.errMu.Lock()
	c.lastErr = msg
	c.errMu.Unlock()
}

// Unchecked returns the underlying go-redis client. Calls made through it
// bypass validation, classification, logging and reconnect. The client is
// replaced on reconnect, so callers should not keep it.
func (c *Connector) Unchecked() redis.UniversalClient {
	h, _ := c.current()
	return h
}

// Close releases the client. Commands issued afterwards return ErrClosed.
func (c *Connector) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// a failed reconnect leaves the handle already closed
	if err := c.handle.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}

	return nil
}
