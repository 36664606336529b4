// Package registry keeps at most one Connector per endpoint.
//
// A Registry is an explicit object created at application start and closed at
// shutdown; callers that need a connector for an endpoint ask the registry
// instead of building one, so concurrent first requests for the same endpoint
// share a single link.
package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/gabapcia/redisproxy/internal/connector"
	"github.com/gabapcia/redisproxy/internal/pkg/logger"
	"github.com/gabapcia/redisproxy/internal/pkg/validator"

	"go.uber.org/zap"
)

// Endpoint identifies a redis server. Zero Host and Port fall back to
// 127.0.0.1 and 6379.
type Endpoint struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	Password string
	DB       int `validate:"min=0"`
}

func (e Endpoint) withDefaults() Endpoint {
	if e.Host == "" {
		e.Host = connector.DefaultHost
	}
	if e.Port == 0 {
		e.Port = connector.DefaultPort
	}

	return e
}

// Key returns the registry slot of the endpoint: host:port, suffixed with
// /db for non-default databases. The password is not part of the key.
func (e Endpoint) Key() string {
	e = e.withDefaults()

	key := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
	if e.DB != 0 {
		key += "/" + strconv.Itoa(e.DB)
	}

	return key
}

// Factory builds the Connector of a new endpoint.
type Factory func(ctx context.Context, opts connector.Options) (*connector.Connector, error)

// Option configures a Registry.
type Option func(*Registry)

// WithFactory replaces connector.New.
func WithFactory(f Factory) Option {
	return func(r *Registry) {
		r.factory = f
	}
}

// WithBaseOptions sets the timeouts and reconnect policy shared by every
// connector. Host, port, password and DB are taken from the Endpoint.
func WithBaseOptions(base connector.Options) Option {
	return func(r *Registry) {
		r.base = base
	}
}

// WithConnectorOptions passes collaborators to every connector built by the
// default factory.
func WithConnectorOptions(opts ...connector.Option) Option {
	return func(r *Registry) {
		r.connectorOpts = append(r.connectorOpts, opts...)
	}
}

// WithLogger sets the registry logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(r *Registry) {
		r.log = l
	}
}

// ErrClosed is returned by Acquire after Close.
var ErrClosed = fmt.Errorf("%w: registry closed", connector.ErrFailure)

// slot holds one endpoint. ready is closed once construction finished; conn
// and err are immutable afterwards.
type slot struct {
	ready chan struct{}
	conn  *connector.Connector
	err   error
}

// Registry maps endpoint keys to live connectors. Entries live until Close.
type Registry struct {
	// mu guards slots and closed. It is never held while a connector is being
	// built: the builder publishes a pending slot, and later callers for the
	// same key wait on it.
	mu     sync.Mutex
	slots  map[string]*slot
	closed bool

	factory       Factory
	base          connector.Options
	connectorOpts []connector.Option
	log           *zap.SugaredLogger
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		slots: make(map[string]*slot),
		base: connector.Options{
			ReconnectDelay:     connector.DefaultReconnectDelay,
			ReconnectOnFailure: true,
		},
		log: logger.L(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.factory == nil {
		r.factory = func(ctx context.Context, o connector.Options) (*connector.Connector, error) {
			return connector.New(ctx, o, r.connectorOpts...)
		}
	}

	return r
}

// Acquire returns the connector of endpoint, building it on first use.
//
// An existing connector is returned as is: it is neither re-authenticated nor
// pinged again. Concurrent first calls for the same endpoint build a single
// connector; calls for other endpoints proceed in parallel. When construction
// fails nothing is registered, callers waiting on that build receive the same
// error, typically a *connector.StartupError, and the next call tries again.
func (r *Registry) Acquire(ctx context.Context, endpoint Endpoint) (*connector.Connector, error) {
	endpoint = endpoint.withDefaults()
	if err := validator.Validate(endpoint); err != nil {
		return nil, fmt.Errorf("%w: %w", connector.ErrInvalidArguments, err)
	}

	key := endpoint.Key()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}

	if s, ok := r.slots[key]; ok {
		r.mu.Unlock()
		return s.wait(ctx)
	}

	s := &slot{ready: make(chan struct{})}
	r.slots[key] = s
	r.mu.Unlock()

	r.build(ctx, key, endpoint, s)
	return s.conn, s.err
}

func (s *slot) wait(ctx context.Context) (*connector.Connector, error) {
	select {
	case <-s.ready:
		return s.conn, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// build constructs the connector of a pending slot and publishes the result.
func (r *Registry) build(ctx context.Context, key string, endpoint Endpoint, s *slot) {
	defer close(s.ready)

	opts := r.base
	opts.Host = endpoint.Host
	opts.Port = endpoint.Port
	opts.Password = endpoint.Password
	opts.DB = endpoint.DB

	c, err := r.factory(ctx, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case err != nil:
		s.err = err
		delete(r.slots, key)
	case r.closed:
		_ = c.Close()
		s.err = ErrClosed
	default:
		s.conn = c
		r.log.Infow("redis endpoint registered", "endpoint", key, "connector_id", c.ID())
	}
}

// Len returns the number of registered endpoints. Builds in progress are not
// counted.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, s := range r.slots {
		select {
		case <-s.ready:
			if s.conn != nil {
				n++
			}
		default:
		}
	}

	return n
}

// Close closes every connector and empties the registry. Builds still in
// progress close their connector when they finish; Acquire fails afterwards.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true

	var errs []error
	for key, s := range r.slots {
		select {
		case <-s.ready:
			if s.conn != nil {
				if err := s.conn.Close(); err != nil {
					errs = append(errs, fmt.Errorf("close %s: %w", key, err))
				}
			}
		default:
		}
		delete(r.slots, key)
	}

	return errors.Join(errs...)
}
