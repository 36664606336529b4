package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gabapcia/redisproxy/internal/connector"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient answers PING and records Close.
type stubClient struct {
	redis.UniversalClient
	closed atomic.Bool
}

func (s *stubClient) Ping(ctx context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (s *stubClient) Close() error {
	s.closed.Store(true)
	return nil
}

type stubDialer struct {
	mu      sync.Mutex
	clients []*stubClient
	opts    []connector.Options
}

func (d *stubDialer) dial(o connector.Options) redis.UniversalClient {
	d.mu.Lock()
	defer d.mu.Unlock()

	c := &stubClient{}
	d.clients = append(d.clients, c)
	d.opts = append(d.opts, o)
	return c
}

func (d *stubDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.clients)
}

func newTestRegistry(t *testing.T) (*Registry, *stubDialer) {
	t.Helper()

	d := &stubDialer{}
	r := New(WithConnectorOptions(connector.WithDialer(d.dial)))
	t.Cleanup(func() { _ = r.Close() })

	return r, d
}

func TestEndpoint_Key(t *testing.T) {
	testCases := []struct {
		name     string
		endpoint Endpoint
		want     string
	}{
		{"defaults", Endpoint{}, "127.0.0.1:6379"},
		{"explicit", Endpoint{Host: "cache.internal", Port: 6380}, "cache.internal:6380"},
		{"ipv6", Endpoint{Host: "::1", Port: 6379}, "[::1]:6379"},
		{"non default db", Endpoint{Host: "cache.internal", Port: 6379, DB: 3}, "cache.internal:6379/3"},
		{"password is not part of the key", Endpoint{Password: "secret"}, "127.0.0.1:6379"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.endpoint.Key())
		})
	}

	t.Run("should not collide where host and port concatenate alike", func(t *testing.T) {
		a := Endpoint{Host: "10.0.0.1", Port: 16379}
		b := Endpoint{Host: "10.0.0.11", Port: 6379}
		assert.NotEqual(t, a.Key(), b.Key())
	})
}

func TestRegistry_Acquire(t *testing.T) {
	t.Run("should return the same connector for the same endpoint", func(t *testing.T) {
		r, d := newTestRegistry(t)
		ctx := t.Context()

		first, err := r.Acquire(ctx, Endpoint{})
		require.NoError(t, err)

		second, err := r.Acquire(ctx, Endpoint{Host: "127.0.0.1", Port: 6379, Password: "ignored"})
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, d.count(), "cached connector is not re-authenticated")
		assert.Equal(t, 1, r.Len())
	})

	t.Run("should return distinct connectors for distinct endpoints", func(t *testing.T) {
		r, d := newTestRegistry(t)
		ctx := t.Context()

		a, err := r.Acquire(ctx, Endpoint{Port: 6379})
		require.NoError(t, err)
		b, err := r.Acquire(ctx, Endpoint{Port: 6380})
		require.NoError(t, err)
		c, err := r.Acquire(ctx, Endpoint{Port: 6379, DB: 1})
		require.NoError(t, err)

		assert.NotSame(t, a, b)
		assert.NotSame(t, a, c)
		assert.Equal(t, 3, d.count())
		assert.Equal(t, 3, r.Len())
	})

	t.Run("should pass endpoint and base options to the connector", func(t *testing.T) {
		d := &stubDialer{}
		r := New(
			WithBaseOptions(connector.Options{ReconnectMaxAttempts: 7}),
			WithConnectorOptions(connector.WithDialer(d.dial)),
		)
		t.Cleanup(func() { _ = r.Close() })

		c, err := r.Acquire(t.Context(), Endpoint{Host: "cache", Port: 7000, Password: "pw", DB: 2})
		require.NoError(t, err)

		opts := c.Options()
		assert.Equal(t, "cache", opts.Host)
		assert.Equal(t, 7000, opts.Port)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, uint(7), opts.ReconnectMaxAttempts)
		assert.Equal(t, connector.DefaultReconnectDelay, opts.ReconnectDelay)
	})

	t.Run("should build a single connector under concurrent first access", func(t *testing.T) {
		r, d := newTestRegistry(t)

		const callers = 16
		got := make([]*connector.Connector, callers)

		var wg sync.WaitGroup
		for i := range callers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c, err := r.Acquire(t.Context(), Endpoint{Host: "shared", Port: 6379})
				assert.NoError(t, err)
				got[i] = c
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, d.count())
		for _, c := range got {
			assert.Same(t, got[0], c)
		}
	})

	t.Run("should not register an endpoint whose construction failed", func(t *testing.T) {
		startupErr := &connector.StartupError{Op: "connect", Host: "down", Port: 6379, Err: errors.New("connection refused")}
		calls := 0
		r := New(WithFactory(func(ctx context.Context, o connector.Options) (*connector.Connector, error) {
			calls++
			return nil, startupErr
		}))

		_, err := r.Acquire(t.Context(), Endpoint{Host: "down"})
		require.Error(t, err)
		assert.ErrorIs(t, err, connector.ErrConnectionFailure)
		assert.Equal(t, 0, r.Len())

		_, err = r.Acquire(t.Context(), Endpoint{Host: "down"})
		require.Error(t, err)
		assert.Equal(t, 2, calls, "a failed endpoint is attempted again")
	})

	t.Run("should reject invalid endpoints", func(t *testing.T) {
		r, d := newTestRegistry(t)

		_, err := r.Acquire(t.Context(), Endpoint{Port: 70000})
		assert.ErrorIs(t, err, connector.ErrInvalidArguments)
		assert.Equal(t, 0, d.count())
	})
}

// gatedFactory builds connectors over d, pausing builds for host "slow" until
// release is closed. entered is closed when such a build starts.
func gatedFactory(d *stubDialer, entered, release chan struct{}) Factory {
	return func(ctx context.Context, o connector.Options) (*connector.Connector, error) {
		if o.Host == "slow" {
			close(entered)
			<-release
		}
		return connector.New(ctx, o, connector.WithDialer(d.dial))
	}
}

func TestRegistry_AcquireWhileBuilding(t *testing.T) {
	t.Run("should not block other endpoints", func(t *testing.T) {
		d := &stubDialer{}
		entered, release := make(chan struct{}), make(chan struct{})
		r := New(WithFactory(gatedFactory(d, entered, release)))
		t.Cleanup(func() { _ = r.Close() })

		slowDone := make(chan error, 1)
		go func() {
			_, err := r.Acquire(context.Background(), Endpoint{Host: "slow"})
			slowDone <- err
		}()
		<-entered

		fast, err := r.Acquire(t.Context(), Endpoint{Host: "fast"})
		require.NoError(t, err)
		assert.NotNil(t, fast)
		assert.Equal(t, 1, r.Len(), "the pending endpoint is not counted")

		close(release)
		require.NoError(t, <-slowDone)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("should let a waiter give up on its context", func(t *testing.T) {
		d := &stubDialer{}
		entered, release := make(chan struct{}), make(chan struct{})
		r := New(WithFactory(gatedFactory(d, entered, release)))
		t.Cleanup(func() { _ = r.Close() })

		slowDone := make(chan error, 1)
		go func() {
			_, err := r.Acquire(context.Background(), Endpoint{Host: "slow"})
			slowDone <- err
		}()
		<-entered

		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := r.Acquire(ctx, Endpoint{Host: "slow"})
		assert.ErrorIs(t, err, context.Canceled)

		close(release)
		require.NoError(t, <-slowDone)
		assert.Equal(t, 1, d.count(), "the waiter did not build a second connector")
	})

	t.Run("should close a connector finished after Close", func(t *testing.T) {
		d := &stubDialer{}
		entered, release := make(chan struct{}), make(chan struct{})
		r := New(WithFactory(gatedFactory(d, entered, release)))

		slowDone := make(chan error, 1)
		go func() {
			_, err := r.Acquire(context.Background(), Endpoint{Host: "slow"})
			slowDone <- err
		}()
		<-entered

		require.NoError(t, r.Close())
		close(release)

		assert.ErrorIs(t, <-slowDone, ErrClosed)
		require.Equal(t, 1, d.count())
		assert.True(t, d.clients[0].closed.Load())

		_, err := r.Acquire(t.Context(), Endpoint{})
		assert.ErrorIs(t, err, ErrClosed)
		assert.Equal(t, 0, r.Len())
	})
}

func TestRegistry_Close(t *testing.T) {
	r, d := newTestRegistry(t)
	ctx := t.Context()

	_, err := r.Acquire(ctx, Endpoint{Port: 6379})
	require.NoError(t, err)
	_, err = r.Acquire(ctx, Endpoint{Port: 6380})
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.Equal(t, 0, r.Len())
	for _, c := range d.clients {
		assert.True(t, c.closed.Load())
	}
}
