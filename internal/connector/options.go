package connector

import (
	"net"
	"strconv"
	"time"

	infraredis "github.com/gabapcia/redisproxy/internal/infra/storage/redis"
	"github.com/gabapcia/redisproxy/internal/pkg/logger"

	redis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 6379
	DefaultReconnectDelay = time.Second
)

// Options describes the endpoint a Connector talks to and how it recovers
// from failures.
type Options struct {
	Host     string `validate:"required"`
	Port     int    `validate:"min=1,max=65535"`
	Password string
	DB       int `validate:"min=0"`

	DialTimeout  time.Duration `validate:"min=0"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ReconnectDelay is the fixed pause between reconnect attempts. Zero means
	// DefaultReconnectDelay; there is no way to retry without pausing.
	ReconnectDelay time.Duration `validate:"min=0"`

	// ReconnectMaxAttempts bounds a single reconnect. Zero retries until the
	// backend comes back or the context is done.
	ReconnectMaxAttempts uint

	// ReconnectOnFailure makes commands that hit a broken link reconnect and
	// retry once before reporting failure.
	ReconnectOnFailure bool
}

// Addr returns the host:port of the endpoint.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, strconv.Itoa(o.Port))
}

// withDefaults fills the zero host, port and reconnect delay.
func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = DefaultHost
	}
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.ReconnectDelay == 0 {
		o.ReconnectDelay = DefaultReconnectDelay
	}

	return o
}

// Dialer builds a client for the endpoint. It must not perform network I/O;
// the Connector pings the returned client itself.
type Dialer func(opts Options) redis.UniversalClient

// dialGoRedis is the default Dialer.
func dialGoRedis(opts Options) redis.UniversalClient {
	return infraredis.NewClient(infraredis.Options{
		Addr:         opts.Addr(),
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})
}

// deps are the collaborators of a Connector.
type deps struct {
	log            *zap.SugaredLogger
	dial           Dialer
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
}

// Option overrides a collaborator of the Connector.
type Option func(*deps)

// WithLogger sets the logger. Defaults to the process-wide logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *deps) {
		d.log = l
	}
}

// WithDialer replaces the go-redis client constructor.
func WithDialer(dial Dialer) Option {
	return func(d *deps) {
		d.dial = dial
	}
}

// WithMeterProvider sets the provider of the command metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(d *deps) {
		d.meterProvider = mp
	}
}

// WithTracerProvider sets the provider of the command spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(d *deps) {
		d.tracerProvider = tp
	}
}

func newDeps(opts ...Option) deps {
	d := deps{
		log:            logger.L(),
		dial:           dialGoRedis,
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
	}
	for _, opt := range opts {
		opt(&d)
	}

	return d
}
