// Package logger provides a global, Sugared Zap logger with optional
// OpenTelemetry integration. It supports configuring log level and output via
// functional options, emits JSON logs to stdout by default, and adds an OTEL
// bridge core when a telemetry logger provider is available.
//
// Besides the usual level helpers it exposes Critical, which writes an entry at
// fatal level without terminating the process, and NonExiting, which gives any
// logger the same behavior. The caller decides whether and how to exit.
package logger

import (
	"context"
	"os"
	"sync"

	"github.com/gabapcia/redisproxy/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// instrumentationScope names the bridged log records.
const instrumentationScope = "github.com/gabapcia/redisproxy"

var (
	// logger is the global SugaredLogger instance. It is initialized once by Init.
	logger *zap.SugaredLogger

	// critical shares logger's core but never exits on fatal entries.
	critical *zap.SugaredLogger

	// initOnce ensures the logger is only configured a single time.
	initOnce sync.Once
)

// config holds configuration options for the logger.
type config struct {
	level    string              // the minimum log level (debug, info, warn, error, panic, fatal)
	output   zapcore.WriteSyncer // destination of the JSON stream
	provider log.LoggerProvider  // receives a copy of every entry when set
}

// Option configures the logger before initialization.
type Option func(*config)

// WithLevel sets the minimum log level for the global logger.
// Example levels: "debug", "info", "warn", "error", "panic", "fatal".
func WithLevel(l string) Option {
	return func(c *config) {
		c.level = l
	}
}

// WithOutput replaces stdout as the destination of log entries.
func WithOutput(w zapcore.WriteSyncer) Option {
	return func(c *config) {
		c.output = w
	}
}

// WithLoggerProvider bridges entries to p instead of the provider installed by
// telemetry.Init.
func WithLoggerProvider(p log.LoggerProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// continueOnFatal is a fatal hook that only writes the entry.
//
// zap replaces zapcore.WriteThenNoop with WriteThenFatal, so a dedicated type
// is needed to keep the process alive.
type continueOnFatal struct{}

// OnWrite implements zapcore.CheckWriteHook.
func (continueOnFatal) OnWrite(*zapcore.CheckedEntry, []zapcore.Field) {}

// NonExiting returns a copy of l whose Fatal* methods log at fatal level and
// return instead of calling os.Exit.
func NonExiting(l *zap.SugaredLogger) *zap.SugaredLogger {
	return l.WithOptions(zap.WithFatalHook(continueOnFatal{}))
}

// Init configures the global logger. It accepts zero or more Option values to
// customize behavior (e.g. WithLevel). By default, it logs JSON to stdout at
// the "info" level. If an OpenTelemetry LoggerProvider is registered via
// telemetry.LoggerProvider(), this adds an OTEL bridge core to forward logs to
// the telemetry backend. Calling Init multiple times has no effect after the
// first successful initialization.
//
// Returns an error if parsing the log level fails.
func Init(opts ...Option) error {
	cfg := config{level: "info", output: zapcore.AddSync(os.Stdout)}
	if lp := telemetry.LoggerProvider(); lp != nil {
		cfg.provider = lp
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Parse the configured log level.
	level, err := zapcore.ParseLevel(cfg.level)
	if err != nil {
		return err
	}

	// Perform one-time setup.
	initOnce.Do(func() {
		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				cfg.output,
				level,
			),
		}

		// If telemetry is configured, add OTEL bridge core.
		if cfg.provider != nil {
			cores = append(cores, otelzap.NewCore(instrumentationScope, otelzap.WithLoggerProvider(cfg.provider)))
		}

		logger = zap.New(zapcore.NewTee(cores...)).Sugar()
		critical = NonExiting(logger)
	})

	return nil
}

// L returns the global logger, or a no-op logger when Init was never called.
func L() *zap.SugaredLogger {
	if logger == nil {
		return zap.NewNop().Sugar()
	}

	return logger
}

// Sync flushes any buffered log entries. It should be called on application
// shutdown to ensure all logs are written out.
func Sync() error {
	return L().Sync()
}

// Debug logs a debug-level message with optional key/value context.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	L().Debugw(msg, keysAndValues...)
}

// Info logs an info-level message with optional key/value context.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	L().Infow(msg, keysAndValues...)
}

// Warn logs a warn-level message with optional key/value context.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	L().Warnw(msg, keysAndValues...)
}

// Error logs an error-level message with optional key/value context.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	L().Errorw(msg, keysAndValues...)
}

// Critical logs a fatal-level message with optional key/value context and
// returns normally, leaving the exit decision to the caller.
func Critical(ctx context.Context, msg string, keysAndValues ...any) {
	if critical == nil {
		return
	}

	critical.Fatalw(msg, keysAndValues...)
}

// Fatal logs a fatal-level message (and then exits) with optional key/value context.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	L().Fatalw(msg, keysAndValues...)
}
