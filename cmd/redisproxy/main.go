// Command redisproxy runs redis commands through a managed connector.
//
// Configuration is read from REDISPROXY_* environment variables; see the
// config package. Logs are written to stderr as JSON so command output on
// stdout stays clean.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/redisproxy/internal/config"
	"github.com/gabapcia/redisproxy/internal/connector"
	"github.com/gabapcia/redisproxy/internal/handlers/cli"
	"github.com/gabapcia/redisproxy/internal/pkg/logger"
	"github.com/gabapcia/redisproxy/internal/pkg/telemetry"
	"github.com/gabapcia/redisproxy/internal/registry"

	"go.uber.org/zap/zapcore"
)

// exitUsage is returned for configuration and command errors.
const exitUsage = 2

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// telemetry goes first so the logger can bridge to its provider
	shutdown := telemetry.ShutdownFunc(telemetry.Noop)
	if cfg.Telemetry.Enabled {
		if shutdown, err = telemetry.Init(ctx, cfg.Telemetry.ServiceName); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return exitUsage
		}
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "telemetry shutdown failed:", err)
		}
	}()

	if err := logger.Init(logger.WithLevel(cfg.LogLevel), logger.WithOutput(zapcore.Lock(os.Stderr))); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}
	defer logger.Sync()

	reg := registry.New(registry.WithBaseOptions(cfg.ConnectorOptions()))
	defer func() {
		if err := reg.Close(); err != nil {
			logger.Warn(ctx, "registry close failed", "error", err)
		}
	}()

	conn, err := reg.Acquire(ctx, cfg.Endpoint())
	if err != nil {
		return startupExit(ctx, cfg, err)
	}

	if err := cli.Run(ctx, conn, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if connector.CodeOf(err) == connector.CodeInvalidArguments {
			return exitUsage
		}
		return 1
	}

	return 0
}

// startupExit logs a failed Acquire and returns the exit code. An unreachable
// or rejecting backend is logged at fatal level and exits with the configured
// startup code.
func startupExit(ctx context.Context, cfg config.Config, err error) int {
	var startupErr *connector.StartupError
	if errors.As(err, &startupErr) {
		logger.Critical(ctx, "redis unavailable at startup, exiting",
			"endpoint", cfg.Endpoint().Key(),
			"errno", int(startupErr.Code()),
			"exit_code", cfg.StartupExitCode,
		)
		return cfg.StartupExitCode
	}

	logger.Error(ctx, "redis endpoint rejected", "error", err)
	return exitUsage
}
