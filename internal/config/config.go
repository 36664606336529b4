// Package config loads the process configuration from REDISPROXY_* environment
// variables.
package config

import (
	"fmt"
	"time"

	"github.com/gabapcia/redisproxy/internal/connector"
	"github.com/gabapcia/redisproxy/internal/pkg/validator"
	"github.com/gabapcia/redisproxy/internal/registry"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. REDISPROXY_REDIS_HOST.
const Prefix = "REDISPROXY"

// Redis holds the endpoint and the link policy shared by every connector.
type Redis struct {
	Host     string `envconfig:"HOST" default:"127.0.0.1" validate:"required"`
	Port     int    `envconfig:"PORT" default:"6379" validate:"min=1,max=65535"`
	Password string `envconfig:"PASSWORD"`
	DB       int    `envconfig:"DB" default:"0" validate:"min=0"`

	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s" validate:"min=0"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`

	// ReconnectDelay must be positive; the connector treats zero as unset.
	ReconnectDelay       time.Duration `envconfig:"RECONNECT_DELAY" default:"1s" validate:"gt=0"`
	ReconnectMaxAttempts uint          `envconfig:"RECONNECT_MAX_ATTEMPTS" default:"0"`
	ReconnectOnFailure   bool          `envconfig:"RECONNECT_ON_FAILURE" default:"true"`
}

// Telemetry toggles the OTLP exporters.
type Telemetry struct {
	Enabled     bool   `envconfig:"ENABLED" default:"false"`
	ServiceName string `envconfig:"SERVICE_NAME" default:"redisproxy" validate:"required_if=Enabled true"`
}

// Config is the full process configuration.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// StartupExitCode is the status the process exits with when the backend
	// cannot be reached or rejects authentication at startup.
	StartupExitCode int `envconfig:"STARTUP_EXIT_CODE" default:"1" validate:"min=1,max=125"`

	Redis     Redis     `envconfig:"REDIS"`
	Telemetry Telemetry `envconfig:"TELEMETRY"`
}

// Load reads and validates the configuration.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// Endpoint returns the configured redis endpoint.
func (c Config) Endpoint() registry.Endpoint {
	return registry.Endpoint{
		Host:     c.Redis.Host,
		Port:     c.Redis.Port,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
	}
}

// ConnectorOptions returns the timeouts and reconnect policy without the
// endpoint fields, ready for registry.WithBaseOptions.
func (c Config) ConnectorOptions() connector.Options {
	return connector.Options{
		DialTimeout:          c.Redis.DialTimeout,
		ReadTimeout:          c.Redis.ReadTimeout,
		WriteTimeout:         c.Redis.WriteTimeout,
		ReconnectDelay:       c.Redis.ReconnectDelay,
		ReconnectMaxAttempts: c.Redis.ReconnectMaxAttempts,
		ReconnectOnFailure:   c.Redis.ReconnectOnFailure,
	}
}
