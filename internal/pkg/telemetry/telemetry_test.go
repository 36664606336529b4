package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

func serviceNameOf(t *testing.T, serviceName string) (string, bool) {
	t.Helper()

	res, err := newResource(serviceName)
	require.NoError(t, err)
	require.NotNil(t, res)

	for _, attr := range res.Attributes() {
		if attr.Key == semconv.ServiceNameKey {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func TestNewResource(t *testing.T) {
	t.Run("should carry the service name", func(t *testing.T) {
		name, ok := serviceNameOf(t, "redisproxy")
		assert.True(t, ok)
		assert.Equal(t, "redisproxy", name)
	})

	t.Run("should keep special characters", func(t *testing.T) {
		name, ok := serviceNameOf(t, "redisproxy-eu_1")
		assert.True(t, ok)
		assert.Equal(t, "redisproxy-eu_1", name)
	})
}

func TestLoggerProvider(t *testing.T) {
	t.Run("should be nil before Init", func(t *testing.T) {
		original := loggerProvider
		t.Cleanup(func() { loggerProvider = original })

		loggerProvider = nil
		assert.Nil(t, LoggerProvider())
	})
}

func TestNoop(t *testing.T) {
	var shutdown ShutdownFunc = Noop
	assert.NoError(t, shutdown(t.Context()))
}

func TestInit(t *testing.T) {
	originalMeterProvider := otel.GetMeterProvider()
	originalTracerProvider := otel.GetTracerProvider()
	originalLoggerProvider := global.GetLoggerProvider()
	t.Cleanup(func() {
		otel.SetMeterProvider(originalMeterProvider)
		otel.SetTracerProvider(originalTracerProvider)
		global.SetLoggerProvider(originalLoggerProvider)
		loggerProvider = nil
	})

	t.Run("should install global providers", func(t *testing.T) {
		shutdown, err := Init(t.Context(), "redisproxy-test")
		if err != nil {
			// exporter construction depends on the OTLP environment
			t.Skipf("telemetry unavailable: %v", err)
		}
		require.NotNil(t, shutdown)

		assert.IsType(t, &sdkmetric.MeterProvider{}, otel.GetMeterProvider())
		assert.IsType(t, &sdktrace.TracerProvider{}, otel.GetTracerProvider())
		assert.IsType(t, &sdklog.LoggerProvider{}, global.GetLoggerProvider())
		assert.NotNil(t, LoggerProvider())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := shutdown(ctx); err != nil {
			t.Logf("shutdown without collector: %v", err)
		}
	})
}
