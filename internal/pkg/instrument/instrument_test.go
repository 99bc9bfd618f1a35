package instrument

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	// Act
	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "contactrelay"})

	// Assert
	require.NoError(t, err)
	assert.IsType(t, &noopInstrumentation{}, ins)
	assert.NotSame(t, prev, slog.Default())
	assert.NoError(t, ins.Shutdown(context.Background()))
}

func TestNew_NilConfig(t *testing.T) {
	ins, err := New(context.Background(), nil)

	require.NoError(t, err)
	assert.IsType(t, &noopInstrumentation{}, ins)
}

func TestNew_Enabled(t *testing.T) {
	prevLogger := slog.Default()
	prevTP := otel.GetTracerProvider()
	prevMP := otel.GetMeterProvider()
	t.Cleanup(func() {
		slog.SetDefault(prevLogger)
		otel.SetTracerProvider(prevTP)
		otel.SetMeterProvider(prevMP)
	})

	// Arrange
	cfg := &Config{
		Enabled:          true,
		ServiceName:      "contactrelay",
		OTLPEndpoint:     "127.0.0.1:1",
		TraceSampleRatio: 5,
	}

	// Act
	ins, err := New(context.Background(), cfg)

	// Assert
	require.NoError(t, err)
	o, ok := ins.(*otelInstrumentation)
	require.True(t, ok)
	assert.Same(t, o.tracerProvider, otel.GetTracerProvider())

	_, span := ins.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_ = ins.Shutdown(ctx) // no collector is listening
}
