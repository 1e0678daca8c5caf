package telemetry

import (
	"context"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTelemetryLocalMode(t *testing.T) {
	telem, err := NewTelemetry(
		&config.OTLPConfig{Enabled: false, ServiceName: "moka-storefront", Environment: "test"},
		&config.LogConfig{Level: "error"},
	)
	require.NoError(t, err)
	assert.Nil(t, telem.conn)

	ctx, span := telem.TracerProvider.Tracer("test").Start(context.Background(), "Test.Span")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	counter, err := telem.MeterProvider.Meter("test").Int64Counter("test.calls")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	require.NoError(t, telem.Shutdown(context.Background()))
}
