package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestLoggerAddsContextAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "moka-storefront", "test", "debug")

	ctx := WithHTTPRoute(context.Background(), "/api/cart")
	ctx = WithSessionID(ctx, "sess-1")
	logger.InfoContext(ctx, "Cart rendered")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "/api/cart", record["http.route"])
	assert.Equal(t, "sess-1", record["session.id"])
	assert.Equal(t, "moka-storefront", record["service.name"])
}
