package redisstore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Runs against the Redis named by MOKA_TEST_REDIS_URL.
func newTestStorage(t *testing.T, ttl time.Duration) *CartStorage {
	t.Helper()
	url := os.Getenv("MOKA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("MOKA_TEST_REDIS_URL not set")
	}

	client, err := Connect(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return NewCartStorage(client, ttl,
		tracenoop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not a url")
	assert.ErrorContains(t, err, "invalid REDIS_URL")
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t, time.Minute)
	key := "moka_cart_test:" + uuid.NewString()
	t.Cleanup(func() { s.client.Del(context.Background(), key) })

	_, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, key, []byte(`[]`)))
	require.NoError(t, s.Set(ctx, key, []byte(`[{"id":"lip-001"}]`)))

	got, found, err := s.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `[{"id":"lip-001"}]`, string(got))

	ttl, err := s.client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
