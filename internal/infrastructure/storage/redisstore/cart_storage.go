package redisstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartStorage stores cart records as plain Redis strings. Concurrent writers to the
// same key follow last-write-wins.
type CartStorage struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *slog.Logger
}

// Connect parses a redis:// URL and verifies the connection with PING.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewCartStorage wraps a connected client. ttl <= 0 keeps records forever.
func NewCartStorage(client *redis.Client, ttl time.Duration, tracer trace.Tracer, logger *slog.Logger) *CartStorage {
	return &CartStorage{client: client, ttl: ttl, tracer: tracer, logger: logger}
}

// Get fetches the record for key
func (s *CartStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	ctx, span := s.tracer.Start(ctx, "RedisCartStorage.Get")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis GET failed")
		s.logger.ErrorContext(ctx, "Failed to read cart record",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, false, fmt.Errorf("failed to read cart record: %w", err)
	}
	return data, true, nil
}

// Set stores the record for key
func (s *CartStorage) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "RedisCartStorage.Set")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "redis SET failed")
		s.logger.ErrorContext(ctx, "Failed to write cart record",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to write cart record: %w", err)
	}
	return nil
}
