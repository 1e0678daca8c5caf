package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// CartStorage keeps one file per key under a directory.
// Writes go through a temp file and rename so readers never see a torn record.
type CartStorage struct {
	mu     sync.Mutex
	dir    string
	tracer trace.Tracer
	logger *slog.Logger
}

// NewCartStorage creates the directory if needed
func NewCartStorage(dir string, tracer trace.Tracer, logger *slog.Logger) (*CartStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cart storage dir: %w", err)
	}
	return &CartStorage{dir: dir, tracer: tracer, logger: logger}, nil
}

// keys can hold any byte; hex keeps file names portable.
func (s *CartStorage) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

// Get reads the record for key
func (s *CartStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_, span := s.tracer.Start(ctx, "FileCartStorage.Get")
	defer span.End()
	span.SetAttributes(attribute.String("storage.key", key))

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, false, fmt.Errorf("failed to read cart record: %w", err)
	}
	return data, true, nil
}

// Set writes the record for key
func (s *CartStorage) Set(ctx context.Context, key string, value []byte) error {
	ctx, span := s.tracer.Start(ctx, "FileCartStorage.Set")
	defer span.End()
	span.SetAttributes(
		attribute.String("storage.key", key),
		attribute.Int("storage.bytes", len(value)),
	)

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "cart-*.tmp")
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create temp cart record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		span.RecordError(err)
		return fmt.Errorf("failed to write cart record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to close cart record: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "rename failed")
		return fmt.Errorf("failed to store cart record: %w", err)
	}

	s.logger.DebugContext(ctx, "Cart record written",
		slog.String("key", key),
		slog.Int("bytes", len(value)),
	)
	return nil
}
