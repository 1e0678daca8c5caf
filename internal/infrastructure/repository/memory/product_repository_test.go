package memory

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/mrops-br/moka-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newTestRepository(seed ...domain.Product) *ProductRepository {
	return NewProductRepository(seed,
		tracenoop.NewTracerProvider().Tracer("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestSeedKeepsOrderAndSkipsDuplicates(t *testing.T) {
	repo := newTestRepository(
		domain.Product{ID: "b", Name: "Second", Price: decimal.NewFromInt(2)},
		domain.Product{ID: "a", Name: "First", Price: decimal.NewFromInt(1)},
		domain.Product{ID: "b", Name: "Shadow", Price: decimal.NewFromInt(3)},
	)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "Second", all[0].Name)
	assert.Equal(t, "a", all[1].ID)
}

func TestCreateRejectsExistingID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(domain.Product{ID: "lip-001", Name: "Velvet Matte Lipstick"})

	err := repo.Create(ctx, &domain.Product{ID: "lip-001", Name: "Other"})
	assert.ErrorIs(t, err, domain.ErrProductExists)

	require.NoError(t, repo.Create(ctx, &domain.Product{ID: "lip-002", Name: "Gloss"}))
	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lip-002", all[len(all)-1].ID)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(domain.Product{ID: "lip-001", Name: "Velvet Matte Lipstick"})

	got, err := repo.FindByID(ctx, "lip-001")
	require.NoError(t, err)
	got.Name = "Mutated"

	again, err := repo.FindByID(ctx, "lip-001")
	require.NoError(t, err)
	assert.Equal(t, "Velvet Matte Lipstick", again.Name)

	_, err = repo.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
