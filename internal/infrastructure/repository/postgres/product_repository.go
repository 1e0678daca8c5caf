package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"
	"github.com/mrops-br/moka-storefront/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Schema creates the products table used by the collection endpoint.
const Schema = `
CREATE TABLE IF NOT EXISTS products (
	seq         BIGSERIAL,
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	price       NUMERIC(12,2) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	shades      TEXT[] NOT NULL DEFAULT '{}',
	featured    BOOLEAN NOT NULL DEFAULT FALSE,
	in_stock    BOOLEAN NOT NULL DEFAULT TRUE,
	rating      DOUBLE PRECISION NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ
)`

const uniqueViolation = "23505"

const selectColumns = `id,name,category,price,description,image_url,shades,featured,in_stock,rating,created_at`

// ProductRepository is a PostgreSQL implementation of domain.ProductRepository
type ProductRepository struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// Open connects to dsn and verifies the connection
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return db, nil
}

// NewProductRepository creates a product repository backed by db
func NewProductRepository(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{db: db, tracer: tracer, logger: logger}
}

// Migrate creates the table and inserts seed when the table is empty
func (r *ProductRepository) Migrate(ctx context.Context, seed []domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Migrate")
	defer span.End()

	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Schema creation failed")
		return fmt.Errorf("failed to create products table: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Count failed")
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		span.SetStatus(codes.Ok, "Products already present")
		return nil
	}

	for i := range seed {
		if err := r.insert(ctx, &seed[i]); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Seeding failed")
			return fmt.Errorf("failed to seed product %q: %w", seed[i].ID, err)
		}
	}

	r.logger.InfoContext(ctx, "Products table seeded",
		slog.Int("count", len(seed)),
	)
	span.SetAttributes(attribute.Int("product.count", len(seed)))
	span.SetStatus(codes.Ok, "Products seeded")
	return nil
}

func (r *ProductRepository) insert(ctx context.Context, p *domain.Product) error {
	var created sql.NullTime
	if !p.CreatedAt.IsZero() {
		created = sql.NullTime{Time: p.CreatedAt.Time, Valid: true}
	}
	shades := p.Shades
	if shades == nil {
		shades = []string{}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products
		  (id, name, category, price, description, image_url, shades, featured, in_stock, rating, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		p.ID, p.Name, p.Category, p.Price, p.Description, p.ImageURL,
		pq.Array(shades), p.Featured, p.InStock, p.Rating, created)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrProductExists
	}
	return err
}

func scanProduct(scan func(...any) error) (*domain.Product, error) {
	p := &domain.Product{}
	var shades pq.StringArray
	var created sql.NullTime
	err := scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Description, &p.ImageURL,
		&shades, &p.Featured, &p.InStock, &p.Rating, &created)
	if err != nil {
		return nil, err
	}
	p.Shades = []string(shades)
	if created.Valid {
		p.CreatedAt = domain.Timestamp{Time: created.Time}
	}
	return p, nil
}

// Create stores a new product
func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", product.ID),
		attribute.String("product.name", product.Name),
	)

	if err := r.insert(ctx, product); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Insert failed")
		if errors.Is(err, domain.ErrProductExists) {
			return err
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.InfoContext(ctx, "Product created in repository",
		slog.String("product_id", product.ID),
		slog.String("product_name", product.Name),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM products WHERE id=$1`, id)
	product, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

// FindAll retrieves all products in insertion order
func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM products ORDER BY seq`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Query failed")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Scan failed")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Iteration failed")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}
