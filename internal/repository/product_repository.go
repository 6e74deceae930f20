package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// ProductFilter narrows catalog listings. IncludeInactive lifts the
// active-only default so sellers can see their own deactivated products.
type ProductFilter struct {
	CategoryID      *string
	SellerID        *string
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// ProductRepository defines persistence access for the catalog.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, category *domain.Category) error
}

type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (seller_id, category_id, name, description, image, price, stock, active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		product.SellerID,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.Stock,
		product.Active,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products SET category_id=$1, name=$2, description=$3, image=$4, price=$5, stock=$6, active=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		product.CategoryID,
		product.Name,
		product.Description,
		product.Image,
		product.Price,
		product.Stock,
		product.Active,
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = productSelect + ` WHERE id=$1`

	var product domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, query, id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]domain.Product, error) {
	query := productSelect + ` WHERE TRUE`
	args := []any{}
	idx := 1

	if !filter.IncludeInactive {
		query += " AND active = TRUE"
	}
	if filter.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id=$%d", idx)
		args = append(args, *filter.CategoryID)
		idx++
	}
	if filter.SellerID != nil {
		query += fmt.Sprintf(" AND seller_id=$%d", idx)
		args = append(args, *filter.SellerID)
		idx++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", idx)
		args = append(args, "%"+filter.Search+"%")
		idx++
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, name, slug FROM categories ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *productRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	const query = `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`

	return r.pool.QueryRow(ctx, query, category.Name, category.Slug).Scan(&category.ID)
}

const productSelect = `
        SELECT id, seller_id, category_id, name, description, image, price, stock, active, created_at, updated_at
        FROM products`

func scanProduct(row pgx.Row, product *domain.Product) error {
	return row.Scan(
		&product.ID,
		&product.SellerID,
		&product.CategoryID,
		&product.Name,
		&product.Description,
		&product.Image,
		&product.Price,
		&product.Stock,
		&product.Active,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
