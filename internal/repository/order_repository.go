package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// OrderRepository defines persistence access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByReference(ctx context.Context, reference string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

// Create inserts the order and its lines in a single transaction.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const orderQuery = `
        INSERT INTO orders (user_id, reference, status, total)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRow(ctx, orderQuery,
		order.UserID,
		order.Reference,
		order.Status,
		order.Total,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const lineQuery = `
        INSERT INTO order_lines (order_id, product_id, name, unit_price, quantity)
        VALUES ($1, $2, $3, $4, $5)`

	for _, line := range order.Lines {
		if _, err := tx.Exec(ctx, lineQuery,
			order.ID,
			line.ProductID,
			line.Name,
			line.UnitPrice,
			line.Quantity,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) GetByReference(ctx context.Context, reference string) (*domain.Order, error) {
	const query = `
        SELECT id, user_id, reference, status, total, created_at, updated_at
        FROM orders WHERE reference=$1`

	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, reference).Scan(
		&order.ID,
		&order.UserID,
		&order.Reference,
		&order.Status,
		&order.Total,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}

	lines, err := r.linesFor(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Lines = lines
	return &order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	const query = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, error) {
	const query = `
        SELECT id, user_id, reference, status, total, created_at, updated_at
        FROM orders WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	return r.listQuery(ctx, query, userID, limit, offset)
}

func (r *orderRepository) List(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	const query = `
        SELECT id, user_id, reference, status, total, created_at, updated_at
        FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	return r.listQuery(ctx, query, limit, offset)
}

func (r *orderRepository) listQuery(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.UserID,
			&order.Reference,
			&order.Status,
			&order.Total,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) linesFor(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	const query = `
        SELECT product_id, name, unit_price, quantity
        FROM order_lines WHERE order_id=$1`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}
