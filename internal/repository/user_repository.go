package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/marketplace-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, limit, offset int) ([]domain.User, error)
	SetPermissions(ctx context.Context, id string, perms []domain.AdminPermission) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, full_name, phone_number, password_hash, role, permissions, verified, business_name, business_address, admin_verified)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Email,
		user.FullName,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		permissionStrings(user.Permissions),
		user.Verified,
		user.BusinessName,
		user.BusinessAddress,
		user.AdminVerified,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET email=$1, full_name=$2, phone_number=$3, password_hash=$4, role=$5,
               permissions=$6, verified=$7, business_name=$8, business_address=$9, admin_verified=$10,
               updated_at=NOW()
        WHERE id=$11`

	cmd, err := r.pool.Exec(ctx, query,
		user.Email,
		user.FullName,
		user.PhoneNumber,
		user.PasswordHash,
		user.Role,
		permissionStrings(user.Permissions),
		user.Verified,
		user.BusinessName,
		user.BusinessAddress,
		user.AdminVerified,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = userSelect + ` WHERE id=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = userSelect + ` WHERE email=$1`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	const query = userSelect + ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) SetPermissions(ctx context.Context, id string, perms []domain.AdminPermission) error {
	const query = `UPDATE users SET permissions=$1, updated_at=NOW() WHERE id=$2 AND role='admin'`

	cmd, err := r.pool.Exec(ctx, query, permissionStrings(perms), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const userSelect = `
        SELECT id, email, full_name, phone_number, password_hash, role, permissions, verified,
               business_name, business_address, admin_verified, created_at, updated_at
        FROM users`

func (r *userRepository) scanOne(row pgx.Row) (*domain.User, error) {
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	var perms []string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.PhoneNumber,
		&user.PasswordHash,
		&user.Role,
		&perms,
		&user.Verified,
		&user.BusinessName,
		&user.BusinessAddress,
		&user.AdminVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	for _, p := range perms {
		user.Permissions = append(user.Permissions, domain.AdminPermission(p))
	}
	return &user, nil
}

func permissionStrings(perms []domain.AdminPermission) []string {
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, string(p))
	}
	return out
}
