package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	const query = `
		INSERT INTO users (id, email, password_hash, name, role, shop_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Email,
		u.PasswordHash,
		u.Name,
		u.Role,
		u.ShopName,
		u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
		SELECT id, email, password_hash, name, role, shop_name, created_at
		FROM users
		WHERE id = $1;
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, email, password_hash, name, role, shop_name, created_at
		FROM users
		WHERE email = $1;
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("user is nil")
	}

	const query = `
		UPDATE users
		SET email = $2, password_hash = $3, name = $4, role = $5, shop_name = $6
		WHERE id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.ShopName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	const query = `
		SELECT id, email, password_hash, name, role, shop_name, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.ShopName, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, &u)
	}
	return users, rows.Err()
}

func (r *UserRepository) scanOne(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.ShopName, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
