package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

func (r *ProductRepository) Save(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	const query = `
		INSERT INTO products (id, shop_id, title, author, category, description, image, price, stock_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.ShopID,
		p.Title,
		p.Author,
		p.Category,
		p.Description,
		p.Image,
		p.Price,
		p.StockQuantity,
		p.CreatedAt,
	)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	const query = `
		SELECT id, shop_id, title, author, category, description, image, price, stock_quantity, created_at
		FROM products
		WHERE id = $1;
	`
	var p domain.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.ShopID,
		&p.Title,
		&p.Author,
		&p.Category,
		&p.Description,
		&p.Image,
		&p.Price,
		&p.StockQuantity,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	query := `
		SELECT id, shop_id, title, author, category, description, image, price, stock_quantity, created_at
		FROM products
		WHERE 1=1
	`
	args := []any{}
	n := 0

	if filter.Query != "" {
		n++
		query += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d)", n, n)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Category != "" {
		n++
		query += fmt.Sprintf(" AND category = $%d", n)
		args = append(args, filter.Category)
	}
	if filter.ShopID != "" {
		n++
		query += fmt.Sprintf(" AND shop_id = $%d", n)
		args = append(args, filter.ShopID)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.ShopID, &p.Title, &p.Author, &p.Category,
			&p.Description, &p.Image, &p.Price, &p.StockQuantity, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	const query = `
		UPDATE products
		SET title = $2, author = $3, category = $4, description = $5,
			image = $6, price = $7, stock_quantity = $8
		WHERE id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Title, p.Author, p.Category, p.Description, p.Image, p.Price, p.StockQuantity,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
