package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema tạo các bảng nếu chưa có. Gọi một lần lúc khởi động.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const stmt = `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL,
			shop_name TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			shop_id TEXT NOT NULL,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL,
			stock_quantity INT NOT NULL CHECK (stock_quantity >= 0),
			created_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			buyer_id TEXT NOT NULL,
			shop_id TEXT NOT NULL,
			transaction_ref TEXT NOT NULL,
			payment_method TEXT NOT NULL,
			ship_full_name TEXT NOT NULL,
			ship_phone TEXT NOT NULL DEFAULT '',
			ship_street TEXT NOT NULL,
			ship_ward TEXT NOT NULL DEFAULT '',
			ship_district TEXT NOT NULL DEFAULT '',
			ship_province TEXT NOT NULL,
			items_price BIGINT NOT NULL,
			shipping_fee BIGINT NOT NULL,
			tax_amount BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders (buyer_id);
		CREATE INDEX IF NOT EXISTS idx_orders_shop ON orders (shop_id);
		CREATE INDEX IF NOT EXISTS idx_orders_txref ON orders (transaction_ref);

		CREATE TABLE IF NOT EXISTS order_items (
			order_id TEXT NOT NULL REFERENCES orders (id),
			position INT NOT NULL,
			product_id TEXT NOT NULL,
			name TEXT NOT NULL,
			image TEXT NOT NULL DEFAULT '',
			unit_price BIGINT NOT NULL,
			quantity INT NOT NULL,
			PRIMARY KEY (order_id, position)
		);
	`
	_, err := pool.Exec(ctx, stmt)
	return err
}
