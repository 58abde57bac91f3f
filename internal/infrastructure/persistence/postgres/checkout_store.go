package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	odomain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
	pdomain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
)

// CheckoutStore chạy toàn bộ ghi của một lần checkout trong một pgx
// transaction. Conditional UPDATE trên stock_quantity giữ row lock, nên
// các checkout tranh nhau cùng một product sẽ serialize ở tầng Postgres.
type CheckoutStore struct {
	pool *pgxpool.Pool
}

func NewCheckoutStore(pool *pgxpool.Pool) *CheckoutStore {
	return &CheckoutStore{pool: pool}
}

func (s *CheckoutStore) WithinTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin checkout tx: %w", err)
	}
	// Rollback sau Commit là no-op
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&checkoutTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit checkout tx: %w", err)
	}
	return nil
}

type checkoutTx struct {
	tx pgx.Tx
}

func (c *checkoutTx) SaveOrder(ctx context.Context, o *odomain.Order) error {
	if o == nil {
		return fmt.Errorf("order is nil")
	}

	const orderQuery = `
		INSERT INTO orders (
			id, buyer_id, shop_id, transaction_ref, payment_method,
			ship_full_name, ship_phone, ship_street, ship_ward, ship_district, ship_province,
			items_price, shipping_fee, tax_amount, total_price, status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := c.tx.Exec(ctx, orderQuery,
		o.ID, o.BuyerID, o.ShopID, o.TransactionRef, o.PaymentMethod,
		o.ShippingAddress.FullName, o.ShippingAddress.Phone, o.ShippingAddress.Street,
		o.ShippingAddress.Ward, o.ShippingAddress.District, o.ShippingAddress.Province,
		o.ItemsPrice, o.ShippingFee, o.TaxAmount, o.TotalPrice, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	const itemQuery = `
		INSERT INTO order_items (order_id, position, product_id, name, image, unit_price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for i, it := range o.Items {
		if _, err := c.tx.Exec(ctx, itemQuery,
			o.ID, i, it.ProductID, it.Name, it.Image, it.UnitPrice, it.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (c *checkoutTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return pdomain.ErrInvalidStock
	}

	const query = `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity >= $2;
	`
	tag, err := c.tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Phân biệt hết hàng với product không tồn tại
	var one int
	err = c.tx.QueryRow(ctx, `SELECT 1 FROM products WHERE id = $1;`, productID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return pdomain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	return pdomain.ErrInsufficientStock
}
