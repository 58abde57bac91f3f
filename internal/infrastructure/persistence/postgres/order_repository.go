package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `
	id, buyer_id, shop_id, transaction_ref, payment_method,
	ship_full_name, ship_phone, ship_street, ship_ward, ship_district, ship_province,
	items_price, shipping_fee, tax_amount, total_price, status, created_at
`

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1;`

	var o domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.BuyerID, &o.ShopID, &o.TransactionRef, &o.PaymentMethod,
		&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Street,
		&o.ShippingAddress.Ward, &o.ShippingAddress.District, &o.ShippingAddress.Province,
		&o.ItemsPrice, &o.ShippingFee, &o.TaxAmount, &o.TotalPrice, &o.Status, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC;`
	return r.list(ctx, query, buyerID)
}

func (r *OrderRepository) ListByShop(ctx context.Context, shopID string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE shop_id = $1 ORDER BY created_at DESC;`
	return r.list(ctx, query, shopID)
}

func (r *OrderRepository) ListByTransactionRef(ctx context.Context, ref string) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE transaction_ref = $1 ORDER BY created_at;`
	return r.list(ctx, query, ref)
}

func (r *OrderRepository) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	return r.list(ctx, query, limit, offset)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE orders SET status = $2 WHERE id = $1;`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.BuyerID, &o.ShopID, &o.TransactionRef, &o.PaymentMethod,
			&o.ShippingAddress.FullName, &o.ShippingAddress.Phone, &o.ShippingAddress.Street,
			&o.ShippingAddress.Ward, &o.ShippingAddress.District, &o.ShippingAddress.Province,
			&o.ItemsPrice, &o.ShippingFee, &o.TaxAmount, &o.TotalPrice, &o.Status, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	const query = `
		SELECT product_id, name, image, unit_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY position;
	`
	rows, err := r.pool.Query(ctx, query, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Image, &it.UnitPrice, &it.Quantity); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}
