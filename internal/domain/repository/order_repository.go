package repository

import (
	"context"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
)

type OrderRepository interface {
	FindByID(ctx context.Context, id string) (*order.Order, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]*order.Order, error)
	ListByShop(ctx context.Context, shopID string) ([]*order.Order, error)
	ListByTransactionRef(ctx context.Context, ref string) ([]*order.Order, error)
	ListAll(ctx context.Context, limit, offset int) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
