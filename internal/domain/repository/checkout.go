package repository

import (
	"context"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
)

// CheckoutTx gom các thao tác ghi của một lần checkout trong cùng một
// database transaction.
type CheckoutTx interface {
	SaveOrder(ctx context.Context, o *order.Order) error

	// DecrementStock trừ tồn kho của một product. Trả về
	// product.ErrNotFound khi product không tồn tại và
	// product.ErrInsufficientStock khi tồn kho không đủ.
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// CheckoutStore chạy fn trong một transaction: fn trả lỗi thì mọi thay
// đổi bị rollback, ngược lại commit. Atomicity của checkout dựa hoàn
// toàn vào contract này.
type CheckoutStore interface {
	WithinTx(ctx context.Context, fn func(tx CheckoutTx) error) error
}
