package order

import (
	"context"
	"errors"

	domain "github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
)

// ErrForbidden: caller không phải buyer, không phải chủ shop và không
// phải admin.
var ErrForbidden = errors.New("caller may not access this order")

// Service phục vụ truy vấn và chuyển trạng thái order sau checkout.
// Việc tạo order thuộc về checkout.Service.
type Service struct {
	orders repository.OrderRepository
}

func NewService(orders repository.OrderRepository) *Service {
	return &Service{orders: orders}
}

func (s *Service) Get(ctx context.Context, callerID, callerRole, orderID string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canView(o, callerID, callerRole) {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	return s.orders.ListByBuyer(ctx, buyerID)
}

func (s *Service) ListForShop(ctx context.Context, shopID string) ([]*domain.Order, error) {
	return s.orders.ListByShop(ctx, shopID)
}

// ListSiblings trả về mọi sub-order cùng một lần checkout.
func (s *Service) ListSiblings(ctx context.Context, callerID, callerRole, orderID string) ([]*domain.Order, error) {
	o, err := s.Get(ctx, callerID, callerRole, orderID)
	if err != nil {
		return nil, err
	}
	return s.orders.ListByTransactionRef(ctx, o.TransactionRef)
}

func (s *Service) ListAll(ctx context.Context, limit, offset int) ([]*domain.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.orders.ListAll(ctx, limit, offset)
}

// UpdateStatus chuyển order sang trạng thái kế tiếp. Chỉ chủ shop hoặc
// admin; lifecycle do domain enforce.
func (s *Service) UpdateStatus(ctx context.Context, callerID, callerRole, orderID, next string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ShopID != callerID && callerRole != user.RoleAdmin {
		return nil, ErrForbidden
	}

	if err := o.TransitionTo(next); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, o.Status); err != nil {
		return nil, err
	}
	return o, nil
}

// Cancel là đường tắt buyer huỷ order còn Pending của chính mình.
func (s *Service) Cancel(ctx context.Context, callerID, orderID string) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != callerID {
		return nil, ErrForbidden
	}

	if err := o.TransitionTo(domain.StatusCancelled); err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, o.Status); err != nil {
		return nil, err
	}
	return o, nil
}

func canView(o *domain.Order, callerID, callerRole string) bool {
	return o.BuyerID == callerID || o.ShopID == callerID || callerRole == user.RoleAdmin
}
