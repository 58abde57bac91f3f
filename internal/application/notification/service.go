package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

// Service nhận event orders.placed và báo cho chủ shop có đơn mới.
// Hiện tại chỉ log; gửi email/push là extension point.
type Service struct {
	users  repository.UserRepository
	logger logger.Logger
}

func NewService(users repository.UserRepository, log logger.Logger) *Service {
	return &Service{users: users, logger: log}
}

func (s *Service) HandleOrderPlaced(ctx context.Context, event avro.OrderPlacedEvent) error {
	seller, err := s.users.FindByID(ctx, event.ShopID)
	if errors.Is(err, user.ErrNotFound) {
		// shop đã bị xoá sau khi order được đặt; không retry được
		s.logger.Warn("order event for unknown shop",
			logger.String("order_id", event.OrderID),
			logger.String("shop_id", event.ShopID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load seller: %w", err)
	}

	s.logger.Info("new order for shop",
		logger.String("order_id", event.OrderID),
		logger.String("transaction_ref", event.TransactionRef),
		logger.String("seller_email", seller.Email),
		logger.Int64("total_price", event.TotalPrice),
		logger.Int("item_count", event.ItemCount),
	)
	return nil
}
