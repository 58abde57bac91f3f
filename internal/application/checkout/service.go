package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

var ErrEmptyCart = errors.New("cart is empty")

// DuplicateCheckoutError báo client đã submit checkout này rồi
// (Idempotency-Key trùng). TransactionRef là ref của lần trước, rỗng nếu
// lần trước chưa ghi xong kết quả.
type DuplicateCheckoutError struct {
	TransactionRef string
}

func (e *DuplicateCheckoutError) Error() string {
	return "checkout already submitted with this idempotency key"
}

// CartLine là một dòng giỏ hàng client gửi lên, đã được parse chặt ở
// boundary.
type CartLine struct {
	ProductID string
	ShopID    string
	Name      string
	Image     string
	UnitPrice int64
	Quantity  int
}

type PlaceOrderCommand struct {
	BuyerID         string
	Lines           []CartLine
	ShippingAddress order.Address
	PaymentMethod   string
	// IdempotencyKey là optional; rỗng thì checkout không được dedupe.
	IdempotencyKey string
}

// Receipt là kết quả một lần checkout: mọi sub-order chia sẻ một
// TransactionRef.
type Receipt struct {
	TransactionRef string
	Orders         []*order.Order
}

// EventPublisher đẩy event orders.placed sau khi commit.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, key string, payload []byte) error
}

// IdempotencyGuard chặn double-submit theo Idempotency-Key.
type IdempotencyGuard interface {
	Reserve(ctx context.Context, buyerID, idemKey string) (existingRef string, reserved bool, err error)
	Complete(ctx context.Context, buyerID, idemKey, transactionRef string) error
	Release(ctx context.Context, buyerID, idemKey string) error
}

// Service là Order Splitter & Inventory Committer: tách giỏ hàng nhiều
// shop thành các sub-order, trừ tồn kho, và commit/rollback như một đơn
// vị duy nhất.
type Service struct {
	store       repository.CheckoutStore
	publisher   EventPublisher
	idempotency IdempotencyGuard
	codec       *avro.Codec
	shippingFee int64
	logger      logger.Logger
}

func NewService(
	store repository.CheckoutStore,
	publisher EventPublisher,
	idempotency IdempotencyGuard,
	codec *avro.Codec,
	shippingFee int64,
	log logger.Logger,
) *Service {
	return &Service{
		store:       store,
		publisher:   publisher,
		idempotency: idempotency,
		codec:       codec,
		shippingFee: shippingFee,
		logger:      log,
	}
}

// PlaceOrder thực hiện toàn bộ checkout. Thất bại ở bất kỳ bước nào thì
// không còn side effect nào quan sát được: không order, không trừ kho.
// Hai lần gọi không bao giờ sinh cùng TransactionRef.
func (s *Service) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*Receipt, error) {
	if len(cmd.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if cmd.BuyerID == "" {
		return nil, order.ErrMissingField
	}

	// Idempotency guard chạy trước mọi side effect
	useIdem := s.idempotency != nil && cmd.IdempotencyKey != ""
	if useIdem {
		existingRef, reserved, err := s.idempotency.Reserve(ctx, cmd.BuyerID, cmd.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("idempotency check: %w", err)
		}
		if !reserved {
			return nil, &DuplicateCheckoutError{TransactionRef: existingRef}
		}
	}

	receipt, err := s.placeOrder(ctx, cmd)
	if useIdem {
		if err != nil {
			// Giải phóng key để client retry sau lỗi
			if relErr := s.idempotency.Release(ctx, cmd.BuyerID, cmd.IdempotencyKey); relErr != nil {
				s.logger.Warn("release idempotency key failed", logger.Error(relErr))
			}
		} else {
			if cmpErr := s.idempotency.Complete(ctx, cmd.BuyerID, cmd.IdempotencyKey, receipt.TransactionRef); cmpErr != nil {
				s.logger.Warn("record idempotency result failed", logger.Error(cmpErr))
			}
		}
	}
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, receipt)
	return receipt, nil
}

func (s *Service) placeOrder(ctx context.Context, cmd PlaceOrderCommand) (*Receipt, error) {
	transactionRef := uuid.NewString()
	groups := groupByShop(cmd.Lines)

	// Dựng đủ các sub-order trước khi mở transaction: validation fail
	// thì chưa có truy cập store nào.
	orders := make([]*order.Order, 0, len(groups))
	for _, g := range groups {
		items := make([]order.LineItem, 0, len(g.Lines))
		for _, line := range g.Lines {
			items = append(items, order.LineItem{
				ProductID: line.ProductID,
				Name:      line.Name,
				Image:     line.Image,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
			})
		}

		o, err := order.NewOrder(
			uuid.NewString(),
			cmd.BuyerID,
			g.ShopID,
			transactionRef,
			items,
			cmd.ShippingAddress,
			cmd.PaymentMethod,
			s.shippingFee,
		)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	// Các shop group chạy tuần tự trong MỘT transaction: group sau nhìn
	// thấy số kho group trước đã trừ, và mọi thứ rollback cùng nhau.
	err := s.store.WithinTx(ctx, func(tx repository.CheckoutTx) error {
		for i, o := range orders {
			if err := tx.SaveOrder(ctx, o); err != nil {
				return fmt.Errorf("save order for shop %s: %w", o.ShopID, err)
			}
			for _, line := range groups[i].Lines {
				if err := tx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
					return fmt.Errorf("product %q (%s): %w", line.Name, line.ProductID, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		TransactionRef: transactionRef,
		Orders:         orders,
	}, nil
}

// publishEvents đẩy orders.placed sau commit; lỗi publish chỉ log, không
// làm fail checkout đã thành công.
func (s *Service) publishEvents(ctx context.Context, receipt *Receipt) {
	if s.publisher == nil || s.codec == nil {
		return
	}
	for _, o := range receipt.Orders {
		payload, err := s.codec.Encode(avro.EventFromOrder(o).ToNative())
		if err != nil {
			s.logger.Error("encode order event failed",
				logger.String("order_id", o.ID),
				logger.Error(err),
			)
			continue
		}
		if err := s.publisher.PublishOrderPlaced(ctx, o.TransactionRef, payload); err != nil {
			s.logger.Error("publish order event failed",
				logger.String("order_id", o.ID),
				logger.Error(err),
			)
		}
	}
}

type shopGroup struct {
	ShopID string
	Lines  []CartLine
}

// groupByShop là pure partition: shop theo thứ tự xuất hiện đầu tiên,
// dòng trong mỗi group giữ nguyên thứ tự tương đối của giỏ hàng.
func groupByShop(lines []CartLine) []shopGroup {
	index := make(map[string]int, len(lines))
	groups := make([]shopGroup, 0, len(lines))

	for _, line := range lines {
		i, ok := index[line.ShopID]
		if !ok {
			i = len(groups)
			index[line.ShopID] = i
			groups = append(groups, shopGroup{ShopID: line.ShopID})
		}
		groups[i].Lines = append(groups[i].Lines, line)
	}
	return groups
}
