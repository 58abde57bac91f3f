package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/product"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/repository"
	"github.com/TP4uit/SmartBook-MERN-sub000/internal/infrastructure/encoding/avro"
	"github.com/TP4uit/SmartBook-MERN-sub000/pkg/logger"
)

/* ================= fakes ================= */

// fakeStore giả lập transactional store: fn trả lỗi thì mọi thay đổi bị
// bỏ, ngược lại mới ghi vào state committed.
type fakeStore struct {
	stock    map[string]int
	orders   []*order.Order
	txCalled int
}

func newFakeStore(stock map[string]int) *fakeStore {
	s := &fakeStore{stock: map[string]int{}}
	for id, qty := range stock {
		s.stock[id] = qty
	}
	return s
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(tx repository.CheckoutTx) error) error {
	s.txCalled++

	txStock := make(map[string]int, len(s.stock))
	for id, qty := range s.stock {
		txStock[id] = qty
	}
	tx := &fakeTx{stock: txStock}

	if err := fn(tx); err != nil {
		// rollback: committed state giữ nguyên
		return err
	}

	s.stock = tx.stock
	s.orders = append(s.orders, tx.saved...)
	return nil
}

type fakeTx struct {
	stock map[string]int
	saved []*order.Order
}

func (t *fakeTx) SaveOrder(ctx context.Context, o *order.Order) error {
	t.saved = append(t.saved, o)
	return nil
}

func (t *fakeTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	current, ok := t.stock[productID]
	if !ok {
		return product.ErrNotFound
	}
	if current < quantity {
		return product.ErrInsufficientStock
	}
	t.stock[productID] = current - quantity
	return nil
}

// MockPublisher là mock cho EventPublisher interface
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOrderPlaced(ctx context.Context, key string, payload []byte) error {
	args := m.Called(ctx, key, payload)
	return args.Error(0)
}

// MockIdempotencyGuard là mock cho IdempotencyGuard interface
type MockIdempotencyGuard struct {
	mock.Mock
}

func (m *MockIdempotencyGuard) Reserve(ctx context.Context, buyerID, idemKey string) (string, bool, error) {
	args := m.Called(ctx, buyerID, idemKey)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyGuard) Complete(ctx context.Context, buyerID, idemKey, transactionRef string) error {
	args := m.Called(ctx, buyerID, idemKey, transactionRef)
	return args.Error(0)
}

func (m *MockIdempotencyGuard) Release(ctx context.Context, buyerID, idemKey string) error {
	args := m.Called(ctx, buyerID, idemKey)
	return args.Error(0)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...logger.Field)           {}
func (nopLogger) Info(string, ...logger.Field)            {}
func (nopLogger) Warn(string, ...logger.Field)            {}
func (nopLogger) Error(string, ...logger.Field)           {}
func (nopLogger) Fatal(string, ...logger.Field)           {}
func (n nopLogger) WithContext(context.Context) logger.Logger { return n }
func (n nopLogger) WithFields(...logger.Field) logger.Logger  { return n }
func (nopLogger) Sync() error                             { return nil }

/* ================= helpers ================= */

const shippingFee = 30000

func newService(store repository.CheckoutStore) *Service {
	return NewService(store, nil, nil, nil, shippingFee, nopLogger{})
}

func sampleAddress() order.Address {
	return order.Address{
		FullName: "Tran Thi B",
		Phone:    "0911111111",
		Street:   "12 Ly Thuong Kiet",
		Province: "Ha Noi",
	}
}

// Giỏ hàng ví dụ: A, B thuộc shop S1; C thuộc shop S2.
func sampleCart() []CartLine {
	return []CartLine{
		{ProductID: "A", ShopID: "S1", Name: "Sach A", UnitPrice: 79000, Quantity: 1},
		{ProductID: "B", ShopID: "S1", Name: "Sach B", UnitPrice: 86000, Quantity: 1},
		{ProductID: "C", ShopID: "S2", Name: "Sach C", UnitPrice: 90000, Quantity: 1},
	}
}

func sampleCommand() PlaceOrderCommand {
	return PlaceOrderCommand{
		BuyerID:         "buyer-1",
		Lines:           sampleCart(),
		ShippingAddress: sampleAddress(),
		PaymentMethod:   "COD",
	}
}

/* ================= tests ================= */

func TestPlaceOrder_EmptyCart(t *testing.T) {
	store := newFakeStore(nil)
	svc := newService(store)

	cmd := sampleCommand()
	cmd.Lines = nil

	_, err := svc.PlaceOrder(context.Background(), cmd)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, store.txCalled, "empty cart must be rejected before any store access")
}

func TestPlaceOrder_InvalidQuantity_NoStoreAccess(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 10})
	svc := newService(store)

	cmd := sampleCommand()
	cmd.Lines = []CartLine{{ProductID: "A", ShopID: "S1", Name: "Sach A", UnitPrice: 79000, Quantity: 0}}

	_, err := svc.PlaceOrder(context.Background(), cmd)

	assert.ErrorIs(t, err, order.ErrInvalidQuantity)
	assert.Equal(t, 0, store.txCalled)
}

func TestPlaceOrder_SplitsCartByShop(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	svc := newService(store)

	receipt, err := svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)

	require.Len(t, receipt.Orders, 2)

	s1, s2 := receipt.Orders[0], receipt.Orders[1]
	assert.Equal(t, "S1", s1.ShopID)
	assert.Equal(t, "S2", s2.ShopID)

	// 79000 + 86000
	assert.Equal(t, int64(165000), s1.ItemsPrice)
	assert.Equal(t, int64(90000), s2.ItemsPrice)

	// kho trừ đúng một cho mỗi product
	assert.Equal(t, 4, store.stock["A"])
	assert.Equal(t, 4, store.stock["B"])
	assert.Equal(t, 4, store.stock["C"])
}

// mọi sub-order của một lần gọi chia sẻ đúng một transactionRef.
func TestPlaceOrder_SharedTransactionRef(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	svc := newService(store)

	receipt, err := svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)

	require.NotEmpty(t, receipt.TransactionRef)
	for _, o := range receipt.Orders {
		assert.Equal(t, receipt.TransactionRef, o.TransactionRef)
	}
}

func TestPlaceOrder_DistinctCallsDistinctRefs(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	svc := newService(store)

	first, err := svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)
	second, err := svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)

	assert.NotEqual(t, first.TransactionRef, second.TransactionRef)

	// không idempotent: lần hai trừ kho tiếp
	assert.Equal(t, 3, store.stock["A"])
}

// hợp các line item của các sub-order bằng đúng giỏ hàng vào, không
// line nào xuất hiện hai lần, không sub-order nào lẫn shop.
func TestPlaceOrder_PartitionCorrectness(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 9, "B": 9, "C": 9, "D": 9})
	svc := newService(store)

	cmd := sampleCommand()
	// shop xen kẽ để kiểm tra partition giữ thứ tự
	cmd.Lines = []CartLine{
		{ProductID: "A", ShopID: "S1", Name: "Sach A", UnitPrice: 10000, Quantity: 1},
		{ProductID: "C", ShopID: "S2", Name: "Sach C", UnitPrice: 20000, Quantity: 2},
		{ProductID: "B", ShopID: "S1", Name: "Sach B", UnitPrice: 30000, Quantity: 3},
		{ProductID: "D", ShopID: "S3", Name: "Sach D", UnitPrice: 40000, Quantity: 4},
	}

	receipt, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)
	require.Len(t, receipt.Orders, 3)

	type lineKey struct {
		ProductID string
		UnitPrice int64
		Quantity  int
	}
	seen := map[lineKey]int{}
	for _, o := range receipt.Orders {
		for _, it := range o.Items {
			seen[lineKey{it.ProductID, it.UnitPrice, it.Quantity}]++
		}
	}
	for _, line := range cmd.Lines {
		assert.Equal(t, 1, seen[lineKey{line.ProductID, line.UnitPrice, line.Quantity}],
			"line %s must appear in exactly one sub-order", line.ProductID)
	}

	// shop theo thứ tự xuất hiện đầu tiên, line giữ thứ tự trong group
	assert.Equal(t, "S1", receipt.Orders[0].ShopID)
	assert.Equal(t, "S2", receipt.Orders[1].ShopID)
	assert.Equal(t, "S3", receipt.Orders[2].ShopID)
	require.Len(t, receipt.Orders[0].Items, 2)
	assert.Equal(t, "A", receipt.Orders[0].Items[0].ProductID)
	assert.Equal(t, "B", receipt.Orders[0].Items[1].ProductID)
}

// totalPrice == itemsPrice + shippingFee + taxAmount cho từng sub-order.
func TestPlaceOrder_PriceComputation(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	svc := newService(store)

	receipt, err := svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)

	for _, o := range receipt.Orders {
		var items int64
		for _, it := range o.Items {
			items += it.UnitPrice * int64(it.Quantity)
		}
		assert.Equal(t, items, o.ItemsPrice)
		assert.Equal(t, int64(shippingFee), o.ShippingFee)
		assert.Equal(t, o.ItemsPrice+o.ShippingFee+o.TaxAmount, o.TotalPrice)
	}
}

// hết hàng ở shop thứ hai thì không order nào được ghi và kho shop
// thứ nhất giữ nguyên.
func TestPlaceOrder_InsufficientStock_RollsBackEverything(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 0})
	svc := newService(store)

	_, err := svc.PlaceOrder(context.Background(), sampleCommand())

	require.Error(t, err)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Sach C", "error must name the offending product")

	assert.Empty(t, store.orders, "no order may be observable after rollback")
	assert.Equal(t, 5, store.stock["A"])
	assert.Equal(t, 5, store.stock["B"])
	assert.Equal(t, 0, store.stock["C"])
}

func TestPlaceOrder_ProductNotFound_RollsBackEverything(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5})
	svc := newService(store)

	_, err := svc.PlaceOrder(context.Background(), sampleCommand())

	require.Error(t, err)
	assert.ErrorIs(t, err, product.ErrNotFound)
	assert.Contains(t, err.Error(), "C")

	assert.Empty(t, store.orders)
	assert.Equal(t, 5, store.stock["A"])
	assert.Equal(t, 5, store.stock["B"])
}

// sau call thành công, kho mỗi product giảm đúng tổng số lượng mua
// trong call đó, kể cả khi một product xuất hiện nhiều dòng.
func TestPlaceOrder_NoOversell_AcrossDuplicateLines(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 3})
	svc := newService(store)

	cmd := sampleCommand()
	cmd.Lines = []CartLine{
		{ProductID: "A", ShopID: "S1", Name: "Sach A", UnitPrice: 10000, Quantity: 2},
		{ProductID: "A", ShopID: "S2", Name: "Sach A", UnitPrice: 10000, Quantity: 2},
	}

	_, err := svc.PlaceOrder(context.Background(), cmd)

	// group sau phải nhìn thấy kho đã trừ bởi group trước trong cùng tx
	require.Error(t, err)
	assert.ErrorIs(t, err, product.ErrInsufficientStock)
	assert.Equal(t, 3, store.stock["A"], "failed checkout must not touch stock")
}

func TestPlaceOrder_SingleShopCart(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 1})
	svc := newService(store)

	cmd := sampleCommand()
	cmd.Lines = []CartLine{
		{ProductID: "A", ShopID: "S1", Name: "Sach A", UnitPrice: 50000, Quantity: 1},
	}

	receipt, err := svc.PlaceOrder(context.Background(), cmd)
	require.NoError(t, err)

	require.Len(t, receipt.Orders, 1)
	assert.Equal(t, order.StatusPending, receipt.Orders[0].Status)
	assert.Equal(t, 0, store.stock["A"])
}

func TestPlaceOrder_IdempotencyKey_Duplicate(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	guard := new(MockIdempotencyGuard)
	svc := NewService(store, nil, guard, nil, shippingFee, nopLogger{})

	cmd := sampleCommand()
	cmd.IdempotencyKey = "idem-1"

	guard.On("Reserve", mock.Anything, "buyer-1", "idem-1").Return("tx-earlier", false, nil)

	_, err := svc.PlaceOrder(context.Background(), cmd)

	var dup *DuplicateCheckoutError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "tx-earlier", dup.TransactionRef)
	assert.Equal(t, 0, store.txCalled)
	guard.AssertExpectations(t)
}

func TestPlaceOrder_IdempotencyKey_ReleasedOnFailure(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 0})
	guard := new(MockIdempotencyGuard)
	svc := NewService(store, nil, guard, nil, shippingFee, nopLogger{})

	cmd := sampleCommand()
	cmd.IdempotencyKey = "idem-2"

	guard.On("Reserve", mock.Anything, "buyer-1", "idem-2").Return("", true, nil)
	guard.On("Release", mock.Anything, "buyer-1", "idem-2").Return(nil)

	_, err := svc.PlaceOrder(context.Background(), cmd)

	require.Error(t, err)
	guard.AssertExpectations(t)
	guard.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceOrder_PublishesEventPerSubOrder(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 5})
	publisher := new(MockPublisher)
	codec, err := avro.NewCodec(avro.OrderPlacedSchema)
	require.NoError(t, err)
	svc := NewService(store, publisher, nil, codec, shippingFee, nopLogger{})

	publisher.On("PublishOrderPlaced", mock.Anything, mock.AnythingOfType("string"), mock.MatchedBy(func(payload []byte) bool {
		return len(payload) > 0
	})).Return(nil).Twice()

	_, err = svc.PlaceOrder(context.Background(), sampleCommand())
	require.NoError(t, err)

	publisher.AssertExpectations(t)
}

func TestPlaceOrder_NoEventsOnFailure(t *testing.T) {
	store := newFakeStore(map[string]int{"A": 5, "B": 5, "C": 0})
	publisher := new(MockPublisher)
	codec, err := avro.NewCodec(avro.OrderPlacedSchema)
	require.NoError(t, err)
	svc := NewService(store, publisher, nil, codec, shippingFee, nopLogger{})

	_, err = svc.PlaceOrder(context.Background(), sampleCommand())

	require.Error(t, err)
	publisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything, mock.Anything)
}

func TestGroupByShop(t *testing.T) {
	lines := []CartLine{
		{ProductID: "p1", ShopID: "S2"},
		{ProductID: "p2", ShopID: "S1"},
		{ProductID: "p3", ShopID: "S2"},
	}

	groups := groupByShop(lines)

	require.Len(t, groups, 2)
	assert.Equal(t, "S2", groups[0].ShopID)
	assert.Equal(t, "S1", groups[1].ShopID)
	require.Len(t, groups[0].Lines, 2)
	assert.Equal(t, "p1", groups[0].Lines[0].ProductID)
	assert.Equal(t, "p3", groups[0].Lines[1].ProductID)
}
