package order

import "time"

// LineItem là một dòng hàng trong sub-order, copy từ cart tại thời điểm đặt.
type LineItem struct {
	ProductID string
	Name      string
	Image     string
	UnitPrice int64
	Quantity  int
}

// Address is copied onto the order at creation time and never changes.
type Address struct {
	FullName string
	Phone    string
	Street   string
	Ward     string
	District string
	Province string
}

// Order is the per-shop aggregate produced by splitting a checkout cart.
// All line items belong to ShopID; sibling orders from the same checkout
// share TransactionRef.
type Order struct {
	ID              string
	BuyerID         string
	ShopID          string
	TransactionRef  string
	Items           []LineItem
	ShippingAddress Address
	PaymentMethod   string
	ItemsPrice      int64
	ShippingFee     int64
	TaxAmount       int64
	TotalPrice      int64
	Status          string
	CreatedAt       time.Time
}

// NewOrder builds a Pending order for one shop and computes its totals.
// TotalPrice = ItemsPrice + ShippingFee + TaxAmount; tax is zero for now.
func NewOrder(id, buyerID, shopID, transactionRef string, items []LineItem, addr Address, paymentMethod string, shippingFee int64) (*Order, error) {
	if id == "" || buyerID == "" || shopID == "" || transactionRef == "" {
		return nil, ErrMissingField
	}
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if addr.FullName == "" || addr.Street == "" || addr.Province == "" {
		return nil, ErrMissingAddress
	}
	if paymentMethod == "" {
		return nil, ErrMissingPaymentMethod
	}

	var itemsPrice int64
	for _, it := range items {
		if it.ProductID == "" {
			return nil, ErrMissingField
		}
		if it.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if it.UnitPrice <= 0 {
			return nil, ErrInvalidPrice
		}
		itemsPrice += it.UnitPrice * int64(it.Quantity)
	}

	const taxAmount = 0

	return &Order{
		ID:              id,
		BuyerID:         buyerID,
		ShopID:          shopID,
		TransactionRef:  transactionRef,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingFee:     shippingFee,
		TaxAmount:       taxAmount,
		TotalPrice:      itemsPrice + shippingFee + taxAmount,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// TransitionTo moves the order along its lifecycle. Orders are never
// deleted, only status-transitioned.
func (o *Order) TransitionTo(next string) error {
	if !CanTransition(o.Status, next) {
		return ErrInvalidTransition
	}
	o.Status = next
	return nil
}
