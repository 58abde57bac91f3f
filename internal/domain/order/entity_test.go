package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []LineItem {
	return []LineItem{
		{ProductID: "p-1", Name: "Clean Code", UnitPrice: 79000, Quantity: 1},
		{ProductID: "p-2", Name: "The Go Programming Language", UnitPrice: 86000, Quantity: 2},
	}
}

func validAddress() Address {
	return Address{
		FullName: "Nguyen Van A",
		Phone:    "0900000000",
		Street:   "1 Vo Van Ngan",
		Ward:     "Linh Chieu",
		District: "Thu Duc",
		Province: "TP HCM",
	}
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	o, err := NewOrder("o-1", "buyer-1", "shop-1", "tx-1", validItems(), validAddress(), "COD", 30000)
	require.NoError(t, err)

	// 79000*1 + 86000*2
	assert.Equal(t, int64(251000), o.ItemsPrice)
	assert.Equal(t, int64(30000), o.ShippingFee)
	assert.Equal(t, int64(0), o.TaxAmount)
	assert.Equal(t, o.ItemsPrice+o.ShippingFee+o.TaxAmount, o.TotalPrice)
	assert.Equal(t, StatusPending, o.Status)
}

func TestNewOrder_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string)
		wantErr error
	}{
		{
			name: "empty items",
			mutate: func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string) {
				return nil, addr, payment
			},
			wantErr: ErrEmptyItems,
		},
		{
			name: "zero quantity",
			mutate: func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string) {
				items[0].Quantity = 0
				return items, addr, payment
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "negative price",
			mutate: func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string) {
				items[1].UnitPrice = -1
				return items, addr, payment
			},
			wantErr: ErrInvalidPrice,
		},
		{
			name: "missing address",
			mutate: func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string) {
				addr.Street = ""
				return items, addr, payment
			},
			wantErr: ErrMissingAddress,
		},
		{
			name: "missing payment method",
			mutate: func(items []LineItem, addr Address, payment string) ([]LineItem, Address, string) {
				return items, addr, ""
			},
			wantErr: ErrMissingPaymentMethod,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, addr, payment := tt.mutate(validItems(), validAddress(), "COD")
			_, err := NewOrder("o-1", "buyer-1", "shop-1", "tx-1", items, addr, payment, 30000)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestOrder_TransitionTo(t *testing.T) {
	o, err := NewOrder("o-1", "buyer-1", "shop-1", "tx-1", validItems(), validAddress(), "COD", 30000)
	require.NoError(t, err)

	require.NoError(t, o.TransitionTo(StatusProcessing))
	require.NoError(t, o.TransitionTo(StatusShipping))
	require.NoError(t, o.TransitionTo(StatusDelivered))

	// Delivered là trạng thái cuối
	assert.ErrorIs(t, o.TransitionTo(StatusPending), ErrInvalidTransition)
}

func TestOrder_CancelOnlyFromPending(t *testing.T) {
	o, err := NewOrder("o-1", "buyer-1", "shop-1", "tx-1", validItems(), validAddress(), "COD", 30000)
	require.NoError(t, err)

	require.NoError(t, o.TransitionTo(StatusProcessing))
	assert.ErrorIs(t, o.TransitionTo(StatusCancelled), ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusPending, StatusCancelled))
	assert.True(t, CanTransition(StatusPending, StatusProcessing))
	assert.False(t, CanTransition(StatusShipping, StatusCancelled))
	assert.False(t, CanTransition(StatusDelivered, StatusShipping))
	assert.False(t, CanTransition("Unknown", StatusPending))
}
