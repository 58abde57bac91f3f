package avro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_EncodeDecode_OrderPlaced(t *testing.T) {
	codec, err := NewCodec(OrderPlacedSchema)
	require.NoError(t, err)

	event := OrderPlacedEvent{
		OrderID:        "o-1",
		TransactionRef: "tx-1",
		BuyerID:        "buyer-1",
		ShopID:         "shop-1",
		TotalPrice:     195000,
		ItemCount:      2,
		PlacedAt:       time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	binary, err := codec.Encode(event.ToNative())
	require.NoError(t, err)
	require.NotEmpty(t, binary)

	record, err := codec.Decode(binary)
	require.NoError(t, err)

	decoded, err := EventFromNative(record)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestEventFromNative_MissingOrderID(t *testing.T) {
	_, err := EventFromNative(map[string]interface{}{
		"transaction_ref": "tx-1",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_id")
}

func TestNewCodec_InvalidSchema(t *testing.T) {
	_, err := NewCodec(`{"type": "nonsense"}`)
	assert.Error(t, err)
}
