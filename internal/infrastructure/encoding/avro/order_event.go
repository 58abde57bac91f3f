package avro

import (
	"fmt"
	"time"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/order"
)

// OrderPlacedEvent is the decoded form of one orders.placed message.
type OrderPlacedEvent struct {
	OrderID        string
	TransactionRef string
	BuyerID        string
	ShopID         string
	TotalPrice     int64
	ItemCount      int
	PlacedAt       time.Time
}

// EventFromOrder maps a persisted order to its event payload.
func EventFromOrder(o *order.Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:        o.ID,
		TransactionRef: o.TransactionRef,
		BuyerID:        o.BuyerID,
		ShopID:         o.ShopID,
		TotalPrice:     o.TotalPrice,
		ItemCount:      len(o.Items),
		PlacedAt:       o.CreatedAt,
	}
}

// ToNative converts the event to goavro's native map form.
func (e OrderPlacedEvent) ToNative() map[string]interface{} {
	return map[string]interface{}{
		"order_id":        e.OrderID,
		"transaction_ref": e.TransactionRef,
		"buyer_id":        e.BuyerID,
		"shop_id":         e.ShopID,
		"total_price":     e.TotalPrice,
		"item_count":      e.ItemCount,
		"placed_at":       e.PlacedAt.UTC().Format(time.RFC3339Nano),
	}
}

// EventFromNative rebuilds the event from a decoded Avro record.
func EventFromNative(record map[string]interface{}) (OrderPlacedEvent, error) {
	var e OrderPlacedEvent
	var ok bool

	if e.OrderID, ok = record["order_id"].(string); !ok {
		return e, fmt.Errorf("order_id missing in event")
	}
	if e.TransactionRef, ok = record["transaction_ref"].(string); !ok {
		return e, fmt.Errorf("transaction_ref missing in event")
	}
	e.BuyerID, _ = record["buyer_id"].(string)
	e.ShopID, _ = record["shop_id"].(string)

	if total, ok := record["total_price"].(int64); ok {
		e.TotalPrice = total
	}
	if count, ok := record["item_count"].(int32); ok {
		e.ItemCount = int(count)
	}
	if raw, ok := record["placed_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			e.PlacedAt = ts
		}
	}
	return e, nil
}
