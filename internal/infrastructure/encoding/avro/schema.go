package avro

// OrderPlacedSchema là schema Avro của event orders.placed. Một event
// cho mỗi sub-order; các sub-order cùng một checkout chia sẻ
// transaction_ref.
const OrderPlacedSchema = `{
	"type": "record",
	"name": "OrderPlaced",
	"namespace": "com.smartbook.order",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "transaction_ref", "type": "string"},
		{"name": "buyer_id", "type": "string"},
		{"name": "shop_id", "type": "string"},
		{"name": "total_price", "type": "long"},
		{"name": "item_count", "type": "int"},
		{"name": "placed_at", "type": "string"}
	]
}`
