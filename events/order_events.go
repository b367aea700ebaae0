package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// OrderLine is one ordered product inside OrderPlacedEvent.
type OrderLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// OrderPlacedEvent is emitted after an order has been recorded.
type OrderPlacedEvent struct {
	OrderID     int64       `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Email       string      `json:"email"`
	Lines       []OrderLine `json:"lines"`
	Total       float64     `json:"total"`
	PlacedAt    time.Time   `json:"placed_at"`
}

// OrderPlacedV1 is the typed event definition for order placement.
// Subject: events.order.v1.order-placed
var OrderPlacedV1 = helper.EventDefinition[OrderPlacedEvent](
	"order", "OrderPlaced", "v1",
)
