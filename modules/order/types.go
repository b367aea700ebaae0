package order

import (
	"github.com/example/cityshades/domain/cart"
	domain "github.com/example/cityshades/domain/order"
)

// PlaceOrderRequest is a checkout submission. When Total is 0 the amounts
// are computed from the items.
type PlaceOrderRequest struct {
	Customer        *domain.Customer       `json:"customer"`
	ShippingAddress domain.ShippingAddress `json:"shippingAddress"`
	Items           []domain.Item          `json:"items"`
	Subtotal        float64                `json:"subtotal"`
	Shipping        float64                `json:"shipping"`
	Tax             float64                `json:"tax"`
	Total           float64                `json:"total"`
}

// PlaceOrderResponse confirms a recorded order.
type PlaceOrderResponse struct {
	Success     bool   `json:"success"`
	OrderNumber string `json:"orderNumber"`
	OrderID     int64  `json:"orderId"`
}

// GetOrderRequest looks an order up by its number.
type GetOrderRequest struct {
	OrderNumber string `json:"order_number"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Order domain.Order `json:"order"`
}

// ListOrdersRequest is empty; all orders are returned newest first.
type ListOrdersRequest struct{}

// ListOrdersResponse lists orders.
type ListOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
	Total  int            `json:"total"`
}

// QuoteRequest carries the cart lines to price.
type QuoteRequest struct {
	Items []cart.LineItem `json:"items"`
}
