// Package order defines the persisted order record.
package order

import (
	"time"
)

// StatusConfirmed is the initial status of every order.
const StatusConfirmed = "confirmed"

// Customer holds the buyer's contact details.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// FullName joins first and last name.
func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	default:
		return c.FirstName + " " + c.LastName
	}
}

// ShippingAddress is where the order is delivered.
type ShippingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
}

// Item is a snapshot of a cart line taken when the order was placed.
type Item struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Color     string  `json:"color"`
	Size      string  `json:"size"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Totals are the monetary amounts of an order.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Order is immutable once recorded.
type Order struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	Customer        Customer        `json:"customer"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Items           []Item          `json:"items"`
	Totals
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
