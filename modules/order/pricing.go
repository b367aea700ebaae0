package order

import (
	"github.com/example/cityshades/config"
	"github.com/example/cityshades/domain/cart"
	domain "github.com/example/cityshades/domain/order"
)

// Pricing computes shipping and tax for a cart.
type Pricing struct {
	ShippingFlatRate      float64
	FreeShippingThreshold float64
	TaxRate               float64
}

// NewPricing builds a Pricing from checkout configuration.
func NewPricing(cfg config.CheckoutConfig) Pricing {
	return Pricing{
		ShippingFlatRate:      cfg.ShippingFlatRate,
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		TaxRate:               cfg.TaxRate,
	}
}

// Quote is the price breakdown of a cart.
type Quote struct {
	domain.Totals
	Count int `json:"count"`
}

// Quote prices items. Duplicate lines are merged and lines with a quantity
// below 1 are ignored. An empty cart costs nothing, shipping included.
func (p Pricing) Quote(items []cart.LineItem) Quote {
	c := cart.FromItems(items)
	if c.IsEmpty() {
		return Quote{}
	}

	subtotal := c.Total()
	shipping := p.ShippingFlatRate
	if subtotal >= p.FreeShippingThreshold {
		shipping = 0
	}
	tax := cart.RoundCents(subtotal * p.TaxRate)

	return Quote{
		Totals: domain.Totals{
			Subtotal: subtotal,
			Shipping: cart.RoundCents(shipping),
			Tax:      tax,
			Total:    cart.RoundCents(subtotal + shipping + tax),
		},
		Count: c.Count(),
	}
}

func lineItems(items []domain.Item) []cart.LineItem {
	out := make([]cart.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, cart.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Color:     it.Color,
			Size:      it.Size,
			Quantity:  it.Quantity,
		})
	}
	return out
}
