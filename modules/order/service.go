package order

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/example/cityshades/domain/cart"
	domain "github.com/example/cityshades/domain/order"
	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Service records and retrieves orders.
type Service struct {
	orders   *datastore.Collection[domain.Order]
	numbers  *NumberGenerator
	pricing  Pricing
	eventBus mono.EventBus
	logger   types.Logger
	now      func() time.Time
}

// NewService creates an order service. eventBus may be nil.
func NewService(store datastore.Store, numbers *NumberGenerator, pricing Pricing, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		orders:   datastore.NewCollection[domain.Order](store, datastore.Orders, logger),
		numbers:  numbers,
		pricing:  pricing,
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Place validates req and appends a new confirmed order.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (domain.Order, error) {
	if err := validate(req); err != nil {
		return domain.Order{}, err
	}

	totals := domain.Totals{
		Subtotal: cart.RoundCents(req.Subtotal),
		Shipping: cart.RoundCents(req.Shipping),
		Tax:      cart.RoundCents(req.Tax),
		Total:    cart.RoundCents(req.Total),
	}
	if req.Total == 0 {
		totals = s.pricing.Quote(lineItems(req.Items)).Totals
	}

	customer := *req.Customer
	customer.Email = strings.TrimSpace(customer.Email)

	var placed domain.Order
	err := s.orders.UpdateHeld(ctx, func(items []domain.Order, held []json.RawMessage) ([]domain.Order, error) {
		taken := make(map[string]bool, len(items))
		maxID := datastore.MaxID(held)
		for _, o := range items {
			taken[o.OrderNumber] = true
			maxID = max(maxID, o.ID)
		}

		placed = domain.Order{
			ID:              maxID + 1,
			OrderNumber:     s.numbers.Unique(func(n string) bool { return taken[n] }),
			Customer:        customer,
			ShippingAddress: req.ShippingAddress,
			Items:           slices.Clone(req.Items),
			Totals:          totals,
			Status:          domain.StatusConfirmed,
			CreatedAt:       s.now(),
		}
		return append(items, placed), nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("Order placed",
		"order_number", placed.OrderNumber,
		"order_id", placed.ID,
		"items", len(placed.Items),
		"total", placed.Total)
	s.publishPlaced(placed)
	return placed, nil
}

// Get returns the order with the given number.
func (s *Service) Get(ctx context.Context, number string) (domain.Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	all, err := s.orders.All(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	for _, o := range all {
		if o.OrderNumber == number {
			return o, nil
		}
	}
	return domain.Order{}, ErrOrderNotFound
}

// List returns every order, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Order, error) {
	all, err := s.orders.All(ctx)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(all, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return all, nil
}

// Quote prices a cart with the configured shipping and tax policy.
func (s *Service) Quote(items []cart.LineItem) Quote {
	return s.pricing.Quote(items)
}

func (s *Service) publishPlaced(o domain.Order) {
	if s.eventBus == nil {
		return
	}
	lines := make([]events.OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, events.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	event := events.OrderPlacedEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Email:       o.Customer.Email,
		Lines:       lines,
		Total:       o.Total,
		PlacedAt:    o.CreatedAt,
	}
	if err := events.OrderPlacedV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish OrderPlaced event",
			"order_number", o.OrderNumber, "error", err.Error())
	}
}

func validate(req PlaceOrderRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	if req.Customer == nil || strings.TrimSpace(req.Customer.Email) == "" {
		return ErrMissingCustomer
	}
	for _, it := range req.Items {
		if it.ProductID < 1 || it.Quantity < 1 || it.Price < 0 {
			return ErrInvalidItem
		}
	}
	return nil
}
