package order

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/cityshades/config"
	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module records checkout orders.
type Module struct {
	pricing  Pricing
	store    datastore.Store
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new order module.
func NewModule(cfg config.CheckoutConfig, logger types.Logger) *Module {
	return &Module{
		pricing: NewPricing(cfg),
		logger:  logger.WithModule("order"),
	}
}

func (m *Module) Name() string {
	return "order"
}

// SetPlugin receives the datastore plugin from the framework.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "datastore" {
		return
	}
	ds, ok := plugin.(*datastore.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for datastore",
			"alias", alias,
			"expected", "*datastore.PluginModule")
		return
	}
	m.store = ds.Port()
}

func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.OrderPlacedV1.ToBase(),
	}
}

func (m *Module) Start(_ context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'datastore' not registered")
	}
	numbers, err := NewNumberGenerator()
	if err != nil {
		return err
	}
	m.service = NewService(m.store, numbers, m.pricing, m.eventBus, m.logger)
	m.logger.Info("Order module started",
		"shipping_flat_rate", m.pricing.ShippingFlatRate,
		"free_shipping_threshold", m.pricing.FreeShippingThreshold,
		"tax_rate", m.pricing.TaxRate)
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Order module stopped")
	return nil
}

// Service returns the order service. It is nil before Start.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	all, err := m.service.orders.All(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to load orders: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"orders": len(all)},
	}
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "place-order", json.Unmarshal, json.Marshal, m.placeOrder,
	); err != nil {
		return fmt.Errorf("failed to register place-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-order", json.Unmarshal, json.Marshal, m.getOrder,
	); err != nil {
		return fmt.Errorf("failed to register get-order service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-orders", json.Unmarshal, json.Marshal, m.listOrders,
	); err != nil {
		return fmt.Errorf("failed to register list-orders service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "quote", json.Unmarshal, json.Marshal, m.quote,
	); err != nil {
		return fmt.Errorf("failed to register quote service: %w", err)
	}

	m.logger.Info("Registered services", "services", "place-order, get-order, list-orders, quote")
	return nil
}

func (m *Module) placeOrder(ctx context.Context, req PlaceOrderRequest, _ *mono.Msg) (PlaceOrderResponse, error) {
	o, err := m.service.Place(ctx, req)
	if err != nil {
		return PlaceOrderResponse{}, err
	}
	return PlaceOrderResponse{Success: true, OrderNumber: o.OrderNumber, OrderID: o.ID}, nil
}

func (m *Module) getOrder(ctx context.Context, req GetOrderRequest, _ *mono.Msg) (OrderResponse, error) {
	o, err := m.service.Get(ctx, req.OrderNumber)
	if err != nil {
		return OrderResponse{}, err
	}
	return OrderResponse{Order: o}, nil
}

func (m *Module) listOrders(ctx context.Context, _ ListOrdersRequest, _ *mono.Msg) (ListOrdersResponse, error) {
	all, err := m.service.List(ctx)
	if err != nil {
		return ListOrdersResponse{}, err
	}
	return ListOrdersResponse{Orders: all, Total: len(all)}, nil
}

func (m *Module) quote(_ context.Context, req QuoteRequest, _ *mono.Msg) (Quote, error) {
	return m.service.Quote(req.Items), nil
}
