package catalog

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

// Module provides product catalog and product admin services.
type Module struct {
	cfg      config.CatalogConfig
	store    datastore.Store
	service  *Service
	eventBus mono.EventBus
	logger   types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new catalog module.
func NewModule(cfg config.CatalogConfig, logger types.Logger) *Module {
	return &Module{
		cfg:    cfg,
		logger: logger.WithModule("catalog"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
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

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.ProductCreatedV1.ToBase(),
		events.ProductUpdatedV1.ToBase(),
		events.ProductDeletedV1.ToBase(),
	}
}

// Start creates the catalog service.
func (m *Module) Start(_ context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'datastore' not registered")
	}
	if m.eventBus == nil {
		m.logger.Warn("EventBus not set, product events will not be published")
	}
	m.service = NewService(m.store, m.cfg.FeaturedLimit, m.eventBus, m.logger)
	m.logger.Info("Catalog module started", "featured_limit", m.service.featuredLimit)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Catalog module stopped")
	return nil
}

// Service returns the catalog service. It is nil before Start.
func (m *Module) Service() *Service {
	return m.service
}

// Health reports whether the products collection can be read.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{Healthy: false, Message: "service not initialized"}
	}
	all, err := m.service.products.All(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to load products: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"products": len(all)},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-products", json.Unmarshal, json.Marshal, m.listProducts,
	); err != nil {
		return fmt.Errorf("failed to register list-products service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "get-product", json.Unmarshal, json.Marshal, m.getProduct,
	); err != nil {
		return fmt.Errorf("failed to register get-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-categories", json.Unmarshal, json.Marshal, m.listCategories,
	); err != nil {
		return fmt.Errorf("failed to register list-categories service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "bestsellers", json.Unmarshal, json.Marshal, m.bestsellers,
	); err != nil {
		return fmt.Errorf("failed to register bestsellers service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "new-arrivals", json.Unmarshal, json.Marshal, m.newArrivals,
	); err != nil {
		return fmt.Errorf("failed to register new-arrivals service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "create-product", json.Unmarshal, json.Marshal, m.createProduct,
	); err != nil {
		return fmt.Errorf("failed to register create-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "update-product", json.Unmarshal, json.Marshal, m.updateProduct,
	); err != nil {
		return fmt.Errorf("failed to register update-product service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-product", json.Unmarshal, json.Marshal, m.deleteProduct,
	); err != nil {
		return fmt.Errorf("failed to register delete-product service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "list-products, get-product, list-categories, bestsellers, new-arrivals, create-product, update-product, delete-product")
	return nil
}

// RegisterEventConsumers subscribes to order events to keep stock levels current.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderPlacedV1, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}
	return nil
}

func (m *Module) handleOrderPlaced(ctx context.Context, event events.OrderPlacedEvent, _ *mono.Msg) error {
	if m.service == nil {
		return fmt.Errorf("catalog service not started")
	}
	if err := m.service.DecrementStock(ctx, event.Lines); err != nil {
		m.logger.Error("Failed to update stock for order",
			"order_number", event.OrderNumber, "error", err.Error())
		return err
	}
	m.logger.Debug("Stock updated for order", "order_number", event.OrderNumber)
	return nil
}

func (m *Module) listProducts(ctx context.Context, req ListProductsRequest, _ *mono.Msg) (ListProductsResponse, error) {
	page, total, err := m.service.List(ctx, Query{
		Category:   req.Category,
		Gender:     req.Gender,
		Bestseller: req.Bestseller,
		New:        req.New,
		Search:     req.Search,
		Sort:       req.Sort,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return ListProductsResponse{}, err
	}
	return ListProductsResponse{Products: page, Total: total}, nil
}

func (m *Module) getProduct(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	p, err := m.service.Get(ctx, req.ID)
	if err != nil {
		return ProductResponse{}, err
	}
	return ProductResponse{Product: p}, nil
}

func (m *Module) listCategories(ctx context.Context, _ ListCategoriesRequest, _ *mono.Msg) (ListCategoriesResponse, error) {
	cats, err := m.service.Categories(ctx)
	if err != nil {
		return ListCategoriesResponse{}, err
	}
	return ListCategoriesResponse{Categories: cats}, nil
}

func (m *Module) bestsellers(ctx context.Context, req FeaturedRequest, _ *mono.Msg) (ListProductsResponse, error) {
	page, err := m.service.Bestsellers(ctx, req.Limit)
	if err != nil {
		return ListProductsResponse{}, err
	}
	return ListProductsResponse{Products: page, Total: len(page)}, nil
}

func (m *Module) newArrivals(ctx context.Context, req FeaturedRequest, _ *mono.Msg) (ListProductsResponse, error) {
	page, err := m.service.NewArrivals(ctx, req.Limit)
	if err != nil {
		return ListProductsResponse{}, err
	}
	return ListProductsResponse{Products: page, Total: len(page)}, nil
}

func (m *Module) createProduct(ctx context.Context, req CreateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	p, err := m.service.Create(ctx, req.Input)
	if err != nil {
		return ProductResponse{}, err
	}
	return ProductResponse{Product: p}, nil
}

func (m *Module) updateProduct(ctx context.Context, req UpdateProductRequest, _ *mono.Msg) (ProductResponse, error) {
	p, err := m.service.Update(ctx, req.ID, req.Input)
	if err != nil {
		return ProductResponse{}, err
	}
	return ProductResponse{Product: p}, nil
}

func (m *Module) deleteProduct(ctx context.Context, req DeleteProductRequest, _ *mono.Msg) (DeleteProductResponse, error) {
	if err := m.service.Delete(ctx, req.ID); err != nil {
		return DeleteProductResponse{Success: false}, err
	}
	return DeleteProductResponse{Success: true, ID: req.ID}, nil
}
