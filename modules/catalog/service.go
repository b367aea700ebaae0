package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/cityshades/domain/product"
	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Service implements catalog queries and admin edits over the products collection.
type Service struct {
	products      *datastore.Collection[product.Product]
	featuredLimit int
	eventBus      mono.EventBus
	logger        types.Logger
	now           func() time.Time
}

// NewService creates a catalog service. eventBus may be nil, in which case
// no events are published.
func NewService(store datastore.Store, featuredLimit int, eventBus mono.EventBus, logger types.Logger) *Service {
	if featuredLimit <= 0 {
		featuredLimit = 8
	}
	return &Service{
		products:      datastore.NewCollection[product.Product](store, datastore.Products, logger),
		featuredLimit: featuredLimit,
		eventBus:      eventBus,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// List runs q over the catalog.
func (s *Service) List(ctx context.Context, q Query) ([]product.Product, int, error) {
	all, err := s.products.All(ctx)
	if err != nil {
		return nil, 0, err
	}
	page, total := q.Apply(all)
	return page, total, nil
}

// Get returns the product with id.
func (s *Service) Get(ctx context.Context, id int64) (product.Product, error) {
	if id < 1 {
		return product.Product{}, ErrInvalidProductID
	}
	all, err := s.products.All(ctx)
	if err != nil {
		return product.Product{}, err
	}
	for _, p := range all {
		if p.ID == id {
			return p, nil
		}
	}
	return product.Product{}, ErrProductNotFound
}

// Categories lists distinct categories with counts.
func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	all, err := s.products.All(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(all), nil
}

// Bestsellers returns flagged bestsellers, newest first.
func (s *Service) Bestsellers(ctx context.Context, limit int) ([]product.Product, error) {
	page, _, err := s.List(ctx, Query{Bestseller: true, Limit: s.featured(limit)})
	return page, err
}

// NewArrivals returns products flagged as new, newest first.
func (s *Service) NewArrivals(ctx context.Context, limit int) ([]product.Product, error) {
	page, _, err := s.List(ctx, Query{New: true, Limit: s.featured(limit)})
	return page, err
}

func (s *Service) featured(limit int) int {
	if limit <= 0 || limit > s.featuredLimit {
		return s.featuredLimit
	}
	return limit
}

// Create appends a new product with the next id.
func (s *Service) Create(ctx context.Context, in ProductInput) (product.Product, error) {
	var created product.Product
	err := s.products.UpdateHeld(ctx, func(items []product.Product, held []json.RawMessage) ([]product.Product, error) {
		p, err := NewProduct(in, s.now())
		if err != nil {
			return nil, err
		}
		p.ID = NextID(items, held)
		created = p
		return append(items, p), nil
	})
	if err != nil {
		return product.Product{}, err
	}

	s.logger.Info("Product created", "id", created.ID, "name", created.Name)
	s.publish(func(bus mono.EventBus) error {
		return events.ProductCreatedV1.Publish(bus, events.ProductCreatedEvent{
			ProductID: created.ID,
			Name:      created.Name,
			Price:     created.Price,
			CreatedAt: created.CreatedAt,
		}, nil)
	}, "ProductCreated", created.ID)

	return created, nil
}

// Update applies a partial edit to the product with id.
func (s *Service) Update(ctx context.Context, id int64, in ProductInput) (product.Product, error) {
	if id < 1 {
		return product.Product{}, ErrInvalidProductID
	}

	var updated product.Product
	err := s.products.Update(ctx, func(items []product.Product) ([]product.Product, error) {
		for i := range items {
			if items[i].ID != id {
				continue
			}
			p, err := ApplyUpdate(items[i], in, s.now())
			if err != nil {
				return nil, err
			}
			items[i] = p
			updated = p
			return items, nil
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return product.Product{}, err
	}

	s.logger.Info("Product updated", "id", updated.ID)
	s.publishUpdated(updated)
	return updated, nil
}

// Delete removes the product with id. Orders keep their own item snapshots.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrInvalidProductID
	}

	var deleted product.Product
	err := s.products.Update(ctx, func(items []product.Product) ([]product.Product, error) {
		for i := range items {
			if items[i].ID == id {
				deleted = items[i]
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrProductNotFound
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product deleted", "id", id)
	s.publish(func(bus mono.EventBus) error {
		return events.ProductDeletedV1.Publish(bus, events.ProductDeletedEvent{
			ProductID: deleted.ID,
			Name:      deleted.Name,
			DeletedAt: s.now(),
		}, nil)
	}, "ProductDeleted", id)
	return nil
}

// DecrementStock lowers stock for each ordered line, never below zero.
// Lines for unknown products are ignored.
func (s *Service) DecrementStock(ctx context.Context, lines []events.OrderLine) error {
	want := make(map[int64]int, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			want[l.ProductID] += l.Quantity
		}
	}
	if len(want) == 0 {
		return nil
	}

	var changed []product.Product
	err := s.products.Update(ctx, func(items []product.Product) ([]product.Product, error) {
		now := s.now()
		for i := range items {
			qty, ok := want[items[i].ID]
			if !ok {
				continue
			}
			items[i].Stock = max(items[i].Stock-qty, 0)
			items[i].UpdatedAt = now
			changed = append(changed, items[i])
		}
		return items, nil
	})
	if err != nil {
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	for _, p := range changed {
		s.publishUpdated(p)
	}
	return nil
}

func (s *Service) publishUpdated(p product.Product) {
	s.publish(func(bus mono.EventBus) error {
		return events.ProductUpdatedV1.Publish(bus, events.ProductUpdatedEvent{
			ProductID: p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			UpdatedAt: p.UpdatedAt,
		}, nil)
	}, "ProductUpdated", p.ID)
}

// publish is best-effort: a failure is logged and the operation still succeeds.
func (s *Service) publish(fn func(mono.EventBus) error, event string, id int64) {
	if s.eventBus == nil {
		return
	}
	if err := fn(s.eventBus); err != nil {
		s.logger.Warn("Failed to publish event", "event", event, "product_id", id, "error", err.Error())
	}
}
