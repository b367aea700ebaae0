package order

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/example/cityshades/domain/cart"
	domain "github.com/example/cityshades/domain/order"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// OrderPort defines the order operations other modules use.
type OrderPort interface {
	PlaceOrder(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResponse, error)
	GetOrder(ctx context.Context, number string) (domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	Quote(ctx context.Context, items []cart.LineItem) (Quote, error)
}

// OrderAdapter implements OrderPort using the service container.
type OrderAdapter struct {
	container mono.ServiceContainer
}

var _ OrderPort = (*OrderAdapter)(nil)

func NewOrderAdapter(container mono.ServiceContainer) *OrderAdapter {
	return &OrderAdapter{container: container}
}

func (a *OrderAdapter) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (PlaceOrderResponse, error) {
	var resp PlaceOrderResponse
	if err := helper.CallRequestReplyService(ctx, a.container, "place-order", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return PlaceOrderResponse{}, translateError("place-order", err)
	}
	return resp, nil
}

func (a *OrderAdapter) GetOrder(ctx context.Context, number string) (domain.Order, error) {
	req := GetOrderRequest{OrderNumber: number}
	var resp OrderResponse
	if err := helper.CallRequestReplyService(ctx, a.container, "get-order", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return domain.Order{}, translateError("get-order", err)
	}
	return resp.Order, nil
}

func (a *OrderAdapter) ListOrders(ctx context.Context) ([]domain.Order, error) {
	req := ListOrdersRequest{}
	var resp ListOrdersResponse
	if err := helper.CallRequestReplyService(ctx, a.container, "list-orders", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return nil, translateError("list-orders", err)
	}
	return resp.Orders, nil
}

func (a *OrderAdapter) Quote(ctx context.Context, items []cart.LineItem) (Quote, error) {
	req := QuoteRequest{Items: items}
	var resp Quote
	if err := helper.CallRequestReplyService(ctx, a.container, "quote", json.Marshal, json.Unmarshal, &req, &resp); err != nil {
		return Quote{}, translateError("quote", err)
	}
	return resp, nil
}

// translateError recovers sentinel errors from messages that crossed the
// request-reply boundary. Validation details after "invalid order" are kept.
func translateError(service string, err error) error {
	msg := err.Error()
	if strings.Contains(msg, ErrOrderNotFound.Error()) {
		return ErrOrderNotFound
	}
	if i := strings.Index(msg, ErrInvalidOrder.Error()); i >= 0 {
		return fmt.Errorf("%w%s", ErrInvalidOrder, msg[i+len(ErrInvalidOrder.Error()):])
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}
