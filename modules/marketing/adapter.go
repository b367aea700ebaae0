package marketing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/example/cityshades/domain/marketing"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// MarketingPort defines the marketing operations other modules use.
type MarketingPort interface {
	Subscribe(ctx context.Context, email string) (SubscribeResponse, error)
	Contact(ctx context.Context, in ContactInput) (ContactResponse, error)
	ListSubscribers(ctx context.Context) ([]domain.Subscriber, error)
	ListMessages(ctx context.Context) ([]domain.ContactMessage, error)
}

// MarketingAdapter implements MarketingPort using the service container.
type MarketingAdapter struct {
	container mono.ServiceContainer
}

var _ MarketingPort = (*MarketingAdapter)(nil)

func NewMarketingAdapter(container mono.ServiceContainer) *MarketingAdapter {
	return &MarketingAdapter{container: container}
}

func (a *MarketingAdapter) Subscribe(ctx context.Context, email string) (SubscribeResponse, error) {
	req := SubscribeRequest{Email: email}
	var resp SubscribeResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "subscribe", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return SubscribeResponse{}, translateError("subscribe", err)
	}
	return resp, nil
}

func (a *MarketingAdapter) Contact(ctx context.Context, in ContactInput) (ContactResponse, error) {
	var resp ContactResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "contact", json.Marshal, json.Unmarshal, &in, &resp,
	); err != nil {
		return ContactResponse{}, translateError("contact", err)
	}
	return resp, nil
}

func (a *MarketingAdapter) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	req := ListSubscribersRequest{}
	var resp ListSubscribersResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-subscribers", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, translateError("list-subscribers", err)
	}
	return resp.Subscribers, nil
}

func (a *MarketingAdapter) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	req := ListMessagesRequest{}
	var resp ListMessagesResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list-messages", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, translateError("list-messages", err)
	}
	return resp.Messages, nil
}

func translateError(service string, err error) error {
	for _, known := range validationErrors {
		if strings.Contains(err.Error(), known.Error()) {
			return known
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}
