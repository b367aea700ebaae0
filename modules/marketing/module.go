package marketing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module handles newsletter signups and the contact form.
type Module struct {
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
)

func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger.WithModule("marketing")}
}

func (m *Module) Name() string {
	return "marketing"
}

func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "datastore" {
		return
	}
	ds, ok := plugin.(*datastore.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for datastore", "alias", alias)
		return
	}
	m.store = ds.Port()
}

func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.SubscriberAddedV1.ToBase(),
		events.ContactMessageReceivedV1.ToBase(),
	}
}

func (m *Module) Start(_ context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'datastore' not registered")
	}
	m.service = NewService(m.store, m.eventBus, m.logger)
	m.logger.Info("Marketing module started")
	return nil
}

func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Marketing module stopped")
	return nil
}

func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "subscribe", json.Unmarshal, json.Marshal, m.subscribe,
	); err != nil {
		return fmt.Errorf("failed to register subscribe service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "contact", json.Unmarshal, json.Marshal, m.contact,
	); err != nil {
		return fmt.Errorf("failed to register contact service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-subscribers", json.Unmarshal, json.Marshal, m.listSubscribers,
	); err != nil {
		return fmt.Errorf("failed to register list-subscribers service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-messages", json.Unmarshal, json.Marshal, m.listMessages,
	); err != nil {
		return fmt.Errorf("failed to register list-messages service: %w", err)
	}

	m.logger.Info("Registered services", "services", "subscribe, contact, list-subscribers, list-messages")
	return nil
}

func (m *Module) subscribe(ctx context.Context, req SubscribeRequest, _ *mono.Msg) (SubscribeResponse, error) {
	sub, err := m.service.Subscribe(ctx, req.Email)
	if err != nil {
		return SubscribeResponse{}, err
	}
	return SubscribeResponse{Success: true, Message: "Successfully subscribed", ID: sub.ID}, nil
}

func (m *Module) contact(ctx context.Context, req ContactRequest, _ *mono.Msg) (ContactResponse, error) {
	msg, err := m.service.Contact(ctx, req)
	if err != nil {
		return ContactResponse{}, err
	}
	return ContactResponse{Success: true, ID: msg.ID}, nil
}

func (m *Module) listSubscribers(ctx context.Context, _ ListSubscribersRequest, _ *mono.Msg) (ListSubscribersResponse, error) {
	subs, err := m.service.Subscribers(ctx)
	if err != nil {
		return ListSubscribersResponse{}, err
	}
	return ListSubscribersResponse{Subscribers: subs}, nil
}

func (m *Module) listMessages(ctx context.Context, _ ListMessagesRequest, _ *mono.Msg) (ListMessagesResponse, error) {
	msgs, err := m.service.Messages(ctx)
	if err != nil {
		return ListMessagesResponse{}, err
	}
	return ListMessagesResponse{Messages: msgs}, nil
}
