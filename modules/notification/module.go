package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/cityshades/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// DefaultCapacity is how many notifications are kept in memory.
const DefaultCapacity = 100

// Notification types.
const (
	TypeOrderPlaced    = "order_placed"
	TypeSubscriber     = "subscriber_added"
	TypeContactMessage = "contact_message"
	TypeProductDeleted = "product_deleted"
)

// Notification is a storefront event recorded for the back office.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Reference string    `json:"reference"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule records notifications for storefront activity.
// It subscribes to domain events using the EventConsumerModule interface.
type NotificationModule struct {
	notifications []Notification
	capacity      int
	mu            sync.RWMutex
	logger        types.Logger
	now           func() time.Time
}

var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

func NewModule(logger types.Logger) *NotificationModule {
	return &NotificationModule{
		notifications: make([]Notification, 0),
		capacity:      DefaultCapacity,
		logger:        logger.WithModule("notification"),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (m *NotificationModule) Name() string {
	return "notification"
}

func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.OrderPlacedV1, m.handleOrderPlaced, m); err != nil {
		return fmt.Errorf("failed to register OrderPlaced consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.SubscriberAddedV1, m.handleSubscriberAdded, m); err != nil {
		return fmt.Errorf("failed to register SubscriberAdded consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ContactMessageReceivedV1, m.handleContactMessage, m); err != nil {
		return fmt.Errorf("failed to register ContactMessageReceived consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.ProductDeletedV1, m.handleProductDeleted, m); err != nil {
		return fmt.Errorf("failed to register ProductDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "OrderPlaced, SubscriberAdded, ContactMessageReceived, ProductDeleted")
	return nil
}

func (m *NotificationModule) handleOrderPlaced(_ context.Context, event events.OrderPlacedEvent, _ *mono.Msg) error {
	items := 0
	for _, line := range event.Lines {
		items += line.Quantity
	}
	m.logger.Info("Order placed", "order_number", event.OrderNumber, "total", event.Total)
	m.record(TypeOrderPlaced, event.OrderNumber,
		fmt.Sprintf("Order %s placed by %s: %d item(s), total $%.2f", event.OrderNumber, event.Email, items, event.Total))
	return nil
}

func (m *NotificationModule) handleSubscriberAdded(_ context.Context, event events.SubscriberAddedEvent, _ *mono.Msg) error {
	m.logger.Info("Newsletter subscriber added", "subscriber_id", event.SubscriberID)
	m.record(TypeSubscriber, fmt.Sprint(event.SubscriberID),
		fmt.Sprintf("New newsletter subscriber %s", event.Email))
	return nil
}

func (m *NotificationModule) handleContactMessage(_ context.Context, event events.ContactMessageReceivedEvent, _ *mono.Msg) error {
	m.logger.Info("Contact message received", "message_id", event.MessageID)
	subject := event.Subject
	if subject == "" {
		subject = "(no subject)"
	}
	m.record(TypeContactMessage, fmt.Sprint(event.MessageID),
		fmt.Sprintf("Message from %s <%s>: %s", event.Name, event.Email, subject))
	return nil
}

func (m *NotificationModule) handleProductDeleted(_ context.Context, event events.ProductDeletedEvent, _ *mono.Msg) error {
	m.logger.Info("Product deleted", "product_id", event.ProductID)
	m.record(TypeProductDeleted, fmt.Sprint(event.ProductID),
		fmt.Sprintf("Product %d (%s) removed from the catalog", event.ProductID, event.Name))
	return nil
}

// record appends a notification, dropping the oldest beyond capacity.
func (m *NotificationModule) record(notificationType, reference, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, Notification{
		ID:        uuid.NewString(),
		Type:      notificationType,
		Reference: reference,
		Message:   message,
		Timestamp: m.now(),
	})
	if over := len(m.notifications) - m.capacity; over > 0 {
		m.notifications = append(m.notifications[:0:0], m.notifications[over:]...)
	}
}

// Notifications returns a copy of the recorded notifications, oldest first.
func (m *NotificationModule) Notifications() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Notification, len(m.notifications))
	copy(result, m.notifications)
	return result
}

func (m *NotificationModule) Start(_ context.Context) error {
	m.logger.Info("Module started, listening for storefront events")
	return nil
}

func (m *NotificationModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}
