package marketing

import (
	"context"
	"encoding/json"
	"net/mail"
	"strings"
	"time"

	domain "github.com/example/cityshades/domain/marketing"
	"github.com/example/cityshades/events"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Service stores newsletter subscribers and contact messages.
type Service struct {
	subscribers *datastore.Collection[domain.Subscriber]
	messages    *datastore.Collection[domain.ContactMessage]
	eventBus    mono.EventBus
	logger      types.Logger
	now         func() time.Time
}

// NewService creates a marketing service. eventBus may be nil.
func NewService(store datastore.Store, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		subscribers: datastore.NewCollection[domain.Subscriber](store, datastore.Subscribers, logger),
		messages:    datastore.NewCollection[domain.ContactMessage](store, datastore.Messages, logger),
		eventBus:    eventBus,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Subscribe adds email to the newsletter list.
func (s *Service) Subscribe(ctx context.Context, email string) (domain.Subscriber, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return domain.Subscriber{}, err
	}

	var added domain.Subscriber
	err = s.subscribers.UpdateHeld(ctx, func(items []domain.Subscriber, held []json.RawMessage) ([]domain.Subscriber, error) {
		maxID := datastore.MaxID(held)
		for _, sub := range items {
			if strings.EqualFold(sub.Email, email) {
				return nil, ErrAlreadySubscribed
			}
			maxID = max(maxID, sub.ID)
		}
		added = domain.Subscriber{ID: maxID + 1, Email: email, SubscribedAt: s.now()}
		return append(items, added), nil
	})
	if err != nil {
		return domain.Subscriber{}, err
	}

	s.logger.Info("Subscriber added", "id", added.ID)
	if s.eventBus != nil {
		event := events.SubscriberAddedEvent{
			SubscriberID: added.ID,
			Email:        added.Email,
			SubscribedAt: added.SubscribedAt,
		}
		if err := events.SubscriberAddedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish SubscriberAdded event", "id", added.ID, "error", err.Error())
		}
	}
	return added, nil
}

// ContactInput is a contact form submission.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Contact stores a contact form message.
func (s *Service) Contact(ctx context.Context, in ContactInput) (domain.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	body := strings.TrimSpace(in.Message)
	if name == "" || body == "" || strings.TrimSpace(in.Email) == "" {
		return domain.ContactMessage{}, ErrMissingFields
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return domain.ContactMessage{}, err
	}

	var stored domain.ContactMessage
	err = s.messages.UpdateHeld(ctx, func(items []domain.ContactMessage, held []json.RawMessage) ([]domain.ContactMessage, error) {
		maxID := datastore.MaxID(held)
		for _, m := range items {
			maxID = max(maxID, m.ID)
		}
		stored = domain.ContactMessage{
			ID:        maxID + 1,
			Name:      name,
			Email:     email,
			Subject:   strings.TrimSpace(in.Subject),
			Message:   body,
			CreatedAt: s.now(),
		}
		return append(items, stored), nil
	})
	if err != nil {
		return domain.ContactMessage{}, err
	}

	s.logger.Info("Contact message received", "id", stored.ID)
	if s.eventBus != nil {
		event := events.ContactMessageReceivedEvent{
			MessageID:  stored.ID,
			Name:       stored.Name,
			Email:      stored.Email,
			Subject:    stored.Subject,
			ReceivedAt: stored.CreatedAt,
		}
		if err := events.ContactMessageReceivedV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish ContactMessageReceived event", "id", stored.ID, "error", err.Error())
		}
	}
	return stored, nil
}

// Subscribers lists every subscriber in signup order.
func (s *Service) Subscribers(ctx context.Context) ([]domain.Subscriber, error) {
	return s.subscribers.All(ctx)
}

// Messages lists every contact message in arrival order.
func (s *Service) Messages(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.messages.All(ctx)
}

// normalizeEmail trims and lower-cases email and checks that it is a bare address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}
