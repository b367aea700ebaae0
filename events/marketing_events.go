package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// SubscriberAddedEvent is emitted for every new newsletter signup.
type SubscriberAddedEvent struct {
	SubscriberID int64     `json:"subscriber_id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// SubscriberAddedV1 is the typed event definition for newsletter signups.
// Subject: events.marketing.v1.subscriber-added
var SubscriberAddedV1 = helper.EventDefinition[SubscriberAddedEvent](
	"marketing", "SubscriberAdded", "v1",
)

// ContactMessageReceivedEvent is emitted when the contact form is submitted.
type ContactMessageReceivedEvent struct {
	MessageID  int64     `json:"message_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Subject    string    `json:"subject,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// ContactMessageReceivedV1 is the typed event definition for contact messages.
// Subject: events.marketing.v1.contact-message-received
var ContactMessageReceivedV1 = helper.EventDefinition[ContactMessageReceivedEvent](
	"marketing", "ContactMessageReceived", "v1",
)
