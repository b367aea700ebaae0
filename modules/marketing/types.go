package marketing

import (
	domain "github.com/example/cityshades/domain/marketing"
)

// SubscribeRequest represents a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email"`
}

// SubscribeResponse confirms a signup.
type SubscribeResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// ContactRequest carries a contact form submission.
type ContactRequest = ContactInput

// ContactResponse confirms a stored message.
type ContactResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// ListSubscribersRequest is empty.
type ListSubscribersRequest struct{}

// ListSubscribersResponse lists subscribers.
type ListSubscribersResponse struct {
	Subscribers []domain.Subscriber `json:"subscribers"`
}

// ListMessagesRequest is empty.
type ListMessagesRequest struct{}

// ListMessagesResponse lists contact messages.
type ListMessagesResponse struct {
	Messages []domain.ContactMessage `json:"messages"`
}
