package marketing

import "errors"

var (
	// ErrEmailRequired is returned when no email is given.
	ErrEmailRequired = errors.New("email is required")
	// ErrInvalidEmail is returned when the email cannot be parsed.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrAlreadySubscribed is returned for a duplicate newsletter signup.
	ErrAlreadySubscribed = errors.New("email already subscribed")
	// ErrMissingFields is returned when a contact message lacks name, email or message.
	ErrMissingFields = errors.New("name, email and message are required")
)

// validationErrors are the client errors of this module.
var validationErrors = []error{
	ErrEmailRequired,
	ErrInvalidEmail,
	ErrAlreadySubscribed,
	ErrMissingFields,
}
