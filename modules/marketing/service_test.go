package marketing

import (
	"context"
	"errors"
	"testing"

	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func newTestService() *Service {
	return NewService(datastore.NewMemoryStore(&mockLogger{}), nil, &mockLogger{})
}

func TestService_Subscribe(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	sub, err := svc.Subscribe(ctx, "  Shopper@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub.ID)
	assert.Equal(t, "shopper@example.com", sub.Email)
	assert.False(t, sub.SubscribedAt.IsZero())

	second, err := svc.Subscribe(ctx, "other@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	subs, err := svc.Subscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
}

func TestService_SubscribeRejectsDuplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, "shopper@example.com")
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, "SHOPPER@example.com")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	subs, err := svc.Subscribers(ctx)
	require.NoError(t, err)
	assert.Len(t, subs, 1)
}

func TestService_SubscribeValidation(t *testing.T) {
	tests := []struct {
		email string
		want  error
	}{
		{"", ErrEmailRequired},
		{"   ", ErrEmailRequired},
		{"not-an-email", ErrInvalidEmail},
		{"Shopper <shopper@example.com>", ErrInvalidEmail},
	}
	for _, tt := range tests {
		_, err := newTestService().Subscribe(context.Background(), tt.email)
		assert.ErrorIs(t, err, tt.want, "email %q", tt.email)
	}
}

func TestService_Contact(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	msg, err := svc.Contact(ctx, ContactInput{
		Name:    " Ada ",
		Email:   "ada@example.com",
		Subject: "Order",
		Message: "Where is my order?",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), msg.ID)
	assert.Equal(t, "Ada", msg.Name)
	assert.Equal(t, "Order", msg.Subject)

	msgs, err := svc.Messages(ctx)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "Where is my order?", msgs[0].Message)
}

func TestService_ContactValidation(t *testing.T) {
	tests := []struct {
		name string
		in   ContactInput
		want error
	}{
		{"missing name", ContactInput{Email: "a@b.co", Message: "hi"}, ErrMissingFields},
		{"missing email", ContactInput{Name: "A", Message: "hi"}, ErrMissingFields},
		{"missing message", ContactInput{Name: "A", Email: "a@b.co"}, ErrMissingFields},
		{"bad email", ContactInput{Name: "A", Email: "nope", Message: "hi"}, ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService().Contact(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTranslateError(t *testing.T) {
	err := translateError("subscribe", errors.New("handler error: email already subscribed"))
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	err = translateError("contact", errors.New("no responders"))
	assert.EqualError(t, err, "contact request failed: no responders")
}
