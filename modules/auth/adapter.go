package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	domain "github.com/example/cityshades/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthPort defines the interface for authentication operations.
// This is the port that other modules use to access auth functionality.
type AuthPort interface {
	Login(ctx context.Context, username, password string) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (*domain.Claims, error)
	GetUser(ctx context.Context, userID int64) (domain.Profile, error)
}

// AuthAdapter implements AuthPort using the service container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

var _ AuthPort = (*AuthAdapter)(nil)

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{
		container: container,
	}
}

// Login exchanges credentials for a token.
func (a *AuthAdapter) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	req := LoginRequest{Username: username, Password: password}
	var resp LoginResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"login",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return LoginResponse{}, translateError("login", err)
	}

	return resp, nil
}

// ValidateToken validates a token and returns claims.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*domain.Claims, error) {
	req := ValidateTokenRequest{Token: token}
	var resp ValidateTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"validate-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("validate-token request failed: %w", err)
	}

	if !resp.Valid {
		if resp.Error == ErrExpiredToken.Error() {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	return &domain.Claims{
		UserID:   resp.UserID,
		Username: resp.Username,
		Role:     resp.Role,
	}, nil
}

// GetUser retrieves a user profile by id.
func (a *AuthAdapter) GetUser(ctx context.Context, userID int64) (domain.Profile, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-user",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return domain.Profile{}, translateError("get-user", err)
	}

	return resp.User, nil
}

// translateError recovers auth sentinels from errors that crossed the service boundary.
func translateError(service string, err error) error {
	for _, known := range []error{ErrMissingCredentials, ErrInvalidCredentials, ErrUserNotFound} {
		if strings.Contains(err.Error(), known.Error()) {
			return known
		}
	}
	return fmt.Errorf("%s request failed: %w", service, err)
}
