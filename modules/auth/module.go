package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/cityshades/config"
	"github.com/example/cityshades/modules/datastore"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// AuthModule provides authentication services.
type AuthModule struct {
	cfg     config.AuthConfig
	store   datastore.Store
	repo    *UserRepository
	service *AuthService
	logger  types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.UsePluginModule = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(cfg config.AuthConfig, logger types.Logger) *AuthModule {
	return &AuthModule{
		cfg:    cfg,
		logger: logger.WithModule("auth"),
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// SetPlugin receives the datastore plugin holding the users collection.
func (m *AuthModule) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "datastore" {
		return
	}
	ds, ok := plugin.(*datastore.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for datastore",
			"alias", alias,
			"expected", "*datastore.PluginModule")
		return
	}
	m.store = ds.Port()
}

// Start initializes the auth module and bootstraps the admin account.
func (m *AuthModule) Start(ctx context.Context) error {
	if m.store == nil {
		return fmt.Errorf("required plugin 'datastore' not registered")
	}

	m.repo = NewUserRepository(m.store, m.logger)
	jwtManager := NewJWTManager(JWTConfigFrom(m.cfg))
	m.service = NewAuthService(m.repo, NewPasswordHasher(), jwtManager, m.logger)

	if _, err := m.service.EnsureAdmin(ctx, m.cfg.AdminUsername, m.cfg.AdminPassword); err != nil {
		return err
	}

	m.logger.Info("Auth module started",
		"issuer", m.cfg.Issuer,
		"token_ttl", jwtManager.config.TokenDuration.String())
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Auth module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(ctx context.Context) mono.HealthStatus {
	if m.repo == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}

	count, err := m.repo.Count(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to load users: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"users": count,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"login",
		json.Unmarshal,
		json.Marshal,
		m.handleLogin,
	); err != nil {
		return fmt.Errorf("failed to register login service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"validate-token",
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register validate-token service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container,
		"get-user",
		json.Unmarshal,
		json.Marshal,
		m.handleGetUser,
	); err != nil {
		return fmt.Errorf("failed to register get-user service: %w", err)
	}

	m.logger.Info("Registered services", "services", "login, validate-token, get-user")
	return nil
}

// handleLogin handles user login.
func (m *AuthModule) handleLogin(ctx context.Context, req LoginRequest, _ *mono.Msg) (LoginResponse, error) {
	result, err := m.service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return LoginResponse{}, err
	}

	return LoginResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		User:      result.User,
	}, nil
}

// handleValidateToken reports validation failures in the response rather than as an error.
func (m *AuthModule) handleValidateToken(ctx context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.service.ValidateToken(ctx, req.Token)
	if err != nil {
		errMsg := ErrInvalidToken.Error()
		if errors.Is(err, ErrExpiredToken) {
			errMsg = ErrExpiredToken.Error()
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil
	}

	return ValidateTokenResponse{
		Valid:    true,
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// handleGetUser handles get user requests.
func (m *AuthModule) handleGetUser(ctx context.Context, req GetUserRequest, _ *mono.Msg) (GetUserResponse, error) {
	profile, err := m.service.GetUser(ctx, req.UserID)
	if err != nil {
		return GetUserResponse{}, err
	}
	return GetUserResponse{User: profile}, nil
}
