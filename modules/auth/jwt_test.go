package auth

import (
	"testing"
	"time"

	"github.com/example/cityshades/config"
	domain "github.com/example/cityshades/domain/user"
	"github.com/golang-jwt/jwt/v5"
)

func testJWTConfig() JWTConfig {
	return JWTConfig{
		SecretKey:     "test-secret-key",
		TokenDuration: 24 * time.Hour,
		Issuer:        "test-issuer",
	}
}

func TestJWTManager_GenerateAndValidateToken(t *testing.T) {
	config := testJWTConfig()
	manager := NewJWTManager(config)

	user := domain.User{ID: 7, Username: "admin", Role: domain.RoleAdmin}

	token, err := manager.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Error("GenerateToken() returned empty token")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}

	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, user.ID)
	}
	if claims.Username != user.Username {
		t.Errorf("claims.Username = %v, want %v", claims.Username, user.Username)
	}
	if claims.Role != user.Role {
		t.Errorf("claims.Role = %v, want %v", claims.Role, user.Role)
	}
	if claims.Issuer != config.Issuer {
		t.Errorf("claims.Issuer = %v, want %v", claims.Issuer, config.Issuer)
	}
	if claims.Subject != "7" {
		t.Errorf("claims.Subject = %v, want 7", claims.Subject)
	}
	if claims.ID == "" {
		t.Error("claims.ID (jti) is empty")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 24*time.Hour {
		t.Errorf("token lifetime = %v, want 24h", got)
	}
}

func TestJWTManager_TokenIDsAreUnique(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	user := domain.User{ID: 1, Username: "admin", Role: domain.RoleAdmin}

	seen := make(map[string]bool)
	for range 5 {
		token, err := manager.GenerateToken(user)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		claims, err := manager.ValidateToken(token)
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate token id %s", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestJWTManager_InvalidToken(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "random string",
			token: "not.a.valid.token",
		},
		{
			name:  "malformed jwt",
			token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manager.ValidateToken(tt.token)
			if err != ErrInvalidToken {
				t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}

func TestJWTManager_WrongSecretKey(t *testing.T) {
	config1 := testJWTConfig()
	config2 := testJWTConfig()
	config2.SecretKey = "another-secret"

	token, err := NewJWTManager(config1).GenerateToken(domain.User{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = NewJWTManager(config2).ValidateToken(token)
	if err != ErrInvalidToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestJWTManager_RejectsUnsignedToken(t *testing.T) {
	claims := JWTClaims{
		UserID: 1,
		Role:   domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	if _, err := NewJWTManager(testJWTConfig()).ValidateToken(token); err != ErrInvalidToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	manager := NewJWTManager(testJWTConfig())
	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager.now = func() time.Time { return issued }

	token, err := manager.GenerateToken(domain.User{ID: 1, Username: "admin"})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	manager.now = func() time.Time { return issued.Add(23 * time.Hour) }
	if _, err := manager.ValidateToken(token); err != nil {
		t.Fatalf("ValidateToken() before expiry error = %v", err)
	}

	manager.now = func() time.Time { return issued.Add(25 * time.Hour) }
	if _, err := manager.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("ValidateToken() error = %v, want %v", err, ErrExpiredToken)
	}
}

func TestJWTConfigFrom(t *testing.T) {
	jc := JWTConfigFrom(config.AuthConfig{JWTSecret: "s", Issuer: "cityshades"})
	if jc.TokenDuration != 24*time.Hour {
		t.Errorf("TokenDuration = %v, want 24h", jc.TokenDuration)
	}
	if got := NewJWTManager(jc).TokenDuration(); got != 86400 {
		t.Errorf("TokenDuration() = %v, want 86400", got)
	}

	jc = JWTConfigFrom(config.AuthConfig{JWTSecret: "s", TokenTTL: time.Hour})
	if jc.TokenDuration != time.Hour {
		t.Errorf("TokenDuration = %v, want 1h", jc.TokenDuration)
	}
}
