package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_Hash(t *testing.T) {
	hasher := NewPasswordHasherWithCost(bcrypt.MinCost)

	tests := []struct {
		name     string
		password string
	}{
		{
			name:     "simple password",
			password: "password123",
		},
		{
			name:     "complex password",
			password: "P@ssw0rd!#$%^&*()",
		},
		{
			name:     "unicode password",
			password: "sonnenbrille-ä-ö",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash() error = %v", err)
			}
			if hash == "" || hash == tt.password {
				t.Errorf("Hash() = %q, want a bcrypt hash", hash)
			}
			if !hasher.Verify(tt.password, hash) {
				t.Error("Verify() returned false for correct password")
			}
			if hasher.Verify(tt.password+"x", hash) {
				t.Error("Verify() returned true for wrong password")
			}
		})
	}
}

func TestPasswordHasher_Cost(t *testing.T) {
	if got := NewPasswordHasher().cost; got != DefaultBcryptCost {
		t.Errorf("default cost = %d, want %d", got, DefaultBcryptCost)
	}
	if got := NewPasswordHasherWithCost(1).cost; got != bcrypt.MinCost {
		t.Errorf("clamped cost = %d, want %d", got, bcrypt.MinCost)
	}

	hash, err := NewPasswordHasherWithCost(bcrypt.MinCost).Hash("secret")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != bcrypt.MinCost {
		t.Errorf("hash cost = %d, want %d", cost, bcrypt.MinCost)
	}
}

func TestPasswordHasher_VerifyRejectsGarbageHash(t *testing.T) {
	if NewPasswordHasher().Verify("secret", "not-a-hash") {
		t.Error("Verify() returned true for a malformed hash")
	}
}
