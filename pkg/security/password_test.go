package security_test

import (
	"testing"

	"github.com/sitecrm/sitecrm-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	if !security.VerifyPassword("very-secure-password", hash) {
		t.Fatal("VerifyPassword failed for the correct password")
	}
	if security.VerifyPassword("bogus-password", hash) {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if security.VerifyPassword("irrelevant", "not-a-hash") {
		t.Fatal("malformed hash must never verify")
	}
}
