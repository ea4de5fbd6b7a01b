package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if err := CheckPassword(hash, "super-secret"); err != nil {
		t.Fatalf("expected password to match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"
	empID := int64(7)
	claims := Claims{UserID: 12, Role: "manager", EmployeeID: &empID}

	token, err := GenerateToken(secret, claims, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	parsed, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if parsed.UserID != claims.UserID || parsed.Role != claims.Role {
		t.Fatalf("claims mismatch: %+v", parsed)
	}
	if parsed.EmployeeID == nil || *parsed.EmployeeID != empID {
		t.Fatalf("expected employee id %d, got %+v", empID, parsed.EmployeeID)
	}
}

func TestParseTokenNilEmployeeID(t *testing.T) {
	token, err := GenerateToken("s", Claims{UserID: 1, Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	parsed, err := ParseToken("s", token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if parsed.EmployeeID != nil {
		t.Fatalf("expected nil employee id, got %v", *parsed.EmployeeID)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken("right", Claims{UserID: 1, Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("wrong", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenExpired(t *testing.T) {
	token, err := GenerateToken("s", Claims{UserID: 1, Role: "admin"}, -time.Second)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("s", token); err == nil {
		t.Fatal("expected expiry error")
	}
}
