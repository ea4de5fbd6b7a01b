package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		Addr:         ":8080",
		DatabaseURL:  "postgres://localhost/perftrack",
		JWTSecret:    "test-secret",
		TokenTTL:     time.Hour,
		Environment:  "development",
		MaxBodyBytes: 1048576,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejectsMissingDatabaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = "  "
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateRejectsMissingSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestValidateRequiresStrongSecretInProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Environment = "production"
	cfg.JWTSecret = "short"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for weak production secret")
	}

	cfg.JWTSecret = strings.Repeat("x", 32)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error for strong secret: %v", err)
	}
}

func TestValidateRejectsBadTTL(t *testing.T) {
	cfg := validConfig()
	cfg.TokenTTL = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive TOKEN_TTL")
	}
}
