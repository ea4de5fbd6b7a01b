package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr          string        `envconfig:"APP_ADDR" default:":8080"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	JWTSecret     string        `envconfig:"JWT_SECRET"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"60m"`
	Environment   string        `envconfig:"APP_ENV" default:"development"`
	MigrationsDir string        `envconfig:"MIGRATIONS_DIR" default:"migrations"`
	RunMigrations bool          `envconfig:"RUN_MIGRATIONS" default:"true"`
	RunSeed       bool          `envconfig:"RUN_SEED" default:"true"`

	SeedAdminName     string `envconfig:"SEED_ADMIN_NAME" default:"Administrator"`
	SeedAdminEmail    string `envconfig:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `envconfig:"SEED_ADMIN_PASSWORD"`

	// AllowSharedEmployeeLink permits several user accounts to point at the
	// same employee record. Disable to enforce a strict one-to-one link.
	AllowSharedEmployeeLink bool `envconfig:"ALLOW_SHARED_EMPLOYEE_LINK" default:"true"`

	MaxBodyBytes int64 `envconfig:"MAX_BODY_BYTES" default:"1048576"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Environment == "production" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	return nil
}
