package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"perftrack/internal/auth"
	"perftrack/internal/authz"
	"perftrack/internal/config"
)

// Seed ensures a bootstrap admin account exists so the API is usable on a
// fresh database. It is a no-op when the seed credentials are unset or a
// user with the seed email already exists.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		slog.Info("seed skipped, SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD unset")
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", cfg.SeedAdminEmail).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (name, email, password_hash, role, is_active)
    VALUES ($1, $2, $3, $4, true)
  `, cfg.SeedAdminName, cfg.SeedAdminEmail, hash, authz.RoleAdmin)
	if err != nil {
		return err
	}

	slog.Info("seeded admin user", "email", cfg.SeedAdminEmail)
	return nil
}
