package file

import (
	"context"
	"errors"

	"blogd/internal/config"
	"blogd/internal/domain/user"
	"blogd/internal/security"
)

// EnsureAdminUser creates the configured admin account on first run.
// No-op when the admin is not configured or already exists.
func EnsureAdminUser(ctx context.Context, repo *UsersRepo, cfg config.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	_, err := repo.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return err
	}

	hash, err := security.HashPassword(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, cfg.AdminName, cfg.AdminEmail, hash, cfg.AdminRole)

	return err
}
