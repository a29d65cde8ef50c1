package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/member-portal/internal/auth"
	"github.com/spec-kit/member-portal/internal/config"
	"github.com/spec-kit/member-portal/internal/domain"
	"github.com/spec-kit/member-portal/internal/repository"
)

// EnsureAdmin seeds the console account at startup if absent. The password
// must come from configuration; there is no built-in default credential.
func EnsureAdmin(ctx context.Context, cfg config.Config, admins repository.AdminRepository, logger *zap.Logger) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if email == "" || strings.TrimSpace(cfg.Admin.Password) == "" {
		return fmt.Errorf("admin bootstrap requires ADMIN_EMAIL and ADMIN_PASSWORD")
	}

	if _, err := admins.GetByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("bootstrap admin lookup: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Admin.Password, cfg.Auth.BcryptCost)
	if err != nil {
		return fmt.Errorf("bootstrap hash password: %w", err)
	}

	admin := &domain.Admin{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.AdminRoleAdmin,
	}
	if err := admins.Create(ctx, admin); err != nil {
		return fmt.Errorf("bootstrap create admin: %w", err)
	}

	logger.Info("bootstrap admin created", zap.String("email", admin.Email))
	return nil
}
