package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// GetAdminByEmail resolves an admin by email for login.
func (s *Store) GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at FROM admins WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

// CreateAdmin inserts a new platform admin (used by seeding, not exposed over HTTP).
func (s *Store) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	admin.ID = kernel.NewAdminID()
	admin.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO admins (id, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, admin.ID, strings.ToLower(strings.TrimSpace(admin.Email)), admin.PasswordHash, admin.Role, admin.CreatedAt)

	return translateError(err)
}
