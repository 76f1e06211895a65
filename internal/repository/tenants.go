package repository

import (
	"context"
	"strings"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateTenant inserts a new tenant, created alongside its first owner user
// during registration.
func (s *Store) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	return insertTenant(ctx, s.pool, tenant)
}

func insertTenant(ctx context.Context, exec commandExecutor, tenant *domain.Tenant) error {
	tenant.ID = kernel.NewTenantID()
	tenant.CreatedAt = time.Now().UTC()

	_, err := exec.Exec(ctx, `
		INSERT INTO tenants (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
	`, tenant.ID, strings.TrimSpace(tenant.Name), tenant.Slug, tenant.CreatedAt)

	return translateError(err)
}

// GetTenantByID returns a tenant by id.
func (s *Store) GetTenantByID(ctx context.Context, tenantID kernel.TenantID) (*domain.Tenant, error) {
	var t domain.Tenant
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, slug, created_at FROM tenants WHERE id = $1
	`, tenantID).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// DeleteTenant removes a tenant; foreign keys with ON DELETE CASCADE take
// care of users, inventory, recipes, dishes, sales, and refresh tokens
// belonging to it.
func (s *Store) DeleteTenant(ctx context.Context, tenantID kernel.TenantID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, tenantID)
	return translateError(err)
}
