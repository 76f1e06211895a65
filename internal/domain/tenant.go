package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// Tenant is a restaurant account. Every other tenant-scoped row carries a
// TenantID and cascades on deletion of its Tenant.
type Tenant struct {
	ID        kernel.TenantID `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	CreatedAt time.Time       `json:"created_at"`
}
