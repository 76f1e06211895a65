package domain

import (
	"time"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// UserRole is a tenant user's authority level within their own tenant.
type UserRole string

const (
	UserRoleOwner   UserRole = "owner"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleOwner, UserRoleManager, UserRoleStaff:
		return true
	default:
		return false
	}
}

// User is a tenant-scoped staff account. Email is unique across the whole
// platform, not just within a tenant, because login resolves a user by
// email alone before a tenant is known.
type User struct {
	ID            kernel.UserID    `json:"id"`
	TenantID      kernel.TenantID  `json:"tenant_id"`
	Email         string           `json:"email"`
	PasswordHash  string           `json:"-"`
	DisplayName   string           `json:"display_name,omitempty"`
	Role          UserRole         `json:"role"`
	Language      kernel.Language  `json:"language"`
	LoginCount    int64            `json:"login_count"`
	LastLoginAt   *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Admin is a platform operator with authority independent of any tenant.
type Admin struct {
	ID           kernel.AdminID `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	Role         string         `json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
}

// RefreshTokenStatus tracks the state machine a persisted refresh token
// moves through: Active until rotated-out or logged-out, then Revoked;
// Expired is derived from ExpiresAt rather than stored separately.
type RefreshTokenStatus string

const (
	RefreshTokenActive  RefreshTokenStatus = "active"
	RefreshTokenRevoked RefreshTokenStatus = "revoked"
)

// RefreshToken is a persisted session. The raw token handed to the client is
// never stored; Hash is a KDF digest of it, so a leaked database dump can't
// be replayed as a session.
type RefreshToken struct {
	ID        kernel.RefreshTokenID `json:"id"`
	UserID    kernel.UserID         `json:"user_id"`
	Hash      string                `json:"-"`
	ExpiresAt time.Time             `json:"expires_at"`
	RevokedAt *time.Time            `json:"revoked_at,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

func (t RefreshToken) Expired(now time.Time) bool { return now.After(t.ExpiresAt) }

func (t RefreshToken) Revoked() bool { return t.RevokedAt != nil }

func (t RefreshToken) Valid(now time.Time) bool { return !t.Revoked() && !t.Expired(now) }

// PasswordResetToken backs the supplemental forgot/reset-password flow,
// hashed the same way as a RefreshToken and single-use.
type PasswordResetToken struct {
	ID        kernel.RefreshTokenID `json:"id"`
	UserID    kernel.UserID         `json:"user_id"`
	Hash      string                `json:"-"`
	ExpiresAt time.Time             `json:"expires_at"`
	UsedAt    *time.Time            `json:"used_at,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

func (t PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
