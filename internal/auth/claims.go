package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of a tenant user's access token. Unlike the
// teacher's token pair, only the access token is a JWT — the refresh token
// is an opaque, server-persisted secret (see Service.newRefreshToken) so it can be
// individually revoked without rotating every other session's signing key.
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// AdminClaims is the payload of a platform admin's access token. It
// deliberately carries no TenantID: an admin token must never satisfy a
// tenant-scoped authorization check, so the two claim types are kept
// structurally distinct rather than sharing one struct with an optional
// field.
type AdminClaims struct {
	AdminID uuid.UUID `json:"admin_id"`
	Role    string    `json:"role"`
	jwt.RegisteredClaims
}
