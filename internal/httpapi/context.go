package httpapi

import (
	"context"

	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// ctxKey namespaces every value this package stashes on a request context,
// the same discipline the teacher's requestctx package uses.
type ctxKey string

const (
	tenantIDKey ctxKey = "tenant_id"
	userIDKey   ctxKey = "user_id"
	roleKey     ctxKey = "role"
	languageKey ctxKey = "language"
	adminIDKey  ctxKey = "admin_id"
)

func withTenantID(ctx context.Context, id kernel.TenantID) context.Context {
	return context.WithValue(ctx, tenantIDKey, id)
}

// TenantID returns the authenticated tenant user's tenant, set by TenantAuth.
func TenantID(ctx context.Context) (kernel.TenantID, bool) {
	id, ok := ctx.Value(tenantIDKey).(kernel.TenantID)
	return id, ok && !id.IsZero()
}

func withUserID(ctx context.Context, id kernel.UserID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserID returns the authenticated tenant user's own id.
func UserID(ctx context.Context) (kernel.UserID, bool) {
	id, ok := ctx.Value(userIDKey).(kernel.UserID)
	return id, ok && !id.IsZero()
}

func withRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, roleKey, role)
}

// Role returns the authenticated tenant user's role within their tenant.
func Role(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey).(string)
	return role, ok && role != ""
}

func withLanguage(ctx context.Context, lang kernel.Language) context.Context {
	return context.WithValue(ctx, languageKey, lang)
}

// Language returns the user's current display language, loaded from the
// database on every request rather than carried in the access token — a
// language change the user makes mid-session takes effect on their very
// next request instead of waiting for a fresh login.
func Language(ctx context.Context) (kernel.Language, bool) {
	lang, ok := ctx.Value(languageKey).(kernel.Language)
	return lang, ok && lang != ""
}

func withAdminID(ctx context.Context, id kernel.AdminID) context.Context {
	return context.WithValue(ctx, adminIDKey, id)
}

// AdminID returns the authenticated platform admin's id.
func AdminID(ctx context.Context) (kernel.AdminID, bool) {
	id, ok := ctx.Value(adminIDKey).(kernel.AdminID)
	return id, ok && !id.IsZero()
}
