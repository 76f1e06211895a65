package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateUser inserts a new tenant user.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return insertUser(ctx, s.pool, user)
}

// CreateUserTx inserts a new tenant user as part of a caller-managed
// transaction (used by registration, which also creates the Tenant row).
func (s *Store) CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	return insertUser(ctx, tx, user)
}

func insertUser(ctx context.Context, exec commandExecutor, user *domain.User) error {
	user.ID = kernel.NewUserID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := exec.Exec(ctx, `
		INSERT INTO users (id, tenant_id, email, password_hash, display_name, role, language, login_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		user.ID,
		user.TenantID,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		strings.TrimSpace(user.DisplayName),
		user.Role,
		user.Language,
		user.LoginCount,
		now,
		now,
	)

	return translateError(err)
}

// GetUserByEmail resolves a user by their globally unique email, with no
// tenant filter — this is the first step of login, before a tenant is
// known.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, password_hash, display_name, role, language, login_count, last_login_at, created_at, updated_at
		FROM users WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Language,
		&u.LoginCount, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// GetUserByID returns a user scoped to the given tenant — never a bare
// lookup by id alone, so a caller can't accidentally fetch another
// tenant's user by guessing an id.
func (s *Store) GetUserByID(ctx context.Context, tenantID kernel.TenantID, userID kernel.UserID) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, password_hash, display_name, role, language, login_count, last_login_at, created_at, updated_at
		FROM users WHERE tenant_id = $1 AND id = $2
	`, tenantID, userID).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Language,
		&u.LoginCount, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// GetUserByIDAnyTenant returns a user by id alone, with no tenant filter —
// used only by refresh-token rotation, where the id comes from a
// server-verified refresh-token row rather than client input, so the
// tenant scope isn't known yet and doesn't need to be: the row itself
// carries the user's tenant_id.
func (s *Store) GetUserByIDAnyTenant(ctx context.Context, userID kernel.UserID) (*domain.User, error) {
	var u domain.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, password_hash, display_name, role, language, login_count, last_login_at, created_at, updated_at
		FROM users WHERE id = $1
	`, userID).Scan(
		&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Language,
		&u.LoginCount, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &u, nil
}

// RecordLogin bumps login_count and last_login_at on successful authentication.
func (s *Store) RecordLogin(ctx context.Context, userID kernel.UserID, at time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET login_count = login_count + 1, last_login_at = $2, updated_at = $2 WHERE id = $1
	`, userID, at)
	return translateError(err)
}

// UpdateUserPassword overwrites a user's password hash, used both by
// credential change and by the password-reset flow.
func (s *Store) UpdateUserPassword(ctx context.Context, userID kernel.UserID, passwordHash string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1
	`, userID, passwordHash, time.Now().UTC())
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return translateError(pgx.ErrNoRows)
	}
	return nil
}
