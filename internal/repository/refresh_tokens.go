package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreateRefreshToken persists a new session row. tx is optional: login
// issues it standalone, refresh rotation issues the replacement as part of
// the same transaction that revokes the old one.
func (s *Store) CreateRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	return insertRefreshToken(ctx, s.pool, t)
}

func (s *Store) CreateRefreshTokenTx(ctx context.Context, tx pgx.Tx, t *domain.RefreshToken) error {
	return insertRefreshToken(ctx, tx, t)
}

func insertRefreshToken(ctx context.Context, exec commandExecutor, t *domain.RefreshToken) error {
	t.ID = kernel.NewRefreshTokenID()
	t.CreatedAt = time.Now().UTC()

	_, err := exec.Exec(ctx, `
		INSERT INTO refresh_tokens (id, user_id, hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.UserID, t.Hash, t.ExpiresAt, t.CreatedAt)

	return translateError(err)
}

// GetRefreshTokenByHash looks a session up by its hashed opaque value. The
// caller compares the raw candidate's hash, never the raw value itself,
// against what's stored.
func (s *Store) GetRefreshTokenByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	var t domain.RefreshToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, hash, expires_at, revoked_at, created_at
		FROM refresh_tokens WHERE hash = $1
	`, hash).Scan(&t.ID, &t.UserID, &t.Hash, &t.ExpiresAt, &t.RevokedAt, &t.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// RevokeRefreshToken marks a session as revoked; used on logout. Revoking an
// already-revoked session is a no-op.
func (s *Store) RevokeRefreshToken(ctx context.Context, id kernel.RefreshTokenID) error {
	return revokeRefreshToken(ctx, s.pool, id)
}

// RevokeRefreshTokenTx revokes a session inside the rotation transaction. It
// fails with an authentication error when the row was already revoked, so two
// concurrent rotations of the same token cannot both commit.
func (s *Store) RevokeRefreshTokenTx(ctx context.Context, tx pgx.Tx, id kernel.RefreshTokenID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL
	`, id, time.Now().UTC())
	if err != nil {
		return translateError(err)
	}
	if tag.RowsAffected() == 0 {
		return kernel.AuthenticationError("refresh token is expired or revoked")
	}
	return nil
}

func revokeRefreshToken(ctx context.Context, exec commandExecutor, id kernel.RefreshTokenID) error {
	_, err := exec.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $2 WHERE id = $1 AND revoked_at IS NULL
	`, id, time.Now().UTC())
	return translateError(err)
}

// RevokeAllRefreshTokensForUser revokes every active session for a user —
// used on password change, so a stolen refresh token stops working the
// moment the owner resets their credentials.
func (s *Store) RevokeAllRefreshTokensForUser(ctx context.Context, userID kernel.UserID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE refresh_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL
	`, userID, time.Now().UTC())
	return translateError(err)
}
