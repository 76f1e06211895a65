package repository

import (
	"context"
	"time"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// CreatePasswordResetToken persists a single-use reset token.
func (s *Store) CreatePasswordResetToken(ctx context.Context, t *domain.PasswordResetToken) error {
	t.ID = kernel.NewRefreshTokenID()
	t.CreatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, t.ID, t.UserID, t.Hash, t.ExpiresAt, t.CreatedAt)

	return translateError(err)
}

// GetPasswordResetTokenByHash looks up a reset token by its hashed value.
func (s *Store) GetPasswordResetTokenByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, hash, expires_at, used_at, created_at
		FROM password_reset_tokens WHERE hash = $1
	`, hash).Scan(&t.ID, &t.UserID, &t.Hash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// MarkPasswordResetTokenUsed consumes a reset token so it can't be replayed.
func (s *Store) MarkPasswordResetTokenUsed(ctx context.Context, id kernel.RefreshTokenID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE password_reset_tokens SET used_at = $2 WHERE id = $1 AND used_at IS NULL
	`, id, time.Now().UTC())
	return translateError(err)
}
