package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/mailer"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

const passwordResetTokenTTL = 30 * time.Minute

// resetRepository is the slice of *repository.Store the forgot/reset flow
// needs.
type resetRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CreatePasswordResetToken(ctx context.Context, t *domain.PasswordResetToken) error
	GetPasswordResetTokenByHash(ctx context.Context, hash string) (*domain.PasswordResetToken, error)
	MarkPasswordResetTokenUsed(ctx context.Context, id kernel.RefreshTokenID) error
	UpdateUserPassword(ctx context.Context, userID kernel.UserID, passwordHash string) error
	RevokeAllRefreshTokensForUser(ctx context.Context, userID kernel.UserID) error
}

// PasswordResetService issues and redeems single-use password-reset tokens,
// mailing the raw secret to the account's address — the supplemental
// forgot/reset-password flow, not named in the route-for-route core but
// carried the same way the teacher carries it.
type PasswordResetService struct {
	repo        resetRepository
	mailer      *mailer.SMTPClient
	pepper      string
	frontendURL string
	log         zerolog.Logger
}

func NewPasswordResetService(repo *repository.Store, smtp *mailer.SMTPClient, pepper, frontendURL string, log zerolog.Logger) *PasswordResetService {
	return &PasswordResetService{repo: repo, mailer: smtp, pepper: pepper, frontendURL: frontendURL, log: log}
}

// IssueToken creates a reset token for the account behind email and mails
// it, if a mailer is configured. It never reveals whether the email exists:
// callers should return a generic "check your inbox" response regardless of
// the boolean result.
func (s *PasswordResetService) IssueToken(ctx context.Context, email string) (issued bool, err error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	raw, err := GenerateOpaqueToken()
	if err != nil {
		return false, kernel.InternalErrorf("failed to generate reset token: %v", err)
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Hash:      HashOpaqueToken(raw, s.pepper),
		ExpiresAt: time.Now().UTC().Add(passwordResetTokenTTL),
	}
	if err := s.repo.CreatePasswordResetToken(ctx, token); err != nil {
		return false, err
	}

	if s.mailer != nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.frontendURL, raw)
		body := fmt.Sprintf("Use the link below to reset your password. It expires in 30 minutes.\n\n%s", resetURL)
		if err := s.mailer.Send(user.Email, "Reset your password", body); err != nil {
			s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to send password reset email")
		}
	}

	return true, nil
}

// Complete validates a presented raw token and, if usable, overwrites the
// account's password and revokes every outstanding refresh session.
func (s *PasswordResetService) Complete(ctx context.Context, rawToken, newPassword string) error {
	if len(newPassword) < 8 {
		return kernel.ValidationError("password must be at least 8 characters")
	}

	hash := HashOpaqueToken(rawToken, s.pepper)
	token, err := s.repo.GetPasswordResetTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return kernel.ValidationError("reset token is invalid")
		}
		return err
	}
	if !token.Usable(time.Now().UTC()) {
		return kernel.ValidationError("reset token is expired or already used")
	}

	passwordHash, err := HashPassword(newPassword, s.pepper)
	if err != nil {
		return kernel.InternalErrorf("failed to hash password: %v", err)
	}

	if err := s.repo.UpdateUserPassword(ctx, token.UserID, passwordHash); err != nil {
		return err
	}
	if err := s.repo.MarkPasswordResetTokenUsed(ctx, token.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", token.UserID.String()).Msg("failed to mark reset token used")
	}
	return s.repo.RevokeAllRefreshTokensForUser(ctx, token.UserID)
}
