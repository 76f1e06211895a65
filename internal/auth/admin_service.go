package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// adminRepository is the slice of *repository.Store platform-admin login
// needs.
type adminRepository interface {
	GetAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// AdminService authenticates platform operators. Unlike tenant users, admins
// never register over HTTP and never hold a refresh session: their token is
// access-only, minted fresh on every login.
type AdminService struct {
	repo   adminRepository
	tokens *AdminManager
	pepper string
	log    zerolog.Logger
}

func NewAdminService(repo *repository.Store, tokens *AdminManager, pepper string, log zerolog.Logger) *AdminService {
	return &AdminService{repo: repo, tokens: tokens, pepper: pepper, log: log}
}

// Login verifies an admin's credentials and mints a fresh access token.
func (s *AdminService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	admin, err := s.repo.GetAdminByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return nil, "", time.Time{}, kernel.AuthenticationError("invalid email or password")
		}
		return nil, "", time.Time{}, err
	}

	if err := CheckPassword(admin.PasswordHash, password, s.pepper); err != nil {
		return nil, "", time.Time{}, kernel.AuthenticationError("invalid email or password")
	}

	token, expiry, err := s.tokens.GenerateAccessToken(admin.ID.UUID(), admin.Role)
	if err != nil {
		return nil, "", time.Time{}, kernel.InternalErrorf("failed to sign admin access token: %v", err)
	}

	s.log.Info().Str("admin_id", admin.ID.String()).Msg("admin login")
	return admin, token, expiry, nil
}
