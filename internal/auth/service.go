package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
	"github.com/iogar-platform/kitchenledger/internal/rate"
	"github.com/iogar-platform/kitchenledger/internal/repository"
)

// serviceRepository is the slice of *repository.Store the tenant-user auth
// flow needs, narrowed so the service can be unit tested with a stub.
type serviceRepository interface {
	CreateTenant(ctx context.Context, tenant *domain.Tenant) error
	CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	GetUserByID(ctx context.Context, tenantID kernel.TenantID, userID kernel.UserID) (*domain.User, error)
	GetUserByIDAnyTenant(ctx context.Context, userID kernel.UserID) (*domain.User, error)
	RecordLogin(ctx context.Context, userID kernel.UserID, at time.Time) error
	UpdateUserPassword(ctx context.Context, userID kernel.UserID, passwordHash string) error
	CreateRefreshToken(ctx context.Context, t *domain.RefreshToken) error
	CreateRefreshTokenTx(ctx context.Context, tx pgx.Tx, t *domain.RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*domain.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id kernel.RefreshTokenID) error
	RevokeRefreshTokenTx(ctx context.Context, tx pgx.Tx, id kernel.RefreshTokenID) error
	RevokeAllRefreshTokensForUser(ctx context.Context, userID kernel.UserID) error
	ExecTx(ctx context.Context, fn func(pgx.Tx) error) error
}

// TokenPair is the pair handed back to a client on register/login/refresh:
// a short-lived JWT access token and a long-lived opaque refresh secret.
type TokenPair struct {
	AccessToken  string
	AccessExpiry time.Time
	RefreshToken string
}

// RegisterInput is the payload for creating a brand-new tenant and its
// first owner user in one atomic step.
type RegisterInput struct {
	TenantName string
	Email      string
	Password   string
	Language   kernel.Language
}

// Service implements tenant-user registration, login, refresh rotation, and
// logout. Unlike the teacher's single TokenManager.GenerateTokens call, the
// access and refresh halves of a TokenPair are minted through two different
// mechanisms here: Manager signs the JWT, the refresh half is a random
// opaque secret this service hashes and persists itself — see
// GenerateOpaqueToken / HashOpaqueToken.
type Service struct {
	repo          serviceRepository
	tokens        *Manager
	pepper        string
	refreshTTL    time.Duration
	loginLimiter  *rate.Limiter
	loginAttempts int
	loginWindow   time.Duration
	log           zerolog.Logger
}

func NewService(repo *repository.Store, tokens *Manager, pepper string, refreshTTL time.Duration, loginLimiter *rate.Limiter, loginAttempts int, loginWindow time.Duration, log zerolog.Logger) *Service {
	return &Service{
		repo:          repo,
		tokens:        tokens,
		pepper:        pepper,
		refreshTTL:    refreshTTL,
		loginLimiter:  loginLimiter,
		loginAttempts: loginAttempts,
		loginWindow:   loginWindow,
		log:           log,
	}
}

// Register creates a tenant and its owner user atomically, then issues a
// fresh token pair. The first user of a new tenant is always an owner.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, *TokenPair, error) {
	in.TenantName = strings.TrimSpace(in.TenantName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.TenantName == "" {
		return nil, nil, kernel.ValidationError("restaurant name is required")
	}
	if in.Email == "" {
		return nil, nil, kernel.ValidationError("email is required")
	}
	if len(in.Password) < 8 {
		return nil, nil, kernel.ValidationError("password must be at least 8 characters")
	}
	if !in.Language.Valid() {
		in.Language = kernel.LanguageEN
	}

	if existing, err := s.repo.GetUserByEmail(ctx, in.Email); err == nil && existing != nil {
		return nil, nil, kernel.ConflictError("an account with this email already exists")
	}

	hash, err := HashPassword(in.Password, s.pepper)
	if err != nil {
		return nil, nil, kernel.InternalErrorf("failed to hash password: %v", err)
	}

	tenant := &domain.Tenant{Name: in.TenantName, Slug: slugify(in.TenantName)}
	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		DisplayName:  in.TenantName,
		Role:         domain.UserRoleOwner,
		Language:     in.Language,
	}

	err = s.repo.ExecTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.CreateTenant(ctx, tenant); err != nil {
			return err
		}
		user.TenantID = tenant.ID
		return s.repo.CreateUserTx(ctx, tx, user)
	})
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("tenant_id", tenant.ID.String()).Str("user_id", user.ID.String()).Msg("tenant registered")
	return user, pair, nil
}

// Login verifies credentials and issues a fresh token pair. Resolution is
// by email alone, with no tenant slug in the request: a user's tenant
// membership is fixed at registration time, so email already identifies it
// uniquely.
func (s *Service) Login(ctx context.Context, email, password, clientKey string) (*domain.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.loginLimiter != nil {
		key := "login:" + email + ":" + clientKey
		allowed, err := s.loginLimiter.Allow(ctx, key, s.loginAttempts, s.loginWindow)
		if err != nil {
			return nil, nil, kernel.InternalErrorf("rate limit check failed: %v", err)
		}
		if !allowed {
			return nil, nil, kernel.AuthenticationError("too many login attempts, try again later")
		}
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return nil, nil, kernel.AuthenticationError("invalid email or password")
		}
		return nil, nil, err
	}

	if err := CheckPassword(user.PasswordHash, password, s.pepper); err != nil {
		return nil, nil, kernel.AuthenticationError("invalid email or password")
	}

	if err := s.repo.RecordLogin(ctx, user.ID, time.Now().UTC()); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("failed to record login")
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh rotates a refresh token: the presented raw secret is hashed,
// looked up, and validated before a new pair is minted inside the same
// transaction that revokes the old session, so a replayed refresh token can
// never succeed twice. The tenant scope is derived entirely from the
// resolved refresh-token row and its user — a client never supplies its own
// tenant_id (spec §4.1's isolation invariant applies here too).
func (s *Service) Refresh(ctx context.Context, rawRefreshToken string) (*domain.User, *TokenPair, error) {
	hash := HashOpaqueToken(rawRefreshToken, s.pepper)

	existing, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return nil, nil, kernel.AuthenticationError("refresh token is invalid")
		}
		return nil, nil, err
	}
	if !existing.Valid(time.Now().UTC()) {
		return nil, nil, kernel.AuthenticationError("refresh token is expired or revoked")
	}

	user, err := s.repo.GetUserByIDAnyTenant(ctx, existing.UserID)
	if err != nil {
		return nil, nil, err
	}

	var pair *TokenPair
	err = s.repo.ExecTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.RevokeRefreshTokenTx(ctx, tx, existing.ID); err != nil {
			return err
		}

		accessToken, accessExpiry, err := s.tokens.GenerateAccessToken(user.ID.UUID(), user.TenantID.UUID(), string(user.Role))
		if err != nil {
			return kernel.InternalErrorf("failed to sign access token: %v", err)
		}

		rawRefresh, refreshRow, err := s.newRefreshToken(user.ID)
		if err != nil {
			return err
		}
		if err := s.repo.CreateRefreshTokenTx(ctx, tx, refreshRow); err != nil {
			return err
		}

		pair = &TokenPair{AccessToken: accessToken, AccessExpiry: accessExpiry, RefreshToken: rawRefresh}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Logout revokes the session behind the presented refresh token. It is
// idempotent: revoking an already-revoked or unknown token is not an error.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) error {
	hash := HashOpaqueToken(rawRefreshToken, s.pepper)

	existing, err := s.repo.GetRefreshTokenByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, kernel.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.repo.RevokeRefreshToken(ctx, existing.ID)
}

// UpdatePassword re-hashes a user's password and revokes every outstanding
// session, so a stolen refresh token stops working the instant credentials
// change.
func (s *Service) UpdatePassword(ctx context.Context, userID kernel.UserID, newPassword string) error {
	if len(newPassword) < 8 {
		return kernel.ValidationError("password must be at least 8 characters")
	}
	hash, err := HashPassword(newPassword, s.pepper)
	if err != nil {
		return kernel.InternalErrorf("failed to hash password: %v", err)
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}
	return s.repo.RevokeAllRefreshTokensForUser(ctx, userID)
}

func (s *Service) issueTokenPair(ctx context.Context, user *domain.User) (*TokenPair, error) {
	accessToken, accessExpiry, err := s.tokens.GenerateAccessToken(user.ID.UUID(), user.TenantID.UUID(), string(user.Role))
	if err != nil {
		return nil, kernel.InternalErrorf("failed to sign access token: %v", err)
	}

	rawRefresh, refreshRow, err := s.newRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateRefreshToken(ctx, refreshRow); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, AccessExpiry: accessExpiry, RefreshToken: rawRefresh}, nil
}

func (s *Service) newRefreshToken(userID kernel.UserID) (string, *domain.RefreshToken, error) {
	raw, err := GenerateOpaqueToken()
	if err != nil {
		return "", nil, kernel.InternalErrorf("failed to generate refresh token: %v", err)
	}
	row := &domain.RefreshToken{
		UserID:    userID,
		Hash:      HashOpaqueToken(raw, s.pepper),
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
	}
	return raw, row, nil
}

// slugify turns a restaurant name into a URL-safe tenant slug. Collisions
// are left to the database's unique constraint on tenants.slug; this is a
// best-effort rendering, not a dedup guarantee.
func slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = "restaurant"
	}
	return out
}
