package auth

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iogar-platform/kitchenledger/internal/domain"
	"github.com/iogar-platform/kitchenledger/internal/kernel"
)

// stubAuthRepo is a hand-written in-memory fake over serviceRepository,
// enough to exercise register/login/refresh-rotation without a database.
type stubAuthRepo struct {
	tenants       map[kernel.TenantID]*domain.Tenant
	usersByEmail  map[string]*domain.User
	usersByID     map[kernel.UserID]*domain.User
	refreshTokens map[kernel.RefreshTokenID]*domain.RefreshToken
	byHash        map[string]*domain.RefreshToken
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		tenants:       map[kernel.TenantID]*domain.Tenant{},
		usersByEmail:  map[string]*domain.User{},
		usersByID:     map[kernel.UserID]*domain.User{},
		refreshTokens: map[kernel.RefreshTokenID]*domain.RefreshToken{},
		byHash:        map[string]*domain.RefreshToken{},
	}
}

func (r *stubAuthRepo) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	tenant.ID = kernel.NewTenantID()
	r.tenants[tenant.ID] = tenant
	return nil
}
func (r *stubAuthRepo) CreateUserTx(ctx context.Context, tx pgx.Tx, user *domain.User) error {
	user.ID = kernel.NewUserID()
	r.usersByEmail[user.Email] = user
	r.usersByID[user.ID] = user
	return nil
}
func (r *stubAuthRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := r.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubAuthRepo) GetUserByID(ctx context.Context, tenantID kernel.TenantID, userID kernel.UserID) (*domain.User, error) {
	if u, ok := r.usersByID[userID]; ok {
		return u, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubAuthRepo) GetUserByIDAnyTenant(ctx context.Context, userID kernel.UserID) (*domain.User, error) {
	if u, ok := r.usersByID[userID]; ok {
		return u, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubAuthRepo) RecordLogin(ctx context.Context, userID kernel.UserID, at time.Time) error {
	if u, ok := r.usersByID[userID]; ok {
		u.LoginCount++
		u.LastLoginAt = &at
	}
	return nil
}
func (r *stubAuthRepo) UpdateUserPassword(ctx context.Context, userID kernel.UserID, passwordHash string) error {
	if u, ok := r.usersByID[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}
func (r *stubAuthRepo) CreateRefreshToken(ctx context.Context, t *domain.RefreshToken) error {
	t.ID = kernel.NewRefreshTokenID()
	r.refreshTokens[t.ID] = t
	r.byHash[t.Hash] = t
	return nil
}
func (r *stubAuthRepo) CreateRefreshTokenTx(ctx context.Context, tx pgx.Tx, t *domain.RefreshToken) error {
	return r.CreateRefreshToken(ctx, t)
}
func (r *stubAuthRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*domain.RefreshToken, error) {
	if t, ok := r.byHash[hash]; ok {
		return t, nil
	}
	return nil, kernel.ErrNotFound
}
func (r *stubAuthRepo) RevokeRefreshToken(ctx context.Context, id kernel.RefreshTokenID) error {
	if t, ok := r.refreshTokens[id]; ok {
		now := time.Now().UTC()
		t.RevokedAt = &now
	}
	return nil
}
func (r *stubAuthRepo) RevokeRefreshTokenTx(ctx context.Context, tx pgx.Tx, id kernel.RefreshTokenID) error {
	return r.RevokeRefreshToken(ctx, id)
}
func (r *stubAuthRepo) RevokeAllRefreshTokensForUser(ctx context.Context, userID kernel.UserID) error {
	now := time.Now().UTC()
	for _, t := range r.refreshTokens {
		if t.UserID == userID {
			t.RevokedAt = &now
		}
	}
	return nil
}
func (r *stubAuthRepo) ExecTx(ctx context.Context, fn func(pgx.Tx) error) error {
	return fn(nil)
}

func newTestAuthService(repo serviceRepository) *Service {
	return &Service{
		repo:       repo,
		tokens:     NewManager("test-secret", "kitchenledger-test", 15*time.Minute),
		pepper:     "pepper",
		refreshTTL: 30 * 24 * time.Hour,
		log:        zerolog.New(io.Discard),
	}
}

func TestRegisterLoginRefreshRoundTripPreservesIdentity(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{
		TenantName: "R", Email: "a@x.io", Password: "SecurePass1!", Language: kernel.LanguageEN,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	loggedIn, loginPair, err := svc.Login(ctx, "a@x.io", "SecurePass1!", "")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.ID != user.ID || loggedIn.TenantID != user.TenantID {
		t.Fatalf("login identity mismatch: got user=%s tenant=%s", loggedIn.ID, loggedIn.TenantID)
	}

	refreshed, refreshPair, err := svc.Refresh(ctx, loginPair.RefreshToken)
	if err != nil {
		t.Fatalf("first refresh failed: %v", err)
	}
	if refreshed.ID != user.ID {
		t.Fatalf("refresh identity mismatch")
	}

	refreshedAgain, _, err := svc.Refresh(ctx, refreshPair.RefreshToken)
	if err != nil {
		t.Fatalf("second refresh failed: %v", err)
	}
	if refreshedAgain.ID != user.ID || refreshedAgain.TenantID != user.TenantID {
		t.Fatalf("second refresh identity mismatch")
	}

	_ = pair // original register pair is unused past this point
}

func TestRefreshRejectsReplayedToken(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	user, pair, err := svc.Register(ctx, RegisterInput{
		TenantName: "R", Email: "b@x.io", Password: "SecurePass1!", Language: kernel.LanguageEN,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, err := svc.Refresh(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("first refresh should succeed: %v", err)
	}

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	if !errors.Is(err, kernel.ErrAuthentication) {
		t.Fatalf("expected replayed refresh token to fail authentication, got %v", err)
	}
}

func TestRegisterDuplicateEmailReturnsConflict(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{TenantName: "R1", Email: "c@x.io", Password: "SecurePass1!"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(ctx, RegisterInput{TenantName: "R2", Email: "c@x.io", Password: "SecurePass1!"})
	if !errors.Is(err, kernel.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, RegisterInput{TenantName: "R", Email: "d@x.io", Password: "SecurePass1!"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, _, err := svc.Login(ctx, "d@x.io", "WrongPassword1!", "")
	if !errors.Is(err, kernel.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	repo := newStubAuthRepo()
	svc := newTestAuthService(repo)
	ctx := context.Background()

	_, pair, err := svc.Register(ctx, RegisterInput{TenantName: "R", Email: "e@x.io", Password: "SecurePass1!"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("first logout failed: %v", err)
	}
	if err := svc.Logout(ctx, pair.RefreshToken); err != nil {
		t.Fatalf("second logout should be a no-op, got error: %v", err)
	}
	if err := svc.Logout(ctx, "never-issued-token"); err != nil {
		t.Fatalf("logout of unknown token should be a no-op, got error: %v", err)
	}
}
