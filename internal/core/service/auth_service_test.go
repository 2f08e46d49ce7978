package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"
)

type stubUserRepo struct {
	users  map[string]*domain.User // keyed by id
	nextID int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = fmt.Sprintf("user-%d", r.nextID)
	r.users[created.ID] = cloneUser(created)
	return cloneUser(created), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetRefreshTokenHash(_ context.Context, id, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *stubUserRepo) RotateRefreshTokenHash(_ context.Context, id, oldHash, newHash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.RefreshTokenHash != oldHash {
		return domain.ErrRefreshTokenMismatch
	}
	u.RefreshTokenHash = newHash
	return nil
}

func (r *stubUserRepo) ClearRefreshTokenHash(_ context.Context, id string) error {
	if u, ok := r.users[id]; ok {
		u.RefreshTokenHash = ""
	}
	return nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *TokenService) {
	tokens := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(repo, tokens), tokens
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret1", "")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected default role %q, got %q", domain.RoleUser, user.Role)
	}
	if user.PasswordHash == "secret1" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret1")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "", "a@x.com", "secret1", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty name, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret1", "root"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for bad role, got %v", err)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret1", ""); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if _, err := svc.Register(context.Background(), "Ann Again", "a@x.com", "secret2", ""); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	registered, err := svc.Register(context.Background(), "Ann", "a@x.com", "secret1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	pair, user, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := tokens.VerifyAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims.Email != "a@x.com" || claims.Role != domain.RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	// The store holds the hash of the issued refresh token, not the token.
	stored := repo.users[user.ID].RefreshTokenHash
	if stored == "" || stored == pair.RefreshToken {
		t.Fatalf("expected hashed refresh token in store, got %q", stored)
	}
	if stored != hashToken(pair.RefreshToken) {
		t.Fatalf("stored hash does not match issued token")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	registered, _ := svc.Register(context.Background(), "Ann", "a@x.com", "secret1", "")
	if _, _, err := svc.Login(context.Background(), "a@x.com", "wrong99"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// A rejected login leaves no refresh session behind.
	if repo.users[registered.ID].RefreshTokenHash != "" {
		t.Fatalf("rejected login mutated the stored refresh hash")
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	// Indistinguishable from a wrong password.
	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "secret1"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Refresh_RotatesExactlyOnce(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "Ann", "a@x.com", "secret1", "")
	pair, user, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	rotated, err := svc.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("first rotation failed: %v", err)
	}
	if rotated.RefreshToken == pair.RefreshToken {
		t.Fatalf("rotation returned the same refresh token")
	}
	if repo.users[user.ID].RefreshTokenHash != hashToken(rotated.RefreshToken) {
		t.Fatalf("stored hash not rotated")
	}

	// Replay of the superseded token must fail: the slot has moved on.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrRefreshTokenMismatch {
		t.Fatalf("expected ErrRefreshTokenMismatch on replay, got %v", err)
	}

	// The new token is still good.
	if _, err := svc.Refresh(context.Background(), rotated.RefreshToken); err != nil {
		t.Fatalf("rotation of the fresh token failed: %v", err)
	}
}

func TestAuthService_Refresh_MissingToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Refresh(context.Background(), ""); err != domain.ErrMissingRefreshToken {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}

func TestAuthService_Refresh_VerifierFailures(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, err := svc.Refresh(context.Background(), "not-a-token"); err != domain.ErrTokenMalformed {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}

	expired := NewTokenService("access-secret", "refresh-secret", 15*time.Minute, -time.Minute)
	token, err := expired.IssueRefreshToken("user-1")
	if err != nil {
		t.Fatalf("issue expired token: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), token); err != domain.ErrTokenExpired {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuthService_Refresh_UnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	token, err := tokens.IssueRefreshToken("user-999")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := svc.Refresh(context.Background(), token); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthService_Logout_RevokesRotation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.Register(context.Background(), "Ann", "a@x.com", "secret1", "")
	pair, user, err := svc.Login(context.Background(), "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if repo.users[user.ID].RefreshTokenHash != "" {
		t.Fatalf("logout did not clear the stored hash")
	}

	// Rotation with the revoked token fails at the hash comparison.
	if _, err := svc.Refresh(context.Background(), pair.RefreshToken); err != domain.ErrRefreshTokenMismatch {
		t.Fatalf("expected ErrRefreshTokenMismatch after logout, got %v", err)
	}

	// Logout is idempotent: clearing an empty slot is a no-op.
	if err := svc.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
}

func TestAuthService_Logout_MissingToken(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if err := svc.Logout(context.Background(), ""); err != domain.ErrMissingRefreshToken {
		t.Fatalf("expected ErrMissingRefreshToken, got %v", err)
	}
}
