package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/ports"
)

// AuthService implements registration, login, and the single-slot refresh
// rotation protocol: the store keeps only the SHA-256 hash of the last issued
// refresh token, each rotation replaces it atomically, and replay of a
// superseded token is rejected because the stored hash has moved on.
type AuthService struct {
	repo   ports.UserRepository
	tokens ports.TokenService
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenService) *AuthService {
	return &AuthService{repo: repo, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*domain.User, error) {
	if name == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, user)
}

// Login authenticates by email and password and issues a fresh token pair.
// A missing user and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, *domain.User, error) {
	if email == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, domain.ErrInvalidCredentials
	}

	pair, hash, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	// Unconditional overwrite: logging in invalidates any prior refresh token.
	if err := s.repo.SetRefreshTokenHash(ctx, user.ID, hash); err != nil {
		return nil, nil, err
	}
	return pair, user, nil
}

// Refresh rotates a presented refresh token. The checks run in a fixed order
// and the stored-hash compare-and-set is the only mutation, performed last, so
// a failure at any step leaves no partial state. A token rotates successfully
// at most once: replay after rotation fails the hash comparison.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.ErrMissingRefreshToken
	}

	incomingHash := hashToken(refreshToken)

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.RefreshTokenHash == "" || user.RefreshTokenHash != incomingHash {
		return nil, domain.ErrRefreshTokenMismatch
	}

	pair, newHash, err := s.issuePair(user)
	if err != nil {
		return nil, err
	}
	// The CAS on the stored hash is the serialization point: of two concurrent
	// rotations with the same token, at most one wins.
	if err := s.repo.RotateRefreshTokenHash(ctx, user.ID, incomingHash, newHash); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the active refresh session. Clearing an already-empty slot is
// a no-op, so repeated logouts succeed.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return domain.ErrMissingRefreshToken
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	return s.repo.ClearRefreshTokenHash(ctx, claims.UserID)
}

func (s *AuthService) issuePair(user *domain.User) (*domain.TokenPair, string, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, "", err
	}
	refresh, err := s.tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, hashToken(refresh), nil
}

// hashToken returns the hex SHA-256 digest stored in place of the plaintext
// refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
