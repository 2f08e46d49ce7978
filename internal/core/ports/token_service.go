package ports

import "github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"

// TokenService issues and verifies the two token kinds. Issuance has no side
// effects; expiry is enforced by the verify methods, never assumed by callers.
type TokenService interface {
	IssueAccessToken(user *domain.User) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccessToken(token string) (*domain.AccessClaims, error)
	VerifyRefreshToken(token string) (*domain.RefreshClaims, error)
}
