package domain

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a short-lived access token. Self-contained:
// handlers authorize from the claims alone, without a store round-trip.
type AccessClaims struct {
	UserID string `json:"_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. Deliberately minimal: the
// user id is the only claim, everything else is re-read from the store at
// rotation time.
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login or rotation.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
