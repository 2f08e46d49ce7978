package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"
)

// Stable machine-readable error codes carried alongside the human message.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeTokenExpired     = "TOKEN_EXPIRED"
	CodeTokenInvalid     = "TOKEN_INVALID"
	CodeInternal         = "INTERNAL"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP statuses and codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "code": "<CODE>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		_ = c.JSON(status, errorResponse{Error: msg, Code: code})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := CodeValidationFailed
		switch he.Code {
		case http.StatusUnauthorized:
			code = CodeUnauthorized
		case http.StatusForbidden:
			code = CodeForbidden
		case http.StatusInternalServerError:
			code = CodeInternal
		}
		return he.Code, code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic statuses. No failure kind is retried
	// server-side; the client resubmits (or re-logs-in) as appropriate.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, CodeConflict, "email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, CodeUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusUnauthorized, CodeUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrRefreshTokenMismatch):
		return http.StatusUnauthorized, CodeUnauthorized, "refresh token no longer valid"
	case errors.Is(err, domain.ErrMissingRefreshToken):
		return http.StatusForbidden, CodeForbidden, "refresh token missing"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, CodeTokenExpired, "token expired"
	case errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrTokenSignatureInvalid):
		return http.StatusUnauthorized, CodeTokenInvalid, "invalid token"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, CodeInternal, "internal server error"
}
