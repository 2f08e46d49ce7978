package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/api/metrics"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/domain"
	"github.com/Chaitanya-lohani-dev/auth-api-challenge/internal/core/ports"
)

// AuthHandler exposes the credential-issuance endpoints. All error rendering
// goes through the centralized HTTP error handler.
type AuthHandler struct {
	authService ports.AuthService
	cookies     CookiePolicy
}

func NewAuthHandler(authService ports.AuthService, cookies CookiePolicy) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
		} else {
			metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered successfully",
		ID:      user.ID,
		Email:   user.Email,
		Role:    user.Role,
	})
}

// Login authenticates a user, returning an access token in the body and the
// refresh token in an HttpOnly cookie.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pair, _, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("rejected").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(h.cookies.refreshCookie(pair.RefreshToken))
	return c.JSON(http.StatusOK, tokenResponse{Token: pair.AccessToken})
}

// Refresh rotates the refresh token presented in the cookie and returns a new
// access token. The superseded refresh token is invalid from this point on.
//
// @Summary      Rotate the refresh token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  tokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		return domain.ErrMissingRefreshToken
	}

	pair, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, domain.ErrRefreshTokenMismatch) {
			metrics.RefreshReuseDetectedTotal.Inc()
			metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		} else if isTokenError(err) {
			metrics.TokenRotationsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.TokenRotationsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.TokenRotationsTotal.WithLabelValues("rotated").Inc()
	c.SetCookie(h.cookies.refreshCookie(pair.RefreshToken))
	return c.JSON(http.StatusOK, tokenResponse{Token: pair.AccessToken})
}

// Logout revokes the refresh session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return domain.ErrMissingRefreshToken
	}

	if err := h.authService.Logout(c.Request().Context(), cookie.Value); err != nil {
		return err
	}

	metrics.LogoutsTotal.Inc()
	c.SetCookie(h.cookies.clearedRefreshCookie())
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Profile echoes the claims of the presented access token.
//
// @Summary      Current user profile
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /profile [get]
func (h *AuthHandler) Profile(c echo.Context) error {
	id, _ := c.Get("user_id").(string)
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	if id == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return c.JSON(http.StatusOK, profileResponse{ID: id, Email: email, Role: role})
}

// Admin is the role-gated probe endpoint; the RBAC middleware enforces the
// admin role before this runs.
//
// @Summary      Admin-only probe
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Router       /admin [get]
func (h *AuthHandler) Admin(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "admin route accessed"})
}

func isTokenError(err error) bool {
	return errors.Is(err, domain.ErrTokenExpired) ||
		errors.Is(err, domain.ErrTokenMalformed) ||
		errors.Is(err, domain.ErrTokenSignatureInvalid)
}
