package handler

import (
	"net/http"
	"time"
)

// RefreshCookieName is the cookie carrying the refresh token. The token is
// never read from a request body.
const RefreshCookieName = "refresh_token"

// CookiePolicy captures the deployment-configurable cookie attributes.
type CookiePolicy struct {
	Secure   bool
	HTTPOnly bool
	MaxAge   time.Duration
}

func (p CookiePolicy) refreshCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(p.MaxAge.Seconds()),
		HttpOnly: p.HTTPOnly,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearedRefreshCookie expires the cookie immediately on the client.
func (p CookiePolicy) clearedRefreshCookie() *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: p.HTTPOnly,
		Secure:   p.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
