package authcore

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names used by the session transport.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// SetSessionCookies writes the token pair as httpOnly cookies. Cookie
// lifetimes follow the configured token TTLs.
func (e *Engine) SetSessionCookies(w http.ResponseWriter, pair TokenPair) {
	c := e.config.Cookie
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   int(e.config.Token.AccessTTL / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     c.Path,
		Domain:   c.Domain,
		MaxAge:   int(e.config.Token.RefreshTTL / time.Second),
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: c.SameSite,
	})
}

// ClearSessionCookies expires both session cookies.
func (e *Engine) ClearSessionCookies(w http.ResponseWriter) {
	c := e.config.Cookie
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     c.Path,
			Domain:   c.Domain,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   c.Secure,
			SameSite: c.SameSite,
		})
	}
}

// AccessTokenFromRequest extracts the access token from the accessToken
// cookie, falling back to the Authorization bearer header.
func AccessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if bearer, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(bearer)
	}
	return ""
}

// RefreshTokenFromRequest extracts the refresh token from the refreshToken
// cookie, falling back to the refreshToken form field.
func RefreshTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(RefreshTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.PostFormValue(RefreshTokenCookie)
}
