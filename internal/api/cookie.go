package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"whattoeat/internal/identity"
)

// setAnonCookie issues or refreshes the anonymous id cookie.
func (h *Handler) setAnonCookie(c echo.Context, anonID string) {
	sameSite := http.SameSiteLaxMode
	if h.production {
		sameSite = http.SameSiteStrictMode
	}
	c.SetCookie(&http.Cookie{
		Name:     identity.CookieName,
		Value:    anonID,
		Path:     "/",
		Expires:  h.now().Add(h.cookieTTL),
		MaxAge:   int(h.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.production,
		SameSite: sameSite,
	})
}
