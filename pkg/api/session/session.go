// Package session hands every visitor an opaque id kept in a cookie.
package session

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "session_id"
	contextKey = "session_id"
	cookieTTL  = 30 * 24 * 60 * 60
)

// Middleware makes sure the request carries a valid session id, issuing a new
// cookie when it is missing or malformed.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := fromCookie(c)
			if !ok {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   cookieTTL,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(contextKey, id)
			return next(c)
		}
	}
}

func fromCookie(c echo.Context) (string, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	id, err := uuid.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// ID returns the session id set by Middleware.
func ID(c echo.Context) string {
	id, _ := c.Get(contextKey).(string)
	return id
}
