package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/usecase/auth"
)

const sessionCtxKey = "loanhub.session"

// SessionRequired resolves the session cookie and attaches the identity to
// the echo context. A missing or expired session is 401, never a 500: the
// client treats it as "log in again".
func SessionRequired(authUC *auth.Usecase, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
			}
			sess, err := authUC.Resolve(c.Request().Context(), ck.Value)
			if err != nil {
				if errors.Is(err, auth.ErrSessionExpired) {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session expired"})
				}
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session store unavailable"})
			}
			c.Set(sessionCtxKey, sess)
			return next(c)
		}
	}
}

// SessionFromContext returns the identity SessionRequired attached, or nil.
func SessionFromContext(c echo.Context) *auth.Session {
	sess, _ := c.Get(sessionCtxKey).(*auth.Session)
	return sess
}

// SetSession attaches an identity the way SessionRequired does. Exists so
// handler tests can skip the middleware stack.
func SetSession(c echo.Context, sess *auth.Session) { c.Set(sessionCtxKey, sess) }

// AdminRequired gates staff-only routes. Must be mounted after
// SessionRequired.
func AdminRequired(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess := SessionFromContext(c)
		if sess == nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}
		if !sess.IsAdmin() {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden: Admin access only", "code": "role"})
		}
		return next(c)
	}
}
