package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/usecase/auth"
)

// CSRFHeader is the header mutating requests must echo the csrf cookie in.
const CSRFHeader = "X-CSRFToken"

// CSRFGuard enforces the double-submit contract: the anti-forgery token
// arrives as a cookie, is echoed in the header, and must still be on record
// server-side. Failures carry code "csrf" so clients can prompt a reload
// instead of reporting a business error.
func CSRFGuard(authUC *auth.Usecase, cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			header := c.Request().Header.Get(CSRFHeader)
			ck, err := c.Cookie(cookieName)
			if err != nil || ck.Value == "" || header == "" || header != ck.Value {
				return csrfReject(c)
			}
			if !authUC.ValidateCSRF(c.Request().Context(), header) {
				return csrfReject(c)
			}
			return next(c)
		}
	}
}

func csrfReject(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"error": "CSRF verification failed",
		"code":  "csrf",
	})
}
