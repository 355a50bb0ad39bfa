package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"loanhub-backend/internal/adapter/middleware"
	"loanhub-backend/internal/domain/user"
	"loanhub-backend/internal/usecase/auth"
)

type AuthHandler struct {
	uc            *auth.Usecase
	sessionCookie string
	csrfCookie    string
	cookieSecure  bool
	sessionTTL    time.Duration
}

func NewAuthHandler(uc *auth.Usecase, sessionCookie, csrfCookie string, secure bool, ttl time.Duration) *AuthHandler {
	return &AuthHandler{uc: uc, sessionCookie: sessionCookie, csrfCookie: csrfCookie, cookieSecure: secure, sessionTTL: ttl}
}

type signupReq struct {
	Username  string `json:"username"   validate:"required,min=3"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"      validate:"omitempty,email"`
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	err := h.uc.Signup(c.Request().Context(), auth.SignupInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		Email:     req.Email,
	})
	if err != nil {
		if errors.Is(err, user.ErrDuplicateName) {
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "signup failed"})
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "Signup successful"})
}

type loginReq struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
	}
	res, err := h.uc.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrBadCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid username or password"})
		}
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "login unavailable"})
	}

	c.SetCookie(h.cookie(h.sessionCookie, res.Session.Token, true))
	// csrf cookie is readable by the client so it can be echoed in the header
	c.SetCookie(h.cookie(h.csrfCookie, res.CSRFToken, false))

	return c.JSON(http.StatusOK, map[string]any{
		"message":  "Login successful",
		"username": res.Session.Username,
		"role":     res.Session.Role,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess != nil {
		_ = h.uc.Logout(c.Request().Context(), sess.Token)
	}
	c.SetCookie(h.expiredCookie(h.sessionCookie, true))
	c.SetCookie(h.expiredCookie(h.csrfCookie, false))
	return c.JSON(http.StatusOK, map[string]string{"message": "Logout successful"})
}

// CSRF ensures the anti-forgery cookie is set for a client that has not
// logged in yet (the login form itself needs one).
func (h *AuthHandler) CSRF(c echo.Context) error {
	token, err := h.uc.IssueCSRF(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "csrf unavailable"})
	}
	c.SetCookie(h.cookie(h.csrfCookie, token, false))
	return c.JSON(http.StatusOK, map[string]string{"detail": "CSRF cookie set"})
}

func (h *AuthHandler) UserRole(c echo.Context) error {
	sess := middleware.SessionFromContext(c)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"username": sess.Username,
		"is_staff": sess.IsAdmin(),
		"role":     sess.Role,
	})
}

func (h *AuthHandler) cookie(name, value string, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: httpOnly,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie(name string, httpOnly bool) *http.Cookie {
	ck := h.cookie(name, "", httpOnly)
	ck.MaxAge = -1
	return ck
}
