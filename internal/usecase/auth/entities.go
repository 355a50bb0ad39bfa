package auth

import (
	"errors"

	"loanhub-backend/internal/domain/user"
)

var ErrSessionExpired = errors.New("session missing or expired")

type SignupInput struct {
	Username  string
	Password  string
	FirstName string
	Email     string
}

// Session is the resolved identity attached to a request. It replaces the
// ambient browser-storage role state the old client kept: everything a
// handler needs travels in this one value.
type Session struct {
	Token    string    `json:"-"`
	UserID   uint64    `json:"user_id"`
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
}

func (s *Session) IsAdmin() bool { return s.Role == user.RoleAdmin }

type LoginResult struct {
	Session   Session
	CSRFToken string
}
