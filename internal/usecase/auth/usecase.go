package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loanhub-backend/internal/domain/user"
	"loanhub-backend/pkg/id"
)

const (
	sessionKeyPrefix = "sess:"
	csrfKeyPrefix    = "csrf:"
)

type Usecase struct {
	users user.Repository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewUsecase(users user.Repository, rdb *redis.Client, ttl time.Duration) *Usecase {
	return &Usecase{users: users, rdb: rdb, ttl: ttl}
}

func (u *Usecase) Signup(ctx context.Context, in SignupInput) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return u.users.Create(ctx, &user.User{
		Username:     in.Username,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		Email:        in.Email,
	})
}

// Login verifies credentials and opens a redis-backed session. The returned
// CSRF token is set as a cookie and must be echoed in the X-CSRFToken header
// on every mutating call for the session's lifetime.
func (u *Usecase) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)) != nil {
		return nil, user.ErrBadCredentials
	}

	sess := Session{
		Token:    uuid.NewString(),
		UserID:   usr.ID,
		Username: usr.Username,
		Role:     usr.Role(),
	}
	payload, _ := json.Marshal(sess)
	if err := u.rdb.Set(ctx, sessionKeyPrefix+sess.Token, payload, u.ttl).Err(); err != nil {
		return nil, err
	}

	csrf, err := u.IssueCSRF(ctx)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user": usr.Username, "role": sess.Role}).Info("auth: login")
	return &LoginResult{Session: sess, CSRFToken: csrf}, nil
}

func (u *Usecase) Logout(ctx context.Context, token string) error {
	return u.rdb.Del(ctx, sessionKeyPrefix+token).Err()
}

// Resolve maps a session cookie back to its identity. A missing or expired
// key reads as ErrSessionExpired, never as an infrastructure error.
func (u *Usecase) Resolve(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}
	raw, err := u.rdb.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrSessionExpired
	}
	sess.Token = token
	return &sess, nil
}

// IssueCSRF mints an anti-forgery token. The token is delivered via cookie
// and recorded server-side so a forged cookie alone cannot pass the guard.
func (u *Usecase) IssueCSRF(ctx context.Context) (string, error) {
	token := id.NewID32()
	if err := u.rdb.Set(ctx, csrfKeyPrefix+token, "1", u.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

func (u *Usecase) ValidateCSRF(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	ok, err := u.rdb.Exists(ctx, csrfKeyPrefix+token).Result()
	return err == nil && ok == 1
}
