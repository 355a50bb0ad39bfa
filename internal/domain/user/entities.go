package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateName  = errors.New("username already taken")
	ErrBadCredentials = errors.New("invalid username or password")
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex:ux_users_username" json:"username"`
	PasswordHash string    `gorm:"column:password_hash;size:128" json:"-"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	Email        string    `gorm:"size:254" json:"email"`
	IsStaff      bool      `gorm:"column:is_staff;default:false" json:"is_staff"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (User) TableName() string { return "users" }

func (u *User) Role() Role {
	if u.IsStaff {
		return RoleAdmin
	}
	return RoleUser
}
