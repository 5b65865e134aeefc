// Package user defines the pantry owner.
package user

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
	ErrEmailBlank   = errors.New("email must not be blank")
)

// User owns a pantry. Identity is the numeric id; email is unique.
type User struct {
	ID    int64
	Email string
}

// NewUser validates and builds an unsaved user.
func NewUser(email string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrEmailBlank
	}
	return &User{Email: email}, nil
}
