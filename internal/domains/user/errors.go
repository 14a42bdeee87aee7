package user

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email has already been used")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
