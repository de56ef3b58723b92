package user

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("phone number already registered")
	ErrInvalidUserType   = errors.New("invalid user type")

	ErrSessionNotFound = errors.New("session not found")
)
