package domain

import "errors"

// Resource errors
var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")
	ErrEmailTaken   = errors.New("email is already registered")
	ErrForbidden    = errors.New("access to this resource is forbidden")
)
