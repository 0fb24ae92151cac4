package profile

import "errors"

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailImmutable  = errors.New("email cannot be changed")
	ErrNoFields        = errors.New("no fields to update")
)
