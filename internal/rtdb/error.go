package rtdb

import "errors"

var (
	ErrInvalidPath = errors.New("invalid path")
	ErrNotObject   = errors.New("value is not a JSON object")
	ErrConflict    = errors.New("too many concurrent writers")
)
