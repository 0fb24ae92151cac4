package docstore

import "errors"

var (
	ErrNotFound      = errors.New("document not found")
	ErrEmptyID       = errors.New("document id is required")
	ErrEmptyField    = errors.New("field name is required")
	ErrInvalidRecord = errors.New("document data must be a JSON object")
)
