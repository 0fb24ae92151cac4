package menu

import "errors"

var (
	ErrItemNotFound    = errors.New("menu item not found")
	ErrNameRequired    = errors.New("name is required")
	ErrPriceRequired   = errors.New("price is required")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNoFields        = errors.New("no fields to update")
)

func IsValidation(err error) bool {
	return errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrPriceRequired) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrNoFields)
}
