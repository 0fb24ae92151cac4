package order

import "errors"

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrCustomerNameRequired = errors.New("customer name is required")
	ErrNoItems              = errors.New("order must have at least one item")
	ErrInvalidItem          = errors.New("invalid order item")
	ErrInvalidTotal         = errors.New("total is less than the item subtotal")
	ErrInvalidCharge        = errors.New("delivery and tax must not be negative")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrSyncFailed           = errors.New("order sync failed")
)

// IsValidation reports whether err is a caller input error.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrCustomerNameRequired,
		ErrNoItems,
		ErrInvalidItem,
		ErrInvalidTotal,
		ErrInvalidCharge,
		ErrInvalidStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
