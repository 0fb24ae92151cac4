package order

import (
	"strings"
	"time"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusOnTheWay  Status = "on-the-way"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// Lifecycle is the status ladder; the position of each status is its
// legacy currentStatusIndex.
var Lifecycle = []Status{
	StatusConfirmed,
	StatusPreparing,
	StatusReady,
	StatusOnTheWay,
	StatusCompleted,
	StatusCanceled,
}

func (s Status) Valid() bool {
	for _, v := range Lifecycle {
		if s == v {
			return true
		}
	}
	return false
}

// ParseStatus accepts any casing of a canonical status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
}

func (i Item) Subtotal() float64 {
	return i.Price * float64(max(i.Quantity, 1))
}

type Order struct {
	ID              string     `json:"id"`
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail,omitempty"`
	CustomerPhone   string     `json:"customerPhone,omitempty"`
	Items           []Item     `json:"items"`
	DeliveryAddress string     `json:"deliveryAddress,omitempty"`
	Delivery        float64    `json:"delivery"`
	Tax             float64    `json:"tax,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	Total           float64    `json:"total"`
	Status          Status     `json:"status"`
	OrderDate       *time.Time `json:"orderDate,omitempty"`
	CreatedAt       int64      `json:"createdAt"`
	UpdatedAt       int64      `json:"updatedAt"`
}

// Subtotal is the sum of item subtotals, excluding delivery and tax.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, it := range o.Items {
		sum += it.Subtotal()
	}
	return sum
}

// Date is the instant the order is charted under: orderDate, then
// createdAt, then updatedAt.
func (o Order) Date() (time.Time, bool) {
	switch {
	case o.OrderDate != nil:
		return *o.OrderDate, true
	case o.CreatedAt > 0:
		return time.UnixMilli(o.CreatedAt), true
	case o.UpdatedAt > 0:
		return time.UnixMilli(o.UpdatedAt), true
	}
	return time.Time{}, false
}

type CreateInput struct {
	CustomerName    string     `json:"customerName"`
	CustomerEmail   string     `json:"customerEmail"`
	CustomerPhone   string     `json:"customerPhone"`
	Items           []Item     `json:"items"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Delivery        float64    `json:"delivery"`
	Tax             float64    `json:"tax"`
	Notes           string     `json:"notes"`
	Total           *float64   `json:"total"`
	Status          string     `json:"status"`
	OrderDate       *time.Time `json:"orderDate"`
}

// Patch is a partial order record. Keys follow the stored field names.
type Patch map[string]any
