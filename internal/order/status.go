package order

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// number decodes a JSON number or numeric string. Anything else is absent.
type number struct {
	set bool
	v   float64
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*n = number{set: true, v: f}
		}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number{set: true, v: f}
	}
	return nil
}

func (n number) or(fallback float64) float64 {
	if !n.set {
		return fallback
	}
	return n.v
}

// text decodes a JSON string or number as a string.
type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = ""
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err == nil {
			*t = text(s)
		}
	case 'n', 't', 'f', '{', '[':
	default:
		*t = text(b)
	}
	return nil
}

type RawItem struct {
	ID       text   `json:"id"`
	Name     text   `json:"name"`
	Price    number `json:"price"`
	Quantity number `json:"quantity"`
	Image    text   `json:"image"`
}

// RawOrder is an order record as found in either store. Status is kept as
// raw JSON because legacy records store it as a number or omit it.
type RawOrder struct {
	ID                 text            `json:"id"`
	CustomerName       text            `json:"customerName"`
	CustomerEmail      text            `json:"customerEmail"`
	CustomerPhone      text            `json:"customerPhone"`
	Items              []RawItem       `json:"items"`
	DeliveryAddress    text            `json:"deliveryAddress"`
	Delivery           number          `json:"delivery"`
	Tax                number          `json:"tax"`
	Notes              text            `json:"notes"`
	Total              number          `json:"total"`
	Status             json.RawMessage `json:"status"`
	CurrentStatusIndex number          `json:"currentStatusIndex"`
	OrderDate          json.RawMessage `json:"orderDate"`
	CreatedAt          json.RawMessage `json:"createdAt"`
	UpdatedAt          json.RawMessage `json:"updatedAt"`
}

// DecodeRaw parses a stored record. key is the record's store key and is
// used when the body carries no id.
func DecodeRaw(key string, data []byte) (RawOrder, error) {
	var raw RawOrder
	if err := json.Unmarshal(data, &raw); err != nil {
		return RawOrder{}, err
	}
	if raw.ID == "" {
		raw.ID = text(key)
	}
	return raw, nil
}

// DeriveStatus picks the canonical status of a raw record:
// a non-empty string status wins (lower-cased, kept even if unknown), then
// the legacy index, then confirmed.
func DeriveStatus(raw RawOrder) Status {
	var s string
	if len(raw.Status) > 0 && json.Unmarshal(raw.Status, &s) == nil && s != "" {
		return Status(strings.ToLower(s))
	}

	if raw.CurrentStatusIndex.set {
		idx := raw.CurrentStatusIndex.v
		if idx == math.Trunc(idx) && idx >= 0 && int(idx) < len(Lifecycle) {
			return Lifecycle[int(idx)]
		}
	}

	return StatusConfirmed
}

// DeriveTotal returns the stored total when present and non-zero, else
// sum(price * max(quantity, 1)) + delivery + tax.
func DeriveTotal(raw RawOrder) float64 {
	if t := raw.Total.or(0); t != 0 {
		return t
	}

	var sum float64
	for _, it := range raw.Items {
		sum += it.Price.or(0) * math.Max(it.Quantity.or(1), 1)
	}
	return sum + raw.Delivery.or(0) + raw.Tax.or(0)
}

// Derive normalizes a raw record into an Order. It never fails.
func Derive(raw RawOrder) Order {
	o := Order{
		ID:              string(raw.ID),
		CustomerName:    string(raw.CustomerName),
		CustomerEmail:   string(raw.CustomerEmail),
		CustomerPhone:   string(raw.CustomerPhone),
		DeliveryAddress: string(raw.DeliveryAddress),
		Delivery:        raw.Delivery.or(0),
		Tax:             raw.Tax.or(0),
		Notes:           string(raw.Notes),
		Total:           DeriveTotal(raw),
		Status:          DeriveStatus(raw),
		Items:           make([]Item, 0, len(raw.Items)),
	}

	for _, it := range raw.Items {
		o.Items = append(o.Items, Item{
			ID:       string(it.ID),
			Name:     string(it.Name),
			Price:    it.Price.or(0),
			Quantity: max(int(it.Quantity.or(1)), 1),
			Image:    string(it.Image),
		})
	}

	if t, ok := parseTimestamp(raw.OrderDate); ok {
		o.OrderDate = &t
	}
	if t, ok := parseTimestamp(raw.CreatedAt); ok {
		o.CreatedAt = t.UnixMilli()
	}
	if t, ok := parseTimestamp(raw.UpdatedAt); ok {
		o.UpdatedAt = t.UnixMilli()
	}

	return o
}

// parseTimestamp accepts an RFC 3339 string, unix milliseconds, or an
// object carrying "seconds" (and optionally "nanoseconds").
func parseTimestamp(b json.RawMessage) (time.Time, bool) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return time.Time{}, false
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil || s == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms), true
		}
		return time.Time{}, false

	case '{':
		var ts struct {
			Seconds     *float64 `json:"seconds"`
			Nanoseconds float64  `json:"nanoseconds"`
		}
		if err := json.Unmarshal(b, &ts); err != nil || ts.Seconds == nil {
			return time.Time{}, false
		}
		return time.Unix(int64(*ts.Seconds), int64(ts.Nanoseconds)), true
	}

	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil || ms <= 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
