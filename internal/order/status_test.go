package order

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func raw(t *testing.T, body string) RawOrder {
	t.Helper()
	r, err := DecodeRaw("key", []byte(body))
	require.NoError(t, err)
	return r
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Status
	}{
		{"string wins over index", `{"status":"Ready","currentStatusIndex":4}`, StatusReady},
		{"non canonical kept", `{"status":"Delivered"}`, Status("delivered")},
		{"empty string falls back to index", `{"status":"","currentStatusIndex":4}`, StatusCompleted},
		{"index 0", `{"currentStatusIndex":0}`, StatusConfirmed},
		{"index 3", `{"currentStatusIndex":3}`, StatusOnTheWay},
		{"index 5", `{"currentStatusIndex":5}`, StatusCanceled},
		{"index out of range", `{"currentStatusIndex":7}`, StatusConfirmed},
		{"negative index", `{"currentStatusIndex":-1}`, StatusConfirmed},
		{"fractional index", `{"currentStatusIndex":2.5}`, StatusConfirmed},
		{"numeric status ignored", `{"status":3}`, StatusConfirmed},
		{"nothing", `{}`, StatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(raw(t, tt.body)))
		})
	}
}

func TestDeriveTotal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"derived with delivery", `{"items":[{"price":10,"quantity":2}],"delivery":5}`, 25},
		{"stored total wins", `{"total":99,"items":[{"price":10,"quantity":2}]}`, 99},
		{"zero total is derived", `{"total":0,"items":[{"price":4,"quantity":1}],"tax":1}`, 5},
		{"missing quantity counts once", `{"items":[{"price":7}]}`, 7},
		{"zero quantity counts once", `{"items":[{"price":7,"quantity":0}]}`, 7},
		{"numeric strings", `{"items":[{"price":"3.5","quantity":"2"}]}`, 7},
		{"empty", `{}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, DeriveTotal(raw(t, tt.body)), 1e-9)
		})
	}
}

func TestDeriveTotal_AtLeastItemSubtotal(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		n := r.IntN(5) + 1
		items := make([]map[string]any, n)
		var subtotal float64
		for j := range items {
			price := float64(r.IntN(10000)) / 100
			qty := r.IntN(4)
			items[j] = map[string]any{"name": "x", "price": price, "quantity": qty}
			subtotal += price * float64(max(qty, 1))
		}
		body, err := json.Marshal(map[string]any{
			"items":    items,
			"delivery": float64(r.IntN(500)) / 100,
		})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, DeriveTotal(raw(t, string(body))), subtotal-1e-9)
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
		ok   bool
	}{
		{"rfc3339", `"2024-03-05T10:30:00Z"`, true},
		{"millis", `1709634600000`, true},
		{"millis string", `"1709634600000"`, true},
		{"seconds object", `{"seconds":1709634600,"nanoseconds":0}`, true},
		{"null", `null`, false},
		{"garbage", `"yesterday"`, false},
		{"object without seconds", `{"nanos":1}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseTimestamp(json.RawMessage(tt.in))
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, want.Equal(got), "got %s", got)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	t.Run("Full record", func(t *testing.T) {
		o := Derive(raw(t, `{
			"customerName": "Ana",
			"items": [{"id": 1, "name": "Soup", "price": 4, "quantity": 2}],
			"delivery": 2,
			"status": "PREPARING",
			"orderDate": "2024-03-05T10:30:00Z",
			"createdAt": 1709634600000,
			"updatedAt": {"seconds": 1709634700}
		}`))

		assert.Equal(t, "key", o.ID)
		assert.Equal(t, "Ana", o.CustomerName)
		assert.Equal(t, StatusPreparing, o.Status)
		assert.Equal(t, 10.0, o.Total)
		require.Len(t, o.Items, 1)
		assert.Equal(t, "1", o.Items[0].ID)
		assert.Equal(t, 2, o.Items[0].Quantity)
		require.NotNil(t, o.OrderDate)
		assert.Equal(t, int64(1709634600000), o.CreatedAt)
		assert.Equal(t, int64(1709634700000), o.UpdatedAt)
	})

	t.Run("Body id wins over key", func(t *testing.T) {
		assert.Equal(t, "o-9", Derive(raw(t, `{"id":"o-9"}`)).ID)
	})

	t.Run("Date fallbacks", func(t *testing.T) {
		d, ok := Derive(raw(t, `{"updatedAt":1709634600000}`)).Date()
		assert.True(t, ok)
		assert.Equal(t, int64(1709634600000), d.UnixMilli())

		_, ok = Derive(raw(t, `{}`)).Date()
		assert.False(t, ok)
	})
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" On-The-Way ")
	require.NoError(t, err)
	assert.Equal(t, StatusOnTheWay, st)

	_, err = ParseStatus("delivered")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
