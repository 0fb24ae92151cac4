package dashboard

import (
	"time"

	"tarim-admin/internal/order"
)

const dayLayout = "2006-01-02"

type Summary struct {
	TotalOrders     int     `json:"totalOrders"`
	TotalEarnings   float64 `json:"totalEarnings"`
	CompletedOrders int     `json:"completedOrders"`
	PendingOrders   int     `json:"pendingOrders"`
	CanceledOrders  int     `json:"canceledOrders"`
}

// Point is one calendar day of the chart.
type Point struct {
	Date     string  `json:"date"`
	Day      string  `json:"day"`
	Earnings float64 `json:"earnings"`
	Orders   int     `json:"orders"`
}

type Dashboard struct {
	Summary
	Window Window  `json:"range"`
	Chart  []Point `json:"chart"`
}

func isCompleted(s order.Status) bool {
	return s == order.StatusCompleted || s == "delivered"
}

func isCanceled(s order.Status) bool {
	return s == order.StatusCanceled || s == "cancelled"
}

// Summarize counts orders by outcome. completed + pending + canceled always
// equals total.
func Summarize(orders []order.Order) Summary {
	var s Summary
	for _, o := range orders {
		s.TotalOrders++
		s.TotalEarnings += o.Total

		switch {
		case isCompleted(o.Status):
			s.CompletedOrders++
		case isCanceled(o.Status):
			s.CanceledOrders++
		default:
			s.PendingOrders++
		}
	}
	return s
}

// Chart buckets orders per calendar day in loc, oldest first, ending today.
// Orders without a date or outside the window are left out.
func Chart(orders []order.Order, w Window, now time.Time, loc *time.Location) []Point {
	if loc == nil {
		loc = time.UTC
	}
	n := w.Days()
	if n == 0 {
		n = Weekly.Days()
	}

	y, m, d := now.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc).AddDate(0, 0, -(n - 1))

	points := make([]Point, n)
	index := make(map[string]int, n)
	for i := range points {
		day := start.AddDate(0, 0, i)
		key := day.Format(dayLayout)
		points[i] = Point{Date: day.Format(w.labelLayout()), Day: key}
		index[key] = i
	}

	for _, o := range orders {
		at, ok := o.Date()
		if !ok {
			continue
		}
		i, ok := index[at.In(loc).Format(dayLayout)]
		if !ok {
			continue
		}
		points[i].Orders++
		points[i].Earnings += o.Total
	}

	return points
}
