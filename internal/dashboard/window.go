package dashboard

import (
	"fmt"
	"strings"
)

// Window selects how many trailing days the chart covers.
type Window string

const (
	Daily       Window = "daily"
	Weekly      Window = "weekly"
	FifteenDays Window = "15days"
	Monthly     Window = "monthly"
	ThreeMonths Window = "3months"
	SixMonths   Window = "6months"
	Yearly      Window = "yearly"
)

var windowDays = map[Window]int{
	Daily:       7,
	Weekly:      7,
	FifteenDays: 15,
	Monthly:     30,
	ThreeMonths: 90,
	SixMonths:   180,
	Yearly:      365,
}

// ParseWindow maps a keyword to a Window. An empty keyword means Weekly.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Weekly, nil
	}
	w := Window(s)
	if _, ok := windowDays[w]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

func (w Window) Days() int {
	return windowDays[w]
}

func (w Window) labelLayout() string {
	if w == Yearly {
		return "Jan"
	}
	return "Jan 2"
}
