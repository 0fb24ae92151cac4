package state

import (
	"slices"

	"tarim-admin/internal/dashboard"
	"tarim-admin/internal/menu"
	"tarim-admin/internal/order"
	"tarim-admin/internal/profile"
)

type OrdersState struct {
	Items       []order.Order `json:"items"`
	IsLoading   bool          `json:"isLoading"`
	Error       string        `json:"error,omitempty"`
	LastFetched int64         `json:"lastFetched,omitempty"`
}

type MenuState struct {
	Items       []menu.MenuItem `json:"items"`
	IsLoading   bool            `json:"isLoading"`
	Error       string          `json:"error,omitempty"`
	LastFetched int64           `json:"lastFetched,omitempty"`
}

type ProfileState struct {
	Profile   *profile.AdminProfile `json:"profile"`
	IsLoading bool                  `json:"isLoading"`
	Error     string                `json:"error,omitempty"`
}

type DashboardState struct {
	Data        *dashboard.Dashboard `json:"data"`
	IsLoading   bool                 `json:"isLoading"`
	Error       string               `json:"error,omitempty"`
	LastFetched int64                `json:"lastFetched,omitempty"`
}

// AppState mirrors what the console has loaded from both stores.
type AppState struct {
	Profile   ProfileState   `json:"profile"`
	Menu      MenuState      `json:"menu"`
	Orders    OrdersState    `json:"orders"`
	Dashboard DashboardState `json:"dashboard"`
}

func initial() AppState {
	return AppState{
		Menu:   MenuState{Items: []menu.MenuItem{}},
		Orders: OrdersState{Items: []order.Order{}},
	}
}

func (s AppState) clone() AppState {
	out := s
	out.Orders.Items = slices.Clone(s.Orders.Items)
	out.Menu.Items = slices.Clone(s.Menu.Items)
	if s.Profile.Profile != nil {
		p := *s.Profile.Profile
		out.Profile.Profile = &p
	}
	if s.Dashboard.Data != nil {
		d := *s.Dashboard.Data
		d.Chart = slices.Clone(d.Chart)
		out.Dashboard.Data = &d
	}
	return out
}
