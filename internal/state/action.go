package state

import (
	"time"

	"tarim-admin/internal/dashboard"
	"tarim-admin/internal/menu"
	"tarim-admin/internal/order"
	"tarim-admin/internal/profile"
)

// Action is a state transition. The set of actions is closed.
type Action interface {
	apply(s *AppState, now time.Time)
}

type Slice string

const (
	SliceProfile   Slice = "profile"
	SliceMenu      Slice = "menu"
	SliceOrders    Slice = "orders"
	SliceDashboard Slice = "dashboard"
)

// Loading marks a slice as fetching and clears its error.
type Loading struct{ Slice Slice }

// Failed records a fetch or mutation error on a slice.
type Failed struct {
	Slice Slice
	Err   error
}

type OrdersLoaded struct{ Orders []order.Order }

type OrderStatusChanged struct {
	ID     string
	Status order.Status
}

type OrderUpserted struct{ Order order.Order }

type OrderRemoved struct{ ID string }

type MenuLoaded struct{ Items []menu.MenuItem }

type MenuItemAdded struct{ Item menu.MenuItem }

type MenuItemUpdated struct{ Item menu.MenuItem }

type MenuItemDeleted struct{ ID string }

type ProfileLoaded struct{ Profile profile.AdminProfile }

type DashboardLoaded struct{ Dashboard dashboard.Dashboard }

// Reset clears everything, e.g. on sign-out.
type Reset struct{}

func (a Loading) apply(s *AppState, _ time.Time) {
	switch a.Slice {
	case SliceProfile:
		s.Profile.IsLoading, s.Profile.Error = true, ""
	case SliceMenu:
		s.Menu.IsLoading, s.Menu.Error = true, ""
	case SliceOrders:
		s.Orders.IsLoading, s.Orders.Error = true, ""
	case SliceDashboard:
		s.Dashboard.IsLoading, s.Dashboard.Error = true, ""
	}
}

func (a Failed) apply(s *AppState, _ time.Time) {
	msg := "unknown error"
	if a.Err != nil {
		msg = a.Err.Error()
	}
	switch a.Slice {
	case SliceProfile:
		s.Profile.IsLoading, s.Profile.Error = false, msg
	case SliceMenu:
		s.Menu.IsLoading, s.Menu.Error = false, msg
	case SliceOrders:
		s.Orders.IsLoading, s.Orders.Error = false, msg
	case SliceDashboard:
		s.Dashboard.IsLoading, s.Dashboard.Error = false, msg
	}
}

func (a OrdersLoaded) apply(s *AppState, now time.Time) {
	items := make([]order.Order, len(a.Orders))
	copy(items, a.Orders)
	s.Orders = OrdersState{Items: items, LastFetched: now.UnixMilli()}
}

func (a OrderStatusChanged) apply(s *AppState, _ time.Time) {
	for i := range s.Orders.Items {
		if s.Orders.Items[i].ID == a.ID {
			s.Orders.Items[i].Status = a.Status
			return
		}
	}
}

func (a OrderUpserted) apply(s *AppState, _ time.Time) {
	for i := range s.Orders.Items {
		if s.Orders.Items[i].ID == a.Order.ID {
			s.Orders.Items[i] = a.Order
			return
		}
	}
	s.Orders.Items = append([]order.Order{a.Order}, s.Orders.Items...)
}

func (a OrderRemoved) apply(s *AppState, _ time.Time) {
	s.Orders.Items = removeOrder(s.Orders.Items, a.ID)
}

func (a MenuLoaded) apply(s *AppState, now time.Time) {
	items := make([]menu.MenuItem, len(a.Items))
	copy(items, a.Items)
	s.Menu = MenuState{Items: items, LastFetched: now.UnixMilli()}
}

func (a MenuItemAdded) apply(s *AppState, _ time.Time) {
	s.Menu.Items = append(s.Menu.Items, a.Item)
}

func (a MenuItemUpdated) apply(s *AppState, _ time.Time) {
	for i := range s.Menu.Items {
		if s.Menu.Items[i].ID == a.Item.ID {
			s.Menu.Items[i] = a.Item
			return
		}
	}
}

func (a MenuItemDeleted) apply(s *AppState, _ time.Time) {
	out := s.Menu.Items[:0:0]
	for _, it := range s.Menu.Items {
		if it.ID != a.ID {
			out = append(out, it)
		}
	}
	s.Menu.Items = out
}

func (a ProfileLoaded) apply(s *AppState, _ time.Time) {
	p := a.Profile
	s.Profile = ProfileState{Profile: &p}
}

func (a DashboardLoaded) apply(s *AppState, now time.Time) {
	d := a.Dashboard
	s.Dashboard = DashboardState{Data: &d, LastFetched: now.UnixMilli()}
}

func (Reset) apply(s *AppState, _ time.Time) {
	*s = initial()
}

func removeOrder(items []order.Order, id string) []order.Order {
	out := items[:0:0]
	for _, o := range items {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}
