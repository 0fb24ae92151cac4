package dashboard

import (
	"context"
	"time"

	"tarim-admin/internal/logger"
	"tarim-admin/internal/order"

	"go.uber.org/zap"
)

type OrderSource interface {
	ListDocuments(ctx context.Context) ([]order.Order, error)
}

type Service interface {
	Get(ctx context.Context, window string) (*Dashboard, error)
}

type service struct {
	orders OrderSource
	loc    *time.Location
	now    func() time.Time
}

func NewService(orders OrderSource, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{orders: orders, loc: loc, now: time.Now}
}

func (s *service) Get(ctx context.Context, window string) (*Dashboard, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "GetDashboard"),
		zap.String("range", window),
	)

	w, err := ParseWindow(window)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListDocuments(ctx)
	if err != nil {
		log.Error("failed to load orders", zap.Error(err))
		return nil, err
	}

	d := &Dashboard{
		Summary: Summarize(orders),
		Window:  w,
		Chart:   Chart(orders, w, s.now(), s.loc),
	}

	log.Debug("dashboard computed",
		zap.Int("orders", d.TotalOrders),
		zap.Int("points", len(d.Chart)),
	)
	return d, nil
}
