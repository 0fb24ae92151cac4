package order

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"tarim-admin/internal/events"
	"tarim-admin/internal/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Order, error)
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListDocuments(ctx context.Context) ([]Order, error)
	Update(ctx context.Context, id string, patch Patch) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status string) (*Order, error)
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onOrders func([]Order), onError func(error)) (func(), error)
}

// Writer is the mutation side; *Synchronizer implements it.
type Writer interface {
	Create(ctx context.Context, o *Order) error
	Update(ctx context.Context, id string, patch Patch) (Patch, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev events.OrderEvent) error
}

type service struct {
	repo      Repository
	writer    Writer
	publisher EventPublisher
	now       func() time.Time
}

func NewService(repo Repository, writer Writer, publisher EventPublisher) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &service{
		repo:      repo,
		writer:    writer,
		publisher: publisher,
		now:       time.Now,
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newOrderID returns "order_<unix millis>_<9 base36 chars>".
func newOrderID(now time.Time) string {
	var b strings.Builder
	b.WriteString("order_")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	b.WriteByte('_')
	for i := 0; i < 9; i++ {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return b.String()
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("item_count", len(input.Items)),
	)

	o, err := s.buildOrder(input)
	if err != nil {
		log.Warn("order rejected", zap.Error(err))
		return nil, err
	}

	if err := s.writer.Create(ctx, o); err != nil {
		log.Error("failed to create order", zap.String("order_id", o.ID), zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", o.ID),
		zap.Float64("total", o.Total),
	)
	s.publish(ctx, events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: o.ID,
		Status:  string(o.Status),
		Total:   o.Total,
	})
	return o, nil
}

func (s *service) buildOrder(input CreateInput) (*Order, error) {
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, ErrCustomerNameRequired
	}

	items, err := normalizeItems(input.Items)
	if err != nil {
		return nil, err
	}

	if input.Delivery < 0 || input.Tax < 0 {
		return nil, ErrInvalidCharge
	}

	status := StatusConfirmed
	if input.Status != "" {
		if status, err = ParseStatus(input.Status); err != nil {
			return nil, err
		}
	}

	now := s.now()
	o := &Order{
		ID:              newOrderID(now),
		CustomerName:    name,
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		Items:           items,
		DeliveryAddress: strings.TrimSpace(input.DeliveryAddress),
		Delivery:        input.Delivery,
		Tax:             input.Tax,
		Notes:           input.Notes,
		Status:          status,
		OrderDate:       input.OrderDate,
	}
	if o.OrderDate == nil {
		o.OrderDate = &now
	}

	subtotal := o.Subtotal()
	switch {
	case input.Total == nil || *input.Total == 0:
		o.Total = subtotal + o.Delivery + o.Tax
	case *input.Total < subtotal:
		return nil, ErrInvalidTotal
	default:
		o.Total = *input.Total
	}

	return o, nil
}

// normalizeItems validates items and defaults missing ids and quantities.
func normalizeItems(in []Item) ([]Item, error) {
	if len(in) == 0 {
		return nil, ErrNoItems
	}

	items := make([]Item, 0, len(in))
	for i, it := range in {
		it.Name = strings.TrimSpace(it.Name)
		switch {
		case it.Name == "":
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidItem, i+1)
		case it.Price < 0:
			return nil, fmt.Errorf("%w: item %d has a negative price", ErrInvalidItem, i+1)
		case it.Quantity < 0:
			return nil, fmt.Errorf("%w: item %d has a negative quantity", ErrInvalidItem, i+1)
		}
		if it.Quantity == 0 {
			it.Quantity = 1
		}
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		items = append(items, it)
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id string) (*Order, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

func (s *service) ListDocuments(ctx context.Context) ([]Order, error) {
	return s.repo.ListDocuments(ctx)
}

func (s *service) Update(ctx context.Context, id string, patch Patch) (*Order, error) {
	ctx = logger.WithOrder(ctx, id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrder"),
	)

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	clean, err := validatePatch(patch, current)
	if err != nil {
		log.Warn("update rejected", zap.Error(err))
		return nil, err
	}

	if _, err := s.writer.Update(ctx, id, clean); err != nil {
		log.Error("failed to update order", zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("order updated", zap.Int("field_count", len(clean)))
	s.publish(ctx, events.OrderEvent{
		Type:    events.OrderUpdated,
		OrderID: id,
		Status:  string(updated.Status),
		Total:   updated.Total,
	})
	return updated, nil
}

// validatePatch checks the fields it understands and passes the rest through.
func validatePatch(patch Patch, current *Order) (Patch, error) {
	clean := make(Patch, len(patch))
	for k, v := range patch {
		clean[k] = v
	}

	if v, ok := clean["status"]; ok {
		s, _ := v.(string)
		st, err := ParseStatus(s)
		if err != nil {
			return nil, err
		}
		clean["status"] = st
	}

	if v, ok := clean["customerName"]; ok {
		s, _ := v.(string)
		if strings.TrimSpace(s) == "" {
			return nil, ErrCustomerNameRequired
		}
		clean["customerName"] = strings.TrimSpace(s)
	}

	subtotal := current.Subtotal()
	v, itemsSet := clean["items"]
	if itemsSet {
		items, err := decodeItems(v)
		if err != nil {
			return nil, err
		}
		if items, err = normalizeItems(items); err != nil {
			return nil, err
		}
		clean["items"] = items

		next := *current
		next.Items = items
		subtotal = next.Subtotal()
	}

	delivery, tax := current.Delivery, current.Tax
	v, deliverySet := clean["delivery"]
	if deliverySet {
		d, ok := charge(v)
		if !ok {
			return nil, ErrInvalidCharge
		}
		delivery = d
		clean["delivery"] = d
	}
	v, taxSet := clean["tax"]
	if taxSet {
		t, ok := charge(v)
		if !ok {
			return nil, ErrInvalidCharge
		}
		tax = t
		clean["tax"] = t
	}

	if v, ok := clean["total"]; ok {
		total, ok := asFloat(v)
		if !ok || total < subtotal {
			return nil, ErrInvalidTotal
		}
		clean["total"] = total
	} else if itemsSet || deliverySet || taxSet {
		clean["total"] = subtotal + delivery + tax
	}

	return clean, nil
}

func decodeItems(v any) ([]Item, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	var raw []RawItem
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%w: items must be a list", ErrInvalidItem)
	}

	items := make([]Item, 0, len(raw))
	for _, it := range raw {
		items = append(items, Item{
			ID:       string(it.ID),
			Name:     string(it.Name),
			Price:    it.Price.or(0),
			Quantity: int(it.Quantity.or(0)),
			Image:    string(it.Image),
		})
	}
	return items, nil
}

// charge reads a delivery or tax amount. Negative amounts are rejected.
func charge(v any) (float64, bool) {
	f, ok := asFloat(v)
	return f, ok && f >= 0
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (*Order, error) {
	ctx = logger.WithOrder(ctx, id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateOrderStatus"),
	)

	st, err := ParseStatus(status)
	if err != nil {
		log.Warn("invalid status", zap.String("status", status))
		return nil, err
	}

	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	if err := s.writer.UpdateStatus(ctx, id, st); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Info("order status updated", zap.String("status", string(st)))
	s.publish(ctx, events.OrderEvent{
		Type:    events.OrderStatusChanged,
		OrderID: id,
		Status:  string(st),
		Total:   updated.Total,
	})
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	ctx = logger.WithOrder(ctx, id)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "DeleteOrder"),
	)

	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}

	if err := s.writer.Delete(ctx, id); err != nil {
		log.Error("failed to delete order", zap.Error(err))
		return err
	}

	log.Info("order deleted")
	s.publish(ctx, events.OrderEvent{Type: events.OrderDeleted, OrderID: id})
	return nil
}

func (s *service) Subscribe(ctx context.Context, onOrders func([]Order), onError func(error)) (func(), error) {
	return s.repo.Subscribe(ctx, onOrders, onError)
}

func (s *service) publish(ctx context.Context, ev events.OrderEvent) {
	if err := s.publisher.PublishOrderEvent(ctx, ev); err != nil {
		logger.FromCtx(logger.WithOrder(ctx, ev.OrderID)).Warn("failed to publish order event",
			zap.String("layer", "service"),
			zap.String("event", string(ev.Type)),
			zap.Error(err),
		)
	}
}
