package order

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"tarim-admin/internal/logger"
	"tarim-admin/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// Collection is the document store collection holding orders.
	Collection = "orders"
	// TreeRoot is the realtime tree root holding orders.
	TreeRoot = "orders"
)

type TreeWriter interface {
	Set(ctx context.Context, path string, value any) error
	Update(ctx context.Context, path string, fields map[string]any) error
	Remove(ctx context.Context, path string) error
}

type DocumentWriter interface {
	Set(ctx context.Context, collection, id string, data any) error
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
}

// Synchronizer applies every order mutation to the realtime tree and the
// document store. Both writes are started together and always run to
// completion; the call fails if either failed. Nothing is rolled back.
type Synchronizer struct {
	tree    TreeWriter
	docs    DocumentWriter
	metrics *metrics.Registry
	now     func() time.Time

	mu   sync.Mutex
	last int64
}

func NewSynchronizer(tree TreeWriter, docs DocumentWriter, reg *metrics.Registry) *Synchronizer {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Synchronizer{
		tree:    tree,
		docs:    docs,
		metrics: reg,
		now:     time.Now,
	}
}

// stamp returns the current time in epoch millis, bumped past the previous
// stamp so successive writes from this process always order.
func (s *Synchronizer) stamp() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now().UnixMilli()
	if ts <= s.last {
		ts = s.last + 1
	}
	s.last = ts
	return ts
}

func treePath(id string) string {
	return TreeRoot + "/" + id
}

// Create stamps createdAt and updatedAt and writes the full record to both stores.
func (s *Synchronizer) Create(ctx context.Context, o *Order) error {
	ts := s.stamp()
	o.CreatedAt = ts
	o.UpdatedAt = ts

	return s.dualWrite(ctx, "create", o.ID,
		func(ctx context.Context) error { return s.tree.Set(ctx, treePath(o.ID), o) },
		func(ctx context.Context) error { return s.docs.Set(ctx, Collection, o.ID, o) },
	)
}

// Update drops id and createdAt from patch, stamps updatedAt and merges the
// result into both stores. It returns the patch as written.
func (s *Synchronizer) Update(ctx context.Context, id string, patch Patch) (Patch, error) {
	fields := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		if k == "id" || k == "createdAt" {
			continue
		}
		fields[k] = v
	}
	fields["updatedAt"] = s.stamp()

	err := s.dualWrite(ctx, "update", id,
		func(ctx context.Context) error { return s.tree.Update(ctx, treePath(id), fields) },
		func(ctx context.Context) error { return s.docs.Update(ctx, Collection, id, fields) },
	)
	return Patch(fields), err
}

func (s *Synchronizer) UpdateStatus(ctx context.Context, id string, status Status) error {
	_, err := s.Update(ctx, id, Patch{"status": status})
	return err
}

func (s *Synchronizer) Delete(ctx context.Context, id string) error {
	return s.dualWrite(ctx, "delete", id,
		func(ctx context.Context) error { return s.tree.Remove(ctx, treePath(id)) },
		func(ctx context.Context) error { return s.docs.Delete(ctx, Collection, id) },
	)
}

func (s *Synchronizer) dualWrite(
	ctx context.Context,
	op, id string,
	treeWrite, docWrite func(context.Context) error,
) error {
	log := logger.FromCtx(logger.WithOrder(ctx, id)).With(
		zap.String("layer", "synchronizer"),
		zap.String("method", op),
	)
	timer := metrics.StartTimer()
	defer s.metrics.Observe("order_sync", timer)

	var (
		g               errgroup.Group
		treeErr, docErr error
	)
	g.Go(func() error {
		treeErr = treeWrite(ctx)
		return treeErr
	})
	g.Go(func() error {
		docErr = docWrite(ctx)
		return docErr
	})
	_ = g.Wait()

	if treeErr == nil && docErr == nil {
		s.metrics.Counter("order_sync_success").Inc()
		log.Debug("order synced", zap.Duration("duration", timer.Duration()))
		return nil
	}

	errs := []error{ErrSyncFailed}
	if treeErr != nil {
		s.metrics.Counter("order_sync_tree_failure").Inc()
		errs = append(errs, fmt.Errorf("realtime store: %w", treeErr))
	}
	if docErr != nil {
		s.metrics.Counter("order_sync_document_failure").Inc()
		errs = append(errs, fmt.Errorf("document store: %w", docErr))
	}
	s.metrics.Counter("order_sync_failure").Inc()

	err := fmt.Errorf("%s order %s: %w", op, id, errors.Join(errs...))
	log.Error("order sync failed",
		zap.Bool("tree_ok", treeErr == nil),
		zap.Bool("document_ok", docErr == nil),
		zap.Error(err),
	)
	return err
}
