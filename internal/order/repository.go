package order

import (
	"context"
	"fmt"

	"tarim-admin/internal/docstore"
	"tarim-admin/internal/rtdb"
)

type Tree interface {
	TreeWriter
	Get(ctx context.Context, path string) (rtdb.Snapshot, error)
	Subscribe(ctx context.Context, path string, onValue func(rtdb.Snapshot), onError func(error)) (func(), error)
}

type Documents interface {
	DocumentWriter
	List(ctx context.Context, collection string) ([]docstore.Document, error)
}

// Repository is the read side of orders.
type Repository interface {
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListDocuments(ctx context.Context) ([]Order, error)
	Subscribe(ctx context.Context, onOrders func([]Order), onError func(error)) (func(), error)
}

type repository struct {
	tree Tree
	docs Documents
}

func NewRepository(tree Tree, docs Documents) Repository {
	return &repository{tree: tree, docs: docs}
}

func (r *repository) Get(ctx context.Context, id string) (*Order, error) {
	snap, err := r.tree.Get(ctx, treePath(id))
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, ErrOrderNotFound
	}

	o, err := fromRecord(id, snap.Value)
	if err != nil {
		return nil, fmt.Errorf("decode order %s: %w", id, err)
	}
	return &o, nil
}

func (r *repository) List(ctx context.Context) ([]Order, error) {
	snap, err := r.tree.Get(ctx, TreeRoot)
	if err != nil {
		return nil, err
	}
	return fromSnapshot(ctx, snap)
}

func (r *repository) ListDocuments(ctx context.Context) ([]Order, error) {
	docs, err := r.docs.List(ctx, Collection)
	if err != nil {
		return nil, err
	}
	return fromDocuments(ctx, docs), nil
}

// Subscribe delivers the full derived order list on every change.
func (r *repository) Subscribe(ctx context.Context, onOrders func([]Order), onError func(error)) (func(), error) {
	return r.tree.Subscribe(ctx, TreeRoot, func(snap rtdb.Snapshot) {
		orders, err := fromSnapshot(ctx, snap)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onOrders(orders)
	}, onError)
}
