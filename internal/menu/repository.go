package menu

import (
	"context"
	"errors"
	"fmt"

	"tarim-admin/internal/docstore"
	"tarim-admin/internal/logger"

	"go.uber.org/zap"
)

const Collection = "menus"

type Documents interface {
	Add(ctx context.Context, collection string, data any) (string, error)
	Get(ctx context.Context, collection, id string) (*docstore.Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]docstore.Document, error)
}

type Repository interface {
	Create(ctx context.Context, item MenuItem) (string, error)
	Get(ctx context.Context, id string) (*MenuItem, error)
	List(ctx context.Context) ([]MenuItem, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	docs Documents
}

func NewRepository(docs Documents) Repository {
	return &repository{docs: docs}
}

func (r *repository) Create(ctx context.Context, item MenuItem) (string, error) {
	item.ID = ""
	return r.docs.Add(ctx, Collection, item)
}

func (r *repository) Get(ctx context.Context, id string) (*MenuItem, error) {
	doc, err := r.docs.Get(ctx, Collection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	var item MenuItem
	if err := doc.Decode(&item); err != nil {
		return nil, fmt.Errorf("decode menu item %s: %w", id, err)
	}
	item.ID = doc.ID
	return &item, nil
}

func (r *repository) List(ctx context.Context) ([]MenuItem, error) {
	docs, err := r.docs.List(ctx, Collection)
	if err != nil {
		return nil, err
	}

	items := make([]MenuItem, 0, len(docs))
	for _, doc := range docs {
		var item MenuItem
		if err := doc.Decode(&item); err != nil {
			logger.FromCtx(ctx).Warn("skipping unreadable menu item",
				zap.String("layer", "repository"),
				zap.String("item_id", doc.ID),
				zap.Error(err),
			)
			continue
		}
		item.ID = doc.ID
		items = append(items, item)
	}
	return items, nil
}

func (r *repository) Update(ctx context.Context, id string, fields map[string]any) error {
	err := r.docs.Update(ctx, Collection, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, Collection, id)
}
