package profile

import (
	"context"
	"errors"
	"fmt"

	"tarim-admin/internal/docstore"
)

const Collection = "admins"

type Documents interface {
	Set(ctx context.Context, collection, id string, data any) error
	Get(ctx context.Context, collection, id string) (*docstore.Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
}

type Repository interface {
	Get(ctx context.Context, uid string) (*AdminProfile, error)
	Save(ctx context.Context, p AdminProfile) error
	Update(ctx context.Context, uid string, fields map[string]any) error
}

type repository struct {
	docs Documents
}

func NewRepository(docs Documents) Repository {
	return &repository{docs: docs}
}

func (r *repository) Get(ctx context.Context, uid string) (*AdminProfile, error) {
	doc, err := r.docs.Get(ctx, Collection, uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	var p AdminProfile
	if err := doc.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", uid, err)
	}
	p.UID = uid
	return &p, nil
}

func (r *repository) Save(ctx context.Context, p AdminProfile) error {
	return r.docs.Set(ctx, Collection, p.UID, p)
}

func (r *repository) Update(ctx context.Context, uid string, fields map[string]any) error {
	err := r.docs.Update(ctx, Collection, uid, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}
