package docstore

import (
	"context"
	"encoding/json"
	"time"
)

// Document is one stored record. Data is always a JSON object.
type Document struct {
	ID        string
	Data      json.RawMessage
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Decode unmarshals the document body into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Store is a collection-oriented document store.
type Store interface {
	Add(ctx context.Context, collection string, data any) (string, error)
	Set(ctx context.Context, collection, id string, data any) error
	Get(ctx context.Context, collection, id string) (*Document, error)
	Update(ctx context.Context, collection, id string, fields map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string) ([]Document, error)
	Where(ctx context.Context, collection, field string, value any) ([]Document, error)
}

// encodeObject marshals v and rejects anything that is not a JSON object.
func encodeObject(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if len(b) == 0 || b[0] != '{' {
		return "", ErrInvalidRecord
	}
	return string(b), nil
}
