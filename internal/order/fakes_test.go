package order

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tarim-admin/internal/docstore"
)

// memDocs is an in-memory document store for the orders collection.
type memDocs struct {
	mu   sync.Mutex
	data map[string]map[string]any
	err  error
}

func newMemDocs() *memDocs {
	return &memDocs{data: map[string]map[string]any{}}
}

func toMap(v any) map[string]any {
	b, _ := json.Marshal(v)
	m := map[string]any{}
	_ = json.Unmarshal(b, &m)
	return m
}

func (d *memDocs) Set(_ context.Context, collection, id string, data any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.data[collection+"/"+id] = toMap(data)
	return nil
}

func (d *memDocs) Update(_ context.Context, collection, id string, fields map[string]any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	doc, ok := d.data[collection+"/"+id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range toMap(fields) {
		doc[k] = v
	}
	return nil
}

func (d *memDocs) Delete(_ context.Context, collection, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	delete(d.data, collection+"/"+id)
	return nil
}

func (d *memDocs) List(_ context.Context, collection string) ([]docstore.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	var out []docstore.Document
	for key, doc := range d.data {
		if len(key) > len(collection) && key[:len(collection)+1] == collection+"/" {
			b, _ := json.Marshal(doc)
			out = append(out, docstore.Document{ID: key[len(collection)+1:], Data: b})
		}
	}
	return out, nil
}

func (d *memDocs) get(id string) map[string]any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.data[Collection+"/"+id]
}

// failingTree fails every write with err.
type failingTree struct {
	err error
}

func (f failingTree) Set(context.Context, string, any) error               { return f.err }
func (f failingTree) Update(context.Context, string, map[string]any) error { return f.err }
func (f failingTree) Remove(context.Context, string) error                 { return f.err }

// stepClock advances one millisecond per call.
func stepClock(start time.Time) func() time.Time {
	var n int64
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Millisecond)
	}
}
