package rtdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tarim-admin/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxTxRetries = 10

	// wholeRoot is published when a write touched every child of a root.
	wholeRoot = "*"
)

// RedisTree keeps one hash per root with one JSON-encoded field per child.
// Writes publish the touched child on "<prefix>events:<root>".
type RedisTree struct {
	client *redis.Client
	prefix string
}

func New(client *redis.Client, prefix string) *RedisTree {
	return &RedisTree{client: client, prefix: prefix}
}

func (t *RedisTree) key(root string) string {
	return t.prefix + root
}

func (t *RedisTree) channel(root string) string {
	return t.prefix + "events:" + root
}

func (t *RedisTree) Get(ctx context.Context, path string) (Snapshot, error) {
	p, err := ParsePath(path)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Path: p.String()}

	if !p.IsRoot() {
		raw, err := t.client.HGet(ctx, t.key(p.Root), p.Child).Bytes()
		if errors.Is(err, redis.Nil) {
			return snap, nil
		}
		if err != nil {
			return snap, fmt.Errorf("get %s: %w", p, err)
		}
		snap.Exists = true
		snap.Value = raw
		return snap, nil
	}

	fields, err := t.client.HGetAll(ctx, t.key(p.Root)).Result()
	if err != nil {
		return snap, fmt.Errorf("get %s: %w", p, err)
	}
	if len(fields) == 0 {
		return snap, nil
	}

	children := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		children[k] = json.RawMessage(v)
	}
	body, err := json.Marshal(children)
	if err != nil {
		return snap, fmt.Errorf("get %s: %w", p, err)
	}
	snap.Exists = true
	snap.Value = body
	return snap, nil
}

// Set replaces the value at path. At a root, value must be an object whose
// fields become the children.
func (t *RedisTree) Set(ctx context.Context, path string, value any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	key := t.key(p.Root)

	if !p.IsRoot() {
		body, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s: %w", p, err)
		}
		if err := t.client.HSet(ctx, key, p.Child, body).Err(); err != nil {
			return fmt.Errorf("set %s: %w", p, err)
		}
		t.notify(ctx, p.Root, p.Child)
		return nil
	}

	children, err := encodeFields(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p, err)
	}

	_, err = t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(children) > 0 {
			pipe.HSet(ctx, key, flatten(children)...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", p, err)
	}
	t.notify(ctx, p.Root, wholeRoot)
	return nil
}

// Update merges fields into the value at path. A nil field value removes
// that field. At a root, each field is a child to overwrite.
func (t *RedisTree) Update(ctx context.Context, path string, fields map[string]any) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	patch, err := encodeFields(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", p, err)
	}
	key := t.key(p.Root)

	if p.IsRoot() {
		if len(patch) == 0 {
			return nil
		}
		_, err := t.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for child, v := range patch {
				if string(v) == "null" {
					pipe.HDel(ctx, key, child)
					continue
				}
				pipe.HSet(ctx, key, child, []byte(v))
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("update %s: %w", p, err)
		}
		t.notify(ctx, p.Root, wholeRoot)
		return nil
	}

	merge := func(tx *redis.Tx) error {
		current := map[string]json.RawMessage{}
		raw, err := tx.HGet(ctx, key, p.Child).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &current); err != nil {
				return fmt.Errorf("%w: %s", ErrNotObject, p)
			}
		}

		for k, v := range patch {
			if string(v) == "null" {
				delete(current, k)
				continue
			}
			current[k] = v
		}

		body, err := json.Marshal(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, p.Child, body)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := t.client.Watch(ctx, merge, key)
		if err == nil {
			t.notify(ctx, p.Root, p.Child)
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return fmt.Errorf("update %s: %w", p, err)
	}

	return fmt.Errorf("update %s: %w", p, ErrConflict)
}

// Remove deletes the value at path. Removing a missing path is not an error.
func (t *RedisTree) Remove(ctx context.Context, path string) error {
	p, err := ParsePath(path)
	if err != nil {
		return err
	}
	key := t.key(p.Root)

	changed := wholeRoot
	if p.IsRoot() {
		err = t.client.Del(ctx, key).Err()
	} else {
		changed = p.Child
		err = t.client.HDel(ctx, key, p.Child).Err()
	}
	if err != nil {
		return fmt.Errorf("remove %s: %w", p, err)
	}

	t.notify(ctx, p.Root, changed)
	return nil
}

// notify is best-effort; subscribers also get a fresh read on subscribe.
func (t *RedisTree) notify(ctx context.Context, root, child string) {
	if err := t.client.Publish(ctx, t.channel(root), child).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to publish change",
			zap.String("layer", "rtdb"),
			zap.String("root", root),
			zap.String("child", child),
			zap.Error(err),
		)
	}
}

func encodeFields(v any) (map[string]json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(body) == "null" {
		return map[string]json.RawMessage{}, nil
	}
	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, ErrNotObject
	}
	return out, nil
}

func flatten(fields map[string]json.RawMessage) []any {
	out := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		out = append(out, k, []byte(v))
	}
	return out
}
