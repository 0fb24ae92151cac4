package rtdb

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTree(t *testing.T) (*RedisTree, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client, "test:"), mr
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    Path
		wantErr bool
	}{
		{in: "orders", want: Path{Root: "orders"}},
		{in: "/orders/", want: Path{Root: "orders"}},
		{in: "orders/o1", want: Path{Root: "orders", Child: "o1"}},
		{in: "", wantErr: true},
		{in: "orders//", wantErr: true},
		{in: "orders/o1/items", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePath(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedisTree_SetGet(t *testing.T) {
	ctx := context.Background()
	tree, mr := newTree(t)

	t.Run("Child", func(t *testing.T) {
		require.NoError(t, tree.Set(ctx, "orders/o1", map[string]any{"status": "ready"}))

		snap, err := tree.Get(ctx, "orders/o1")
		require.NoError(t, err)
		assert.True(t, snap.Exists)
		assert.JSONEq(t, `{"status":"ready"}`, string(snap.Value))
		assert.Equal(t, `{"status":"ready"}`, mr.HGet("test:orders", "o1"))
	})

	t.Run("Root", func(t *testing.T) {
		require.NoError(t, tree.Set(ctx, "orders/o2", map[string]any{"status": "preparing"}))

		snap, err := tree.Get(ctx, "orders")
		require.NoError(t, err)
		children, err := snap.Children()
		require.NoError(t, err)
		assert.Len(t, children, 2)
		assert.JSONEq(t, `{"status":"preparing"}`, string(children["o2"]))
	})

	t.Run("ReplaceRoot", func(t *testing.T) {
		require.NoError(t, tree.Set(ctx, "orders", map[string]any{"o9": map[string]any{"status": "completed"}}))

		snap, err := tree.Get(ctx, "orders")
		require.NoError(t, err)
		children, err := snap.Children()
		require.NoError(t, err)
		assert.Len(t, children, 1)
		assert.Contains(t, children, "o9")
	})

	t.Run("RootMustBeObject", func(t *testing.T) {
		err := tree.Set(ctx, "orders", []int{1, 2})
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("Missing", func(t *testing.T) {
		snap, err := tree.Get(ctx, "menus/none")
		require.NoError(t, err)
		assert.False(t, snap.Exists)

		snap, err = tree.Get(ctx, "menus")
		require.NoError(t, err)
		assert.False(t, snap.Exists)
		children, err := snap.Children()
		require.NoError(t, err)
		assert.Empty(t, children)
	})

	t.Run("InvalidPath", func(t *testing.T) {
		_, err := tree.Get(ctx, "a/b/c")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}

func TestRedisTree_Update(t *testing.T) {
	ctx := context.Background()
	tree, mr := newTree(t)

	require.NoError(t, tree.Set(ctx, "orders/o1", map[string]any{
		"status":       "confirmed",
		"customerName": "Ana",
		"notes":        "no onions",
	}))

	t.Run("Merge", func(t *testing.T) {
		err := tree.Update(ctx, "orders/o1", map[string]any{"status": "ready", "notes": nil})
		require.NoError(t, err)

		snap, err := tree.Get(ctx, "orders/o1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"status":"ready","customerName":"Ana"}`, string(snap.Value))
	})

	t.Run("CreatesMissingChild", func(t *testing.T) {
		require.NoError(t, tree.Update(ctx, "orders/o2", map[string]any{"status": "ready"}))
		assert.JSONEq(t, `{"status":"ready"}`, mr.HGet("test:orders", "o2"))
	})

	t.Run("Root", func(t *testing.T) {
		err := tree.Update(ctx, "orders", map[string]any{
			"o2": nil,
			"o3": map[string]any{"status": "canceled"},
		})
		require.NoError(t, err)

		assert.Equal(t, "", mr.HGet("test:orders", "o2"))
		assert.JSONEq(t, `{"status":"canceled"}`, mr.HGet("test:orders", "o3"))
	})

	t.Run("NotObject", func(t *testing.T) {
		require.NoError(t, tree.Set(ctx, "counters/visits", 3))

		err := tree.Update(ctx, "counters/visits", map[string]any{"x": 1})
		assert.ErrorIs(t, err, ErrNotObject)
	})
}

func TestRedisTree_Remove(t *testing.T) {
	ctx := context.Background()
	tree, mr := newTree(t)

	require.NoError(t, tree.Set(ctx, "orders/o1", map[string]any{"status": "ready"}))
	require.NoError(t, tree.Set(ctx, "orders/o2", map[string]any{"status": "ready"}))

	require.NoError(t, tree.Remove(ctx, "orders/o1"))
	assert.Equal(t, "", mr.HGet("test:orders", "o1"))
	assert.NotEmpty(t, mr.HGet("test:orders", "o2"))

	require.NoError(t, tree.Remove(ctx, "orders/missing"))

	require.NoError(t, tree.Remove(ctx, "orders"))
	assert.False(t, mr.Exists("test:orders"))
}

func recv(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestRedisTree_Subscribe(t *testing.T) {
	ctx := context.Background()

	t.Run("Root", func(t *testing.T) {
		tree, _ := newTree(t)
		require.NoError(t, tree.Set(ctx, "orders/o1", map[string]any{"status": "confirmed"}))

		got := make(chan Snapshot, 10)
		stop, err := tree.Subscribe(ctx, "orders", func(s Snapshot) { got <- s }, nil)
		require.NoError(t, err)
		defer stop()

		initial := recv(t, got)
		children, err := initial.Children()
		require.NoError(t, err)
		assert.Len(t, children, 1)

		require.NoError(t, tree.Set(ctx, "orders/o2", map[string]any{"status": "ready"}))

		next := recv(t, got)
		children, err = next.Children()
		require.NoError(t, err)
		assert.Len(t, children, 2)
	})

	t.Run("ChildIgnoresSiblings", func(t *testing.T) {
		tree, _ := newTree(t)

		got := make(chan Snapshot, 10)
		stop, err := tree.Subscribe(ctx, "orders/a", func(s Snapshot) { got <- s }, nil)
		require.NoError(t, err)
		defer stop()

		assert.False(t, recv(t, got).Exists)

		require.NoError(t, tree.Set(ctx, "orders/b", map[string]any{"status": "ready"}))
		require.NoError(t, tree.Set(ctx, "orders/a", map[string]any{"status": "preparing"}))

		next := recv(t, got)
		assert.True(t, next.Exists)
		assert.JSONEq(t, `{"status":"preparing"}`, string(next.Value))
	})

	t.Run("Unsubscribe", func(t *testing.T) {
		tree, _ := newTree(t)

		got := make(chan Snapshot, 10)
		stop, err := tree.Subscribe(ctx, "orders", func(s Snapshot) { got <- s }, nil)
		require.NoError(t, err)
		recv(t, got)

		stop()
		stop()

		require.NoError(t, tree.Set(ctx, "orders/o1", map[string]any{"status": "ready"}))
		select {
		case <-got:
			t.Fatal("received snapshot after unsubscribe")
		case <-time.After(100 * time.Millisecond):
		}
	})

	t.Run("InvalidPath", func(t *testing.T) {
		tree, _ := newTree(t)
		_, err := tree.Subscribe(ctx, "a/b/c", func(Snapshot) {}, nil)
		assert.ErrorIs(t, err, ErrInvalidPath)
	})
}
