package order

import (
	"context"
	"sort"

	"tarim-admin/internal/docstore"
	"tarim-admin/internal/logger"
	"tarim-admin/internal/rtdb"

	"go.uber.org/zap"
)

// fromRecord derives an Order from one stored record body.
func fromRecord(key string, data []byte) (Order, error) {
	raw, err := DecodeRaw(key, data)
	if err != nil {
		return Order{}, err
	}
	return Derive(raw), nil
}

// fromSnapshot derives every child of an orders root snapshot. Records that
// are not JSON objects are skipped.
func fromSnapshot(ctx context.Context, snap rtdb.Snapshot) ([]Order, error) {
	children, err := snap.Children()
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(children))
	for key, body := range children {
		o, err := fromRecord(key, body)
		if err != nil {
			skipRecord(ctx, key, err)
			continue
		}
		orders = append(orders, o)
	}
	SortNewestFirst(orders)
	return orders, nil
}

func fromDocuments(ctx context.Context, docs []docstore.Document) []Order {
	orders := make([]Order, 0, len(docs))
	for _, d := range docs {
		o, err := fromRecord(d.ID, d.Data)
		if err != nil {
			skipRecord(ctx, d.ID, err)
			continue
		}
		if o.CreatedAt == 0 {
			o.CreatedAt = d.CreatedAt.UnixMilli()
		}
		orders = append(orders, o)
	}
	SortNewestFirst(orders)
	return orders
}

func skipRecord(ctx context.Context, key string, err error) {
	logger.FromCtx(ctx).Warn("skipping unreadable order record",
		zap.String("layer", "mapper"),
		zap.String("order_id", key),
		zap.Error(err),
	)
}

// SortNewestFirst orders by createdAt descending, then id.
func SortNewestFirst(orders []Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].CreatedAt != orders[j].CreatedAt {
			return orders[i].CreatedAt > orders[j].CreatedAt
		}
		return orders[i].ID < orders[j].ID
	})
}
