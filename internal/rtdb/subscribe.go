package rtdb

import (
	"context"
	"fmt"
	"sync"

	"tarim-admin/internal/logger"

	"go.uber.org/zap"
)

// Subscribe delivers the current value at path and then a fresh snapshot on
// every change under it. Callbacks run sequentially on one goroutine. The
// returned func stops the subscription and is safe to call more than once.
func (t *RedisTree) Subscribe(
	ctx context.Context,
	path string,
	onValue func(Snapshot),
	onError func(error),
) (func(), error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, err
	}

	ps := t.client.Subscribe(ctx, t.channel(p.Root))
	// Wait for the confirmation so no write between here and the first read is missed.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe %s: %w", p, err)
	}

	subCtx, cancel := context.WithCancel(ctx)
	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			_ = ps.Close()
		})
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "rtdb"),
		zap.String("path", p.String()),
	)

	deliver := func() {
		snap, err := t.Get(subCtx, p.String())
		if subCtx.Err() != nil {
			return
		}
		if err != nil {
			log.Warn("subscription read failed", zap.Error(err))
			if onError != nil {
				onError(err)
			}
			return
		}
		onValue(snap)
	}

	go func() {
		defer stop()

		messages := ps.Channel()
		deliver()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				if !p.IsRoot() && msg.Payload != wholeRoot && msg.Payload != p.Child {
					continue
				}
				deliver()
			}
		}
	}()

	return stop, nil
}
