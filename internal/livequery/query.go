package livequery

import (
	"context"
	"sync"
)

// Query re-runs fetch whenever one of its tables is notified and pushes the
// fresh result set to Updates. Emissions are latest-wins: if the consumer
// has not drained the previous result when a newer one arrives, the newer
// one replaces it.
type Query[T any] struct {
	out       chan []T
	stop      chan struct{}
	closeOnce sync.Once
}

// Open runs fetch once synchronously (so open errors surface to the caller),
// registers interest in the given tables and starts the refresh loop. A
// failed refresh keeps the last good result; the next notification retries.
func Open[T any](ctx context.Context, hub *Hub, tables []string, fetch func(context.Context) ([]T, error)) (*Query[T], error) {
	initial, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	id, signal := hub.subscribe(tables)
	q := &Query[T]{
		out:  make(chan []T, 1),
		stop: make(chan struct{}),
	}

	go func() {
		defer hub.unsubscribe(tables, id)
		defer close(q.out)

		pending := initial
		hasPending := true
		for {
			var outCh chan []T
			if hasPending {
				outCh = q.out
			}
			select {
			case <-q.stop:
				return
			case <-ctx.Done():
				return
			case outCh <- pending:
				hasPending = false
			case <-signal:
				rows, err := fetch(ctx)
				if err != nil {
					continue
				}
				pending = rows
				hasPending = true
			}
		}
	}()

	return q, nil
}

func (q *Query[T]) Updates() <-chan []T { return q.out }

func (q *Query[T]) Close() {
	q.closeOnce.Do(func() { close(q.stop) })
}
