// Package livequery turns plain fetch functions into live queries: a Hub
// tracks which subscriptions read which tables, and every successful mutation
// notifies the touched tables so the affected queries re-run and re-emit.
package livequery

import "sync"

type subscriber struct {
	signal chan struct{}
}

// Hub is the per-table change registry. One Hub serves one store instance.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[uint64]*subscriber
	next uint64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]*subscriber)}
}

// Notify signals every subscription registered on any of the given tables.
// Signals coalesce: a subscriber with a pending signal is not queued twice.
func (h *Hub) Notify(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[uint64]struct{})
	for _, table := range tables {
		for id, sub := range h.subs[table] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			select {
			case sub.signal <- struct{}{}:
			default:
			}
		}
	}
}

func (h *Hub) subscribe(tables []string) (uint64, chan struct{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	sub := &subscriber{signal: make(chan struct{}, 1)}
	for _, table := range tables {
		if h.subs[table] == nil {
			h.subs[table] = make(map[uint64]*subscriber)
		}
		h.subs[table][id] = sub
	}
	return id, sub.signal
}

func (h *Hub) unsubscribe(tables []string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, table := range tables {
		delete(h.subs[table], id)
		if len(h.subs[table]) == 0 {
			delete(h.subs, table)
		}
	}
}
