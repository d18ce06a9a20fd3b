package application

import (
	"context"
	"sync"
	"time"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

// StreamSub is one observer's handle on a shared stream. Close detaches it;
// its channel is closed and no further emissions arrive.
type StreamSub[T any] struct {
	owner *sharedStream[T]
	id    uint64
	ch    chan []T
}

func (s *StreamSub[T]) Updates() <-chan []T { return s.ch }

func (s *StreamSub[T]) Close() { s.owner.detach(s.id) }

// sharedStream multiplexes one underlying live query to any number of
// observers. The query is opened lazily on first attach and torn down only
// after the last observer has been gone for a grace period, so transient
// detach/reattach cycles reuse the open query.
type sharedStream[T any] struct {
	mu         sync.Mutex
	open       func(context.Context) (domain.LiveList[T], error)
	grace      time.Duration
	src        domain.LiveList[T]
	srcCancel  context.CancelFunc
	gen        uint64
	subs       map[uint64]chan []T
	nextID     uint64
	last       []T
	hasLast    bool
	graceTimer *time.Timer
	closed     bool
}

func newSharedStream[T any](open func(context.Context) (domain.LiveList[T], error), grace time.Duration) *sharedStream[T] {
	return &sharedStream[T]{open: open, grace: grace, subs: make(map[uint64]chan []T)}
}

func (s *sharedStream[T]) Attach(ctx context.Context) (*StreamSub[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errStreamClosed
	}
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
	if s.src == nil {
		// The query is shared by every observer, so it runs on a context
		// owned by the stream; one observer going away must not end it.
		qctx, qcancel := context.WithCancel(context.Background())
		src, err := s.open(qctx)
		if err != nil {
			qcancel()
			return nil, err
		}
		s.src = src
		s.srcCancel = qcancel
		s.gen++
		go s.fan(src, s.gen)
	}
	s.nextID++
	id := s.nextID
	ch := make(chan []T, 1)
	if s.hasLast {
		ch <- s.last
	}
	s.subs[id] = ch
	return &StreamSub[T]{owner: s, id: id, ch: ch}, nil
}

func (s *sharedStream[T]) fan(src domain.LiveList[T], gen uint64) {
	for rows := range src.Updates() {
		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		s.last, s.hasLast = rows, true
		for _, ch := range s.subs {
			pushLatest(ch, rows)
		}
		s.mu.Unlock()
	}

	// Source ended on its own; drop it so the next attach reopens fresh
	// instead of replaying a stale snapshot from a dead query.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return
	}
	s.dropSrcLocked()
}

func (s *sharedStream[T]) dropSrcLocked() {
	if s.src == nil {
		return
	}
	s.src.Close()
	s.src = nil
	if s.srcCancel != nil {
		s.srcCancel()
		s.srcCancel = nil
	}
	s.gen++
	s.hasLast = false
}

func (s *sharedStream[T]) detach(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.subs[id]
	if !ok {
		return
	}
	delete(s.subs, id)
	close(ch)
	if len(s.subs) > 0 || s.src == nil {
		return
	}
	s.graceTimer = time.AfterFunc(s.grace, s.teardown)
}

func (s *sharedStream[T]) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.subs) > 0 || s.src == nil {
		return
	}
	s.dropSrcLocked()
	s.graceTimer = nil
}

func (s *sharedStream[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.graceTimer != nil {
		s.graceTimer.Stop()
		s.graceTimer = nil
	}
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.dropSrcLocked()
}
