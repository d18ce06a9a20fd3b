package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/atvirokodosprendimai/gradcatalog/internal/domain"
)

// searcher drives the debounced name search. Each text change re-arms the
// timer; only the text that stays quiet for the debounce window reaches the
// repository, and a newer text supersedes any query opened for an older one
// (tracked by generation counter) so stale results never reach Results.
// Blank text falls back to the all-rows query instead of a substring search.
type searcher[T any] struct {
	mu         sync.Mutex
	debounce   time.Duration
	openAll    func(context.Context) (domain.LiveList[T], error)
	openSearch func(context.Context, string) (domain.LiveList[T], error)
	out        chan []T
	ctx        context.Context
	cancel     context.CancelFunc
	timer      *time.Timer
	text       string
	gen        uint64
	active     uint64
	cur        domain.LiveList[T]
	started    bool
	closed     bool
}

func newSearcher[T any](openAll func(context.Context) (domain.LiveList[T], error), openSearch func(context.Context, string) (domain.LiveList[T], error), debounce time.Duration) *searcher[T] {
	ctx, cancel := context.WithCancel(context.Background())
	s := &searcher[T]{
		debounce:   debounce,
		openAll:    openAll,
		openSearch: openSearch,
		out:        make(chan []T, 1),
		ctx:        ctx,
		cancel:     cancel,
	}
	return s
}

// Results arms the blank fallback query on first use; until someone reads
// results or sets a query the searcher touches no storage.
func (s *searcher[T]) Results() <-chan []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started && !s.closed {
		s.armLocked()
	}
	return s.out
}

func (s *searcher[T]) SetQuery(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.text = text
	s.armLocked()
}

func (s *searcher[T]) armLocked() {
	s.started = true
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() { s.settle(gen) })
}

func (s *searcher[T]) settle(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	text := strings.TrimSpace(s.text)
	s.mu.Unlock()

	var (
		lq  domain.LiveList[T]
		err error
	)
	if text == "" {
		lq, err = s.openAll(s.ctx)
	} else {
		lq, err = s.openSearch(s.ctx, text)
	}
	if err != nil {
		return
	}

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		lq.Close()
		return
	}
	if s.cur != nil {
		s.cur.Close()
	}
	s.cur = lq
	s.active = gen
	s.mu.Unlock()

	go s.pump(lq, gen)
}

func (s *searcher[T]) pump(lq domain.LiveList[T], gen uint64) {
	for rows := range lq.Updates() {
		s.mu.Lock()
		if s.closed || s.active != gen {
			s.mu.Unlock()
			return
		}
		pushLatest(s.out, rows)
		s.mu.Unlock()
	}
}

func (s *searcher[T]) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cur != nil {
		s.cur.Close()
		s.cur = nil
	}
	s.cancel()
	close(s.out)
}
