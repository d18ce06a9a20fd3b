// Package application holds the observable controllers that sit between the
// repositories and whatever presentation layer consumes them. Controllers
// expose shared live streams, a debounced name search and asynchronous
// mutation entry points whose outcome surfaces as a one-shot user-facing
// message.
package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultDebounce    = 300 * time.Millisecond
	defaultStreamGrace = 5 * time.Second
)

// Options tunes controller timing. Zero values pick the defaults (300ms
// debounce, 5s stream grace); tests shorten both.
type Options struct {
	Debounce    time.Duration
	StreamGrace time.Duration
}

func (o Options) withDefaults() Options {
	if o.Debounce <= 0 {
		o.Debounce = defaultDebounce
	}
	if o.StreamGrace <= 0 {
		o.StreamGrace = defaultStreamGrace
	}
	return o
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type nameInput struct {
	Name string `validate:"required"`
}

type programInput struct {
	Name             string `validate:"required"`
	DegreeTypeCodigo uint   `validate:"required"`
	FacultyCodigo    uint   `validate:"required"`
	CampusCodigo     uint   `validate:"required"`
}

// worker is the per-controller background execution context: mutations run
// on it sequentially so callers never block on storage I/O. An op that has
// started runs to completion even when the worker is closed.
type worker struct {
	queue  chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func newWorker() *worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{
		queue:  make(chan func(context.Context), 32),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *worker) run() {
	defer close(w.done)
	for {
		select {
		case <-w.ctx.Done():
			return
		case fn := <-w.queue:
			fn(w.ctx)
		}
	}
}

func (w *worker) enqueue(fn func(context.Context)) {
	select {
	case w.queue <- fn:
	case <-w.ctx.Done():
	}
}

// flush blocks until every previously enqueued op has finished.
func (w *worker) flush(ctx context.Context) error {
	drained := make(chan struct{})
	w.enqueue(func(context.Context) { close(drained) })
	select {
	case <-drained:
		return nil
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *worker) close() {
	w.cancel()
	<-w.done
}

// outcome is the pending one-shot message slot. The presentation layer peeks
// with Message and must Ack after displaying it.
type outcome struct {
	mu  sync.Mutex
	msg string
	set bool
}

func (o *outcome) post(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msg, o.set = msg, true
}

func (o *outcome) Message() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.msg, o.set
}

func (o *outcome) Ack() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.msg, o.set = "", false
}

var errStreamClosed = errors.New("stream closed")

// pushLatest delivers rows on a buffered channel, displacing an unconsumed
// older emission so a slow consumer always sees the freshest result set.
// Single-producer only.
func pushLatest[T any](ch chan []T, rows []T) {
	for {
		select {
		case ch <- rows:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
