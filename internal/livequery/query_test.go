package livequery

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func recvRows(t *testing.T, ch <-chan []int) []int {
	t.Helper()
	select {
	case rows, ok := <-ch:
		if !ok {
			t.Fatalf("updates channel closed early")
		}
		return rows
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for emission")
	}
	return nil
}

func TestQueryEmitsInitialSnapshotAndRefreshesOnNotify(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	var mu sync.Mutex
	data := []int{1, 2}
	fetch := func(context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		out := make([]int, len(data))
		copy(out, data)
		return out, nil
	}

	q, err := Open(ctx, hub, []string{"campus"}, fetch)
	if err != nil {
		t.Fatalf("open query: %v", err)
	}
	defer q.Close()

	first := recvRows(t, q.Updates())
	if len(first) != 2 {
		t.Fatalf("expected initial snapshot of 2 rows, got %v", first)
	}

	mu.Lock()
	data = []int{1, 2, 3}
	mu.Unlock()
	hub.Notify("campus")

	second := recvRows(t, q.Updates())
	if len(second) != 3 {
		t.Fatalf("expected refreshed snapshot of 3 rows, got %v", second)
	}
}

func TestNotifyUnrelatedTableDoesNotRefetch(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	var fetches atomic.Int32
	fetch := func(context.Context) ([]int, error) {
		fetches.Add(1)
		return []int{1}, nil
	}

	q, err := Open(ctx, hub, []string{"campus"}, fetch)
	if err != nil {
		t.Fatalf("open query: %v", err)
	}
	defer q.Close()

	hub.Notify("faculty")
	time.Sleep(50 * time.Millisecond)
	if got := fetches.Load(); got != 1 {
		t.Fatalf("expected no refetch for unrelated table, fetch count %d", got)
	}

	recvRows(t, q.Updates())
	hub.Notify("campus")
	recvRows(t, q.Updates())
	if got := fetches.Load(); got != 2 {
		t.Fatalf("expected one refetch after notify, fetch count %d", got)
	}
}

func TestFailedRefreshKeepsLastGoodResult(t *testing.T) {
	ctx := context.Background()
	hub := NewHub()

	var mu sync.Mutex
	data := []int{1}
	fail := false
	fetch := func(context.Context) ([]int, error) {
		mu.Lock()
		defer mu.Unlock()
		if fail {
			return nil, errors.New("storage unavailable")
		}
		out := make([]int, len(data))
		copy(out, data)
		return out, nil
	}

	q, err := Open(ctx, hub, []string{"campus"}, fetch)
	if err != nil {
		t.Fatalf("open query: %v", err)
	}
	defer q.Close()

	if got := recvRows(t, q.Updates()); len(got) != 1 {
		t.Fatalf("expected initial snapshot, got %v", got)
	}

	mu.Lock()
	fail = true
	mu.Unlock()
	hub.Notify("campus")
	time.Sleep(50 * time.Millisecond)

	select {
	case rows, ok := <-q.Updates():
		if !ok {
			t.Fatalf("updates channel closed after failed refresh")
		}
		t.Fatalf("unexpected emission after failed refresh: %v", rows)
	default:
	}

	mu.Lock()
	fail = false
	data = []int{1, 2}
	mu.Unlock()
	hub.Notify("campus")

	if got := recvRows(t, q.Updates()); len(got) != 2 {
		t.Fatalf("expected recovery emission of 2 rows, got %v", got)
	}
}

func TestOpenReturnsFetchError(t *testing.T) {
	hub := NewHub()
	wantErr := errors.New("no such table")
	_, err := Open(context.Background(), hub, []string{"campus"}, func(context.Context) ([]int, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected open to surface fetch error, got %v", err)
	}
}

func TestCloseEndsUpdates(t *testing.T) {
	hub := NewHub()
	q, err := Open(context.Background(), hub, []string{"campus"}, func(context.Context) ([]int, error) {
		return []int{1}, nil
	})
	if err != nil {
		t.Fatalf("open query: %v", err)
	}

	q.Close()
	q.Close()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-q.Updates():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatalf("updates channel not closed after Close")
		}
	}
}

func TestNotifyCoalescesAcrossTables(t *testing.T) {
	hub := NewHub()
	id, signal := hub.subscribe([]string{"program", "campus"})
	defer hub.unsubscribe([]string{"program", "campus"}, id)

	hub.Notify("program", "campus")

	select {
	case <-signal:
	default:
		t.Fatalf("expected a pending signal")
	}
	select {
	case <-signal:
		t.Fatalf("expected a single coalesced signal")
	default:
	}
}
