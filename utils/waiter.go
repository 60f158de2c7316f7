package utils

import (
	"context"
	"sync"
	"time"

	"bombsquad/models"
)

// Waiter hands component selections from interaction handlers to the command waiting on them
type Waiter struct {
	mu      sync.Mutex
	pending map[string]chan string
}

// Selections is the process-wide waiter for select menus
var Selections = NewWaiter()

// NewWaiter creates an empty waiter
func NewWaiter() *Waiter {
	return &Waiter{pending: make(map[string]chan string)}
}

// Expect registers key; the returned cancel must be called once the caller stops waiting
func (w *Waiter) Expect(key string) (<-chan string, func()) {
	ch := make(chan string, 1)
	w.mu.Lock()
	w.pending[key] = ch
	w.mu.Unlock()
	return ch, func() {
		w.mu.Lock()
		if w.pending[key] == ch {
			delete(w.pending, key)
		}
		w.mu.Unlock()
	}
}

// Deliver passes value to whoever is waiting on key. Reports false when nobody is.
func (w *Waiter) Deliver(key, value string) bool {
	w.mu.Lock()
	ch, ok := w.pending[key]
	if ok {
		delete(w.pending, key)
	}
	w.mu.Unlock()
	if !ok {
		return false
	}
	ch <- value
	return true
}

// Wait blocks until a value arrives on ch, the timeout passes, or ctx ends
func Wait(ctx context.Context, ch <-chan string, timeout time.Duration) (string, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case v := <-ch:
		return v, nil
	case <-timer.C:
		return "", models.ErrTimedOut
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
