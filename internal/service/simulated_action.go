package service

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrActionBusy is returned when an action is triggered while a previous run is pending.
var ErrActionBusy = errors.New("action already in progress")

// Future is the single-resolution result of a simulated backend call. It cannot be
// cancelled and never retries.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the future resolves.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future resolves or ctx ends. Ending ctx only stops the wait;
// the underlying action still runs to completion.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// SimulatedAction stands in for a backend call: a fixed delay followed by a local
// computation. A busy flag keeps the trigger disabled until the run resolves.
type SimulatedAction[T any] struct {
	name  string
	delay time.Duration

	mu   sync.Mutex
	busy bool
}

// NewSimulatedAction creates an idle action.
func NewSimulatedAction[T any](name string, delay time.Duration) *SimulatedAction[T] {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedAction[T]{name: name, delay: delay}
}

// Name identifies the action in logs.
func (a *SimulatedAction[T]) Name() string {
	return a.name
}

// Busy reports whether a run is pending.
func (a *SimulatedAction[T]) Busy() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.busy
}

// Start schedules fn after the configured delay. While the run is pending further
// calls fail with ErrActionBusy.
func (a *SimulatedAction[T]) Start(fn func() (T, error)) (*Future[T], error) {
	a.mu.Lock()
	if a.busy {
		a.mu.Unlock()
		return nil, ErrActionBusy
	}
	a.busy = true
	a.mu.Unlock()

	future := newFuture[T]()
	time.AfterFunc(a.delay, func() {
		value, err := fn()

		a.mu.Lock()
		a.busy = false
		a.mu.Unlock()

		future.resolve(value, err)
	})
	return future, nil
}
