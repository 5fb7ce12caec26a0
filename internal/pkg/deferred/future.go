// Package deferred runs non-critical page data loads in the background.
//
// A failed deferred load never fails the page: the error is logged once and
// the consumer sees the zero value.
package deferred

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Future is the pending result of a deferred load.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Go starts fn in its own goroutine.
func Go[T any](ctx context.Context, logger *zap.Logger, name string, fn func(context.Context) (T, error)) *Future[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("deferred load %s panicked: %v", name, r)
				logger.Error("Deferred load panicked", zap.String("load", name), zap.Any("panic", r))
			}
		}()

		f.value, f.err = fn(ctx)
		if f.err != nil {
			logger.Warn("Deferred load failed", zap.String("load", name), zap.Error(f.err))
		}
	}()
	return f
}

// Resolved returns a Future that already holds v.
func Resolved[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Await blocks until the load finishes or ctx is done. ok is false when the
// load failed or did not finish in time.
func (f *Future[T]) Await(ctx context.Context) (value T, ok bool) {
	if f == nil {
		return value, false
	}
	select {
	case <-f.done:
		if f.err != nil {
			return value, false
		}
		return f.value, true
	case <-ctx.Done():
		return value, false
	}
}

// Done is closed once the load has finished.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Err returns the load error after Done is closed.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}
