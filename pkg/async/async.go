package async

import (
	"context"
	"fmt"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Go runs fn in its own goroutine and returns a Future for its result.
// A panic in fn completes the Future with ErrPanic.
func Go[U any](ctx context.Context, fn func(context.Context) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result, f.err = zero, fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		// Skip the work entirely when the context is already cancelled.
		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx)
	}()

	return f
}

// Resolved returns an already completed Future.
func Resolved[U any](result U, err error) *Future[U] {
	f := &Future[U]{result: result, err: err, done: make(chan struct{})}
	close(f.done)
	return f
}

// Await blocks until the Future completes or ctx is done. Cancelling ctx
// stops the wait only; the computation keeps running.
func (f *Future[U]) Await(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Then calls fn with the result on a new goroutine once the Future completes.
func (f *Future[U]) Then(fn func(U, error)) {
	go func() {
		<-f.done
		fn(f.result, f.err)
	}()
}

// WaitAll waits for every future and returns their results in order, with the
// first error encountered.
func WaitAll[U any](ctx context.Context, futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await(ctx)
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
