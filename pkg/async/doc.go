// Package async provides a small generic Future used to run validations off
// the caller's goroutine.
//
// Go starts a function in its own goroutine and returns a *Future. Callers
// wait with Await or register a continuation with Then. WaitAll awaits a
// batch in order. Resolved builds an already completed Future, which
// is handy for returning errors from APIs that otherwise hand out futures.
//
// # Usage
//
//	f := async.Go(ctx, func(ctx context.Context) (int, error) {
//	    return compute(ctx)
//	})
//	v, err := f.Await(ctx)
//
// # Error Handling
//
// The Future completes with the function's error, with ctx.Err() when the
// context was cancelled before the function started, or with ErrPanic when the
// function panicked.
package async
