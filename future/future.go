// Package future provides a single-assignment asynchronous result.
//
// A Future completes exactly once, with a value, an error, or cancellation.
// Later completion attempts are ignored. Callers either block on Await or
// register a continuation with OnComplete; both observe the same outcome.
package future

import (
	"context"
	"sync"
)

// Future is a value that becomes available at some later point.
// The zero value is not usable; create futures with New or one of the
// completed constructors.
type Future[T any] struct {
	done chan struct{}
	once sync.Once

	mu        sync.Mutex
	callbacks []func(T, error)

	val T
	err error
}

// New returns a pending future.
func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// FromValue returns a future already resolved with v.
func FromValue[T any](v T) *Future[T] {
	f := New[T]()
	f.Resolve(v)
	return f
}

// FromError returns a future already rejected with err.
func FromError[T any](err error) *Future[T] {
	f := New[T]()
	f.Reject(err)
	return f
}

// FromResult returns a completed future carrying v when err is nil and err otherwise.
func FromResult[T any](v T, err error) *Future[T] {
	if err != nil {
		return FromError[T](err)
	}
	return FromValue(v)
}

// Go runs fn on a new goroutine and completes the returned future with its result.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	f := New[T]()
	go func() {
		v, err := fn(ctx)
		f.complete(v, err)
	}()
	return f
}

// Resolve completes the future with v. It reports whether this call completed it.
func (f *Future[T]) Resolve(v T) bool {
	return f.complete(v, nil)
}

// Reject completes the future with err. A nil err is replaced by ErrNilRejection.
func (f *Future[T]) Reject(err error) bool {
	if err == nil {
		err = ErrNilRejection
	}
	var zero T
	return f.complete(zero, err)
}

// Cancel completes the future with context.Canceled.
func (f *Future[T]) Cancel() bool {
	var zero T
	return f.complete(zero, context.Canceled)
}

func (f *Future[T]) complete(v T, err error) bool {
	completed := false
	f.once.Do(func() {
		f.mu.Lock()
		f.val, f.err = v, err
		callbacks := f.callbacks
		f.callbacks = nil
		close(f.done)
		f.mu.Unlock()

		completed = true
		for _, cb := range callbacks {
			cb(v, err)
		}
	})
	return completed
}

// IsCompleted reports whether the future has a final outcome.
func (f *Future[T]) IsCompleted() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Done returns a channel closed once the future completes.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the outcome of a completed future. ok is false while pending.
func (f *Future[T]) Result() (v T, ok bool, err error) {
	if !f.IsCompleted() {
		return v, false, nil
	}
	return f.val, true, f.err
}

// Await blocks until the future completes or ctx is done.
// A completed future returns immediately without consulting ctx.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if f.IsCompleted() {
		return f.val, f.err
	}
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnComplete registers fn to run with the outcome. If the future is already
// complete fn runs synchronously on the calling goroutine; otherwise it runs on
// the goroutine that completes the future.
func (f *Future[T]) OnComplete(fn func(T, error)) {
	f.mu.Lock()
	if !f.IsCompleted() {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn(f.val, f.err)
}
