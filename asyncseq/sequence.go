package asyncseq

import (
	"context"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
	"github.com/kbukum/asyncq/validation"
)

// Enumerable is a source that can start an asynchronous enumeration.
// Every call to Enumerator returns an independent cursor.
type Enumerable[T any] interface {
	Enumerator(ctx context.Context) Enumerator[T]
}

// Enumerator is a stateful cursor over an asynchronous sequence.
type Enumerator[T any] interface {
	// MoveNext advances to the next element. It returns false once the
	// sequence is exhausted, and keeps returning false after an error.
	MoveNext() (bool, error)
	// Current returns the element reached by the last successful MoveNext.
	Current() T
	// Dispose releases the enumerator and everything it owns.
	Dispose() error
}

// Sequence is the lazy descriptor returned by every operator.
// No work happens until an enumerator is requested and advanced.
type Sequence[T any] struct {
	create func(ctx context.Context) Enumerator[T]
}

// Enumerator starts a new enumeration bound to ctx.
func (s *Sequence[T]) Enumerator(ctx context.Context) Enumerator[T] {
	requireArg("ctx", ctx)
	return s.create(ctx)
}

// --- Constructors ---

// Create builds a sequence from an enumerator factory.
func Create[T any](factory func(ctx context.Context) Enumerator[T]) *Sequence[T] {
	requireArg("factory", factory)
	return &Sequence[T]{create: factory}
}

// FromSlice creates a sequence over a slice of values.
func FromSlice[T any](items []T) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &sliceIter[T]{cursor: cursor[T]{ctx: ctx}, items: items}
		},
	}
}

// FromFunc creates a sequence from a pull function. next returns
// (zero, false, nil) when exhausted.
func FromFunc[T any](next func(ctx context.Context) (T, bool, error)) *Sequence[T] {
	requireArg("next", next)
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &funcIter[T]{cursor: cursor[T]{ctx: ctx}, next: next}
		},
	}
}

// FromFuture creates a single-element sequence yielding the future's value.
func FromFuture[T any](f *future.Future[T]) *Sequence[T] {
	requireArg("future", f)
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &futureIter[T]{cursor: cursor[T]{ctx: ctx}, f: f}
		},
	}
}

// Empty returns a sequence with no elements.
func Empty[T any]() *Sequence[T] {
	return FromSlice[T](nil)
}

// Return returns a sequence with the single element v.
func Return[T any](v T) *Sequence[T] {
	return FromSlice([]T{v})
}

// Range returns count consecutive integers starting at start.
func Range(start, count int) *Sequence[int] {
	if count < 0 {
		panic(apperrors.New(apperrors.ErrCodeInvalidArgument, "count must not be negative").
			WithDetail("argument", "count").WithDetail("count", count))
	}
	return &Sequence[int]{
		create: func(ctx context.Context) Enumerator[int] {
			return &rangeIter{cursor: cursor[int]{ctx: ctx}, next: start, remaining: count}
		},
	}
}

// --- Enumerator plumbing ---

// cursor carries the state every enumerator shares: the enumeration context,
// the current element and whether the enumerator has finished or been disposed.
type cursor[T any] struct {
	ctx      context.Context
	current  T
	done     bool
	disposed bool
}

// begin gates a MoveNext call. It returns false with a nil error once the
// enumerator has finished, and a CANCELED error if the context is done.
func (c *cursor[T]) begin() (bool, error) {
	if c.done || c.disposed {
		return false, nil
	}
	if err := c.ctx.Err(); err != nil {
		c.done = true
		return false, apperrors.Canceled(err)
	}
	return true, nil
}

func (c *cursor[T]) yield(v T) (bool, error) {
	c.current = v
	return true, nil
}

// finish ends the enumeration, reporting err (nil on normal exhaustion).
func (c *cursor[T]) finish(err error) (bool, error) {
	var zero T
	c.current = zero
	c.done = true
	return false, err
}

// release marks the cursor disposed and reports whether this was the first call.
func (c *cursor[T]) release() bool {
	if c.disposed {
		return false
	}
	c.disposed = true
	c.done = true
	var zero T
	c.current = zero
	return true
}

func (c *cursor[T]) Current() T { return c.current }

// disposeAll disposes every non-nil enumerator in order, attempting all of
// them and joining their errors.
func disposeAll(disposers ...interface{ Dispose() error }) error {
	var errs []error
	for _, d := range disposers {
		if validation.IsNil(d) {
			continue
		}
		if err := d.Dispose(); err != nil {
			errs = append(errs, err)
		}
	}
	return joinErrors(errs...)
}

func requireArg(name string, value any) {
	if err := validation.NotNil(name, value); err != nil {
		panic(err)
	}
}

// --- Source enumerators ---

type sliceIter[T any] struct {
	cursor[T]
	items []T
	index int
}

func (it *sliceIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	if it.index >= len(it.items) {
		return it.finish(nil)
	}
	val := it.items[it.index]
	it.index++
	return it.yield(val)
}

func (it *sliceIter[T]) Dispose() error {
	it.release()
	return nil
}

type funcIter[T any] struct {
	cursor[T]
	next func(ctx context.Context) (T, bool, error)
}

func (it *funcIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	val, ok, err := it.next(it.ctx)
	if err != nil || !ok {
		return it.finish(err)
	}
	return it.yield(val)
}

func (it *funcIter[T]) Dispose() error {
	it.release()
	return nil
}

type futureIter[T any] struct {
	cursor[T]
	f       *future.Future[T]
	yielded bool
}

func (it *futureIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	if it.yielded {
		return it.finish(nil)
	}
	it.yielded = true
	val, err := it.f.Await(it.ctx)
	if err != nil {
		return it.finish(err)
	}
	return it.yield(val)
}

func (it *futureIter[T]) Dispose() error {
	it.release()
	return nil
}

type rangeIter struct {
	cursor[int]
	next      int
	remaining int
}

func (it *rangeIter) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	if it.remaining == 0 {
		return it.finish(nil)
	}
	val := it.next
	it.next++
	it.remaining--
	return it.yield(val)
}

func (it *rangeIter) Dispose() error {
	it.release()
	return nil
}
