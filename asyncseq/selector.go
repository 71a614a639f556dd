package asyncseq

import (
	"context"
	"math"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
)

// selectorFunc is the single shape every operator runs internally. The three
// public shapes are adapted into it at call time.
type selectorFunc[T, R any] func(ctx context.Context, v T) (R, error)

// indexedFunc is selectorFunc with the element's zero-based position.
type indexedFunc[T, R any] func(ctx context.Context, v T, index int) (R, error)

func syncSelector[T, R any](name string, fn func(T) R) selectorFunc[T, R] {
	requireArg(name, fn)
	return func(_ context.Context, v T) (R, error) {
		return fn(v), nil
	}
}

func awaitSelector[T, R any](name string, fn func(T) *future.Future[R]) selectorFunc[T, R] {
	requireArg(name, fn)
	return func(ctx context.Context, v T) (R, error) {
		return await(ctx, name, fn(v))
	}
}

func awaitCtxSelector[T, R any](name string, fn func(context.Context, T) *future.Future[R]) selectorFunc[T, R] {
	requireArg(name, fn)
	return func(ctx context.Context, v T) (R, error) {
		return await(ctx, name, fn(ctx, v))
	}
}

func syncIndexed[T, R any](name string, fn func(T, int) R) indexedFunc[T, R] {
	requireArg(name, fn)
	return func(_ context.Context, v T, i int) (R, error) {
		return fn(v, i), nil
	}
}

func awaitIndexed[T, R any](name string, fn func(T, int) *future.Future[R]) indexedFunc[T, R] {
	requireArg(name, fn)
	return func(ctx context.Context, v T, i int) (R, error) {
		return await(ctx, name, fn(v, i))
	}
}

func awaitCtxIndexed[T, R any](name string, fn func(context.Context, T, int) *future.Future[R]) indexedFunc[T, R] {
	requireArg(name, fn)
	return func(ctx context.Context, v T, i int) (R, error) {
		return await(ctx, name, fn(ctx, v, i))
	}
}

// ignoreIndex lifts a plain selector into the indexed shape.
func ignoreIndex[T, R any](fn selectorFunc[T, R]) indexedFunc[T, R] {
	return func(ctx context.Context, v T, _ int) (R, error) {
		return fn(ctx, v)
	}
}

// binary selectors combine two values, e.g. the outer and inner element of a
// SelectMany or Join.
type binaryFunc[A, B, R any] func(ctx context.Context, a A, b B) (R, error)

func syncBinary[A, B, R any](name string, fn func(A, B) R) binaryFunc[A, B, R] {
	requireArg(name, fn)
	return func(_ context.Context, a A, b B) (R, error) {
		return fn(a, b), nil
	}
}

func awaitBinary[A, B, R any](name string, fn func(A, B) *future.Future[R]) binaryFunc[A, B, R] {
	requireArg(name, fn)
	return func(ctx context.Context, a A, b B) (R, error) {
		return await(ctx, name, fn(a, b))
	}
}

func awaitCtxBinary[A, B, R any](name string, fn func(context.Context, A, B) *future.Future[R]) binaryFunc[A, B, R] {
	requireArg(name, fn)
	return func(ctx context.Context, a A, b B) (R, error) {
		return await(ctx, name, fn(ctx, a, b))
	}
}

func identity[T any](_ context.Context, v T) (T, error) {
	return v, nil
}

// await resolves a future returned by a user function. Completed futures
// return without blocking.
func await[R any](ctx context.Context, name string, f *future.Future[R]) (R, error) {
	if f == nil {
		var zero R
		return zero, apperrors.Internal(nil).WithDetail("selector", name).WithDetail("reason", "nil future")
	}
	return f.Await(ctx)
}

// indexCounter hands out zero-based positions and fails with OVERFLOW once
// the int range is exhausted.
type indexCounter struct {
	next int
	op   string
}

func (c *indexCounter) take() (int, error) {
	if c.next < 0 {
		return 0, apperrors.Overflow(c.op).WithDetail("max_index", math.MaxInt)
	}
	i := c.next
	c.next++
	return i, nil
}
