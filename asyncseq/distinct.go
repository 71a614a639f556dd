package asyncseq

import (
	"context"

	"github.com/kbukum/asyncq/future"
)

// DistinctUntilChanged drops elements equal to the element yielded just before
// them. [1 1 2 2 1 3] becomes [1 2 1 3].
func DistinctUntilChanged[T comparable](src Enumerable[T]) *Sequence[T] {
	requireArg("source", src)
	return newDistinct[T, T](src, identity[T], equal[T])
}

// DistinctUntilChangedFunc is DistinctUntilChanged with a custom equality comparer.
func DistinctUntilChangedFunc[T any](src Enumerable[T], eq func(a, b T) bool) *Sequence[T] {
	requireArg("source", src)
	requireArg("comparer", eq)
	return newDistinct[T, T](src, identity[T], eq)
}

// DistinctUntilChangedBy compares consecutive elements by the key they map to.
func DistinctUntilChangedBy[T any, K comparable](src Enumerable[T], key func(T) K) *Sequence[T] {
	requireArg("source", src)
	return newDistinct(src, syncSelector("keySelector", key), equal[K])
}

// DistinctUntilChangedByAwait is DistinctUntilChangedBy with a key selector
// that returns a future.
func DistinctUntilChangedByAwait[T any, K comparable](src Enumerable[T], key func(T) *future.Future[K]) *Sequence[T] {
	requireArg("source", src)
	return newDistinct(src, awaitSelector("keySelector", key), equal[K])
}

// DistinctUntilChangedByAwaitWithCancellation is DistinctUntilChangedByAwait
// with the enumeration context passed to the key selector.
func DistinctUntilChangedByAwaitWithCancellation[T any, K comparable](src Enumerable[T], key func(context.Context, T) *future.Future[K]) *Sequence[T] {
	requireArg("source", src)
	return newDistinct(src, awaitCtxSelector("keySelector", key), equal[K])
}

// DistinctUntilChangedByFunc compares consecutive keys with a custom comparer.
func DistinctUntilChangedByFunc[T, K any](src Enumerable[T], key func(T) K, eq func(a, b K) bool) *Sequence[T] {
	requireArg("source", src)
	requireArg("comparer", eq)
	return newDistinct(src, syncSelector("keySelector", key), eq)
}

func equal[T comparable](a, b T) bool { return a == b }

func newDistinct[T, K any](src Enumerable[T], key selectorFunc[T, K], eq func(a, b K) bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &distinctIter[T, K]{
				cursor: cursor[T]{ctx: ctx},
				source: src.Enumerator(ctx),
				key:    key,
				eq:     eq,
			}
		},
	}
}

type distinctIter[T, K any] struct {
	cursor[T]
	source  Enumerator[T]
	key     selectorFunc[T, K]
	eq      func(a, b K) bool
	last    K
	hasLast bool
}

func (it *distinctIter[T, K]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	for {
		ok, err := it.source.MoveNext()
		if err != nil || !ok {
			return it.finish(err)
		}
		val := it.source.Current()
		k, err := it.key(it.ctx, val)
		if err != nil {
			return it.finish(err)
		}
		if it.hasLast && it.eq(it.last, k) {
			continue
		}
		it.last, it.hasLast = k, true
		return it.yield(val)
	}
}

func (it *distinctIter[T, K]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
