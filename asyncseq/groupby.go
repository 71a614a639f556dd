package asyncseq

import (
	"context"
	"slices"

	"github.com/kbukum/asyncq/future"
)

// GroupBy groups elements by key. The source is drained on the first MoveNext;
// groups are then yielded in first-encounter order.
func GroupBy[T any, K comparable](src Enumerable[T], key func(T) K) *Sequence[*Grouping[K, T]] {
	requireArg("source", src)
	return newGroupBy[T, K, T, *Grouping[K, T]](src, syncSelector("keySelector", key), identity[T], asGrouping[K, T])
}

// GroupByAwait is GroupBy with a key selector that returns a future.
func GroupByAwait[T any, K comparable](src Enumerable[T], key func(T) *future.Future[K]) *Sequence[*Grouping[K, T]] {
	requireArg("source", src)
	return newGroupBy[T, K, T, *Grouping[K, T]](src, awaitSelector("keySelector", key), identity[T], asGrouping[K, T])
}

// GroupByAwaitWithCancellation is GroupByAwait with the enumeration context
// passed to the key selector.
func GroupByAwaitWithCancellation[T any, K comparable](src Enumerable[T], key func(context.Context, T) *future.Future[K]) *Sequence[*Grouping[K, T]] {
	requireArg("source", src)
	return newGroupBy[T, K, T, *Grouping[K, T]](src, awaitCtxSelector("keySelector", key), identity[T], asGrouping[K, T])
}

// GroupByElement groups elem(v) by key(v).
func GroupByElement[T any, K comparable, V any](src Enumerable[T], key func(T) K, elem func(T) V) *Sequence[*Grouping[K, V]] {
	requireArg("source", src)
	return newGroupBy[T, K, V, *Grouping[K, V]](src, syncSelector("keySelector", key), syncSelector("elementSelector", elem), asGrouping[K, V])
}

// GroupByElementAwait is GroupByElement with selectors that return futures.
func GroupByElementAwait[T any, K comparable, V any](src Enumerable[T], key func(T) *future.Future[K], elem func(T) *future.Future[V]) *Sequence[*Grouping[K, V]] {
	requireArg("source", src)
	return newGroupBy[T, K, V, *Grouping[K, V]](src, awaitSelector("keySelector", key), awaitSelector("elementSelector", elem), asGrouping[K, V])
}

// GroupByElementAwaitWithCancellation is GroupByElementAwait with the
// enumeration context passed to both selectors.
func GroupByElementAwaitWithCancellation[T any, K comparable, V any](src Enumerable[T], key func(context.Context, T) *future.Future[K], elem func(context.Context, T) *future.Future[V]) *Sequence[*Grouping[K, V]] {
	requireArg("source", src)
	return newGroupBy[T, K, V, *Grouping[K, V]](src, awaitCtxSelector("keySelector", key), awaitCtxSelector("elementSelector", elem), asGrouping[K, V])
}

// GroupByResult groups elem(v) by key(v) and yields result(key, values) per group.
func GroupByResult[T any, K comparable, V, R any](src Enumerable[T], key func(T) K, elem func(T) V, result func(K, []V) R) *Sequence[R] {
	requireArg("source", src)
	return newGroupBy(src, syncSelector("keySelector", key), syncSelector("elementSelector", elem), groupResult(syncBinary("resultSelector", result)))
}

// GroupByResultAwait is GroupByResult with selectors that return futures.
func GroupByResultAwait[T any, K comparable, V, R any](src Enumerable[T], key func(T) *future.Future[K], elem func(T) *future.Future[V], result func(K, []V) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newGroupBy(src, awaitSelector("keySelector", key), awaitSelector("elementSelector", elem), groupResult(awaitBinary("resultSelector", result)))
}

// GroupByResultAwaitWithCancellation is GroupByResultAwait with the enumeration
// context passed to every selector.
func GroupByResultAwaitWithCancellation[T any, K comparable, V, R any](src Enumerable[T], key func(context.Context, T) *future.Future[K], elem func(context.Context, T) *future.Future[V], result func(context.Context, K, []V) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newGroupBy(src, awaitCtxSelector("keySelector", key), awaitCtxSelector("elementSelector", elem), groupResult(awaitCtxBinary("resultSelector", result)))
}

func asGrouping[K comparable, V any](_ context.Context, g *Grouping[K, V]) (*Grouping[K, V], error) {
	return g, nil
}

func groupResult[K comparable, V, R any](fn binaryFunc[K, []V, R]) selectorFunc[*Grouping[K, V], R] {
	return func(ctx context.Context, g *Grouping[K, V]) (R, error) {
		return fn(ctx, g.key, slices.Clone(g.values))
	}
}

func newGroupBy[T any, K comparable, V, R any](src Enumerable[T], key selectorFunc[T, K], elem selectorFunc[T, V], result selectorFunc[*Grouping[K, V], R]) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Enumerator[R] {
			return &groupByIter[T, K, V, R]{
				cursor: cursor[R]{ctx: ctx},
				source: src,
				key:    key,
				elem:   elem,
				result: result,
			}
		},
	}
}

type groupByIter[T any, K comparable, V, R any] struct {
	cursor[R]
	source Enumerable[T]
	key    selectorFunc[T, K]
	elem   selectorFunc[T, V]
	result selectorFunc[*Grouping[K, V], R]

	groups []*Grouping[K, V]
	built  bool
	pos    int
}

func (it *groupByIter[T, K, V, R]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	if !it.built {
		lookup, err := buildLookup(it.ctx, it.source, it.key, it.elem)
		if err != nil {
			return it.finish(err)
		}
		it.groups = lookup.groups
		it.built = true
	}
	if it.pos >= len(it.groups) {
		return it.finish(nil)
	}
	g := it.groups[it.pos]
	it.pos++
	out, err := it.result(it.ctx, g)
	if err != nil {
		return it.finish(err)
	}
	return it.yield(out)
}

// Dispose drops the buffered groups. The source enumerator is owned by the
// build step and already disposed when it returns.
func (it *groupByIter[T, K, V, R]) Dispose() error {
	it.release()
	it.groups = nil
	return nil
}
