package asyncseq

import (
	"cmp"
	"context"

	"golang.org/x/exp/constraints"

	"github.com/kbukum/asyncq/future"
)

// OrderedSequence is a sequence sorted by one or more keys. Further keys are
// added with ThenBy and ThenByDescending.
type OrderedSequence[T any] struct {
	source Enumerable[T]
	parent *OrderedSequence[T]
	level  func(next sorter[T]) sorter[T]
}

// Enumerator starts a new enumeration bound to ctx. The source is buffered and
// sorted on the first MoveNext.
func (s *OrderedSequence[T]) Enumerator(ctx context.Context) Enumerator[T] {
	requireArg("ctx", ctx)
	return &orderedIter[T]{cursor: cursor[T]{ctx: ctx}, seq: s}
}

// buildSorter builds a fresh chain for one enumeration, primary key first.
func (s *OrderedSequence[T]) buildSorter() sorter[T] {
	var chain sorter[T]
	for lvl := s; lvl != nil; lvl = lvl.parent {
		chain = lvl.level(chain)
	}
	return chain
}

func newOrdered[T, K any](src Enumerable[T], parent *OrderedSequence[T], key selectorFunc[T, K], compare func(a, b K) int, descending bool) *OrderedSequence[T] {
	return &OrderedSequence[T]{
		source: src,
		parent: parent,
		level: func(next sorter[T]) sorter[T] {
			return &keySorter[T, K]{key: key, cmp: compare, descending: descending, next: next}
		},
	}
}

func orderBy[T, K any](src Enumerable[T], key selectorFunc[T, K], compare func(a, b K) int, descending bool) *OrderedSequence[T] {
	requireArg("source", src)
	requireArg("comparer", compare)
	return newOrdered(src, nil, key, compare, descending)
}

func thenBy[T, K any](parent *OrderedSequence[T], key selectorFunc[T, K], compare func(a, b K) int, descending bool) *OrderedSequence[T] {
	requireArg("source", parent)
	requireArg("comparer", compare)
	return newOrdered(parent.source, parent, key, compare, descending)
}

// OrderBy sorts elements ascending by key. The sort is stable.
func OrderBy[T any, K constraints.Ordered](src Enumerable[T], key func(T) K) *OrderedSequence[T] {
	return orderBy(src, syncSelector("keySelector", key), cmp.Compare[K], false)
}

// OrderByAwait is OrderBy with a key selector that returns a future.
func OrderByAwait[T any, K constraints.Ordered](src Enumerable[T], key func(T) *future.Future[K]) *OrderedSequence[T] {
	return orderBy(src, awaitSelector("keySelector", key), cmp.Compare[K], false)
}

// OrderByAwaitWithCancellation is OrderByAwait with the enumeration context
// passed to the key selector.
func OrderByAwaitWithCancellation[T any, K constraints.Ordered](src Enumerable[T], key func(context.Context, T) *future.Future[K]) *OrderedSequence[T] {
	return orderBy(src, awaitCtxSelector("keySelector", key), cmp.Compare[K], false)
}

// OrderByDescending sorts elements descending by key. Ties keep source order.
func OrderByDescending[T any, K constraints.Ordered](src Enumerable[T], key func(T) K) *OrderedSequence[T] {
	return orderBy(src, syncSelector("keySelector", key), cmp.Compare[K], true)
}

// OrderByDescendingAwait is OrderByDescending with a key selector that returns a future.
func OrderByDescendingAwait[T any, K constraints.Ordered](src Enumerable[T], key func(T) *future.Future[K]) *OrderedSequence[T] {
	return orderBy(src, awaitSelector("keySelector", key), cmp.Compare[K], true)
}

// OrderByDescendingAwaitWithCancellation is OrderByDescendingAwait with the
// enumeration context passed to the key selector.
func OrderByDescendingAwaitWithCancellation[T any, K constraints.Ordered](src Enumerable[T], key func(context.Context, T) *future.Future[K]) *OrderedSequence[T] {
	return orderBy(src, awaitCtxSelector("keySelector", key), cmp.Compare[K], true)
}

// OrderByFunc sorts ascending by key using compare, which returns a negative
// number, zero or a positive number like cmp.Compare.
func OrderByFunc[T, K any](src Enumerable[T], key func(T) K, compare func(a, b K) int) *OrderedSequence[T] {
	return orderBy(src, syncSelector("keySelector", key), compare, false)
}

// OrderByDescendingFunc is OrderByFunc in descending order.
func OrderByDescendingFunc[T, K any](src Enumerable[T], key func(T) K, compare func(a, b K) int) *OrderedSequence[T] {
	return orderBy(src, syncSelector("keySelector", key), compare, true)
}

// ThenBy breaks ties of the previous ordering ascending by key.
func ThenBy[T any, K constraints.Ordered](src *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return thenBy(src, syncSelector("keySelector", key), cmp.Compare[K], false)
}

// ThenByAwait is ThenBy with a key selector that returns a future.
func ThenByAwait[T any, K constraints.Ordered](src *OrderedSequence[T], key func(T) *future.Future[K]) *OrderedSequence[T] {
	return thenBy(src, awaitSelector("keySelector", key), cmp.Compare[K], false)
}

// ThenByAwaitWithCancellation is ThenByAwait with the enumeration context
// passed to the key selector.
func ThenByAwaitWithCancellation[T any, K constraints.Ordered](src *OrderedSequence[T], key func(context.Context, T) *future.Future[K]) *OrderedSequence[T] {
	return thenBy(src, awaitCtxSelector("keySelector", key), cmp.Compare[K], false)
}

// ThenByDescending breaks ties of the previous ordering descending by key.
func ThenByDescending[T any, K constraints.Ordered](src *OrderedSequence[T], key func(T) K) *OrderedSequence[T] {
	return thenBy(src, syncSelector("keySelector", key), cmp.Compare[K], true)
}

// ThenByDescendingAwait is ThenByDescending with a key selector that returns a future.
func ThenByDescendingAwait[T any, K constraints.Ordered](src *OrderedSequence[T], key func(T) *future.Future[K]) *OrderedSequence[T] {
	return thenBy(src, awaitSelector("keySelector", key), cmp.Compare[K], true)
}

// ThenByDescendingAwaitWithCancellation is ThenByDescendingAwait with the
// enumeration context passed to the key selector.
func ThenByDescendingAwaitWithCancellation[T any, K constraints.Ordered](src *OrderedSequence[T], key func(context.Context, T) *future.Future[K]) *OrderedSequence[T] {
	return thenBy(src, awaitCtxSelector("keySelector", key), cmp.Compare[K], true)
}

// ThenByFunc breaks ties ascending by key using compare.
func ThenByFunc[T, K any](src *OrderedSequence[T], key func(T) K, compare func(a, b K) int) *OrderedSequence[T] {
	return thenBy(src, syncSelector("keySelector", key), compare, false)
}

// ThenByDescendingFunc breaks ties descending by key using compare.
func ThenByDescendingFunc[T, K any](src *OrderedSequence[T], key func(T) K, compare func(a, b K) int) *OrderedSequence[T] {
	return thenBy(src, syncSelector("keySelector", key), compare, true)
}

type orderedIter[T any] struct {
	cursor[T]
	seq *OrderedSequence[T]

	buffer []T
	perm   []int
	sorted bool
	pos    int
}

func (it *orderedIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	if !it.sorted {
		buf, err := materialize(it.ctx, it.seq.source)
		if err != nil {
			return it.finish(err)
		}
		it.sorted = true
		if len(buf) == 0 {
			return it.finish(nil)
		}
		perm, err := sortedPermutation(it.ctx, it.seq.buildSorter(), buf)
		if err != nil {
			return it.finish(err)
		}
		it.buffer, it.perm = buf, perm
	}
	if it.pos >= len(it.perm) {
		return it.finish(nil)
	}
	val := it.buffer[it.perm[it.pos]]
	it.pos++
	return it.yield(val)
}

// Dispose drops the buffered elements. The source enumerator is disposed as
// soon as buffering completes.
func (it *orderedIter[T]) Dispose() error {
	it.release()
	it.buffer, it.perm = nil, nil
	return nil
}
