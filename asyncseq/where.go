package asyncseq

import (
	"context"

	"github.com/kbukum/asyncq/future"
)

// Where keeps only elements that satisfy predicate.
func Where[T any](src Enumerable[T], predicate func(T) bool) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, ignoreIndex(syncSelector("predicate", predicate)), false)
}

// WhereAwait keeps only elements whose predicate future resolves to true.
func WhereAwait[T any](src Enumerable[T], predicate func(T) *future.Future[bool]) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, ignoreIndex(awaitSelector("predicate", predicate)), false)
}

// WhereAwaitWithCancellation is WhereAwait with the enumeration context passed
// to the predicate.
func WhereAwaitWithCancellation[T any](src Enumerable[T], predicate func(context.Context, T) *future.Future[bool]) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, ignoreIndex(awaitCtxSelector("predicate", predicate)), false)
}

// WhereIndexed filters with a predicate that also receives the element's
// position among all upstream elements, kept or not.
func WhereIndexed[T any](src Enumerable[T], predicate func(T, int) bool) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, syncIndexed("predicate", predicate), true)
}

// WhereIndexedAwait is WhereIndexed with a predicate that returns a future.
func WhereIndexedAwait[T any](src Enumerable[T], predicate func(T, int) *future.Future[bool]) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, awaitIndexed("predicate", predicate), true)
}

// WhereIndexedAwaitWithCancellation is WhereIndexedAwait with the enumeration
// context passed to the predicate.
func WhereIndexedAwaitWithCancellation[T any](src Enumerable[T], predicate func(context.Context, T, int) *future.Future[bool]) *Sequence[T] {
	requireArg("source", src)
	return newWhere(src, awaitCtxIndexed("predicate", predicate), true)
}

func newWhere[T any](src Enumerable[T], predicate indexedFunc[T, bool], indexed bool) *Sequence[T] {
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &whereIter[T]{
				cursor:    cursor[T]{ctx: ctx},
				source:    src.Enumerator(ctx),
				predicate: predicate,
				indexed:   indexed,
				index:     indexCounter{op: "where"},
			}
		},
	}
}

type whereIter[T any] struct {
	cursor[T]
	source    Enumerator[T]
	predicate indexedFunc[T, bool]
	indexed   bool
	index     indexCounter
}

func (it *whereIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	for {
		ok, err := it.source.MoveNext()
		if err != nil || !ok {
			return it.finish(err)
		}
		val := it.source.Current()
		var i int
		if it.indexed {
			if i, err = it.index.take(); err != nil {
				return it.finish(err)
			}
		}
		keep, err := it.predicate(it.ctx, val, i)
		if err != nil {
			return it.finish(err)
		}
		if keep {
			return it.yield(val)
		}
	}
}

func (it *whereIter[T]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
