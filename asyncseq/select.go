package asyncseq

import (
	"context"

	"github.com/kbukum/asyncq/future"
)

// Select transforms each element using selector.
func Select[T, R any](src Enumerable[T], selector func(T) R) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, ignoreIndex(syncSelector("selector", selector)), false)
}

// SelectAwait transforms each element using a selector that returns a future.
func SelectAwait[T, R any](src Enumerable[T], selector func(T) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, ignoreIndex(awaitSelector("selector", selector)), false)
}

// SelectAwaitWithCancellation is SelectAwait with the enumeration context passed
// to the selector.
func SelectAwaitWithCancellation[T, R any](src Enumerable[T], selector func(context.Context, T) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, ignoreIndex(awaitCtxSelector("selector", selector)), false)
}

// SelectIndexed transforms each element together with its zero-based position.
func SelectIndexed[T, R any](src Enumerable[T], selector func(T, int) R) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, syncIndexed("selector", selector), true)
}

// SelectIndexedAwait is SelectIndexed with a selector that returns a future.
func SelectIndexedAwait[T, R any](src Enumerable[T], selector func(T, int) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, awaitIndexed("selector", selector), true)
}

// SelectIndexedAwaitWithCancellation is SelectIndexedAwait with the enumeration
// context passed to the selector.
func SelectIndexedAwaitWithCancellation[T, R any](src Enumerable[T], selector func(context.Context, T, int) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelect(src, awaitCtxIndexed("selector", selector), true)
}

func newSelect[T, R any](src Enumerable[T], selector indexedFunc[T, R], indexed bool) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Enumerator[R] {
			return &selectIter[T, R]{
				cursor:   cursor[R]{ctx: ctx},
				source:   src.Enumerator(ctx),
				selector: selector,
				indexed:  indexed,
				index:    indexCounter{op: "select"},
			}
		},
	}
}

type selectIter[T, R any] struct {
	cursor[R]
	source   Enumerator[T]
	selector indexedFunc[T, R]
	indexed  bool
	index    indexCounter
}

func (it *selectIter[T, R]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	ok, err := it.source.MoveNext()
	if err != nil || !ok {
		return it.finish(err)
	}
	var i int
	if it.indexed {
		if i, err = it.index.take(); err != nil {
			return it.finish(err)
		}
	}
	out, err := it.selector(it.ctx, it.source.Current(), i)
	if err != nil {
		return it.finish(err)
	}
	return it.yield(out)
}

func (it *selectIter[T, R]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
