package asyncseq

import (
	"context"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
	"github.com/kbukum/asyncq/validation"
)

// SelectMany maps each element to a sequence and flattens the results.
func SelectMany[T, R any](src Enumerable[T], collection func(T) Enumerable[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany[T, R, R](src, syncSelector("collectionSelector", collection), keepInner[T, R])
}

// SelectManyAwait is SelectMany with a collection selector that returns a future.
func SelectManyAwait[T, R any](src Enumerable[T], collection func(T) *future.Future[Enumerable[R]]) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany[T, R, R](src, awaitSelector("collectionSelector", collection), keepInner[T, R])
}

// SelectManyAwaitWithCancellation is SelectManyAwait with the enumeration
// context passed to the collection selector.
func SelectManyAwaitWithCancellation[T, R any](src Enumerable[T], collection func(context.Context, T) *future.Future[Enumerable[R]]) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany[T, R, R](src, awaitCtxSelector("collectionSelector", collection), keepInner[T, R])
}

// SelectManyResult flattens like SelectMany and combines every outer element
// with each of its inner elements through result.
func SelectManyResult[T, C, R any](src Enumerable[T], collection func(T) Enumerable[C], result func(T, C) R) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany(src, syncSelector("collectionSelector", collection), syncBinary("resultSelector", result))
}

// SelectManyResultAwait is SelectManyResult with selectors that return futures.
func SelectManyResultAwait[T, C, R any](src Enumerable[T], collection func(T) *future.Future[Enumerable[C]], result func(T, C) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany(src, awaitSelector("collectionSelector", collection), awaitBinary("resultSelector", result))
}

// SelectManyResultAwaitWithCancellation is SelectManyResultAwait with the
// enumeration context passed to both selectors.
func SelectManyResultAwaitWithCancellation[T, C, R any](src Enumerable[T], collection func(context.Context, T) *future.Future[Enumerable[C]], result func(context.Context, T, C) *future.Future[R]) *Sequence[R] {
	requireArg("source", src)
	return newSelectMany(src, awaitCtxSelector("collectionSelector", collection), awaitCtxBinary("resultSelector", result))
}

func keepInner[T, R any](_ context.Context, _ T, inner R) (R, error) {
	return inner, nil
}

func newSelectMany[T, C, R any](src Enumerable[T], collection selectorFunc[T, Enumerable[C]], result binaryFunc[T, C, R]) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Enumerator[R] {
			return &selectManyIter[T, C, R]{
				cursor:     cursor[R]{ctx: ctx},
				source:     src.Enumerator(ctx),
				collection: collection,
				result:     result,
			}
		},
	}
}

type selectManyIter[T, C, R any] struct {
	cursor[R]
	source     Enumerator[T]
	collection selectorFunc[T, Enumerable[C]]
	result     binaryFunc[T, C, R]

	outer T
	inner Enumerator[C]
}

func (it *selectManyIter[T, C, R]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	for {
		if it.inner != nil {
			ok, err := it.inner.MoveNext()
			if err != nil {
				return it.finish(err)
			}
			if ok {
				out, err := it.result(it.ctx, it.outer, it.inner.Current())
				if err != nil {
					return it.finish(err)
				}
				return it.yield(out)
			}
			inner := it.inner
			it.inner = nil
			if err := inner.Dispose(); err != nil {
				return it.finish(err)
			}
		}

		ok, err := it.source.MoveNext()
		if err != nil || !ok {
			return it.finish(err)
		}
		it.outer = it.source.Current()
		seq, err := it.collection(it.ctx, it.outer)
		if err != nil {
			return it.finish(err)
		}
		if validation.IsNil(seq) {
			return it.finish(apperrors.Internal(nil).WithDetail("reason", "collection selector returned a nil sequence"))
		}
		it.inner = seq.Enumerator(it.ctx)
	}
}

// Dispose disposes the active inner enumerator, then the source.
func (it *selectManyIter[T, C, R]) Dispose() error {
	if !it.release() {
		return nil
	}
	inner := it.inner
	it.inner = nil
	return disposeAll(inner, it.source)
}
