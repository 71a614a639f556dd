package asyncseq

import (
	"context"
)

// Concat joins sequences end to end. All values from the first sequence are
// yielded before the second, and so on. Each source is enumerated only when
// the previous one is exhausted.
func Concat[T any](seqs ...Enumerable[T]) *Sequence[T] {
	for _, s := range seqs {
		requireArg("sources", s)
	}
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &concatIter[T]{cursor: cursor[T]{ctx: ctx}, seqs: seqs}
		},
	}
}

// Tap calls fn as a side effect for each value, then passes the value through
// unchanged. An error from fn faults the advance.
func Tap[T any](src Enumerable[T], fn func(context.Context, T) error) *Sequence[T] {
	requireArg("source", src)
	requireArg("fn", fn)
	return &Sequence[T]{
		create: func(ctx context.Context) Enumerator[T] {
			return &tapIter[T]{cursor: cursor[T]{ctx: ctx}, source: src.Enumerator(ctx), fn: fn}
		},
	}
}

type concatIter[T any] struct {
	cursor[T]
	seqs    []Enumerable[T]
	index   int
	current Enumerator[T]
}

func (it *concatIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	for it.index < len(it.seqs) {
		if it.current == nil {
			it.current = it.seqs[it.index].Enumerator(it.ctx)
		}
		ok, err := it.current.MoveNext()
		if err != nil {
			return it.finish(err)
		}
		if ok {
			return it.yield(it.current.Current())
		}
		done := it.current
		it.current = nil
		it.index++
		if err := done.Dispose(); err != nil {
			return it.finish(err)
		}
	}
	return it.finish(nil)
}

func (it *concatIter[T]) Dispose() error {
	if !it.release() {
		return nil
	}
	current := it.current
	it.current = nil
	return disposeAll(current)
}

type tapIter[T any] struct {
	cursor[T]
	source Enumerator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	ok, err := it.source.MoveNext()
	if err != nil || !ok {
		return it.finish(err)
	}
	val := it.source.Current()
	if err := it.fn(it.ctx, val); err != nil {
		return it.finish(err)
	}
	return it.yield(val)
}

func (it *tapIter[T]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
