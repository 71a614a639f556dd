package asyncseq

import (
	"context"

	apperrors "github.com/kbukum/asyncq/errors"
)

// Chunk groups consecutive values into slices of size. The last slice holds
// the remainder and may be shorter.
func Chunk[T any](src Enumerable[T], size int) *Sequence[[]T] {
	requireArg("source", src)
	if size <= 0 {
		panic(apperrors.New(apperrors.ErrCodeInvalidArgument, "size must be positive").
			WithDetail("argument", "size").WithDetail("size", size))
	}
	return &Sequence[[]T]{
		create: func(ctx context.Context) Enumerator[[]T] {
			return &chunkIter[T]{
				cursor: cursor[[]T]{ctx: ctx},
				source: src.Enumerator(ctx),
				size:   size,
			}
		},
	}
}

type chunkIter[T any] struct {
	cursor[[]T]
	source Enumerator[T]
	size   int
}

func (it *chunkIter[T]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}

	var batch []T
	for len(batch) < it.size {
		ok, err := it.source.MoveNext()
		if err != nil {
			return it.finish(err)
		}
		if !ok {
			break
		}
		batch = append(batch, it.source.Current())
	}
	if len(batch) == 0 {
		return it.finish(nil)
	}
	return it.yield(batch)
}

func (it *chunkIter[T]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.source.Dispose()
}
