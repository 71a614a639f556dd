package asyncseq

import (
	"context"
	stderrors "errors"
)

// --- Terminals ---

// Collect runs the sequence and returns all values as a slice. On error the
// values gathered so far are returned alongside it.
func Collect[T any](ctx context.Context, src Enumerable[T]) ([]T, error) {
	requireArg("source", src)
	var result []T
	err := drain(ctx, src, func(v T) error {
		result = append(result, v)
		return nil
	})
	return result, err
}

// ForEach pulls all values and calls fn for each. An error from fn stops the
// enumeration and is returned.
func ForEach[T any](ctx context.Context, src Enumerable[T], fn func(context.Context, T) error) error {
	requireArg("source", src)
	requireArg("fn", fn)
	return drain(ctx, src, func(v T) error {
		return fn(ctx, v)
	})
}

// Drain runs the sequence to completion for its side effects.
func Drain[T any](ctx context.Context, src Enumerable[T]) error {
	requireArg("source", src)
	return drain(ctx, src, func(T) error { return nil })
}

// Count returns the number of elements in the sequence.
func Count[T any](ctx context.Context, src Enumerable[T]) (int, error) {
	requireArg("source", src)
	n := 0
	err := drain(ctx, src, func(T) error {
		n++
		return nil
	})
	return n, err
}

// Aggregate folds every element into an accumulator starting at seed.
func Aggregate[T, R any](ctx context.Context, src Enumerable[T], seed R, fn func(R, T) R) (R, error) {
	requireArg("source", src)
	requireArg("fn", fn)
	acc := seed
	err := drain(ctx, src, func(v T) error {
		acc = fn(acc, v)
		return nil
	})
	return acc, err
}

// drain enumerates src to completion, calling fn per element, and always
// disposes the enumerator.
func drain[T any](ctx context.Context, src Enumerable[T], fn func(T) error) (err error) {
	e := src.Enumerator(ctx)
	defer func() {
		err = joinErrors(err, e.Dispose())
	}()
	for {
		ok, err := e.MoveNext()
		if err != nil || !ok {
			return err
		}
		if err := fn(e.Current()); err != nil {
			return err
		}
	}
}

// materialize buffers the whole sequence.
func materialize[T any](ctx context.Context, src Enumerable[T]) ([]T, error) {
	var buf []T
	err := drain(ctx, src, func(v T) error {
		buf = append(buf, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// joinErrors joins the non-nil errors. A single error is returned as is so
// callers can still compare it directly.
func joinErrors(errs ...error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	default:
		return stderrors.Join(nonNil...)
	}
}
