package asyncseq

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/kbukum/asyncq/errors"
)

// spySource is an Enumerable that records how it is used. Every enumerator it
// hands out yields items, then fails with err (nil for normal completion).
type spySource[T any] struct {
	name       string
	items      []T
	err        error
	disposeErr error
	log        *[]string

	created   int
	moves     int
	disposals int
}

func newSpy[T any](items ...T) *spySource[T] {
	return &spySource[T]{items: items}
}

func (s *spySource[T]) Enumerator(ctx context.Context) Enumerator[T] {
	s.created++
	return &spyIter[T]{src: s, ctx: ctx}
}

type spyIter[T any] struct {
	src *spySource[T]
	ctx context.Context
	pos int
	cur T
}

func (it *spyIter[T]) MoveNext() (bool, error) {
	it.src.moves++
	if err := it.ctx.Err(); err != nil {
		return false, err
	}
	if it.pos < len(it.src.items) {
		it.cur = it.src.items[it.pos]
		it.pos++
		return true, nil
	}
	return false, it.src.err
}

func (it *spyIter[T]) Current() T { return it.cur }

func (it *spyIter[T]) Dispose() error {
	it.src.disposals++
	if it.src.log != nil {
		*it.src.log = append(*it.src.log, fmt.Sprintf("dispose %s", it.src.name))
	}
	return it.src.disposeErr
}

func canceledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

func ptr[T any](v T) *T { return &v }

// mustPanicArg asserts fn panics with an INVALID_ARGUMENT error naming arg.
func mustPanicArg(t *testing.T, arg string, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("expected panic for nil %s", arg)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic value, got %T", r)
		}
		if !errors.Is(err, apperrors.ErrInvalidArgument) {
			t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
		}
		appErr, _ := apperrors.AsAppError(err)
		if appErr.Details["argument"] != arg {
			t.Errorf("expected argument %q, got %v", arg, appErr.Details["argument"])
		}
	}()
	fn()
}

func mustCollect[T any](t *testing.T, src Enumerable[T]) []T {
	t.Helper()
	got, err := Collect(context.Background(), src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return got
}
