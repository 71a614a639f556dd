package asyncseq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
)

func TestSelectMany(t *testing.T) {
	seq := SelectMany(FromSlice([]int{1, 2, 3}), func(v int) Enumerable[int] {
		return Range(0, v)
	})
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]int{0, 0, 1, 0, 1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMany_EmptyInners(t *testing.T) {
	seq := SelectMany(FromSlice([]int{0, 2, 0}), func(v int) Enumerable[int] {
		return Range(v, v)
	})
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]int{2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectManyAwait(t *testing.T) {
	seq := SelectManyAwait(FromSlice([]string{"ab", "c"}), func(s string) *future.Future[Enumerable[string]] {
		return future.FromValue[Enumerable[string]](FromSlice(strings.Split(s, "")))
	})
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectManyAwaitWithCancellation(t *testing.T) {
	seq := SelectManyAwaitWithCancellation(FromSlice([]int{2}), func(_ context.Context, v int) *future.Future[Enumerable[int]] {
		return future.FromValue[Enumerable[int]](FromSlice([]int{v, v}))
	})
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]int{2, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectManyResult(t *testing.T) {
	seq := SelectManyResult(
		FromSlice([]string{"x", "y"}),
		func(string) Enumerable[int] { return Range(1, 2) },
		func(s string, n int) string { return fmt.Sprintf("%s%d", s, n) },
	)
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]string{"x1", "x2", "y1", "y2"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectManyResultAwait(t *testing.T) {
	seq := SelectManyResultAwait(
		FromSlice([]int{10}),
		func(int) *future.Future[Enumerable[int]] { return future.FromValue[Enumerable[int]](Range(1, 2)) },
		func(a, b int) *future.Future[int] { return future.FromValue(a + b) },
	)
	got := mustCollect(t, seq)
	if diff := cmp.Diff([]int{11, 12}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectManyResultAwaitWithCancellation(t *testing.T) {
	boom := errors.New("boom")
	seq := SelectManyResultAwaitWithCancellation(
		FromSlice([]int{1}),
		func(context.Context, int) *future.Future[Enumerable[int]] {
			return future.FromValue[Enumerable[int]](Range(0, 3))
		},
		func(_ context.Context, _ int, inner int) *future.Future[int] {
			if inner == 1 {
				return future.FromError[int](boom)
			}
			return future.FromValue(inner)
		},
	)
	got, err := Collect(context.Background(), seq)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]int{0}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMany_DisposesExhaustedInners(t *testing.T) {
	var inners []*spySource[int]
	seq := SelectMany(FromSlice([]int{1, 2}), func(v int) Enumerable[int] {
		s := newSpy(v)
		inners = append(inners, s)
		return s
	})
	mustCollect(t, seq)
	for i, s := range inners {
		if s.disposals != 1 {
			t.Errorf("inner %d disposed %d times, want 1", i, s.disposals)
		}
	}
}

func TestSelectMany_DisposeOrder(t *testing.T) {
	var log []string
	outer := newSpy(1, 2)
	outer.name, outer.log = "outer", &log
	seq := SelectMany(outer, func(v int) Enumerable[int] {
		s := newSpy(v, v)
		s.name, s.log = fmt.Sprintf("inner-%d", v), &log
		return s
	})

	e := seq.Enumerator(context.Background())
	if ok, err := e.MoveNext(); !ok || err != nil {
		t.Fatalf("MoveNext = (%v, %v)", ok, err)
	}
	if err := e.Dispose(); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"dispose inner-1", "dispose outer"}, log); diff != "" {
		t.Errorf("dispose order mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMany_InnerDisposeErrorFaults(t *testing.T) {
	closeErr := errors.New("close failed")
	seq := SelectMany(FromSlice([]int{1, 2}), func(v int) Enumerable[int] {
		s := newSpy(v)
		s.disposeErr = closeErr
		return s
	})
	got, err := Collect(context.Background(), seq)
	if !errors.Is(err, closeErr) {
		t.Fatalf("expected dispose error, got %v", err)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectMany_NilInner(t *testing.T) {
	seq := SelectMany(FromSlice([]int{1}), func(int) Enumerable[int] { return nil })
	_, err := Collect(context.Background(), seq)
	if apperrors.CodeOf(err) != apperrors.ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}
