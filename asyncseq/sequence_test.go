package asyncseq

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
	"github.com/kbukum/asyncq/logger"
)

func TestFromSlice_Collect(t *testing.T) {
	got := mustCollect[int](t, FromSlice([]int{1, 2, 3}))
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestEmpty(t *testing.T) {
	if got := mustCollect[int](t, Empty[int]()); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestReturn(t *testing.T) {
	got := mustCollect[string](t, Return("x"))
	if diff := cmp.Diff([]string{"x"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestRange(t *testing.T) {
	got := mustCollect[int](t, Range(3, 4))
	if diff := cmp.Diff([]int{3, 4, 5, 6}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if got := mustCollect[int](t, Range(10, 0)); len(got) != 0 {
		t.Errorf("expected empty range, got %v", got)
	}
}

func TestRange_NegativeCountPanics(t *testing.T) {
	mustPanicArg(t, "count", func() { Range(0, -1) })
}

func TestFromFunc(t *testing.T) {
	n := 0
	seq := FromFunc(func(_ context.Context) (int, bool, error) {
		if n == 3 {
			return 0, false, nil
		}
		n++
		return n, true, nil
	})
	got := mustCollect[int](t, seq)
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFunc_Error(t *testing.T) {
	boom := errors.New("boom")
	seq := FromFunc(func(_ context.Context) (int, bool, error) {
		return 0, false, boom
	})
	if _, err := Collect(context.Background(), seq); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestFromFuture(t *testing.T) {
	f := future.New[string]()
	go func() {
		time.Sleep(5 * time.Millisecond)
		f.Resolve("late")
	}()
	got := mustCollect[string](t, FromFuture(f))
	if diff := cmp.Diff([]string{"late"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFuture_Rejected(t *testing.T) {
	boom := errors.New("boom")
	_, err := Collect(context.Background(), FromFuture(future.FromError[int](boom)))
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	spy := newSpy(1, 2)
	seq := Create(func(ctx context.Context) Enumerator[int] {
		return spy.Enumerator(ctx)
	})
	got := mustCollect[int](t, seq)
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if spy.disposals != 1 {
		t.Errorf("expected 1 disposal, got %d", spy.disposals)
	}
}

func TestSequence_IsReusable(t *testing.T) {
	seq := Select(FromSlice([]int{1, 2}), func(v int) int { return v + 1 })
	first := mustCollect[int](t, seq)
	second := mustCollect[int](t, seq)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("independent enumerations differ (-first +second):\n%s", diff)
	}
}

func TestSequence_IsLazy(t *testing.T) {
	spy := newSpy(1, 2, 3)
	seq := Where(Select(spy, func(v int) int { return v * 2 }), func(v int) bool { return v > 2 })
	if spy.created != 0 {
		t.Fatalf("building a query must not enumerate, created=%d", spy.created)
	}
	e := seq.Enumerator(context.Background())
	if spy.moves != 0 {
		t.Errorf("creating an enumerator must not advance, moves=%d", spy.moves)
	}
	_ = e.Dispose()
}

func TestEnumerator_NoResurrection(t *testing.T) {
	e := FromSlice([]int{1}).Enumerator(context.Background())
	defer e.Dispose()

	if ok, err := e.MoveNext(); !ok || err != nil {
		t.Fatalf("first MoveNext = (%v, %v)", ok, err)
	}
	for i := 0; i < 3; i++ {
		if ok, err := e.MoveNext(); ok || err != nil {
			t.Errorf("MoveNext after end = (%v, %v), want (false, nil)", ok, err)
		}
	}
}

func TestEnumerator_AfterErrorStaysFinished(t *testing.T) {
	boom := errors.New("boom")
	spy := newSpy(1)
	spy.err = boom
	e := Select(spy, strconv.Itoa).Enumerator(context.Background())
	defer e.Dispose()

	if ok, err := e.MoveNext(); !ok || err != nil {
		t.Fatalf("first MoveNext = (%v, %v)", ok, err)
	}
	if _, err := e.MoveNext(); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if ok, err := e.MoveNext(); ok || err != nil {
		t.Errorf("MoveNext after fault = (%v, %v), want (false, nil)", ok, err)
	}
	if spy.moves != 2 {
		t.Errorf("upstream must not be polled after fault, moves=%d", spy.moves)
	}
}

func TestEnumerator_DisposeIdempotent(t *testing.T) {
	spy := newSpy(1, 2)
	e := Select(spy, func(v int) int { return v }).Enumerator(context.Background())
	if _, err := e.MoveNext(); err != nil {
		t.Fatal(err)
	}
	if err := e.Dispose(); err != nil {
		t.Fatal(err)
	}
	if err := e.Dispose(); err != nil {
		t.Fatal(err)
	}
	if spy.disposals != 1 {
		t.Errorf("expected upstream disposed once, got %d", spy.disposals)
	}
	if ok, err := e.MoveNext(); ok || err != nil {
		t.Errorf("MoveNext after Dispose = (%v, %v), want (false, nil)", ok, err)
	}
	if e.Current() != 0 {
		t.Errorf("Current after Dispose = %d, want zero", e.Current())
	}
}

func TestEnumerator_CanceledContext(t *testing.T) {
	spy := newSpy(1, 2, 3)
	e := Select(spy, func(v int) int { return v }).Enumerator(canceledContext())
	defer e.Dispose()

	ok, err := e.MoveNext()
	if ok {
		t.Fatal("expected MoveNext to fail")
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("expected CANCELED, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected errors.Is(err, context.Canceled), got %v", err)
	}
	if spy.moves != 0 {
		t.Errorf("no upstream work expected, moves=%d", spy.moves)
	}
}

func TestEnumerator_NilContextPanics(t *testing.T) {
	var ctx context.Context
	mustPanicArg(t, "ctx", func() { FromSlice([]int{1}).Enumerator(ctx) })
}

func TestCollect_PartialResultOnError(t *testing.T) {
	boom := errors.New("boom")
	spy := newSpy(1, 2)
	spy.err = boom
	got, err := Collect[int](context.Background(), spy)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if spy.disposals != 1 {
		t.Errorf("expected 1 disposal, got %d", spy.disposals)
	}
}

func TestCollect_DisposeErrorReported(t *testing.T) {
	closeErr := errors.New("close failed")
	spy := newSpy(1)
	spy.disposeErr = closeErr
	if _, err := Collect[int](context.Background(), spy); !errors.Is(err, closeErr) {
		t.Errorf("expected dispose error, got %v", err)
	}
}

func TestForEach_StopsOnError(t *testing.T) {
	stop := errors.New("stop")
	spy := newSpy(1, 2, 3)
	var seen []int
	err := ForEach[int](context.Background(), spy, func(_ context.Context, v int) error {
		seen = append(seen, v)
		if v == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop, got %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if spy.disposals != 1 {
		t.Errorf("expected 1 disposal, got %d", spy.disposals)
	}
}

func TestDrain(t *testing.T) {
	spy := newSpy(1, 2, 3)
	if err := Drain[int](context.Background(), spy); err != nil {
		t.Fatal(err)
	}
	if spy.moves != 4 || spy.disposals != 1 {
		t.Errorf("expected 4 moves and 1 disposal, got %d and %d", spy.moves, spy.disposals)
	}
}

func TestCount(t *testing.T) {
	n, err := Count[int](context.Background(), Range(0, 7))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 {
		t.Errorf("got %d, want 7", n)
	}
}

func TestAggregate(t *testing.T) {
	got, err := Aggregate[string](context.Background(), FromSlice([]string{"a", "b", "c"}), "", func(acc string, v string) string {
		return acc + v
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}

// cursorUnderTest is the part of Enumerator shared by every operator output.
type cursorUnderTest interface {
	MoveNext() (bool, error)
	Dispose() error
}

func opened[T any](s Enumerable[T]) func(context.Context) cursorUnderTest {
	return func(ctx context.Context) cursorUnderTest { return s.Enumerator(ctx) }
}

func operatorsOver(src Enumerable[int]) []struct {
	name string
	open func(context.Context) cursorUnderTest
} {
	id := func(v int) int { return v }
	others := FromSlice([]int{1, 2})
	return []struct {
		name string
		open func(context.Context) cursorUnderTest
	}{
		{"Select", opened(Select(src, id))},
		{"SelectIndexed", opened(SelectIndexed(src, func(v, _ int) int { return v }))},
		{"Where", opened(Where(src, func(int) bool { return true }))},
		{"DistinctUntilChanged", opened(DistinctUntilChanged(src))},
		{"SelectMany", opened(SelectMany(src, func(v int) Enumerable[int] { return Return(v) }))},
		{"GroupBy", opened(GroupBy(src, id))},
		{"Join", opened(Join(src, others, id, id, func(a, b int) int { return a + b }))},
		{"GroupJoin", opened(GroupJoin(src, others, id, id, func(a int, _ []int) int { return a }))},
		{"OrderBy", opened(OrderBy(src, id))},
		{"ThenBy", opened(ThenBy(OrderByDescending(src, id), id))},
		{"Concat", opened(Concat(src, others))},
		{"Tap", opened(Tap(src, func(context.Context, int) error { return nil }))},
		{"Chunk", opened(Chunk(src, 3))},
		{"Log", opened(Log(src, logger.Nop(), "spy"))},
	}
}

func TestOperators_DisposeUpstreamOnceAfterFault(t *testing.T) {
	boom := errors.New("boom")
	for _, tc := range operatorsOver(newSpy[int]()) {
		t.Run(tc.name, func(t *testing.T) {
			spy := newSpy(1, 2)
			spy.err = boom
			var e cursorUnderTest
			for _, op := range operatorsOver(spy) {
				if op.name == tc.name {
					e = op.open(context.Background())
				}
			}

			var err error
			for i := 0; i < 10; i++ {
				var ok bool
				if ok, err = e.MoveNext(); err != nil || !ok {
					break
				}
			}
			if !errors.Is(err, boom) {
				t.Fatalf("expected upstream fault, got %v", err)
			}
			if ok, err := e.MoveNext(); ok || err != nil {
				t.Errorf("MoveNext after fault = (%v, %v), want (false, nil)", ok, err)
			}

			e.Dispose()
			e.Dispose()
			if spy.created != 1 {
				t.Errorf("expected one upstream enumerator, got %d", spy.created)
			}
			if spy.disposals != 1 {
				t.Errorf("expected upstream disposed once, got %d", spy.disposals)
			}
		})
	}
}

func TestOperators_CanceledContextDoesNoUpstreamWork(t *testing.T) {
	for _, tc := range operatorsOver(newSpy[int]()) {
		t.Run(tc.name, func(t *testing.T) {
			spy := newSpy(1, 2, 3)
			var e cursorUnderTest
			for _, op := range operatorsOver(spy) {
				if op.name == tc.name {
					e = op.open(canceledContext())
				}
			}

			ok, err := e.MoveNext()
			if ok || !apperrors.IsCanceled(err) {
				t.Fatalf("MoveNext = (%v, %v), want (false, CANCELED)", ok, err)
			}
			if spy.moves != 0 {
				t.Errorf("no upstream work expected, moves=%d", spy.moves)
			}
			e.Dispose()
			if spy.disposals != spy.created {
				t.Errorf("created %d upstream enumerators but disposed %d", spy.created, spy.disposals)
			}
		})
	}
}
