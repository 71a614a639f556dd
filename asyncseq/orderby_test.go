package asyncseq

import (
	"cmp"
	"context"
	"errors"
	"strings"
	"testing"

	gocmp "github.com/google/go-cmp/cmp"

	"github.com/kbukum/asyncq/future"
)

type person struct {
	Name string
	Age  int
}

var people = []person{
	{"dave", 30},
	{"amy", 25},
	{"carl", 30},
	{"bea", 25},
	{"eve", 40},
}

func names(ps []person) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func age(p person) int { return p.Age }
func name(p person) string { return p.Name }
func nameLen(p person) int { return len(p.Name) }

func TestOrderBy_Stable(t *testing.T) {
	got := mustCollect[person](t, OrderBy(FromSlice(people), age))
	want := []string{"amy", "bea", "dave", "carl", "eve"}
	if diff := gocmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderByDescending_Stable(t *testing.T) {
	got := mustCollect[person](t, OrderByDescending(FromSlice(people), age))
	want := []string{"eve", "dave", "carl", "amy", "bea"}
	if diff := gocmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestThenBy(t *testing.T) {
	got := mustCollect[person](t, ThenBy(OrderBy(FromSlice(people), age), name))
	want := []string{"amy", "bea", "carl", "dave", "eve"}
	if diff := gocmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestThenByDescending(t *testing.T) {
	got := mustCollect[person](t, ThenByDescending(OrderByDescending(FromSlice(people), age), name))
	want := []string{"eve", "dave", "carl", "bea", "amy"}
	if diff := gocmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestThenBy_ThreeLevels(t *testing.T) {
	seq := ThenByDescending(ThenBy(OrderBy(FromSlice(people), nameLen), age), name)
	got := mustCollect[person](t, seq)
	want := []string{"bea", "amy", "eve", "dave", "carl"}
	if diff := gocmp.Diff(want, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderByFunc(t *testing.T) {
	seq := OrderByFunc(FromSlice([]string{"b", "C", "a"}), func(s string) string { return s }, func(a, b string) int {
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	})
	got := mustCollect[string](t, seq)
	if diff := gocmp.Diff([]string{"a", "b", "C"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderByDescendingFunc(t *testing.T) {
	seq := OrderByDescendingFunc(FromSlice(people), age, cmp.Compare[int])
	got := mustCollect[person](t, seq)
	if got[0].Name != "eve" {
		t.Errorf("expected eve first, got %v", names(got))
	}
}

func TestThenByFuncAndDescendingFunc(t *testing.T) {
	byLen := func(a, b string) int { return cmp.Compare(len(a), len(b)) }
	asc := mustCollect[person](t, ThenByFunc(OrderBy(FromSlice(people), age), name, byLen))
	if diff := gocmp.Diff([]string{"amy", "bea", "dave", "carl", "eve"}, names(asc)); diff != "" {
		t.Errorf("ThenByFunc mismatch (-want +got):\n%s", diff)
	}
	desc := mustCollect[person](t, ThenByDescendingFunc(OrderBy(FromSlice(people), age), name, cmp.Compare[string]))
	if diff := gocmp.Diff([]string{"bea", "amy", "dave", "carl", "eve"}, names(desc)); diff != "" {
		t.Errorf("ThenByDescendingFunc mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderByAwait(t *testing.T) {
	seq := OrderByAwait(FromSlice([]int{3, 1, 2}), func(v int) *future.Future[int] {
		return future.Go(context.Background(), func(_ context.Context) (int, error) { return v, nil })
	})
	got := mustCollect[int](t, seq)
	if diff := gocmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderByAwaitWithCancellation_KeyError(t *testing.T) {
	boom := errors.New("boom")
	seq := OrderByAwaitWithCancellation(FromSlice([]int{3, 1}), func(context.Context, int) *future.Future[int] {
		return future.FromError[int](boom)
	})
	if _, err := Collect[int](context.Background(), seq); !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestOrderByDescendingAwaitVariants(t *testing.T) {
	key := func(v int) *future.Future[int] { return future.FromValue(v) }
	keyCtx := func(_ context.Context, v int) *future.Future[int] { return future.FromValue(v) }

	a := mustCollect[int](t, OrderByDescendingAwait(FromSlice([]int{1, 3, 2}), key))
	b := mustCollect[int](t, OrderByDescendingAwaitWithCancellation(FromSlice([]int{1, 3, 2}), keyCtx))
	for _, got := range [][]int{a, b} {
		if diff := gocmp.Diff([]int{3, 2, 1}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestThenByAwaitVariants(t *testing.T) {
	nameKey := func(p person) *future.Future[string] { return future.FromValue(p.Name) }
	nameCtxKey := func(_ context.Context, p person) *future.Future[string] { return future.FromValue(p.Name) }

	tests := []struct {
		name string
		seq  *OrderedSequence[person]
		want []string
	}{
		{"ThenByAwait", ThenByAwait(OrderBy(FromSlice(people), age), nameKey), []string{"amy", "bea", "carl", "dave", "eve"}},
		{"ThenByAwaitWithCancellation", ThenByAwaitWithCancellation(OrderBy(FromSlice(people), age), nameCtxKey), []string{"amy", "bea", "carl", "dave", "eve"}},
		{"ThenByDescendingAwait", ThenByDescendingAwait(OrderBy(FromSlice(people), age), nameKey), []string{"bea", "amy", "dave", "carl", "eve"}},
		{"ThenByDescendingAwaitWithCancellation", ThenByDescendingAwaitWithCancellation(OrderBy(FromSlice(people), age), nameCtxKey), []string{"bea", "amy", "dave", "carl", "eve"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustCollect[person](t, tt.seq)
			if diff := gocmp.Diff(tt.want, names(got)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOrderBy_EmptySource(t *testing.T) {
	called := false
	seq := OrderBy(Empty[int](), func(v int) int {
		called = true
		return v
	})
	if got := mustCollect[int](t, seq); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
	if called {
		t.Error("key selector must not run for an empty source")
	}
}

func TestOrderBy_BuffersThenDisposesSource(t *testing.T) {
	spy := newSpy(2, 1)
	e := OrderBy[int, int](spy, func(v int) int { return v }).Enumerator(context.Background())
	defer e.Dispose()
	if ok, err := e.MoveNext(); !ok || err != nil {
		t.Fatalf("MoveNext = (%v, %v)", ok, err)
	}
	if e.Current() != 1 {
		t.Errorf("got %d, want 1", e.Current())
	}
	if spy.disposals != 1 {
		t.Errorf("expected source disposed after buffering, got %d", spy.disposals)
	}
}

func TestOrderBy_ThenByDoesNotAffectParent(t *testing.T) {
	primary := OrderBy(FromSlice(people), age)
	_ = ThenByDescending(primary, name)
	got := mustCollect[person](t, primary)
	if diff := gocmp.Diff([]string{"amy", "bea", "dave", "carl", "eve"}, names(got)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
