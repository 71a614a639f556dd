package asyncseq

import (
	"cmp"
	"context"

	"golang.org/x/exp/constraints"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
)

// Number is the element constraint for Sum and Average.
type Number interface {
	constraints.Integer | constraints.Float
}

// fold drains src, projecting each element through sel and folding it into acc.
func fold[T, V, A any](ctx context.Context, src Enumerable[T], sel selectorFunc[T, V], acc A, step func(A, V) A) (A, error) {
	return foldErr(ctx, src, sel, acc, func(a A, v V) (A, error) { return step(a, v), nil })
}

// foldErr is fold with a step that may fault.
func foldErr[T, V, A any](ctx context.Context, src Enumerable[T], sel selectorFunc[T, V], acc A, step func(A, V) (A, error)) (A, error) {
	err := drain(ctx, src, func(item T) error {
		v, err := sel(ctx, item)
		if err != nil {
			return err
		}
		acc, err = step(acc, v)
		return err
	})
	if err != nil {
		var zero A
		return zero, err
	}
	return acc, nil
}

// addChecked adds b to a and fails with OVERFLOW when an integer sum wraps.
// Float sums never move against the sign of b, so they pass unchecked.
func addChecked[N Number](a, b N) (N, error) {
	r := a + b
	if (b > 0 && r < a) || (b < 0 && r > a) {
		return a, apperrors.Overflow("sum").WithDetail("total", a).WithDetail("value", b)
	}
	return r, nil
}

func sumOf[T any, N Number](ctx context.Context, src Enumerable[T], sel selectorFunc[T, N]) (N, error) {
	return foldErr(ctx, src, sel, N(0), addChecked[N])
}

// sumNullableOf counts nil values as zero. The result is never nil.
func sumNullableOf[T any, N Number](ctx context.Context, src Enumerable[T], sel selectorFunc[T, *N]) (N, error) {
	return foldErr(ctx, src, sel, N(0), func(total N, v *N) (N, error) {
		if v == nil {
			return total, nil
		}
		return addChecked(total, *v)
	})
}

// extreme tracks the running Min or Max. Steps compare with cmp.Less, so a NaN
// wins every Min and loses every Max against a number, whatever its position.
type extreme[V any] struct {
	val V
	has bool
}

func minStep[V constraints.Ordered](acc extreme[V], v V) extreme[V] {
	if !acc.has || cmp.Less(v, acc.val) {
		return extreme[V]{val: v, has: true}
	}
	return acc
}

func maxStep[V constraints.Ordered](acc extreme[V], v V) extreme[V] {
	if !acc.has || cmp.Less(acc.val, v) {
		return extreme[V]{val: v, has: true}
	}
	return acc
}

// skipNil lifts a step over V into a step over *V that ignores nil values.
func skipNil[V any](step func(extreme[V], V) extreme[V]) func(extreme[V], *V) extreme[V] {
	return func(acc extreme[V], v *V) extreme[V] {
		if v == nil {
			return acc
		}
		return step(acc, *v)
	}
}

// extremeOf fails with NO_ELEMENTS on an empty sequence.
func extremeOf[T any, V constraints.Ordered](ctx context.Context, op string, src Enumerable[T], sel selectorFunc[T, V], step func(extreme[V], V) extreme[V]) (V, error) {
	r, err := fold(ctx, src, sel, extreme[V]{}, step)
	if err != nil {
		return r.val, err
	}
	if !r.has {
		return r.val, apperrors.NoElements(op)
	}
	return r.val, nil
}

// extremeNullableOf returns nil for an empty or all-nil sequence.
func extremeNullableOf[T any, V constraints.Ordered](ctx context.Context, src Enumerable[T], sel selectorFunc[T, *V], step func(extreme[V], V) extreme[V]) (*V, error) {
	r, err := fold(ctx, src, sel, extreme[V]{}, skipNil(step))
	if err != nil || !r.has {
		return nil, err
	}
	return &r.val, nil
}

type mean struct {
	sum   float64
	count int64
}

func (m mean) value() float64 { return m.sum / float64(m.count) }

// averageOf divides in floating point; an empty sequence yields NaN.
func averageOf[T any, N Number](ctx context.Context, src Enumerable[T], sel selectorFunc[T, N]) (float64, error) {
	m, err := fold(ctx, src, sel, mean{}, func(m mean, v N) mean {
		return mean{sum: m.sum + float64(v), count: m.count + 1}
	})
	if err != nil {
		return 0, err
	}
	return m.value(), nil
}

// averageNullableOf skips nil values and returns nil when none remain.
func averageNullableOf[T any, N Number](ctx context.Context, src Enumerable[T], sel selectorFunc[T, *N]) (*float64, error) {
	m, err := fold(ctx, src, sel, mean{}, func(m mean, v *N) mean {
		if v == nil {
			return m
		}
		return mean{sum: m.sum + float64(*v), count: m.count + 1}
	})
	if err != nil || m.count == 0 {
		return nil, err
	}
	avg := m.value()
	return &avg, nil
}

// Sum returns the sum of the elements; an empty sequence sums to zero.
func Sum[N Number](ctx context.Context, src Enumerable[N]) (N, error) {
	requireArg("source", src)
	return sumOf[N, N](ctx, src, identity[N])
}

// SumBy is Sum over selector(v).
func SumBy[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) N) (N, error) {
	requireArg("source", src)
	return sumOf(ctx, src, syncSelector("selector", selector))
}

// SumByAwait is SumBy with a selector that returns a future.
func SumByAwait[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return sumOf(ctx, src, awaitSelector("selector", selector))
}

// SumByAwaitWithCancellation is SumByAwait with ctx passed to the selector.
func SumByAwaitWithCancellation[T any, N Number](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return sumOf(ctx, src, awaitCtxSelector("selector", selector))
}

// SumNullable sums the non-nil elements. Nil counts as zero and the result is never nil.
func SumNullable[N Number](ctx context.Context, src Enumerable[*N]) (N, error) {
	requireArg("source", src)
	return sumNullableOf[*N, N](ctx, src, identity[*N])
}

// SumNullableBy is SumNullable over selector(v).
func SumNullableBy[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *N) (N, error) {
	requireArg("source", src)
	return sumNullableOf(ctx, src, syncSelector("selector", selector))
}

// SumNullableByAwait is SumNullableBy with a selector that returns a future.
func SumNullableByAwait[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[*N]) (N, error) {
	requireArg("source", src)
	return sumNullableOf(ctx, src, awaitSelector("selector", selector))
}

// SumNullableByAwaitWithCancellation is SumNullableByAwait with ctx passed to the selector.
func SumNullableByAwaitWithCancellation[T any, N Number](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[*N]) (N, error) {
	requireArg("source", src)
	return sumNullableOf(ctx, src, awaitCtxSelector("selector", selector))
}

// Min returns the smallest element. An empty sequence fails with NO_ELEMENTS.
func Min[N constraints.Ordered](ctx context.Context, src Enumerable[N]) (N, error) {
	requireArg("source", src)
	return extremeOf[N, N](ctx, "min", src, identity[N], minStep[N])
}

// MinBy is Min over selector(v).
func MinBy[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) N) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "min", src, syncSelector("selector", selector), minStep[N])
}

// MinByAwait is MinBy with a selector that returns a future.
func MinByAwait[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "min", src, awaitSelector("selector", selector), minStep[N])
}

// MinByAwaitWithCancellation is MinByAwait with ctx passed to the selector.
func MinByAwaitWithCancellation[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "min", src, awaitCtxSelector("selector", selector), minStep[N])
}

// MinNullable returns the smallest non-nil element, or nil when there is none.
func MinNullable[N constraints.Ordered](ctx context.Context, src Enumerable[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf[*N, N](ctx, src, identity[*N], minStep[N])
}

// MinNullableBy is MinNullable over selector(v).
func MinNullableBy[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *N) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, syncSelector("selector", selector), minStep[N])
}

// MinNullableByAwait is MinNullableBy with a selector that returns a future.
func MinNullableByAwait[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, awaitSelector("selector", selector), minStep[N])
}

// MinNullableByAwaitWithCancellation is MinNullableByAwait with ctx passed to the selector.
func MinNullableByAwaitWithCancellation[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, awaitCtxSelector("selector", selector), minStep[N])
}

// Max returns the largest element. An empty sequence fails with NO_ELEMENTS.
func Max[N constraints.Ordered](ctx context.Context, src Enumerable[N]) (N, error) {
	requireArg("source", src)
	return extremeOf[N, N](ctx, "max", src, identity[N], maxStep[N])
}

// MaxBy is Max over selector(v).
func MaxBy[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) N) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "max", src, syncSelector("selector", selector), maxStep[N])
}

// MaxByAwait is MaxBy with a selector that returns a future.
func MaxByAwait[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "max", src, awaitSelector("selector", selector), maxStep[N])
}

// MaxByAwaitWithCancellation is MaxByAwait with ctx passed to the selector.
func MaxByAwaitWithCancellation[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[N]) (N, error) {
	requireArg("source", src)
	return extremeOf(ctx, "max", src, awaitCtxSelector("selector", selector), maxStep[N])
}

// MaxNullable returns the largest non-nil element, or nil when there is none.
func MaxNullable[N constraints.Ordered](ctx context.Context, src Enumerable[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf[*N, N](ctx, src, identity[*N], maxStep[N])
}

// MaxNullableBy is MaxNullable over selector(v).
func MaxNullableBy[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *N) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, syncSelector("selector", selector), maxStep[N])
}

// MaxNullableByAwait is MaxNullableBy with a selector that returns a future.
func MaxNullableByAwait[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, awaitSelector("selector", selector), maxStep[N])
}

// MaxNullableByAwaitWithCancellation is MaxNullableByAwait with ctx passed to the selector.
func MaxNullableByAwaitWithCancellation[T any, N constraints.Ordered](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[*N]) (*N, error) {
	requireArg("source", src)
	return extremeNullableOf(ctx, src, awaitCtxSelector("selector", selector), maxStep[N])
}

// Average returns the arithmetic mean as float64. An empty sequence yields NaN
// (0/0), not an error.
func Average[N Number](ctx context.Context, src Enumerable[N]) (float64, error) {
	requireArg("source", src)
	return averageOf[N, N](ctx, src, identity[N])
}

// AverageBy is Average over selector(v).
func AverageBy[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) N) (float64, error) {
	requireArg("source", src)
	return averageOf(ctx, src, syncSelector("selector", selector))
}

// AverageByAwait is AverageBy with a selector that returns a future.
func AverageByAwait[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[N]) (float64, error) {
	requireArg("source", src)
	return averageOf(ctx, src, awaitSelector("selector", selector))
}

// AverageByAwaitWithCancellation is AverageByAwait with ctx passed to the selector.
func AverageByAwaitWithCancellation[T any, N Number](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[N]) (float64, error) {
	requireArg("source", src)
	return averageOf(ctx, src, awaitCtxSelector("selector", selector))
}

// AverageNullable averages the non-nil elements, returning nil when there is none.
func AverageNullable[N Number](ctx context.Context, src Enumerable[*N]) (*float64, error) {
	requireArg("source", src)
	return averageNullableOf[*N, N](ctx, src, identity[*N])
}

// AverageNullableBy is AverageNullable over selector(v).
func AverageNullableBy[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *N) (*float64, error) {
	requireArg("source", src)
	return averageNullableOf(ctx, src, syncSelector("selector", selector))
}

// AverageNullableByAwait is AverageNullableBy with a selector that returns a future.
func AverageNullableByAwait[T any, N Number](ctx context.Context, src Enumerable[T], selector func(T) *future.Future[*N]) (*float64, error) {
	requireArg("source", src)
	return averageNullableOf(ctx, src, awaitSelector("selector", selector))
}

// AverageNullableByAwaitWithCancellation is AverageNullableByAwait with ctx passed to the selector.
func AverageNullableByAwaitWithCancellation[T any, N Number](ctx context.Context, src Enumerable[T], selector func(context.Context, T) *future.Future[*N]) (*float64, error) {
	requireArg("source", src)
	return averageNullableOf(ctx, src, awaitCtxSelector("selector", selector))
}
