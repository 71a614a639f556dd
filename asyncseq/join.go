package asyncseq

import (
	"context"
	"slices"

	"github.com/kbukum/asyncq/future"
)

// Join correlates outer and inner elements with equal keys and yields
// result(outer, inner) for every matching pair. The inner sequence is drained
// into a lookup on the first MoveNext; the outer sequence is then streamed.
func Join[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(O) K, innerKey func(I) K, result func(O, I) R) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newJoin(outer, inner, syncSelector("outerKeySelector", outerKey), syncSelector("innerKeySelector", innerKey), syncBinary("resultSelector", result))
}

// JoinAwait is Join with selectors that return futures.
func JoinAwait[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(O) *future.Future[K], innerKey func(I) *future.Future[K], result func(O, I) *future.Future[R]) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newJoin(outer, inner, awaitSelector("outerKeySelector", outerKey), awaitSelector("innerKeySelector", innerKey), awaitBinary("resultSelector", result))
}

// JoinAwaitWithCancellation is JoinAwait with the enumeration context passed to
// every selector.
func JoinAwaitWithCancellation[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(context.Context, O) *future.Future[K], innerKey func(context.Context, I) *future.Future[K], result func(context.Context, O, I) *future.Future[R]) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newJoin(outer, inner, awaitCtxSelector("outerKeySelector", outerKey), awaitCtxSelector("innerKeySelector", innerKey), awaitCtxBinary("resultSelector", result))
}

// GroupJoin yields result(outer, matches) once per outer element, where
// matches holds every inner element with an equal key (possibly none).
func GroupJoin[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(O) K, innerKey func(I) K, result func(O, []I) R) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newGroupJoin(outer, inner, syncSelector("outerKeySelector", outerKey), syncSelector("innerKeySelector", innerKey), syncBinary("resultSelector", result))
}

// GroupJoinAwait is GroupJoin with selectors that return futures.
func GroupJoinAwait[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(O) *future.Future[K], innerKey func(I) *future.Future[K], result func(O, []I) *future.Future[R]) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newGroupJoin(outer, inner, awaitSelector("outerKeySelector", outerKey), awaitSelector("innerKeySelector", innerKey), awaitBinary("resultSelector", result))
}

// GroupJoinAwaitWithCancellation is GroupJoinAwait with the enumeration context
// passed to every selector.
func GroupJoinAwaitWithCancellation[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey func(context.Context, O) *future.Future[K], innerKey func(context.Context, I) *future.Future[K], result func(context.Context, O, []I) *future.Future[R]) *Sequence[R] {
	requireArg("outer", outer)
	requireArg("inner", inner)
	return newGroupJoin(outer, inner, awaitCtxSelector("outerKeySelector", outerKey), awaitCtxSelector("innerKeySelector", innerKey), awaitCtxBinary("resultSelector", result))
}

// joinState holds what Join and GroupJoin share: the lazily built inner
// lookup and the streamed outer enumerator.
type joinState[O, I any, K comparable] struct {
	outer    Enumerable[O]
	inner    Enumerable[I]
	outerKey selectorFunc[O, K]
	innerKey selectorFunc[I, K]

	lookup *Lookup[K, I]
	source Enumerator[O]
}

// nextOuter builds the lookup on first use and advances the outer sequence,
// returning the next outer element and its matches.
func (s *joinState[O, I, K]) nextOuter(ctx context.Context) (O, []I, bool, error) {
	var zero O
	if s.lookup == nil {
		lookup, err := buildLookup[I, K, I](ctx, s.inner, s.innerKey, identity[I])
		if err != nil {
			return zero, nil, false, err
		}
		s.lookup = lookup
		s.source = s.outer.Enumerator(ctx)
	}
	ok, err := s.source.MoveNext()
	if err != nil || !ok {
		return zero, nil, false, err
	}
	item := s.source.Current()
	k, err := s.outerKey(ctx, item)
	if err != nil {
		return zero, nil, false, err
	}
	return item, s.lookup.values(k), true, nil
}

func (s *joinState[O, I, K]) dispose() error {
	s.lookup = nil
	source := s.source
	s.source = nil
	return disposeAll(source)
}

func newJoin[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey selectorFunc[O, K], innerKey selectorFunc[I, K], result binaryFunc[O, I, R]) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Enumerator[R] {
			return &joinIter[O, I, K, R]{
				cursor: cursor[R]{ctx: ctx},
				state:  joinState[O, I, K]{outer: outer, inner: inner, outerKey: outerKey, innerKey: innerKey},
				result: result,
			}
		},
	}
}

type joinIter[O, I any, K comparable, R any] struct {
	cursor[R]
	state  joinState[O, I, K]
	result binaryFunc[O, I, R]

	item    O
	matches []I
	pos     int
}

func (it *joinIter[O, I, K, R]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	for it.pos >= len(it.matches) {
		item, matches, ok, err := it.state.nextOuter(it.ctx)
		if err != nil || !ok {
			return it.finish(err)
		}
		it.item, it.matches, it.pos = item, matches, 0
	}
	match := it.matches[it.pos]
	it.pos++
	out, err := it.result(it.ctx, it.item, match)
	if err != nil {
		return it.finish(err)
	}
	return it.yield(out)
}

func (it *joinIter[O, I, K, R]) Dispose() error {
	if !it.release() {
		return nil
	}
	it.matches = nil
	return it.state.dispose()
}

func newGroupJoin[O, I any, K comparable, R any](outer Enumerable[O], inner Enumerable[I], outerKey selectorFunc[O, K], innerKey selectorFunc[I, K], result binaryFunc[O, []I, R]) *Sequence[R] {
	return &Sequence[R]{
		create: func(ctx context.Context) Enumerator[R] {
			return &groupJoinIter[O, I, K, R]{
				cursor: cursor[R]{ctx: ctx},
				state:  joinState[O, I, K]{outer: outer, inner: inner, outerKey: outerKey, innerKey: innerKey},
				result: result,
			}
		},
	}
}

type groupJoinIter[O, I any, K comparable, R any] struct {
	cursor[R]
	state  joinState[O, I, K]
	result binaryFunc[O, []I, R]
}

func (it *groupJoinIter[O, I, K, R]) MoveNext() (bool, error) {
	if ok, err := it.begin(); !ok {
		return false, err
	}
	item, matches, ok, err := it.state.nextOuter(it.ctx)
	if err != nil || !ok {
		return it.finish(err)
	}
	out, err := it.result(it.ctx, item, slices.Clone(matches))
	if err != nil {
		return it.finish(err)
	}
	return it.yield(out)
}

func (it *groupJoinIter[O, I, K, R]) Dispose() error {
	if !it.release() {
		return nil
	}
	return it.state.dispose()
}
