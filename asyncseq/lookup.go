package asyncseq

import (
	"context"
	"slices"
)

// Grouping is a key and the values that share it, in encounter order.
// A Grouping is immutable once built and is itself a sequence of its values.
type Grouping[K comparable, V any] struct {
	key    K
	values []V
}

// Key returns the grouping key.
func (g *Grouping[K, V]) Key() K { return g.key }

// Values returns a copy of the grouped values.
func (g *Grouping[K, V]) Values() []V { return slices.Clone(g.values) }

// Len returns the number of values in the group.
func (g *Grouping[K, V]) Len() int { return len(g.values) }

// Enumerator enumerates the grouped values.
func (g *Grouping[K, V]) Enumerator(ctx context.Context) Enumerator[V] {
	requireArg("ctx", ctx)
	return &sliceIter[V]{cursor: cursor[V]{ctx: ctx}, items: g.values}
}

// Lookup maps keys to groupings. Groupings keep first-encounter order and a
// missing key reads as an empty group.
type Lookup[K comparable, V any] struct {
	groups []*Grouping[K, V]
	index  map[K]*Grouping[K, V]
}

func newLookup[K comparable, V any]() *Lookup[K, V] {
	return &Lookup[K, V]{index: make(map[K]*Grouping[K, V])}
}

func (l *Lookup[K, V]) add(key K, v V) {
	g, ok := l.index[key]
	if !ok {
		g = &Grouping[K, V]{key: key}
		l.index[key] = g
		l.groups = append(l.groups, g)
	}
	g.values = append(g.values, v)
}

// Get returns the values for key. It never fails; an absent key yields an
// empty sequence.
func (l *Lookup[K, V]) Get(key K) Enumerable[V] {
	if g, ok := l.index[key]; ok {
		return g
	}
	return Empty[V]()
}

// values returns the grouped values for key without copying, nil if absent.
func (l *Lookup[K, V]) values(key K) []V {
	if g, ok := l.index[key]; ok {
		return g.values
	}
	return nil
}

// Contains reports whether any element produced key.
func (l *Lookup[K, V]) Contains(key K) bool {
	_, ok := l.index[key]
	return ok
}

// Len returns the number of groupings.
func (l *Lookup[K, V]) Len() int { return len(l.groups) }

// Groupings returns the groupings in first-encounter order.
func (l *Lookup[K, V]) Groupings() []*Grouping[K, V] { return slices.Clone(l.groups) }

// Enumerator enumerates the groupings in first-encounter order.
func (l *Lookup[K, V]) Enumerator(ctx context.Context) Enumerator[*Grouping[K, V]] {
	requireArg("ctx", ctx)
	return &sliceIter[*Grouping[K, V]]{cursor: cursor[*Grouping[K, V]]{ctx: ctx}, items: l.groups}
}

// buildLookup drains src once, keying every element and appending its
// projected value to the matching group.
func buildLookup[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key selectorFunc[T, K], elem selectorFunc[T, V]) (*Lookup[K, V], error) {
	lookup := newLookup[K, V]()
	err := drain(ctx, src, func(item T) error {
		k, err := key(ctx, item)
		if err != nil {
			return err
		}
		v, err := elem(ctx, item)
		if err != nil {
			return err
		}
		lookup.add(k, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lookup, nil
}
