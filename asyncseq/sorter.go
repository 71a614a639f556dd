package asyncseq

import (
	"cmp"
	"context"
	"slices"
)

// sorter is one level of a multi-key sort. Levels are chained primary first;
// each compares by its own keys and defers ties to the next level.
type sorter[T any] interface {
	computeKeys(ctx context.Context, elements []T) error
	compare(i, j int) int
}

type keySorter[T, K any] struct {
	key        selectorFunc[T, K]
	cmp        func(a, b K) int
	descending bool
	next       sorter[T]
	keys       []K
}

// computeKeys fills this level's key array, awaiting one element at a time,
// then the levels below it.
func (s *keySorter[T, K]) computeKeys(ctx context.Context, elements []T) error {
	keys := make([]K, len(elements))
	for i, e := range elements {
		k, err := s.key(ctx, e)
		if err != nil {
			return err
		}
		keys[i] = k
	}
	s.keys = keys
	if s.next != nil {
		return s.next.computeKeys(ctx, elements)
	}
	return nil
}

// compare orders elements i and j. When every level ties, the original
// positions decide, which keeps the sort stable.
func (s *keySorter[T, K]) compare(i, j int) int {
	c := s.cmp(s.keys[i], s.keys[j])
	if c == 0 {
		if s.next == nil {
			return cmp.Compare(i, j)
		}
		return s.next.compare(i, j)
	}
	if s.descending {
		if c > 0 {
			return -1
		}
		return 1
	}
	return c
}

// sortedPermutation returns the element indices in sorted order.
func sortedPermutation[T any](ctx context.Context, s sorter[T], elements []T) ([]int, error) {
	if err := s.computeKeys(ctx, elements); err != nil {
		return nil, err
	}
	perm := make([]int, len(elements))
	for i := range perm {
		perm[i] = i
	}
	slices.SortFunc(perm, s.compare)
	return perm, nil
}
