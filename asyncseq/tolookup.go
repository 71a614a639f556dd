package asyncseq

import (
	"context"

	apperrors "github.com/kbukum/asyncq/errors"
	"github.com/kbukum/asyncq/future"
)

// ToLookup drains src into a Lookup keyed by key. Duplicate keys are grouped.
func ToLookup[T any, K comparable](ctx context.Context, src Enumerable[T], key func(T) K) (*Lookup[K, T], error) {
	requireArg("source", src)
	return buildLookup[T, K, T](ctx, src, syncSelector("keySelector", key), identity[T])
}

// ToLookupAwait is ToLookup with a key selector that returns a future.
func ToLookupAwait[T any, K comparable](ctx context.Context, src Enumerable[T], key func(T) *future.Future[K]) (*Lookup[K, T], error) {
	requireArg("source", src)
	return buildLookup[T, K, T](ctx, src, awaitSelector("keySelector", key), identity[T])
}

// ToLookupAwaitWithCancellation is ToLookupAwait with ctx passed to the key selector.
func ToLookupAwaitWithCancellation[T any, K comparable](ctx context.Context, src Enumerable[T], key func(context.Context, T) *future.Future[K]) (*Lookup[K, T], error) {
	requireArg("source", src)
	return buildLookup[T, K, T](ctx, src, awaitCtxSelector("keySelector", key), identity[T])
}

// ToLookupElement is ToLookup storing elem(v) instead of v.
func ToLookupElement[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(T) K, elem func(T) V) (*Lookup[K, V], error) {
	requireArg("source", src)
	return buildLookup(ctx, src, syncSelector("keySelector", key), syncSelector("elementSelector", elem))
}

// ToLookupElementAwait is ToLookupElement with selectors that return futures.
func ToLookupElementAwait[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(T) *future.Future[K], elem func(T) *future.Future[V]) (*Lookup[K, V], error) {
	requireArg("source", src)
	return buildLookup(ctx, src, awaitSelector("keySelector", key), awaitSelector("elementSelector", elem))
}

// ToLookupElementAwaitWithCancellation is ToLookupElementAwait with ctx passed
// to both selectors.
func ToLookupElementAwaitWithCancellation[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(context.Context, T) *future.Future[K], elem func(context.Context, T) *future.Future[V]) (*Lookup[K, V], error) {
	requireArg("source", src)
	return buildLookup(ctx, src, awaitCtxSelector("keySelector", key), awaitCtxSelector("elementSelector", elem))
}

// ToDictionary drains src into a map keyed by key. Two elements with the same
// key fail with DUPLICATE_KEY.
func ToDictionary[T any, K comparable](ctx context.Context, src Enumerable[T], key func(T) K) (map[K]T, error) {
	requireArg("source", src)
	return buildDictionary[T, K, T](ctx, src, syncSelector("keySelector", key), identity[T])
}

// ToDictionaryAwait is ToDictionary with a key selector that returns a future.
func ToDictionaryAwait[T any, K comparable](ctx context.Context, src Enumerable[T], key func(T) *future.Future[K]) (map[K]T, error) {
	requireArg("source", src)
	return buildDictionary[T, K, T](ctx, src, awaitSelector("keySelector", key), identity[T])
}

// ToDictionaryAwaitWithCancellation is ToDictionaryAwait with ctx passed to the
// key selector.
func ToDictionaryAwaitWithCancellation[T any, K comparable](ctx context.Context, src Enumerable[T], key func(context.Context, T) *future.Future[K]) (map[K]T, error) {
	requireArg("source", src)
	return buildDictionary[T, K, T](ctx, src, awaitCtxSelector("keySelector", key), identity[T])
}

// ToDictionaryElement is ToDictionary storing elem(v) instead of v.
func ToDictionaryElement[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(T) K, elem func(T) V) (map[K]V, error) {
	requireArg("source", src)
	return buildDictionary(ctx, src, syncSelector("keySelector", key), syncSelector("elementSelector", elem))
}

// ToDictionaryElementAwait is ToDictionaryElement with selectors that return futures.
func ToDictionaryElementAwait[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(T) *future.Future[K], elem func(T) *future.Future[V]) (map[K]V, error) {
	requireArg("source", src)
	return buildDictionary(ctx, src, awaitSelector("keySelector", key), awaitSelector("elementSelector", elem))
}

// ToDictionaryElementAwaitWithCancellation is ToDictionaryElementAwait with ctx
// passed to both selectors.
func ToDictionaryElementAwaitWithCancellation[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key func(context.Context, T) *future.Future[K], elem func(context.Context, T) *future.Future[V]) (map[K]V, error) {
	requireArg("source", src)
	return buildDictionary(ctx, src, awaitCtxSelector("keySelector", key), awaitCtxSelector("elementSelector", elem))
}

func buildDictionary[T any, K comparable, V any](ctx context.Context, src Enumerable[T], key selectorFunc[T, K], elem selectorFunc[T, V]) (map[K]V, error) {
	dict := make(map[K]V)
	err := drain(ctx, src, func(item T) error {
		k, err := key(ctx, item)
		if err != nil {
			return err
		}
		if _, exists := dict[k]; exists {
			return apperrors.DuplicateKey(k)
		}
		v, err := elem(ctx, item)
		if err != nil {
			return err
		}
		dict[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dict, nil
}
