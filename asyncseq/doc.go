// Package asyncseq provides LINQ-style operators over asynchronous, pull-based
// sequences.
//
// An Enumerable produces an Enumerator for a context. Consumers call
// MoveNext until it returns false or an error, read Current after every
// true MoveNext, and call Dispose exactly once when done. Advancing may block
// on upstream work or on futures returned by user selectors; at most one
// MoveNext may be outstanding per enumerator.
//
// Operators are lazy. Nothing runs until an enumerator is advanced, and only
// GroupBy, Join, GroupJoin and OrderBy buffer their input (on the first
// MoveNext). Every MoveNext checks the context first and fails with a
// CANCELED error once it is done.
//
// # Selector shapes
//
// Operators taking user functions come in three shapes:
//
//   - Select(src, func(T) R): synchronous
//   - SelectAwait(src, func(T) *future.Future[R]): returns an awaitable
//   - SelectAwaitWithCancellation(src, func(context.Context, T) *future.Future[R]):
//     returns an awaitable and receives the enumeration context
//
// Faults from selectors travel through the rejected future; synchronous
// selectors are pure.
//
// # Usage
//
//	src := asyncseq.FromSlice([]int{5, 3, 8, 3})
//	evens := asyncseq.Where(src, func(n int) bool { return n%2 == 0 })
//	sorted := asyncseq.OrderBy(src, func(n int) int { return n })
//	total, err := asyncseq.Sum(ctx, src)
//
// A nil source, selector or comparer panics at call time with an
// INVALID_ARGUMENT error.
package asyncseq
