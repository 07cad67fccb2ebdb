// Package insight composes the seat, tatkal and sentiment predictions of a
// train into one CompositeInsight.
//
// The three lookups go through a shared coalesce.Coalescer so repeated or
// concurrent fetches for the same query reach each provider at most once.
// A Fetcher returns only after all three have settled and reports each
// field's outcome on its own; it never fails as a whole.
package insight
