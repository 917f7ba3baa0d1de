// Package graph defines the base graph/model contract the secured
// façade wraps. It is the external collaborator the façade is built
// against: the underlying triple store, its transaction and
// statistics handlers, and its event manager are all referenced only
// through the interfaces below, never reimplemented here. Package
// memstore provides a reference in-memory implementation.
package graph

import (
	"context"

	"github.com/badwolf-sec/secured/triple"
)

// LookupOptions configures a bounded Find/Remove scan. A MaxElements
// of zero means unbounded.
type LookupOptions struct {
	MaxElements int
}

// DefaultLookup is the zero-value, unbounded LookupOptions.
var DefaultLookup = &LookupOptions{}

// StatisticsHandler is an opaque handle to whatever statistics
// facility the base store offers. The façade never inspects it; it
// only passes it through unchanged, since statistics queries are
// structural metadata, not a permission-mediated operation.
type StatisticsHandler interface{}

// TransactionHandler is an opaque handle to the base store's
// transaction facility, passed through unchanged for the same reason
// as StatisticsHandler.
type TransactionHandler interface{}

// Base is the low-level graph contract a secured.Graph wraps:
// add/delete/find/contains/size/isEmpty/isIsomorphicWith/clear/remove,
// plus accessors for prefix mapping, event manager, statistics and
// transaction handlers, and lifecycle.
//
// Implementations are not required to be safe for concurrent use by
// multiple goroutines unless they document otherwise; the façade
// itself is thread-compatible, not thread-safe, by design (see the
// concurrency model).
type Base interface {
	// ID returns the graph's IRI.
	ID() string

	// Add adds triples to the graph. Adding a triple that already
	// exists must not fail.
	Add(ctx context.Context, ts []*triple.Triple) error

	// Delete removes triples from the graph. Removing a triple that is
	// not present must not fail.
	Delete(ctx context.Context, ts []*triple.Triple) error

	// Find streams every stored triple matching pat to out, then
	// closes out. lo may be nil, meaning DefaultLookup.
	Find(ctx context.Context, pat triple.Pattern, lo *LookupOptions, out chan<- *triple.Triple) error

	// Contains reports whether t, a concrete triple, is present.
	Contains(ctx context.Context, t *triple.Triple) (bool, error)

	// Size returns the total number of stored triples.
	Size(ctx context.Context) (int64, error)

	// IsEmpty reports whether the graph holds zero triples.
	IsEmpty(ctx context.Context) (bool, error)

	// IsIsomorphicWith reports whether this graph and other contain
	// the same set of triples (blank node identity is not
	// significant).
	IsIsomorphicWith(ctx context.Context, other Base) (bool, error)

	// Clear removes every stored triple.
	Clear(ctx context.Context) error

	// Remove deletes every stored triple matching pat.
	Remove(ctx context.Context, pat triple.Pattern) error

	// PrefixMapping returns the graph's prefix-to-namespace table.
	PrefixMapping() *PrefixMapping

	// EventManager returns the graph's change-event fan-out.
	EventManager() EventManager

	// StatisticsHandler returns the opaque statistics handle, or nil if
	// the store offers none.
	StatisticsHandler() StatisticsHandler

	// TransactionHandler returns the opaque transaction handle, or nil
	// if the store offers none.
	TransactionHandler() TransactionHandler

	// Close releases the graph's resources.
	Close() error

	// IsClosed reports whether Close has been called.
	IsClosed() bool

	// DependsOn reports whether this graph's data is backed by other,
	// e.g. because they share the same underlying store connection.
	DependsOn(other Base) bool
}
