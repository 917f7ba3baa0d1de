package graph

import "github.com/badwolf-sec/secured/triple"

// EventKind discriminates the shape a base graph's change notification
// takes.
type EventKind uint8

const (
	// AddedTriple fires once a single triple has been added.
	AddedTriple EventKind = iota
	// DeletedTriple fires once a single triple has been removed.
	DeletedTriple
	// AddedGraph fires once a batch of triples has been added, e.g. by
	// a bulk add or createList/createReifiedStatement.
	AddedGraph
	// DeletedGraph fires once a batch of triples has been removed.
	DeletedGraph
)

// Event is the change notification a Base graph's EventManager fans
// out. For the two singular kinds Triple is set and Triples is nil;
// for the two batch kinds Triples is set and Triple is nil.
type Event struct {
	Kind    EventKind
	Triple  *triple.Triple
	Triples []*triple.Triple
}

// Listener observes change events. Implementations must return
// promptly; a base EventManager is free to deliver synchronously on
// the goroutine that performed the mutation.
type Listener func(Event)

// EventManager is the base graph's raw, unfiltered change-event
// fan-out. Package secured wraps it with per-listener Read filtering;
// callers of this package should not subscribe directly unless they
// are themselves the security layer, since an unfiltered subscription
// observes every triple regardless of its sensitivity.
type EventManager interface {
	// Subscribe registers l and returns a function that unregisters it.
	// Calling the returned function more than once is a no-op.
	Subscribe(l Listener) (unsubscribe func())
}
