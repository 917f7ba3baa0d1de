package secured

import (
	"context"
	"sync"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// anyPattern is the fully open pattern used for graph-wide checks
// (size, isEmpty, clear) that must be decided as a single assertion
// rather than by enumeration.
var anyPattern = triple.NewPattern(nil, nil, nil)

// Graph is the triple-level secured façade over a graph.Base: it
// mediates add/delete/find/contains/size/isEmpty/isIsomorphicWith/
// clear/remove/dependsOn through the Evaluator before ever touching
// the base.
type Graph struct {
	base graph.Base
	ev   security.Evaluator
	ck   checker

	eventsOnce sync.Once
	events     *EventManager
}

// NewGraph wraps base with the access control ev describes. The
// graph's own IRI (base.ID()) is the graphIRI every check is made
// against.
func NewGraph(base graph.Base, ev security.Evaluator) *Graph {
	return &Graph{base: base, ev: ev, ck: newChecker(ev, base.ID())}
}

// ID returns the underlying graph's IRI.
func (g *Graph) ID() string { return g.base.ID() }

// Add requires graph Update and per-triple Create for each of ts; a
// single denial aborts before any triple reaches the base.
func (g *Graph) Add(ctx context.Context, ts []*triple.Triple) error {
	if err := g.ck.checkUpdate(); err != nil {
		return err
	}
	for _, t := range ts {
		if err := g.ck.checkCreate(triple.FromTriple(t)); err != nil {
			return err
		}
	}
	if err := g.base.Add(ctx, ts); err != nil {
		return err
	}
	g.ck.resetCache()
	return nil
}

// Delete requires graph Update and per-triple Delete for each of ts;
// a single denial aborts before any triple is removed from the base.
func (g *Graph) Delete(ctx context.Context, ts []*triple.Triple) error {
	if err := g.ck.checkUpdate(); err != nil {
		return err
	}
	for _, t := range ts {
		if err := g.ck.checkDelete(triple.FromTriple(t)); err != nil {
			return err
		}
	}
	if err := g.base.Delete(ctx, ts); err != nil {
		return err
	}
	g.ck.resetCache()
	return nil
}

// Contains requires graph Read; if the principal may read every
// triple unconditionally it delegates to the base directly, otherwise
// it filters the base's own find(t) through per-element Read so that
// containment never reveals an unreadable triple.
func (g *Graph) Contains(ctx context.Context, t *triple.Triple) (bool, error) {
	soft, err := g.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	if g.ck.canReadAny() {
		return g.base.Contains(ctx, t)
	}
	it, err := newFilteredIterator(ctx, g.ck, func(ctx context.Context, out chan<- *triple.Triple) error {
		return g.base.Find(ctx, triple.FromTriple(t), graph.DefaultLookup, out)
	})
	if err != nil {
		return false, err
	}
	defer it.Close()
	_, ok := it.Next()
	return ok, nil
}

// Find requires graph Read and returns the base's matches wrapped in
// the filtered iterator unless the principal may read everything, in
// which case the base channel is handed back unfiltered.
func (g *Graph) Find(ctx context.Context, pat triple.Pattern, lo *graph.LookupOptions, out chan<- *triple.Triple) error {
	soft, err := g.ck.checkReadGate()
	if err != nil {
		close(out)
		return err
	}
	if soft {
		close(out)
		return nil
	}
	if lo == nil {
		lo = graph.DefaultLookup
	}
	it, err := newFilteredIterator(ctx, g.ck, func(ctx context.Context, inner chan<- *triple.Triple) error {
		return g.base.Find(ctx, pat, lo, inner)
	})
	if err != nil {
		close(out)
		return err
	}
	go func() {
		defer close(out)
		defer it.Close()
		for {
			t, ok := it.Next()
			if !ok {
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- t:
			}
		}
	}()
	return nil
}

// Size requires graph Read; under unconditional readability it
// delegates directly, otherwise it counts the readable projection.
// Under hard-read mode, a principal that may read the graph but not
// its content unconditionally still only ever sees the readable
// count, never a denial: ReadDenied is reserved for the graph-level
// check above.
func (g *Graph) Size(ctx context.Context) (int64, error) {
	soft, err := g.ck.checkReadGate()
	if err != nil {
		return 0, err
	}
	if soft {
		return 0, nil
	}
	if g.ck.canReadAny() {
		return g.base.Size(ctx)
	}
	ts, err := g.readableProjection(ctx)
	return int64(len(ts)), err
}

// IsEmpty requires graph Read and reports whether the readable
// projection has no elements; under hard-read mode an unreadable
// graph raises ReadDenied (via Size's checkReadGate) rather than silently
// reporting true.
func (g *Graph) IsEmpty(ctx context.Context) (bool, error) {
	n, err := g.Size(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// readableProjection materializes every triple of the base the
// principal may read, used by Size/IsEmpty/IsIsomorphicWith/write
// when unconditional readability does not hold.
func (g *Graph) readableProjection(ctx context.Context) ([]*triple.Triple, error) {
	it, err := newFilteredIterator(ctx, g.ck, func(ctx context.Context, out chan<- *triple.Triple) error {
		return g.base.Find(ctx, anyPattern, graph.DefaultLookup, out)
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	return it.Drain(), nil
}

// IsIsomorphicWith requires graph Read. Under unconditional
// readability it delegates to the base comparison; otherwise it
// compares the readable projections of both sides by size then
// content: any content of the other graph the principal cannot read
// makes the comparison return false, never raise.
func (g *Graph) IsIsomorphicWith(ctx context.Context, other *Graph) (bool, error) {
	soft, err := g.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	if g.ck.canReadAny() {
		return g.base.IsIsomorphicWith(ctx, other.base)
	}
	mine, err := g.readableProjection(ctx)
	if err != nil {
		return false, err
	}
	theirs, err := other.readableProjectionFor(ctx, g.ck)
	if err != nil {
		return false, err
	}
	if len(mine) != len(theirs) {
		return false, nil
	}
	otherSize, err := other.base.Size(ctx)
	if err != nil {
		return false, err
	}
	if otherSize != int64(len(theirs)) {
		return false, nil
	}
	idx := make(map[string]*triple.Triple, len(theirs))
	for _, t := range theirs {
		idx[t.GUID()] = t
	}
	for _, t := range mine {
		ot, ok := idx[t.GUID()]
		if !ok || !t.Equal(ot) {
			return false, nil
		}
	}
	return true, nil
}

// readableProjectionFor materializes other's triples filtered by ck's
// principal rather than other's own evaluator: the other graph's
// readability is judged from the comparing principal's perspective,
// since isomorphism asks "what does this principal see of both
// sides", not "what would other's own holder see".
func (g *Graph) readableProjectionFor(ctx context.Context, ck checker) ([]*triple.Triple, error) {
	it, err := newFilteredIterator(ctx, ck, func(ctx context.Context, out chan<- *triple.Triple) error {
		return g.base.Find(ctx, anyPattern, graph.DefaultLookup, out)
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	return it.Drain(), nil
}

// Clear requires graph Update; if the principal may Delete every
// triple unconditionally it delegates directly, otherwise every
// stored triple must individually pass checkDelete before the base is
// cleared, and any denial aborts with the base unchanged.
func (g *Graph) Clear(ctx context.Context) error {
	if err := g.ck.checkUpdate(); err != nil {
		return err
	}
	if g.ck.canDelete(anyPattern) {
		if err := g.base.Clear(ctx); err != nil {
			return err
		}
		g.ck.resetCache()
		return nil
	}
	all, err := g.drainBase(ctx, anyPattern)
	if err != nil {
		return err
	}
	for _, t := range all {
		if err := g.ck.checkDelete(triple.FromTriple(t)); err != nil {
			return err
		}
	}
	if err := g.base.Clear(ctx); err != nil {
		return err
	}
	g.ck.resetCache()
	return nil
}

// Remove requires graph Update; a concrete pattern requires a single
// checkDelete, an open pattern requires every match to individually
// pass checkDelete before the base removal is issued. A denial aborts
// before the base is touched.
func (g *Graph) Remove(ctx context.Context, pat triple.Pattern) error {
	if err := g.ck.checkUpdate(); err != nil {
		return err
	}
	if !pat.HasWildcard() {
		if err := g.ck.checkDelete(pat); err != nil {
			return err
		}
		if err := g.base.Remove(ctx, pat); err != nil {
			return err
		}
		g.ck.resetCache()
		return nil
	}
	matches, err := g.drainBase(ctx, pat)
	if err != nil {
		return err
	}
	for _, t := range matches {
		if err := g.ck.checkDelete(triple.FromTriple(t)); err != nil {
			return err
		}
	}
	if err := g.base.Remove(ctx, pat); err != nil {
		return err
	}
	g.ck.resetCache()
	return nil
}

// drainBase materializes every base triple matching pat, unfiltered:
// used internally by Clear/Remove, which must see the true base
// content to decide per-triple Delete, not the caller's readable
// projection.
func (g *Graph) drainBase(ctx context.Context, pat triple.Pattern) ([]*triple.Triple, error) {
	out := make(chan *triple.Triple)
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.base.Find(ctx, pat, graph.DefaultLookup, out)
	}()
	var ts []*triple.Triple
	for t := range out {
		ts = append(ts, t)
	}
	if err := <-errCh; err != nil {
		return ts, err
	}
	return ts, nil
}

// DependsOn requires graph Read; true if other is the base graph
// itself or the base reports its own dependence.
func (g *Graph) DependsOn(ctx context.Context, other graph.Base) (bool, error) {
	soft, err := g.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	if g.base == other {
		return true, nil
	}
	return g.base.DependsOn(other), nil
}

// PrefixMapping returns the base graph's prefix table. No
// authorization gate applies: prefixes name namespaces, not triples.
func (g *Graph) PrefixMapping() *graph.PrefixMapping { return g.base.PrefixMapping() }

// Close delegates to the base; closed state requires no
// authorization.
func (g *Graph) Close() error { return g.base.Close() }

// IsClosed delegates to the base.
func (g *Graph) IsClosed() bool { return g.base.IsClosed() }

// Base returns the wrapped graph, for collaborators (the secured
// model, event manager) that need direct base access alongside the
// same checker.
func (g *Graph) Base() graph.Base { return g.base }

// Evaluator returns the evaluator this graph was constructed with.
func (g *Graph) Evaluator() security.Evaluator { return g.ev }

// EventManager returns the filtered change-event fan-out for this
// graph, lazily constructing it under a single-writer guard on first
// use.
func (g *Graph) EventManager() *EventManager {
	g.eventsOnce.Do(func() {
		g.events = NewEventManager(g.base.EventManager(), g.ev, g.ID())
	})
	return g.events
}
