// Copyright 2018 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memstore provides a volatile, in-memory implementation of
// graph.Base: a map-of-maps SPO/SP/PO/SO index shape guarded by a
// single sync.RWMutex over the IRI/Blank/Literal/Wildcard node model,
// plus the structural operations (Clear, Remove, IsIsomorphicWith) and
// collaborator accessors (PrefixMapping, EventManager,
// StatisticsHandler, TransactionHandler) a base graph needs to expose.
package memstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/triple"
)

// Graph is a volatile, in-memory graph.Base.
type Graph struct {
	id string

	mu    sync.RWMutex
	idx   map[string]*triple.Triple
	idxS  map[string]map[string]*triple.Triple
	idxP  map[string]map[string]*triple.Triple
	idxO  map[string]map[string]*triple.Triple
	idxSP map[string]map[string]*triple.Triple
	idxPO map[string]map[string]*triple.Triple
	idxSO map[string]map[string]*triple.Triple

	prefixes *graph.PrefixMapping
	events   *eventManager
	closed   bool
}

// New creates a new, empty in-memory graph identified by id.
func New(id string) *Graph {
	return &Graph{
		id:       id,
		idx:      make(map[string]*triple.Triple),
		idxS:     make(map[string]map[string]*triple.Triple),
		idxP:     make(map[string]map[string]*triple.Triple),
		idxO:     make(map[string]map[string]*triple.Triple),
		idxSP:    make(map[string]map[string]*triple.Triple),
		idxPO:    make(map[string]map[string]*triple.Triple),
		idxSO:    make(map[string]map[string]*triple.Triple),
		prefixes: graph.NewPrefixMapping(),
		events:   newEventManager(),
	}
}

// ID returns the graph's IRI.
func (g *Graph) ID() string { return g.id }

func spKey(s, p string) string { return strings.Join([]string{s, p}, "\x00") }
func poKey(p, o string) string { return strings.Join([]string{p, o}, "\x00") }
func soKey(s, o string) string { return strings.Join([]string{s, o}, "\x00") }

func (g *Graph) indexLocked(t *triple.Triple) {
	guid, sGUID, pGUID, oGUID := t.GUID(), t.S().GUID(), t.P().GUID(), t.O().GUID()
	g.idx[guid] = t

	put := func(m map[string]map[string]*triple.Triple, key string) {
		if _, ok := m[key]; !ok {
			m[key] = make(map[string]*triple.Triple)
		}
		m[key][guid] = t
	}
	put(g.idxS, sGUID)
	put(g.idxP, pGUID)
	put(g.idxO, oGUID)
	put(g.idxSP, spKey(sGUID, pGUID))
	put(g.idxPO, poKey(pGUID, oGUID))
	put(g.idxSO, soKey(sGUID, oGUID))
}

func (g *Graph) unindexLocked(t *triple.Triple) {
	guid, sGUID, pGUID, oGUID := t.GUID(), t.S().GUID(), t.P().GUID(), t.O().GUID()
	delete(g.idx, guid)

	drop := func(m map[string]map[string]*triple.Triple, key string) {
		delete(m[key], guid)
		if len(m[key]) == 0 {
			delete(m, key)
		}
	}
	drop(g.idxS, sGUID)
	drop(g.idxP, pGUID)
	drop(g.idxO, oGUID)
	drop(g.idxSP, spKey(sGUID, pGUID))
	drop(g.idxPO, poKey(pGUID, oGUID))
	drop(g.idxSO, soKey(sGUID, oGUID))
}

// Add adds triples to the storage. Adding a triple that already
// exists does not fail.
func (g *Graph) Add(ctx context.Context, ts []*triple.Triple) error {
	var added []*triple.Triple
	g.mu.Lock()
	for _, t := range ts {
		if _, ok := g.idx[t.GUID()]; ok {
			continue
		}
		g.indexLocked(t)
		added = append(added, t)
	}
	g.mu.Unlock()
	if len(added) > 0 {
		g.events.publish(graph.Event{Kind: graph.AddedGraph, Triples: added})
	}
	return nil
}

// Delete removes triples from the storage. Removing triples that are
// not present does not fail.
func (g *Graph) Delete(ctx context.Context, ts []*triple.Triple) error {
	var removed []*triple.Triple
	g.mu.Lock()
	for _, t := range ts {
		if _, ok := g.idx[t.GUID()]; !ok {
			continue
		}
		g.unindexLocked(t)
		removed = append(removed, t)
	}
	g.mu.Unlock()
	if len(removed) > 0 {
		g.events.publish(graph.Event{Kind: graph.DeletedGraph, Triples: removed})
	}
	return nil
}

// candidatesLocked picks the narrowest available index for pat and
// returns the candidate triple set to filter further, choosing among
// idxSP/idxPO/idxSO/idx{S,P,O} by which positions of pat are bound.
func (g *Graph) candidatesLocked(pat triple.Pattern) map[string]*triple.Triple {
	sOpen, pOpen, oOpen := pat.S.IsWildcard(), pat.P.IsWildcard(), pat.O.IsWildcard()
	switch {
	case !sOpen && !pOpen:
		return g.idxSP[spKey(pat.S.GUID(), pat.P.GUID())]
	case !pOpen && !oOpen:
		return g.idxPO[poKey(pat.P.GUID(), pat.O.GUID())]
	case !sOpen && !oOpen:
		return g.idxSO[soKey(pat.S.GUID(), pat.O.GUID())]
	case !sOpen:
		return g.idxS[pat.S.GUID()]
	case !pOpen:
		return g.idxP[pat.P.GUID()]
	case !oOpen:
		return g.idxO[pat.O.GUID()]
	default:
		return g.idx
	}
}

// Find streams every stored triple matching pat to out, then closes
// out.
func (g *Graph) Find(ctx context.Context, pat triple.Pattern, lo *graph.LookupOptions, out chan<- *triple.Triple) error {
	if lo == nil {
		lo = graph.DefaultLookup
	}
	g.mu.RLock()
	cands := g.candidatesLocked(pat)
	matches := make([]*triple.Triple, 0, len(cands))
	for _, t := range cands {
		if pat.Matches(t) {
			matches = append(matches, t)
		}
	}
	g.mu.RUnlock()

	go func() {
		defer close(out)
		n := 0
		for _, t := range matches {
			if lo.MaxElements > 0 && n >= lo.MaxElements {
				return
			}
			select {
			case <-ctx.Done():
				return
			case out <- t:
				n++
			}
		}
	}()
	return nil
}

// Contains reports whether t is present.
func (g *Graph) Contains(ctx context.Context, t *triple.Triple) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.idx[t.GUID()]
	return ok, nil
}

// Size returns the number of stored triples.
func (g *Graph) Size(ctx context.Context) (int64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return int64(len(g.idx)), nil
}

// IsEmpty reports whether the graph holds zero triples.
func (g *Graph) IsEmpty(ctx context.Context) (bool, error) {
	n, err := g.Size(ctx)
	return n == 0, err
}

// IsIsomorphicWith reports whether g and other hold the same set of
// triples. Blank node identity is taken at face value (no canonical
// relabeling is attempted): isomorphism reduces to set equality of
// ground triples.
func (g *Graph) IsIsomorphicWith(ctx context.Context, other graph.Base) (bool, error) {
	og, ok := other.(*Graph)
	if !ok {
		return compareForeignIsomorphism(ctx, g, other)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	og.mu.RLock()
	defer og.mu.RUnlock()
	if len(g.idx) != len(og.idx) {
		return false, nil
	}
	for guid, t := range g.idx {
		ot, ok := og.idx[guid]
		if !ok || !t.Equal(ot) {
			return false, nil
		}
	}
	return true, nil
}

func compareForeignIsomorphism(ctx context.Context, a, b graph.Base) (bool, error) {
	as, err := a.Size(ctx)
	if err != nil {
		return false, err
	}
	bs, err := b.Size(ctx)
	if err != nil {
		return false, err
	}
	if as != bs {
		return false, nil
	}
	out := make(chan *triple.Triple)
	if err := a.Find(ctx, triple.NewPattern(nil, nil, nil), graph.DefaultLookup, out); err != nil {
		return false, err
	}
	for t := range out {
		ok, err := b.Contains(ctx, t)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Clear removes every stored triple.
func (g *Graph) Clear(ctx context.Context) error {
	g.mu.Lock()
	all := make([]*triple.Triple, 0, len(g.idx))
	for _, t := range g.idx {
		all = append(all, t)
	}
	g.idx = make(map[string]*triple.Triple)
	g.idxS = make(map[string]map[string]*triple.Triple)
	g.idxP = make(map[string]map[string]*triple.Triple)
	g.idxO = make(map[string]map[string]*triple.Triple)
	g.idxSP = make(map[string]map[string]*triple.Triple)
	g.idxPO = make(map[string]map[string]*triple.Triple)
	g.idxSO = make(map[string]map[string]*triple.Triple)
	g.mu.Unlock()
	if len(all) > 0 {
		g.events.publish(graph.Event{Kind: graph.DeletedGraph, Triples: all})
	}
	return nil
}

// Remove deletes every stored triple matching pat.
func (g *Graph) Remove(ctx context.Context, pat triple.Pattern) error {
	g.mu.Lock()
	cands := g.candidatesLocked(pat)
	var removed []*triple.Triple
	for _, t := range cands {
		if pat.Matches(t) {
			removed = append(removed, t)
		}
	}
	for _, t := range removed {
		g.unindexLocked(t)
	}
	g.mu.Unlock()
	if len(removed) > 0 {
		g.events.publish(graph.Event{Kind: graph.DeletedGraph, Triples: removed})
	}
	return nil
}

// PrefixMapping returns the graph's prefix table.
func (g *Graph) PrefixMapping() *graph.PrefixMapping { return g.prefixes }

// EventManager returns the graph's raw change-event fan-out.
func (g *Graph) EventManager() graph.EventManager { return g.events }

// StatisticsHandler returns nil: this reference store keeps none.
func (g *Graph) StatisticsHandler() graph.StatisticsHandler { return nil }

// TransactionHandler returns nil: mutations on this reference store
// are applied directly under its own mutex, with no multi-statement
// transaction facility to expose.
func (g *Graph) TransactionHandler() graph.TransactionHandler { return nil }

// Close marks the graph closed. Subsequent operations are the
// caller's responsibility to avoid; memstore does not itself reject
// post-close calls and treats Close as advisory bookkeeping.
func (g *Graph) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (g *Graph) IsClosed() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.closed
}

// DependsOn reports whether other is this same graph instance.
func (g *Graph) DependsOn(other graph.Base) bool {
	og, ok := other.(*Graph)
	return ok && og == g
}

// Store is a named collection of memstore graphs.
type Store struct {
	mu     sync.RWMutex
	graphs map[string]*Graph
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{graphs: make(map[string]*Graph)}
}

// NewGraph creates a new, empty graph. Creating an already existing
// graph is an error.
func (s *Store) NewGraph(id string) (*Graph, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[id]; ok {
		return nil, fmt.Errorf("memstore.NewGraph(%q): graph already exists", id)
	}
	g := New(id)
	s.graphs[id] = g
	return g, nil
}

// Graph returns an existing graph. Getting a non-existing graph is an
// error.
func (s *Store) Graph(id string) (*Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if g, ok := s.graphs[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("memstore.Graph(%q): graph does not exist", id)
}

// DeleteGraph deletes an existing graph. Deleting a non-existing graph
// is an error.
func (s *Store) DeleteGraph(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.graphs[id]; !ok {
		return fmt.Errorf("memstore.DeleteGraph(%q): graph does not exist", id)
	}
	delete(s.graphs, id)
	return nil
}
