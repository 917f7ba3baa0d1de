package secured

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/internal/rdflog"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// EventManager is the filtered change-event fan-out: it subscribes
// once to the base graph's raw manager on first
// registration, unsubscribes on last deregistration, and delivers
// each base event to each listener only after stripping whatever that
// listener's principal may not Read.
type EventManager struct {
	base     graph.EventManager
	ev       security.Evaluator
	graphIRI string
	log      *rdflog.Log

	mu        sync.Mutex
	listeners map[*subscription]struct{}
	baseUnsub func()
}

type subscription struct {
	principal security.Principal
	listener  graph.Listener
}

// NewEventManager wraps base with per-listener Read filtering for the
// named graph.
func NewEventManager(base graph.EventManager, ev security.Evaluator, graphIRI string) *EventManager {
	return &EventManager{
		base:      base,
		ev:        ev,
		graphIRI:  graphIRI,
		log:       rdflog.New("secured.events").With("graph", graphIRI),
		listeners: make(map[*subscription]struct{}),
	}
}

// Subscribe registers listener on behalf of principal. The base
// manager is subscribed to lazily, on the first registration, and
// unsubscribed once the last listener deregisters.
func (m *EventManager) Subscribe(principal security.Principal, listener graph.Listener) (unsubscribe func()) {
	sub := &subscription{principal: principal, listener: listener}

	m.mu.Lock()
	m.listeners[sub] = struct{}{}
	if m.baseUnsub == nil {
		m.baseUnsub = m.base.Subscribe(m.onBaseEvent)
	}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, sub)
			if len(m.listeners) == 0 && m.baseUnsub != nil {
				m.baseUnsub()
				m.baseUnsub = nil
			}
			m.mu.Unlock()
		})
	}
}

// onBaseEvent is the single callback registered with the base
// manager; it fans a single base event out to every listener,
// filtered per listener.
func (m *EventManager) onBaseEvent(ev graph.Event) {
	m.mu.Lock()
	subs := make([]*subscription, 0, len(m.listeners))
	for s := range m.listeners {
		subs = append(subs, s)
	}
	m.mu.Unlock()

	var eg errgroup.Group
	for _, s := range subs {
		s := s
		eg.Go(func() error {
			m.deliver(s, ev)
			return nil
		})
	}
	_ = eg.Wait()
}

// deliver filters ev for s's principal and invokes s.listener,
// recovering and logging any panic so a misbehaving listener never
// disrupts the base manager or other listeners.
func (m *EventManager) deliver(s *subscription, ev graph.Event) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Debug("listener panicked, event delivery suppressed", "panic", r)
		}
	}()

	filtered, ok := m.filterFor(s.principal, ev)
	if !ok {
		return
	}
	s.listener(filtered)
}

// filterFor reports whether ev should be delivered to principal, and
// if so, the (possibly batch-trimmed) event to deliver.
func (m *EventManager) filterFor(principal security.Principal, ev graph.Event) (graph.Event, bool) {
	switch ev.Kind {
	case graph.AddedTriple, graph.DeletedTriple:
		if !m.canRead(principal, ev.Triple) {
			return graph.Event{}, false
		}
		return ev, true
	case graph.AddedGraph, graph.DeletedGraph:
		var kept []*triple.Triple
		for _, t := range ev.Triples {
			if m.canRead(principal, t) {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			return graph.Event{}, false
		}
		return graph.Event{Kind: ev.Kind, Triples: kept}, true
	default:
		return graph.Event{}, false
	}
}

func (m *EventManager) canRead(principal security.Principal, t *triple.Triple) bool {
	if !m.ev.Evaluate(principal, security.Read, m.graphIRI) {
		return false
	}
	return m.ev.EvaluateTriple(principal, security.Read, m.graphIRI, triple.FromTriple(t))
}
