package memstore

import (
	"sync"

	"github.com/dustin/go-broadcast"

	"github.com/badwolf-sec/secured/graph"
)

// eventManager fans out graph.Event values using a
// dustin/go-broadcast Broadcaster, the same Register/Unregister/
// Submit/Close shape a notification service wraps around a broadcast
// channel per subscription key; here there is a single key (the graph
// itself), so one Broadcaster backs the whole manager.
type eventManager struct {
	mu   sync.Mutex
	b    broadcast.Broadcaster
	subs map[chan interface{}]graph.Listener
}

func newEventManager() *eventManager {
	return &eventManager{
		b:    broadcast.NewBroadcaster(16),
		subs: make(map[chan interface{}]graph.Listener),
	}
}

// Subscribe registers l and starts a goroutine draining its private
// channel; the returned unsubscribe function stops that goroutine and
// deregisters from the broadcaster.
func (m *eventManager) Subscribe(l graph.Listener) (unsubscribe func()) {
	ch := make(chan interface{})
	m.mu.Lock()
	m.subs[ch] = l
	m.mu.Unlock()
	m.b.Register(ch)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					return
				}
				if ev, ok := v.(graph.Event); ok {
					l(ev)
				}
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			m.b.Unregister(ch)
			m.mu.Lock()
			delete(m.subs, ch)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// publish submits ev to every registered listener channel.
func (m *eventManager) publish(ev graph.Event) {
	m.mu.Lock()
	hasSubs := len(m.subs) > 0
	m.mu.Unlock()
	if !hasSubs {
		return
	}
	m.b.Submit(ev)
}
