package secured

import (
	"context"

	"github.com/badwolf-sec/secured/triple"
)

// filteredIterator wraps a base channel of triples with lazy
// per-triple Read filtering: it advances the base until a triple
// satisfies the check, or the base is exhausted. Filtering is skipped
// entirely when the principal may read every triple unconditionally,
// so a fully-privileged caller pays no per-element cost.
type filteredIterator struct {
	ck       checker
	base     <-chan *triple.Triple
	cancel   context.CancelFunc
	passthru bool
}

// newFilteredIterator starts find against a fresh channel under ctx
// and returns an iterator over the results, plus find's own
// (synchronous, setup-time) error. find is expected to behave like
// graph.Base.Find: it returns promptly having arranged for its
// producer to close the channel on its own, possibly from another
// goroutine.
func newFilteredIterator(ctx context.Context, ck checker, find func(context.Context, chan<- *triple.Triple) error) (*filteredIterator, error) {
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan *triple.Triple)
	err := find(ctx, out)
	if err != nil {
		cancel()
	}
	return &filteredIterator{
		ck:       ck,
		base:     out,
		cancel:   cancel,
		passthru: ck.canReadAny(),
	}, err
}

// Next advances to the next readable triple, returning ok=false at
// end of sequence. A triple the principal may not read is silently
// skipped and never returned, even mid-iteration.
func (it *filteredIterator) Next() (t *triple.Triple, ok bool) {
	for cand := range it.base {
		if it.passthru || it.ck.canReadTriple(triple.FromTriple(cand)) {
			return cand, true
		}
	}
	return nil, false
}

// Close releases the base producer. It is safe to call more than once
// and safe to call before exhaustion; any triples still in flight are
// discarded unread.
func (it *filteredIterator) Close() {
	it.cancel()
	for range it.base {
	}
}

// Drain exhausts the iterator into a slice, honoring filtering, and
// closes it. Used by operations that must materialize a readable
// projection (size, isEmpty, isIsomorphicWith, write).
func (it *filteredIterator) Drain() []*triple.Triple {
	var out []*triple.Triple
	for {
		t, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	it.Close()
	return out
}
