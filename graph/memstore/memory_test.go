package memstore

import (
	"context"
	"testing"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

func mustTriple(t *testing.T, s, p, o string) *triple.Triple {
	t.Helper()
	sn, err := node.NewIRI(s)
	if err != nil {
		t.Fatalf("node.NewIRI(%q) failed: %v", s, err)
	}
	pn, err := node.NewIRI(p)
	if err != nil {
		t.Fatalf("node.NewIRI(%q) failed: %v", p, err)
	}
	on, err := node.NewIRI(o)
	if err != nil {
		t.Fatalf("node.NewIRI(%q) failed: %v", o, err)
	}
	tr, err := triple.New(sn, pn, on)
	if err != nil {
		t.Fatalf("triple.New failed: %v", err)
	}
	return tr
}

func drain(ctx context.Context, t *testing.T, g *Graph, pat triple.Pattern) []*triple.Triple {
	t.Helper()
	out := make(chan *triple.Triple)
	errCh := make(chan error, 1)
	go func() { errCh <- g.Find(ctx, pat, nil, out) }()
	var got []*triple.Triple
	for tr := range out {
		got = append(got, tr)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	return got
}

func TestAddContainsSize(t *testing.T) {
	ctx := context.Background()
	g := New("urn:g1")
	t1 := mustTriple(t, "urn:s", "urn:p", "urn:o")
	if err := g.Add(ctx, []*triple.Triple{t1}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	ok, err := g.Contains(ctx, t1)
	if err != nil || !ok {
		t.Fatalf("Contains(t1) = %v, %v; want true, nil", ok, err)
	}
	n, err := g.Size(ctx)
	if err != nil || n != 1 {
		t.Fatalf("Size() = %d, %v; want 1, nil", n, err)
	}
	// Re-adding an existing triple is a no-op, not an error.
	if err := g.Add(ctx, []*triple.Triple{t1}); err != nil {
		t.Fatalf("Add of a duplicate failed: %v", err)
	}
	if n, _ := g.Size(ctx); n != 1 {
		t.Fatalf("Size() after duplicate Add = %d, want 1", n)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	g := New("urn:g2")
	t1 := mustTriple(t, "urn:s", "urn:p", "urn:o")
	g.Add(ctx, []*triple.Triple{t1})
	if err := g.Delete(ctx, []*triple.Triple{t1}); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := g.Contains(ctx, t1); ok {
		t.Error("Contains should report false after Delete")
	}
	// Deleting an absent triple is not an error.
	if err := g.Delete(ctx, []*triple.Triple{t1}); err != nil {
		t.Fatalf("Delete of an absent triple failed: %v", err)
	}
}

func TestFindByPattern(t *testing.T) {
	ctx := context.Background()
	g := New("urn:g3")
	t1 := mustTriple(t, "urn:alice", "urn:name", "urn:alice-name")
	t2 := mustTriple(t, "urn:bob", "urn:name", "urn:bob-name")
	g.Add(ctx, []*triple.Triple{t1, t2})

	namePred, _ := node.NewIRI("urn:name")
	got := drain(ctx, t, g, triple.NewPattern(nil, namePred, nil))
	if len(got) != 2 {
		t.Fatalf("Find(pred=urn:name) returned %d triples, want 2", len(got))
	}

	alice, _ := node.NewIRI("urn:alice")
	got = drain(ctx, t, g, triple.NewPattern(alice, nil, nil))
	if len(got) != 1 || !got[0].Equal(t1) {
		t.Fatalf("Find(subj=urn:alice) = %v, want [%v]", got, t1)
	}
}

func TestClearAndRemove(t *testing.T) {
	ctx := context.Background()
	g := New("urn:g4")
	t1 := mustTriple(t, "urn:a", "urn:p", "urn:o1")
	t2 := mustTriple(t, "urn:a", "urn:p", "urn:o2")
	g.Add(ctx, []*triple.Triple{t1, t2})

	if err := g.Remove(ctx, triple.FromTriple(t1)); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n, _ := g.Size(ctx); n != 1 {
		t.Fatalf("Size() after Remove = %d, want 1", n)
	}
	if err := g.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	empty, err := g.IsEmpty(ctx)
	if err != nil || !empty {
		t.Fatalf("IsEmpty() after Clear = %v, %v; want true, nil", empty, err)
	}
}

func TestIsIsomorphicWith(t *testing.T) {
	ctx := context.Background()
	a := New("urn:a")
	b := New("urn:b")
	t1 := mustTriple(t, "urn:s", "urn:p", "urn:o")
	a.Add(ctx, []*triple.Triple{t1})
	b.Add(ctx, []*triple.Triple{t1})

	iso, err := a.IsIsomorphicWith(ctx, b)
	if err != nil || !iso {
		t.Fatalf("IsIsomorphicWith(equal graphs) = %v, %v; want true, nil", iso, err)
	}

	t2 := mustTriple(t, "urn:s", "urn:p", "urn:other")
	b.Add(ctx, []*triple.Triple{t2})
	iso, err = a.IsIsomorphicWith(ctx, b)
	if err != nil || iso {
		t.Fatalf("IsIsomorphicWith(diverging graphs) = %v, %v; want false, nil", iso, err)
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	if _, err := s.NewGraph("urn:g"); err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	if _, err := s.NewGraph("urn:g"); err == nil {
		t.Error("NewGraph should reject creating an already existing graph")
	}
	if _, err := s.Graph("urn:g"); err != nil {
		t.Errorf("Graph(\"urn:g\") failed: %v", err)
	}
	if _, err := s.Graph("urn:missing"); err == nil {
		t.Error("Graph should reject a non-existing graph")
	}
	if err := s.DeleteGraph("urn:g"); err != nil {
		t.Errorf("DeleteGraph failed: %v", err)
	}
	if err := s.DeleteGraph("urn:g"); err == nil {
		t.Error("DeleteGraph should reject deleting an already-deleted graph")
	}
}

var _ graph.Base = (*Graph)(nil)
