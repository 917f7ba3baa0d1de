package secured

import (
	"context"
	"testing"

	"github.com/badwolf-sec/secured/graph/memstore"
	"github.com/badwolf-sec/secured/model"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// subjectSensitiveEvaluator denies any triple-level check whose
// pattern names a concrete (non-Wildcard) blank-node subject. It
// exists to catch a façade that lifts a freshly generated cons-cell
// or container-slot subject into a Create/Delete pattern instead of
// treating an as-yet-unmaterialized subject as unconstrained.
type subjectSensitiveEvaluator struct{}

func (subjectSensitiveEvaluator) Evaluate(security.Principal, security.Action, string) bool {
	return true
}
func (subjectSensitiveEvaluator) EvaluateTriple(_ security.Principal, _ security.Action, _ string, pat triple.Pattern) bool {
	return pat.S == nil || pat.S.IsWildcard() || pat.S.Kind() != node.Blank
}
func (e subjectSensitiveEvaluator) EvaluateAny(p security.Principal, actions []security.Action, g string, pat *triple.Pattern) bool {
	if pat == nil {
		return true
	}
	for _, a := range actions {
		if e.EvaluateTriple(p, a, g, *pat) {
			return true
		}
	}
	return false
}
func (e subjectSensitiveEvaluator) EvaluateUpdate(p security.Principal, g string, from, to *triple.Triple) bool {
	return e.EvaluateTriple(p, security.Delete, g, triple.FromTriple(from)) &&
		e.EvaluateTriple(p, security.Create, g, triple.FromTriple(to))
}
func (subjectSensitiveEvaluator) CurrentPrincipal() security.Principal {
	return security.NewNamedPrincipal("tester")
}
func (subjectSensitiveEvaluator) IsAuthenticated(security.Principal) bool { return true }
func (subjectSensitiveEvaluator) IsHardReadError() bool                  { return true }
func (subjectSensitiveEvaluator) RequiresAuthentication() bool           { return false }

func TestCreateListBuildsConsCells(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-list")
	g := NewGraph(base, allowAll())
	m := NewModel(g)

	a, _ := node.NewIRI("urn:a")
	b, _ := node.NewIRI("urn:b")
	head, err := m.CreateList(ctx, []model.RDFNode{a, b})
	if err != nil {
		t.Fatalf("CreateList: %v", err)
	}
	if head.Kind() != node.Blank {
		t.Errorf("CreateList head kind = %v, want Blank", head.Kind())
	}
	n, err := g.Size(ctx)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}
	if n != 4 {
		t.Errorf("Size() after CreateList([a, b]) = %d, want 4 (two cells, two triples each)", n)
	}
}

func TestCreateListDeniedLeavesBaseUnchanged(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-list-denied")
	g := NewGraph(base, denyPredicates(model.RDFFirst))
	m := NewModel(g)

	a, _ := node.NewIRI("urn:a")
	if _, err := m.CreateList(ctx, []model.RDFNode{a}); err == nil {
		t.Fatal("expected CreateList to fail when rdf:first is denied")
	}
	n, err := g.Size(ctx)
	if err != nil || n != 0 {
		t.Errorf("Size() after denied CreateList = %d, %v; want 0, nil", n, err)
	}
}

func TestCreateListNeverChecksConcreteCellSubject(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-list-subject")
	g := NewGraph(base, subjectSensitiveEvaluator{})
	m := NewModel(g)

	a, _ := node.NewIRI("urn:a")
	b, _ := node.NewIRI("urn:b")
	head, err := m.CreateList(ctx, []model.RDFNode{a, b})
	if err != nil {
		t.Fatalf("CreateList: %v (cons-cell Create checks must not use the cell's own blank-node subject)", err)
	}
	if head.Kind() != node.Blank {
		t.Errorf("CreateList head kind = %v, want Blank", head.Kind())
	}
	n, err := g.Size(ctx)
	if err != nil || n != 4 {
		t.Errorf("Size() after CreateList([a, b]) = %d, %v; want 4, nil", n, err)
	}
}

func TestAddRemoveContainerElement(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-container")
	g := NewGraph(base, allowAll())
	m := NewModel(g)

	container := node.NewBlankNode()
	elem, _ := node.NewIRI("urn:elem")

	if err := m.AddContainerElement(ctx, container, 1, elem); err != nil {
		t.Fatalf("AddContainerElement: %v", err)
	}
	ok, err := m.ContainsContainerElement(ctx, container, elem)
	if err != nil || !ok {
		t.Fatalf("ContainsContainerElement after add = %v, %v; want true, nil", ok, err)
	}

	if err := m.RemoveContainerElement(ctx, container, 1); err != nil {
		t.Fatalf("RemoveContainerElement: %v", err)
	}
	ok, err = m.ContainsContainerElement(ctx, container, elem)
	if err != nil || ok {
		t.Fatalf("ContainsContainerElement after remove = %v, %v; want false, nil", ok, err)
	}
}

func TestSetContainerElementReplacesOccupant(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-container-set")
	g := NewGraph(base, allowAll())
	m := NewModel(g)

	container := node.NewBlankNode()
	first, _ := node.NewIRI("urn:first")
	second, _ := node.NewIRI("urn:second")

	if err := m.AddContainerElement(ctx, container, 1, first); err != nil {
		t.Fatalf("AddContainerElement: %v", err)
	}
	if err := m.SetContainerElement(ctx, container, 1, second); err != nil {
		t.Fatalf("SetContainerElement: %v", err)
	}

	ok, err := m.ContainsContainerElement(ctx, container, first)
	if err != nil || ok {
		t.Error("SetContainerElement should have removed the prior occupant")
	}
	ok, err = m.ContainsContainerElement(ctx, container, second)
	if err != nil || !ok {
		t.Error("SetContainerElement should have installed the new occupant")
	}
}

func TestSetContainerElementOnEmptySlotCreatesOnly(t *testing.T) {
	ctx := context.Background()
	base := memstore.New("urn:test-container-set-empty")
	g := NewGraph(base, allowAll())
	m := NewModel(g)

	container := node.NewBlankNode()
	elem, _ := node.NewIRI("urn:elem")

	if err := m.SetContainerElement(ctx, container, 1, elem); err != nil {
		t.Fatalf("SetContainerElement on empty slot: %v", err)
	}
	ok, err := m.ContainsContainerElement(ctx, container, elem)
	if err != nil || !ok {
		t.Error("SetContainerElement on an empty slot should create the element")
	}
}
