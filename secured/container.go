package secured

import (
	"context"

	"github.com/badwolf-sec/secured/model"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// CreateList requires Update, a Create check against a fixed rdf:nil
// marker pattern (subject rdf:nil, predicate and object ignored), and
// per member a Create check against (Wildcard, rdf:first, member) and
// (Wildcard, rdf:rest, Wildcard). Cons-cell subjects are freshly
// minted blank nodes whose identity has no bearing on whether the
// member may be added to a list, so the per-cell checks substitute
// node.WildcardNode for the not-yet-materialized cell subject rather
// than lifting its generated blank ID into the pattern. It returns
// the list's head node (rdf:nil for an empty list). A denial leaves
// the base unchanged.
func (m *Model) CreateList(ctx context.Context, members []model.RDFNode) (model.Resource, error) {
	if err := m.ck.checkUpdate(); err != nil {
		return nil, err
	}
	head, cells, err := model.BuildList(members)
	if err != nil {
		return nil, err
	}
	if len(cells) > 0 {
		nilNode, err := node.NewIRI(model.RDFNil)
		if err != nil {
			return nil, err
		}
		marker := triple.Pattern{S: nilNode, P: triple.Ignore, O: triple.Ignore}
		if err := m.ck.checkCreate(marker); err != nil {
			return nil, err
		}
	}
	var all []*triple.Triple
	for _, cell := range cells {
		firstPat := triple.NewPattern(node.WildcardNode, cell.First.P(), cell.First.O())
		if err := m.ck.checkCreate(firstPat); err != nil {
			return nil, err
		}
		restPat := triple.NewPattern(node.WildcardNode, cell.Rest.P(), node.WildcardNode)
		if err := m.ck.checkCreate(restPat); err != nil {
			return nil, err
		}
		all = append(all, cell.First, cell.Rest)
	}
	if len(all) == 0 {
		return head, nil
	}
	if err := m.g.base.Add(ctx, all); err != nil {
		return nil, err
	}
	m.ck.resetCache()
	return head, nil
}

// AddContainerElement requires Update plus Create for the
// (container, rdf:_i, element) triple. index is 1-based per the RDF
// container convention.
func (m *Model) AddContainerElement(ctx context.Context, container model.Resource, index int, element model.RDFNode) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	t, err := model.MembershipTriple(container, index, element)
	if err != nil {
		return err
	}
	if err := m.ck.checkCreate(triple.FromTriple(t)); err != nil {
		return err
	}
	if err := m.g.base.Add(ctx, []*triple.Triple{t}); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// RemoveContainerElement requires Update plus Delete for whatever
// triple currently occupies slot index, if any.
func (m *Model) RemoveContainerElement(ctx context.Context, container model.Resource, index int) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	pat, err := model.MembershipPattern(container, index)
	if err != nil {
		return err
	}
	current, ok, err := m.findSingle(ctx, pat)
	if err != nil || !ok {
		return err
	}
	if err := m.ck.checkDelete(triple.FromTriple(current)); err != nil {
		return err
	}
	if err := m.g.base.Delete(ctx, []*triple.Triple{current}); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// ContainsContainerElement requires graph Read and reduces to Read of
// any (container, *, element) triple; the predicate is not restricted
// to the rdf:_i membership properties.
func (m *Model) ContainsContainerElement(ctx context.Context, container model.Resource, element model.RDFNode) (bool, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	pat := triple.NewPattern(container, nil, element)
	it, err := newFilteredIterator(ctx, m.ck, func(ctx context.Context, out chan<- *triple.Triple) error {
		return m.g.base.Find(ctx, pat, nil, out)
	})
	if err != nil {
		return false, err
	}
	defer it.Close()
	_, ok := it.Next()
	return ok, nil
}

// SetContainerElement requires Update and replaces slot index's
// occupant with element. When the evaluator can decide the
// replacement atomically (EvaluateUpdate), that single check gates
// the swap; otherwise it falls back to Delete-then-Create checks over
// the two triples.
func (m *Model) SetContainerElement(ctx context.Context, container model.Resource, index int, element model.RDFNode) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	pat, err := model.MembershipPattern(container, index)
	if err != nil {
		return err
	}
	current, ok, err := m.findSingle(ctx, pat)
	if err != nil {
		return err
	}
	next, err := model.MembershipTriple(container, index, element)
	if err != nil {
		return err
	}
	if !ok {
		if err := m.ck.checkCreate(triple.FromTriple(next)); err != nil {
			return err
		}
		if err := m.g.base.Add(ctx, []*triple.Triple{next}); err != nil {
			return err
		}
		m.ck.resetCache()
		return nil
	}
	if err := m.ck.checkEvaluateUpdate(current, next); err != nil {
		if derr := m.ck.checkDelete(triple.FromTriple(current)); derr != nil {
			return derr
		}
		if cerr := m.ck.checkCreate(triple.FromTriple(next)); cerr != nil {
			return cerr
		}
	}
	if err := m.g.base.Delete(ctx, []*triple.Triple{current}); err != nil {
		return err
	}
	if err := m.g.base.Add(ctx, []*triple.Triple{next}); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}
