package secured

import (
	"context"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/model"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// findReifiers returns, among the base's triples, every resource R
// for which all four of R's reification triples for stmt are present
// in the base (not filtered: this is the raw search the permission
// rules below apply to).
func (m *Model) findReifiers(ctx context.Context, stmt model.Statement) ([]node.Node, error) {
	subjIRI, err := node.NewIRI(model.RDFSubject)
	if err != nil {
		return nil, err
	}
	pat := triple.NewPattern(nil, subjIRI, stmt.Subject())
	subjTriples, err := m.g.drainBase(ctx, pat)
	if err != nil {
		return nil, err
	}

	var reifiers []node.Node
	for _, st := range subjTriples {
		r := st.S()
		rs := model.ReifiedStatement{R: r, Stmt: stmt}
		want, err := rs.Constituent()
		if err != nil {
			return nil, err
		}
		all := true
		for _, wt := range want {
			ok, err := m.g.base.Contains(ctx, wt)
			if err != nil {
				return nil, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			reifiers = append(reifiers, *r)
		}
	}
	return reifiers, nil
}

// readableReifierOf returns the first reifier of stmt whose four
// constituent triples are all Read-permitted to the current
// principal: a reification is only "visible" when every triple that
// evidences it is visible.
func (m *Model) readableReifierOf(ctx context.Context, stmt model.Statement) (*node.Node, error) {
	reifiers, err := m.findReifiers(ctx, stmt)
	if err != nil {
		return nil, err
	}
	for i := range reifiers {
		r := &reifiers[i]
		rs := model.ReifiedStatement{R: r, Stmt: stmt}
		triples, err := rs.Constituent()
		if err != nil {
			return nil, err
		}
		readable := true
		for _, t := range triples {
			if !m.ck.canReadTriple(triple.FromTriple(t)) {
				readable = false
				break
			}
		}
		if readable {
			return r, nil
		}
	}
	return nil, nil
}

// IsReified requires graph Read and reports whether at least one
// reification of stmt is readable.
func (m *Model) IsReified(ctx context.Context, stmt model.Statement) (bool, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	r, err := m.readableReifierOf(ctx, stmt)
	if err != nil {
		return false, err
	}
	return r != nil, nil
}

// GetAnyReifiedStatement requires graph Read; if a readable reifier
// of stmt already exists it is returned, otherwise a fresh reifier is
// created under the same Update+Create discipline as
// CreateReifiedStatement.
func (m *Model) GetAnyReifiedStatement(ctx context.Context, stmt model.Statement) (*node.Node, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return nil, err
	}
	if soft {
		return m.CreateReifiedStatement(ctx, nil, stmt)
	}
	if r, err := m.readableReifierOf(ctx, stmt); err != nil {
		return nil, err
	} else if r != nil {
		return r, nil
	}
	return m.CreateReifiedStatement(ctx, nil, stmt)
}

// CreateReifiedStatement requires Update plus Create for each of the
// four constituent triples; when optR is supplied, graph-level Read is
// additionally required. The triples already attached to optR are not
// Read-checked one by one, and the four constituent triples are always
// added rather than an existing reification being returned. Failure
// leaves the base unchanged.
func (m *Model) CreateReifiedStatement(ctx context.Context, optR *node.Node, stmt model.Statement) (*node.Node, error) {
	if err := m.ck.checkUpdate(); err != nil {
		return nil, err
	}
	r := optR
	if r == nil {
		r = node.NewBlankNode()
	} else if err := m.ck.checkRead(); err != nil {
		return nil, err
	}

	rs := model.ReifiedStatement{R: r, Stmt: stmt}
	triples, err := rs.Constituent()
	if err != nil {
		return nil, err
	}
	for _, t := range triples {
		if err := m.ck.checkCreate(triple.FromTriple(t)); err != nil {
			return nil, err
		}
	}
	if err := m.g.base.Add(ctx, triples); err != nil {
		return nil, err
	}
	m.ck.resetCache()
	return r, nil
}

// RemoveReification requires Update plus Delete for each of R's four
// constituent triples, determined by scanning the base for whichever
// statement R actually reifies.
func (m *Model) RemoveReification(ctx context.Context, r *node.Node) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	stmt, ok, err := m.statementReifiedBy(ctx, r)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	rs := model.ReifiedStatement{R: r, Stmt: stmt}
	triples, err := rs.Constituent()
	if err != nil {
		return err
	}
	for _, t := range triples {
		if err := m.ck.checkDelete(triple.FromTriple(t)); err != nil {
			return err
		}
	}
	if err := m.g.base.Delete(ctx, triples); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// RemoveAllReifications requires Update plus Delete for every
// constituent triple of every reifier of stmt; a denial on any single
// reifier aborts before any of them are removed.
func (m *Model) RemoveAllReifications(ctx context.Context, stmt model.Statement) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	reifiers, err := m.findReifiers(ctx, stmt)
	if err != nil {
		return err
	}
	var all []*triple.Triple
	for i := range reifiers {
		rs := model.ReifiedStatement{R: &reifiers[i], Stmt: stmt}
		triples, err := rs.Constituent()
		if err != nil {
			return err
		}
		for _, t := range triples {
			if err := m.ck.checkDelete(triple.FromTriple(t)); err != nil {
				return err
			}
		}
		all = append(all, triples...)
	}
	if len(all) == 0 {
		return nil
	}
	if err := m.g.base.Delete(ctx, all); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// statementReifiedBy recovers the (s,p,o) triple that r reifies by
// reading its four constituent triples straight from the base.
func (m *Model) statementReifiedBy(ctx context.Context, r *node.Node) (model.Statement, bool, error) {
	subjIRI, err := node.NewIRI(model.RDFSubject)
	if err != nil {
		return model.Statement{}, false, err
	}
	predIRI, err := node.NewIRI(model.RDFPredicate)
	if err != nil {
		return model.Statement{}, false, err
	}
	objIRI, err := node.NewIRI(model.RDFObject)
	if err != nil {
		return model.Statement{}, false, err
	}

	subj, okS, err := m.findSingle(ctx, triple.NewPattern(r, subjIRI, nil))
	if err != nil || !okS {
		return model.Statement{}, false, err
	}
	pred, okP, err := m.findSingle(ctx, triple.NewPattern(r, predIRI, nil))
	if err != nil || !okP {
		return model.Statement{}, false, err
	}
	obj, okO, err := m.findSingle(ctx, triple.NewPattern(r, objIRI, nil))
	if err != nil || !okO {
		return model.Statement{}, false, err
	}
	stmt, err := model.NewStatement(subj.O(), pred.O(), obj.O())
	return stmt, err == nil, err
}

func (m *Model) findSingle(ctx context.Context, pat triple.Pattern) (*triple.Triple, bool, error) {
	out := make(chan *triple.Triple)
	errCh := make(chan error, 1)
	go func() {
		lo := &graph.LookupOptions{MaxElements: 1}
		errCh <- m.g.base.Find(ctx, pat, lo, out)
	}()
	var found *triple.Triple
	for t := range out {
		if found == nil {
			found = t
		}
	}
	if err := <-errCh; err != nil {
		return nil, false, err
	}
	return found, found != nil, nil
}
