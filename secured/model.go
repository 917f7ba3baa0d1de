package secured

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/graph/memio"
	"github.com/badwolf-sec/secured/literal"
	"github.com/badwolf-sec/secured/model"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// Model is the statement-level secured façade: a Graph plus
// statement typing, bulk operations, set algebra, property lookup,
// and read/write delegation. It composes Graph rather than
// reimplementing any of its checks.
type Model struct {
	g  *Graph
	ck checker
}

// NewModel wraps g as a secured statement model.
func NewModel(g *Graph) *Model {
	return &Model{g: g, ck: g.ck}
}

// Graph returns the underlying secured graph façade.
func (m *Model) Graph() *Graph { return m.g }

// AddStatements requires graph Update and, for every statement, Create;
// denials are pre-checked concurrently (via errgroup) so that a single
// denial leaves the base untouched even though memstore offers no
// transaction handler to roll back against.
func (m *Model) AddStatements(ctx context.Context, stmts []model.Statement) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	if err := m.precheckAll(stmts, m.ck.checkCreate); err != nil {
		return err
	}
	ts := make([]*triple.Triple, len(stmts))
	for i, s := range stmts {
		ts[i] = s.Triple()
	}
	if err := m.g.base.Add(ctx, ts); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// RemoveStatements requires graph Update and, for every statement,
// Delete; pre-checked the same way as AddStatements.
func (m *Model) RemoveStatements(ctx context.Context, stmts []model.Statement) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	if err := m.precheckAll(stmts, m.ck.checkDelete); err != nil {
		return err
	}
	ts := make([]*triple.Triple, len(stmts))
	for i, s := range stmts {
		ts[i] = s.Triple()
	}
	if err := m.g.base.Delete(ctx, ts); err != nil {
		return err
	}
	m.ck.resetCache()
	return nil
}

// precheckAll runs check against every statement concurrently and
// returns the first denial, if any, leaving none of stmts applied.
func (m *Model) precheckAll(stmts []model.Statement, check func(triple.Pattern) error) error {
	var eg errgroup.Group
	for _, s := range stmts {
		s := s
		eg.Go(func() error {
			return check(triple.FromTriple(s.Triple()))
		})
	}
	return eg.Wait()
}

// ContainsAll requires graph Read. Under unconditional readability it
// delegates to the base; otherwise every statement in stmts must both
// be present in the base and Read-permitted.
func (m *Model) ContainsAll(ctx context.Context, stmts []model.Statement) (bool, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	for _, s := range stmts {
		ok, err := m.containsReadable(ctx, s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ContainsAny requires graph Read and reports whether at least one
// statement of stmts is present and readable; if none of stmts can be
// read this returns false, not an error.
func (m *Model) ContainsAny(ctx context.Context, stmts []model.Statement) (bool, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return false, err
	}
	if soft {
		return false, nil
	}
	for _, s := range stmts {
		ok, err := m.containsReadable(ctx, s)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *Model) containsReadable(ctx context.Context, s model.Statement) (bool, error) {
	if m.ck.canReadAny() {
		return m.g.base.Contains(ctx, s.Triple())
	}
	if !m.ck.canReadTriple(triple.FromTriple(s.Triple())) {
		return false, nil
	}
	return m.g.base.Contains(ctx, s.Triple())
}

// Difference requires graph Read and returns the readable statements
// of m not present in other, as a plain Projection.
func (m *Model) Difference(ctx context.Context, other *Model) (Projection, error) {
	mine, err := m.readableStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	theirs, err := other.allStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	return NewProjection(differenceOf(mine, theirs)), nil
}

// Union requires graph Read and returns the union of m's readable
// statements with the full content of other.
func (m *Model) Union(ctx context.Context, other *Model) (Projection, error) {
	mine, err := m.readableStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	theirs, err := other.allStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	return NewProjection(unionOf(mine, theirs)), nil
}

// Intersection requires graph Read and returns the statements
// readable on both sides.
func (m *Model) Intersection(ctx context.Context, other *Model) (Projection, error) {
	mine, err := m.readableStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	theirs, err := other.readableStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	return NewProjection(intersectionOf(mine, theirs)), nil
}

// Query requires graph Read and applies selector over the readable
// projection, returning the statements for which it reports true.
func (m *Model) Query(ctx context.Context, selector func(model.Statement) bool) (Projection, error) {
	stmts, err := m.readableStatements(ctx)
	if err != nil {
		return Projection{}, err
	}
	var out []model.Statement
	for _, s := range stmts {
		if selector(s) {
			out = append(out, s)
		}
	}
	return NewProjection(out), nil
}

// readableStatements requires graph Read and materializes every
// statement the principal may read.
func (m *Model) readableStatements(ctx context.Context) ([]model.Statement, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return nil, err
	}
	if soft {
		return nil, nil
	}
	ts, err := m.g.readableProjection(ctx)
	if err != nil {
		return nil, err
	}
	return toStatements(ts)
}

// allStatements materializes other's full base content, unfiltered;
// used as the non-secured operand of union/difference, since the
// argument model's full content participates, not just its readable
// projection.
func (m *Model) allStatements(ctx context.Context) ([]model.Statement, error) {
	ts, err := m.g.drainBase(ctx, anyPattern)
	if err != nil {
		return nil, err
	}
	return toStatements(ts)
}

func toStatements(ts []*triple.Triple) ([]model.Statement, error) {
	out := make([]model.Statement, 0, len(ts))
	for _, t := range ts {
		s, err := model.FromTriple(t)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Read requires graph Update+Create and bulk-adds the statements
// parsed from r, equivalent to AddStatements over the parsed triples.
func (m *Model) Read(ctx context.Context, r io.Reader) error {
	if err := m.ck.checkUpdate(); err != nil {
		return err
	}
	ts, err := memio.ReadTriples(r)
	if err != nil {
		return err
	}
	stmts, err := toStatements(ts)
	if err != nil {
		return err
	}
	return m.AddStatements(ctx, stmts)
}

// Write requires graph Read. Under unconditional readability it
// delegates straight to the base serializer; otherwise it materializes
// a readable-only projection and serializes that, so the emitted
// document never names a triple the principal could not read.
func (m *Model) Write(ctx context.Context, w io.Writer) error {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return err
	}
	if soft {
		return nil
	}
	if m.ck.canReadAny() {
		_, err := memio.WriteGraph(ctx, m.g.base, w)
		return err
	}
	ts, err := m.g.readableProjection(ctx)
	if err != nil {
		return err
	}
	_, err = memio.WriteTriples(w, ts)
	return err
}

// GetProperty requires graph Read and returns the first base match of
// (s, p, *) that passes per-triple Read, optionally constrained to a
// language tag ("" matches only untagged literals); it returns nil,
// nil when no match is found, never an error.
func (m *Model) GetProperty(ctx context.Context, s model.Resource, p model.Property, lang ...string) (model.RDFNode, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return nil, err
	}
	if soft {
		return nil, nil
	}
	return m.firstReadableObject(ctx, s, p, lang...)
}

// GetRequiredProperty is GetProperty but raises PropertyNotFound when
// no match exists, unless the principal cannot read (s, p, ANY), in
// which case it raises ReadDenied instead: an absence the principal
// could not have observed as present must not be reported as absent
// either.
func (m *Model) GetRequiredProperty(ctx context.Context, s model.Resource, p model.Property, lang ...string) (model.RDFNode, error) {
	soft, err := m.ck.checkReadGate()
	if err != nil {
		return nil, err
	}
	if soft {
		return nil, security.NewPropertyNotFound(m.g.ID(), s.String(), p.String())
	}
	n, err := m.firstReadableObject(ctx, s, p, lang...)
	if err != nil {
		return nil, err
	}
	if n != nil {
		return n, nil
	}
	pat := triple.NewPattern(s, p, nil)
	if !m.ck.canReadTriple(pat) {
		return nil, security.NewReadDeniedTriple(m.g.ID(), pat)
	}
	return nil, security.NewPropertyNotFound(m.g.ID(), s.String(), p.String())
}

func (m *Model) firstReadableObject(ctx context.Context, s model.Resource, p model.Property, lang ...string) (model.RDFNode, error) {
	pat := triple.NewPattern(s, p, nil)
	it, err := newFilteredIterator(ctx, m.ck, func(ctx context.Context, out chan<- *triple.Triple) error {
		return m.g.base.Find(ctx, pat, graph.DefaultLookup, out)
	})
	if err != nil {
		return nil, err
	}
	defer it.Close()
	want := ""
	if len(lang) > 0 {
		want = lang[0]
	}
	for {
		t, ok := it.Next()
		if !ok {
			return nil, nil
		}
		if len(lang) == 0 {
			return t.O(), nil
		}
		o := t.O()
		if o.Kind() != node.LiteralKind {
			continue
		}
		if o.Literal().Lang() == want {
			return o, nil
		}
	}
}

// CreateResource requires graph Update, Read and, per statement,
// Create: it checks graph Read, then materializes the statements
// implied by a resource description in one bulk add (AddStatements).
func (m *Model) CreateResource(ctx context.Context, stmts []model.Statement) error {
	if err := m.ck.checkRead(); err != nil {
		return err
	}
	return m.AddStatements(ctx, stmts)
}

// CreateLiteralStatement requires graph Update+Create; it builds the
// canonical literal for value via literal.DefaultBuilder, then adds
// (s, p, literal).
func (m *Model) CreateLiteralStatement(ctx context.Context, s model.Resource, p model.Property, value interface{}) (model.Statement, error) {
	lit, err := literal.DefaultBuilder().Build(value)
	if err != nil {
		return model.Statement{}, err
	}
	litNode, err := node.NewLiteralNode(lit)
	if err != nil {
		return model.Statement{}, err
	}
	stmt, err := model.NewStatement(s, p, litNode)
	if err != nil {
		return model.Statement{}, err
	}
	if err := m.AddStatements(ctx, []model.Statement{stmt}); err != nil {
		return model.Statement{}, err
	}
	return stmt, nil
}
