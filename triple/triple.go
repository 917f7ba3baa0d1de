// Package triple implements and allows manipulation of subject
// predicate object triples and the find patterns built from them.
package triple

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/badwolf-sec/secured/node"
)

// Triple describes a <subject predicate object> statement. Predicate
// and object are themselves Nodes: a predicate is an IRI node or the
// wildcard, an object may be any node kind including a literal.
type Triple struct {
	s *node.Node
	p *node.Node
	o *node.Node
}

// New creates a new triple. The predicate must be an IRI node or the
// wildcard.
func New(s, p, o *node.Node) (*Triple, error) {
	if s == nil || p == nil || o == nil {
		return nil, fmt.Errorf("triple.New cannot build a triple from nil components in <%v %v %v>", s, p, o)
	}
	if p.Kind() != node.IRI && p.Kind() != node.Wildcard {
		return nil, fmt.Errorf("triple.New: predicate must be an IRI or the wildcard, got %v", p.Kind())
	}
	return &Triple{s: s, p: p, o: o}, nil
}

// S returns the subject of the triple.
func (t *Triple) S() *node.Node { return t.s }

// P returns the predicate of the triple.
func (t *Triple) P() *node.Node { return t.p }

// O returns the object of the triple.
func (t *Triple) O() *node.Node { return t.o }

// Concrete reports whether none of the triple's components is the
// Wildcard node; only concrete triples may be stored in a graph.
func (t *Triple) Concrete() bool {
	return t.s.IsConcrete() && t.p.IsConcrete() && t.o.IsConcrete()
}

// String marshals the triple into its pretty-printed form.
func (t *Triple) String() string {
	return fmt.Sprintf("%s\t%s\t%s", t.s, t.p, t.o)
}

// GUID returns a global unique identifier for the triple: the base64
// encoding of its stringified form.
func (t *Triple) GUID() string {
	return base64.StdEncoding.EncodeToString([]byte(t.String()))
}

// Equal reports structural (value) equality between two triples.
func (t *Triple) Equal(ot *Triple) bool {
	if t == nil || ot == nil {
		return t == ot
	}
	return t.s.Equal(ot.s) && t.p.Equal(ot.p) && t.o.Equal(ot.o)
}

var pSplit = strings.Index

// Parse parses a single pretty-printed triple. It expects exactly the
// three tab-separated fields produced by String, and that objects are
// either nodes or literals (never the wildcard: a parsed triple is
// always a candidate for storage, never a find pattern).
func Parse(line string, b ObjectParser) (*Triple, error) {
	raw := strings.TrimSpace(line)
	parts := strings.SplitN(raw, "\t", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("triple.Parse: expected subject\\tpredicate\\tobject, got %q", raw)
	}
	s, err := node.Parse(parts[0])
	if err != nil {
		return nil, fmt.Errorf("triple.Parse: invalid subject %q: %v", parts[0], err)
	}
	p, err := node.Parse(parts[1])
	if err != nil {
		return nil, fmt.Errorf("triple.Parse: invalid predicate %q: %v", parts[1], err)
	}
	o, err := b.ParseObject(parts[2])
	if err != nil {
		return nil, fmt.Errorf("triple.Parse: invalid object %q: %v", parts[2], err)
	}
	t, err := New(s, p, o)
	if err != nil {
		return nil, err
	}
	if !t.Concrete() {
		return nil, fmt.Errorf("triple.Parse: wildcard component in %q", raw)
	}
	return t, nil
}

// ObjectParser parses the textual form of a triple's object position,
// which may be a node or a literal. Implemented by literal.Builder-
// backed adapters; kept as a narrow interface here so this package
// does not need to import the literal builder directly.
type ObjectParser interface {
	ParseObject(s string) (*node.Node, error)
}

// Ignore is a component-level sentinel distinct from node.Wildcard:
// where node.Wildcard means "matches any concrete node" in a find
// pattern evaluated against stored data, Ignore means "this component
// is not meaningful to the permission decision at hand" when building
// a Pattern for a derived-triple check (rdf:list plumbing, see
// secured.Model.CreateList). Evaluators must accept
// Ignore in any position of a Pattern.
var Ignore = &node.Node{}

// Pattern is a (possibly partial) triple used to describe a derived
// or not-yet-materialized permission check: any component may be
// node.WildcardNode, Ignore, or a concrete node.
type Pattern struct {
	S, P, O *node.Node
}

// NewPattern builds a Pattern from three components, defaulting nil
// components to node.WildcardNode.
func NewPattern(s, p, o *node.Node) Pattern {
	if s == nil {
		s = node.WildcardNode
	}
	if p == nil {
		p = node.WildcardNode
	}
	if o == nil {
		o = node.WildcardNode
	}
	return Pattern{S: s, P: p, O: o}
}

// FromTriple lifts a concrete triple into a fully-bound Pattern.
func FromTriple(t *Triple) Pattern {
	return Pattern{S: t.s, P: t.p, O: t.o}
}

// HasWildcard reports whether any component of the pattern is
// node.WildcardNode or Ignore, i.e. it does not identify a single
// concrete triple.
func (p Pattern) HasWildcard() bool {
	isOpen := func(n *node.Node) bool {
		return n == nil || n == Ignore || n.IsWildcard()
	}
	return isOpen(p.S) || isOpen(p.P) || isOpen(p.O)
}

// Matches reports whether a concrete triple satisfies this pattern:
// every non-wildcard, non-ignore component must equal the triple's
// corresponding component.
func (p Pattern) Matches(t *Triple) bool {
	match := func(pn, tn *node.Node) bool {
		return pn == nil || pn == Ignore || pn.IsWildcard() || pn.Equal(tn)
	}
	return match(p.S, t.s) && match(p.P, t.p) && match(p.O, t.o)
}
