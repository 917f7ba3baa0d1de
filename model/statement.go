package model

import (
	"fmt"

	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// Resource is a node that may act as a statement's subject or as a
// reifying resource: an IRI or a blank node, never a literal or the
// wildcard.
type Resource = *node.Node

// Property is a node that may act as a statement's predicate: always
// an IRI.
type Property = *node.Node

// RDFNode is any node that may act as a statement's object.
type RDFNode = *node.Node

// Statement is a triple re-viewed with RDF's typed roles. It is
// value-equal to its underlying triple; the typing only constrains
// construction.
type Statement struct {
	s Resource
	p Property
	o RDFNode
}

// NewStatement builds a Statement, rejecting a subject that is a
// literal or wildcard and a predicate that is not an IRI.
func NewStatement(s Resource, p Property, o RDFNode) (Statement, error) {
	if s == nil || p == nil || o == nil {
		return Statement{}, fmt.Errorf("model.NewStatement: components cannot be nil")
	}
	if s.Kind() != node.IRI && s.Kind() != node.Blank {
		return Statement{}, fmt.Errorf("model.NewStatement: subject must be an IRI or blank node, got %v", s.Kind())
	}
	if p.Kind() != node.IRI {
		return Statement{}, fmt.Errorf("model.NewStatement: predicate must be an IRI, got %v", p.Kind())
	}
	if !o.IsConcrete() {
		return Statement{}, fmt.Errorf("model.NewStatement: object cannot be the wildcard")
	}
	return Statement{s: s, p: p, o: o}, nil
}

// FromTriple lifts a concrete triple into a Statement.
func FromTriple(t *triple.Triple) (Statement, error) {
	return NewStatement(t.S(), t.P(), t.O())
}

// Subject returns the statement's subject.
func (s Statement) Subject() Resource { return s.s }

// Predicate returns the statement's predicate.
func (s Statement) Predicate() Property { return s.p }

// Object returns the statement's object.
func (s Statement) Object() RDFNode { return s.o }

// Triple lowers the statement back to a plain triple.
func (s Statement) Triple() *triple.Triple {
	t, _ := triple.New(s.s, s.p, s.o)
	return t
}

// Equal reports structural equality between two statements.
func (s Statement) Equal(os Statement) bool {
	return s.s.Equal(os.s) && s.p.Equal(os.p) && s.o.Equal(os.o)
}

// String renders the statement in the same tab-separated form as its
// underlying triple.
func (s Statement) String() string {
	return s.Triple().String()
}

// ReifiedStatement pairs a reifying resource R with the statement it
// reifies. Constituent reifies those into the four triples
// (R, rdf:type, rdf:Statement), (R, rdf:subject, s), (R,
// rdf:predicate, p), (R, rdf:object, o).
type ReifiedStatement struct {
	R    Resource
	Stmt Statement
}

// Constituent returns the four triples that constitute this
// reification, in the fixed order type, subject, predicate, object.
func (rs ReifiedStatement) Constituent() ([]*triple.Triple, error) {
	typeIRI, err := node.NewIRI(RDFType)
	if err != nil {
		return nil, err
	}
	stmtIRI, err := node.NewIRI(RDFStatement)
	if err != nil {
		return nil, err
	}
	subjIRI, err := node.NewIRI(RDFSubject)
	if err != nil {
		return nil, err
	}
	predIRI, err := node.NewIRI(RDFPredicate)
	if err != nil {
		return nil, err
	}
	objIRI, err := node.NewIRI(RDFObject)
	if err != nil {
		return nil, err
	}

	tType, err := triple.New(rs.R, typeIRI, stmtIRI)
	if err != nil {
		return nil, err
	}
	tSubj, err := triple.New(rs.R, subjIRI, rs.Stmt.Subject())
	if err != nil {
		return nil, err
	}
	tPred, err := triple.New(rs.R, predIRI, rs.Stmt.Predicate())
	if err != nil {
		return nil, err
	}
	tObj, err := triple.New(rs.R, objIRI, rs.Stmt.Object())
	if err != nil {
		return nil, err
	}
	return []*triple.Triple{tType, tSubj, tPred, tObj}, nil
}

// ReificationPatterns returns the four Constituent triples lifted into
// find patterns, the shape a createReifiedStatement/isReified check
// needs to ask "does a matching R already exist" before any R is
// chosen.
func ReificationPatterns(stmt Statement) ([]triple.Pattern, error) {
	typeIRI, err := node.NewIRI(RDFType)
	if err != nil {
		return nil, err
	}
	stmtIRI, err := node.NewIRI(RDFStatement)
	if err != nil {
		return nil, err
	}
	subjIRI, err := node.NewIRI(RDFSubject)
	if err != nil {
		return nil, err
	}
	predIRI, err := node.NewIRI(RDFPredicate)
	if err != nil {
		return nil, err
	}
	objIRI, err := node.NewIRI(RDFObject)
	if err != nil {
		return nil, err
	}
	return []triple.Pattern{
		triple.NewPattern(nil, typeIRI, stmtIRI),
		triple.NewPattern(nil, subjIRI, stmt.Subject()),
		triple.NewPattern(nil, predIRI, stmt.Predicate()),
		triple.NewPattern(nil, objIRI, stmt.Object()),
	}, nil
}
