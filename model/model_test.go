package model

import (
	"testing"

	"github.com/badwolf-sec/secured/node"
)

func mustIRI(t *testing.T, iri string) *node.Node {
	t.Helper()
	n, err := node.NewIRI(iri)
	if err != nil {
		t.Fatalf("node.NewIRI(%q): %v", iri, err)
	}
	return n
}

func TestNewStatementRejectsBadComponents(t *testing.T) {
	s := mustIRI(t, "urn:alice")
	p := mustIRI(t, "urn:name")
	o := mustIRI(t, "urn:alice-name")
	lit := mustIRI(t, "urn:not-a-predicate")

	if _, err := NewStatement(nil, p, o); err == nil {
		t.Error("expected error for nil subject")
	}
	if _, err := NewStatement(s, nil, o); err == nil {
		t.Error("expected error for nil predicate")
	}
	if _, err := NewStatement(s, p, nil); err == nil {
		t.Error("expected error for nil object")
	}
	if _, err := NewStatement(s, lit, o); err != nil {
		t.Error("IRI predicate should be accepted")
	}
}

func TestStatementRoundTrip(t *testing.T) {
	s := mustIRI(t, "urn:alice")
	p := mustIRI(t, "urn:name")
	o := mustIRI(t, "urn:alice-name")

	stmt, err := NewStatement(s, p, o)
	if err != nil {
		t.Fatalf("NewStatement: %v", err)
	}
	if !stmt.Subject().Equal(s) || !stmt.Predicate().Equal(p) || !stmt.Object().Equal(o) {
		t.Fatal("statement components do not round-trip")
	}

	back, err := FromTriple(stmt.Triple())
	if err != nil {
		t.Fatalf("FromTriple: %v", err)
	}
	if !stmt.Equal(back) {
		t.Error("FromTriple(stmt.Triple()) != stmt")
	}
}

func TestStatementEqual(t *testing.T) {
	s := mustIRI(t, "urn:alice")
	p := mustIRI(t, "urn:name")
	o := mustIRI(t, "urn:alice-name")
	o2 := mustIRI(t, "urn:bob-name")

	a, _ := NewStatement(s, p, o)
	b, _ := NewStatement(s, p, o)
	c, _ := NewStatement(s, p, o2)

	if !a.Equal(b) {
		t.Error("identical statements should be equal")
	}
	if a.Equal(c) {
		t.Error("statements with different objects should not be equal")
	}
}

func TestReifiedStatementConstituent(t *testing.T) {
	s := mustIRI(t, "urn:alice")
	p := mustIRI(t, "urn:name")
	o := mustIRI(t, "urn:alice-name")
	stmt, err := NewStatement(s, p, o)
	if err != nil {
		t.Fatalf("NewStatement: %v", err)
	}
	r := node.NewBlankNode()
	rs := ReifiedStatement{R: r, Stmt: stmt}

	triples, err := rs.Constituent()
	if err != nil {
		t.Fatalf("Constituent: %v", err)
	}
	if len(triples) != 4 {
		t.Fatalf("Constituent returned %d triples, want 4", len(triples))
	}
	for _, tr := range triples {
		if !tr.S().Equal(r) {
			t.Errorf("constituent triple %s does not name R as subject", tr)
		}
	}
	if triples[0].O().IRI() != RDFStatement {
		t.Errorf("first constituent triple's object = %s, want %s", triples[0].O(), RDFStatement)
	}
}

func TestReificationPatternsMatchConstituent(t *testing.T) {
	s := mustIRI(t, "urn:alice")
	p := mustIRI(t, "urn:name")
	o := mustIRI(t, "urn:alice-name")
	stmt, err := NewStatement(s, p, o)
	if err != nil {
		t.Fatalf("NewStatement: %v", err)
	}
	r := node.NewBlankNode()
	rs := ReifiedStatement{R: r, Stmt: stmt}

	triples, err := rs.Constituent()
	if err != nil {
		t.Fatalf("Constituent: %v", err)
	}
	pats, err := ReificationPatterns(stmt)
	if err != nil {
		t.Fatalf("ReificationPatterns: %v", err)
	}
	if len(pats) != len(triples) {
		t.Fatalf("got %d patterns, want %d", len(pats), len(triples))
	}
	for i, pat := range pats {
		if !pat.S.IsWildcard() {
			t.Errorf("pattern %d has a bound subject, want wildcard (R is not yet chosen)", i)
		}
		if !pat.Matches(triples[i]) {
			t.Errorf("pattern %d does not match its own constituent triple", i)
		}
	}
}

func TestRDFli(t *testing.T) {
	got := RDFli(1)
	want := "http://www.w3.org/1999/02/22-rdf-syntax-ns#_1"
	if got != want {
		t.Errorf("RDFli(1) = %q, want %q", got, want)
	}
	if RDFli(2) == RDFli(1) {
		t.Error("RDFli should produce distinct IRIs per index")
	}
}

func TestBuildListEmpty(t *testing.T) {
	head, cells, err := BuildList(nil)
	if err != nil {
		t.Fatalf("BuildList(nil): %v", err)
	}
	if len(cells) != 0 {
		t.Errorf("BuildList(nil) produced %d cells, want 0", len(cells))
	}
	if head.Kind() != node.IRI || head.IRI() != RDFNil {
		t.Errorf("BuildList(nil) head = %s, want rdf:nil", head)
	}
}

func TestBuildListChain(t *testing.T) {
	a := mustIRI(t, "urn:a")
	b := mustIRI(t, "urn:b")
	c := mustIRI(t, "urn:c")

	head, cells, err := BuildList([]RDFNode{a, b, c})
	if err != nil {
		t.Fatalf("BuildList: %v", err)
	}
	if len(cells) != 3 {
		t.Fatalf("BuildList produced %d cells, want 3", len(cells))
	}
	if !cells[0].Node.Equal(head) {
		t.Error("head should be the first cell's node")
	}
	for i, member := range []RDFNode{a, b, c} {
		if !cells[i].First.O().Equal(member) {
			t.Errorf("cell %d's first object = %s, want %s", i, cells[i].First.O(), member)
		}
	}
	if cells[2].Rest.O().Kind() != node.IRI || cells[2].Rest.O().IRI() != RDFNil {
		t.Error("last cell's rest should terminate at rdf:nil")
	}
	if !cells[0].Rest.O().Equal(cells[1].Node) {
		t.Error("first cell's rest should point at the second cell")
	}
}

func TestContainerTypeTriple(t *testing.T) {
	container := node.NewBlankNode()
	tr, err := ContainerTypeTriple(container, Seq)
	if err != nil {
		t.Fatalf("ContainerTypeTriple: %v", err)
	}
	if tr.P().IRI() != RDFType {
		t.Errorf("predicate = %s, want rdf:type", tr.P())
	}
	if tr.O().IRI() != RDFSeq {
		t.Errorf("object = %s, want rdf:Seq", tr.O())
	}
}

func TestMembershipTripleAndPattern(t *testing.T) {
	container := node.NewBlankNode()
	elem := mustIRI(t, "urn:elem")

	tr, err := MembershipTriple(container, 1, elem)
	if err != nil {
		t.Fatalf("MembershipTriple: %v", err)
	}
	if tr.P().IRI() != RDFli(1) {
		t.Errorf("predicate = %s, want %s", tr.P(), RDFli(1))
	}

	pat, err := MembershipPattern(container, 1)
	if err != nil {
		t.Fatalf("MembershipPattern: %v", err)
	}
	if !pat.Matches(tr) {
		t.Error("MembershipPattern(1) should match MembershipTriple(1, ...)")
	}

	if _, err := MembershipTriple(container, 0, elem); err == nil {
		t.Error("expected error for index < 1")
	}
	if _, err := MembershipPattern(container, 0); err == nil {
		t.Error("expected error for index < 1")
	}
}
