package node

import (
	"testing"

	"github.com/badwolf-sec/secured/literal"
)

func TestNewIRI(t *testing.T) {
	if _, err := NewIRI(""); err == nil {
		t.Error("node.NewIRI(\"\") should have never validated an empty IRI")
	}
	if _, err := NewIRI("<foo>"); err == nil {
		t.Error("node.NewIRI should reject an IRI containing angle brackets")
	}
	n, err := NewIRI("urn:foo")
	if err != nil {
		t.Errorf("node.NewIRI(\"urn:foo\") failed with error %v", err)
	}
	if got, want := n.String(), "<urn:foo>"; got != want {
		t.Errorf("node.String did not pretty-print an IRI node; got %q, want %q", got, want)
	}
	if n.Kind() != IRI {
		t.Errorf("node.Kind() = %v, want IRI", n.Kind())
	}
}

func TestNewBlank(t *testing.T) {
	if _, err := NewBlank(""); err == nil {
		t.Error("node.NewBlank(\"\") should have never validated an empty ID")
	}
	b, err := NewBlank("x1")
	if err != nil {
		t.Errorf("node.NewBlank(\"x1\") failed with error %v", err)
	}
	if got, want := b.String(), "_:x1"; got != want {
		t.Errorf("node.String did not pretty-print a blank node; got %q, want %q", got, want)
	}
}

func TestNewLiteralNode(t *testing.T) {
	if _, err := NewLiteralNode(nil); err == nil {
		t.Error("node.NewLiteralNode(nil) should have never validated")
	}
	lit, err := literal.DefaultBuilder().Build(true)
	if err != nil {
		t.Fatalf("literal.Build(true) failed with error %v", err)
	}
	n, err := NewLiteralNode(lit)
	if err != nil {
		t.Errorf("node.NewLiteralNode failed with error %v", err)
	}
	if n.Kind() != LiteralKind {
		t.Errorf("node.Kind() = %v, want LiteralKind", n.Kind())
	}
}

func TestWildcardNode(t *testing.T) {
	if !WildcardNode.IsWildcard() {
		t.Error("WildcardNode.IsWildcard() = false, want true")
	}
	if WildcardNode.IsConcrete() {
		t.Error("WildcardNode.IsConcrete() = true, want false")
	}
	if got, want := WildcardNode.String(), "*"; got != want {
		t.Errorf("WildcardNode.String() = %q, want %q", got, want)
	}
}

func TestEqual(t *testing.T) {
	a, _ := NewIRI("urn:a")
	b, _ := NewIRI("urn:a")
	c, _ := NewIRI("urn:b")
	if !a.Equal(b) {
		t.Error("two IRI nodes with the same IRI should be equal")
	}
	if a.Equal(c) {
		t.Error("two IRI nodes with different IRIs should not be equal")
	}
	blank1, _ := NewBlank("b1")
	if a.Equal(blank1) {
		t.Error("an IRI node should never equal a blank node")
	}
}

func TestParse(t *testing.T) {
	table := []struct {
		s  string
		ok bool
	}{
		{"<urn:foo>", true},
		{"_:b1", true},
		{"*", true},
		{"urn:foo", false},
		{"<urn:foo", false},
	}
	for _, c := range table {
		n, err := Parse(c.s)
		if c.ok && err != nil {
			t.Errorf("node.Parse(%q) failed with error %v", c.s, err)
		}
		if !c.ok && err == nil {
			t.Errorf("node.Parse(%q) should have failed, got %v", c.s, n)
		}
		if c.ok && n.String() != c.s {
			t.Errorf("node.Parse(%q).String() = %q, want %q", c.s, n.String(), c.s)
		}
	}
}

func TestNewBlankNodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		b := NewBlankNode()
		if seen[b.BlankID()] {
			t.Fatalf("NewBlankNode produced a duplicate ID %q", b.BlankID())
		}
		seen[b.BlankID()] = true
	}
}
