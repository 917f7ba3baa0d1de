package model

import (
	"fmt"

	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// ListCell is one cons cell of a materialized RDF list: the blank or
// IRI node naming the cell, and the two triples anchoring it,
// (cell, rdf:first, member) and (cell, rdf:rest, next-cell-or-nil).
type ListCell struct {
	Node  Resource
	First *triple.Triple
	Rest  *triple.Triple
}

// BuildList materializes members as a proper RDF list: one fresh
// blank node per cell, terminated by rdf:nil. It returns the head
// node (rdf:nil itself for an empty list) and the ordered cells. The
// caller decides whether and how each cell's two triples require
// Create authorization; BuildList only shapes the structure, matching
// this package's role as the RDF data model, not the permission
// layer.
func BuildList(members []RDFNode) (Resource, []ListCell, error) {
	nilNode, err := node.NewIRI(RDFNil)
	if err != nil {
		return nil, nil, err
	}
	firstIRI, err := node.NewIRI(RDFFirst)
	if err != nil {
		return nil, nil, err
	}
	restIRI, err := node.NewIRI(RDFRest)
	if err != nil {
		return nil, nil, err
	}

	if len(members) == 0 {
		return nilNode, nil, nil
	}

	cells := make([]ListCell, len(members))
	next := Resource(nilNode)
	for i := len(members) - 1; i >= 0; i-- {
		cellNode := node.NewBlankNode()
		firstT, err := triple.New(cellNode, firstIRI, members[i])
		if err != nil {
			return nil, nil, err
		}
		restT, err := triple.New(cellNode, restIRI, next)
		if err != nil {
			return nil, nil, err
		}
		cells[i] = ListCell{Node: cellNode, First: firstT, Rest: restT}
		next = cellNode
	}
	return cells[0].Node, cells, nil
}

// ContainerKind names which RDF container vocabulary a container
// resource is typed as.
type ContainerKind uint8

const (
	// Bag is an unordered container.
	Bag ContainerKind = iota
	// Seq is an ordered container.
	Seq
	// Alt is a container of alternatives.
	Alt
)

func (k ContainerKind) iri() string {
	switch k {
	case Seq:
		return RDFSeq
	case Alt:
		return RDFAlt
	default:
		return RDFBag
	}
}

// ContainerTypeTriple builds the (container, rdf:type, kind) triple
// asserting container's container vocabulary.
func ContainerTypeTriple(container Resource, kind ContainerKind) (*triple.Triple, error) {
	typeIRI, err := node.NewIRI(RDFType)
	if err != nil {
		return nil, err
	}
	kindIRI, err := node.NewIRI(kind.iri())
	if err != nil {
		return nil, err
	}
	return triple.New(container, typeIRI, kindIRI)
}

// MembershipTriple builds the (container, rdf:_i, element) triple for
// the i-th (1-based) member of container.
func MembershipTriple(container Resource, i int, element RDFNode) (*triple.Triple, error) {
	if i < 1 {
		return nil, fmt.Errorf("model.MembershipTriple: index must be >= 1, got %d", i)
	}
	predIRI, err := node.NewIRI(RDFli(i))
	if err != nil {
		return nil, err
	}
	return triple.New(container, predIRI, element)
}

// MembershipPattern builds a find pattern matching any (container,
// rdf:_i, *) triple for a specific index, used to locate the current
// occupant of a slot before a set(i, x) replace.
func MembershipPattern(container Resource, i int) (triple.Pattern, error) {
	if i < 1 {
		return triple.Pattern{}, fmt.Errorf("model.MembershipPattern: index must be >= 1, got %d", i)
	}
	predIRI, err := node.NewIRI(RDFli(i))
	if err != nil {
		return triple.Pattern{}, err
	}
	return triple.NewPattern(container, predIRI, nil), nil
}
