// Package model re-views triples with RDF's typed vocabulary: subjects
// and predicates are resources, reified statements, lists and
// containers are built from the well-known RDF and RDFS IRIs below.
package model

import "fmt"

// The fixed RDF vocabulary IRIs needed to decompose reification,
// lists, and containers into their constituent triples.
const (
	RDFType      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSubject   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#subject"
	RDFPredicate = "http://www.w3.org/1999/02/22-rdf-syntax-ns#predicate"
	RDFObject    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#object"
	RDFStatement = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Statement"
	RDFFirst     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#first"
	RDFRest      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#rest"
	RDFNil       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#nil"
	RDFBag       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Bag"
	RDFAlt       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Alt"
	RDFSeq       = "http://www.w3.org/1999/02/22-rdf-syntax-ns#Seq"
)

// RDFli renders the i-th container membership predicate IRI
// (rdf:_1, rdf:_2, ...); i is 1-based, matching the RDF container
// convention.
func RDFli(i int) string {
	return fmt.Sprintf("http://www.w3.org/1999/02/22-rdf-syntax-ns#_%d", i)
}
