// Package literal provides the RDF literal value: a lexical form paired
// with a datatype IRI and an optional language tag.
package literal

import (
	"fmt"
	"strings"
)

// XSDString is the datatype IRI assigned to a plain, untyped literal.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// RDFLangString is the datatype IRI assigned to a literal carrying a
// language tag.
const RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"

// Literal is an immutable RDF literal: a lexical string, its datatype
// IRI, and an optional language tag (only meaningful when the datatype
// is RDFLangString).
type Literal struct {
	lexical  string
	datatype string
	lang     string
}

// Lexical returns the lexical form of the literal.
func (l *Literal) Lexical() string {
	return l.lexical
}

// Datatype returns the datatype IRI of the literal.
func (l *Literal) Datatype() string {
	return l.datatype
}

// Lang returns the language tag of the literal, or "" if untagged.
func (l *Literal) Lang() string {
	return l.lang
}

// String returns a pretty-printed, parseable representation of the
// literal: "lexical"@lang for language-tagged literals, "lexical" for
// plain strings, and "lexical"^^<datatype> otherwise.
func (l *Literal) String() string {
	switch l.datatype {
	case RDFLangString:
		return fmt.Sprintf("%q@%s", l.lexical, l.lang)
	case XSDString:
		return fmt.Sprintf("%q", l.lexical)
	default:
		return fmt.Sprintf("%q^^<%s>", l.lexical, l.datatype)
	}
}

// Equal reports whether two literals are value-equal.
func (l *Literal) Equal(ol *Literal) bool {
	if l == nil || ol == nil {
		return l == ol
	}
	return l.lexical == ol.lexical && l.datatype == ol.datatype && l.lang == ol.lang
}

// NewPlain creates an untyped (xsd:string) literal.
func NewPlain(lexical string) *Literal {
	return &Literal{lexical: lexical, datatype: XSDString}
}

// NewLangString creates a language-tagged literal. An empty lang
// collapses to NewPlain, matching the RDF rule that "" only ever
// matches untagged literals.
func NewLangString(lexical, lang string) (*Literal, error) {
	if strings.ContainsAny(lang, " \t\n\r") {
		return nil, fmt.Errorf("literal.NewLangString(%q) is not a valid BCP47 tag", lang)
	}
	if lang == "" {
		return NewPlain(lexical), nil
	}
	return &Literal{lexical: lexical, datatype: RDFLangString, lang: lang}, nil
}

// NewTyped creates a literal with an explicit datatype IRI.
func NewTyped(lexical, datatype string) (*Literal, error) {
	if datatype == "" {
		return nil, fmt.Errorf("literal.NewTyped(%q) requires a non empty datatype", lexical)
	}
	return &Literal{lexical: lexical, datatype: datatype}, nil
}

// Builder constructs literals from Go values, the way a resource's
// createLiteralStatement canonicalizes an arbitrary value into its RDF
// form: a small closed set of Go types maps onto a canonical lexical
// form and datatype IRI.
type Builder interface {
	// Build constructs the canonical literal for a Go value.
	Build(v interface{}) (*Literal, error)
	// Parse parses a pretty-printed literal back into a Literal.
	Parse(s string) (*Literal, error)
}

type defaultBuilder struct{}

// DefaultBuilder returns the canonical literal builder.
func DefaultBuilder() Builder {
	return defaultBuilder{}
}

// Build constructs the canonical literal for a Go value. Supported
// types are bool, int64, float64, string and []byte; anything else is
// rejected rather than silently stringified.
func (defaultBuilder) Build(v interface{}) (*Literal, error) {
	switch t := v.(type) {
	case bool:
		return &Literal{lexical: fmt.Sprintf("%t", t), datatype: "http://www.w3.org/2001/XMLSchema#boolean"}, nil
	case int64:
		return &Literal{lexical: fmt.Sprintf("%d", t), datatype: "http://www.w3.org/2001/XMLSchema#integer"}, nil
	case float64:
		return &Literal{lexical: fmt.Sprintf("%g", t), datatype: "http://www.w3.org/2001/XMLSchema#double"}, nil
	case string:
		return NewPlain(t), nil
	case []byte:
		return &Literal{lexical: string(t), datatype: "http://www.w3.org/2001/XMLSchema#base64Binary"}, nil
	default:
		return nil, fmt.Errorf("literal.Build: unsupported literal value type %T", v)
	}
}

// Parse parses the pretty-printed form produced by String.
func (defaultBuilder) Parse(s string) (*Literal, error) {
	raw := strings.TrimSpace(s)
	if raw == "" || raw[0] != '"' {
		return nil, fmt.Errorf("literal.Parse(%q): literals must start with a quote", s)
	}
	end := strings.LastIndex(raw, "\"")
	if end <= 0 {
		return nil, fmt.Errorf("literal.Parse(%q): unterminated lexical form", s)
	}
	lexical, rest := raw[1:end], raw[end+1:]
	switch {
	case rest == "":
		return NewPlain(lexical), nil
	case strings.HasPrefix(rest, "@"):
		return NewLangString(lexical, rest[1:])
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">"):
		return NewTyped(lexical, rest[3:len(rest)-1])
	default:
		return nil, fmt.Errorf("literal.Parse(%q): unrecognized suffix %q", s, rest)
	}
}
