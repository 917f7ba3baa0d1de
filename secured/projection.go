package secured

import "github.com/badwolf-sec/secured/model"

// Projection is a plain, unsecured snapshot of statements: the result
// type for operations (difference, union, intersection, query) that
// hand back a new model rather than a live, still-checked view. A
// Projection never re-consults an Evaluator; it is a value, not a
// façade.
type Projection struct {
	stmts []model.Statement
}

// NewProjection wraps a slice of statements as a Projection.
func NewProjection(stmts []model.Statement) Projection {
	return Projection{stmts: append([]model.Statement(nil), stmts...)}
}

// Statements returns the projection's statements.
func (p Projection) Statements() []model.Statement {
	return append([]model.Statement(nil), p.stmts...)
}

// Size returns the number of statements in the projection.
func (p Projection) Size() int { return len(p.stmts) }

// Contains reports whether stmt is present in the projection.
func (p Projection) Contains(stmt model.Statement) bool {
	for _, s := range p.stmts {
		if s.Equal(stmt) {
			return true
		}
	}
	return false
}

func statementKey(s model.Statement) string { return s.String() }

func statementSet(stmts []model.Statement) map[string]model.Statement {
	m := make(map[string]model.Statement, len(stmts))
	for _, s := range stmts {
		m[statementKey(s)] = s
	}
	return m
}

// differenceOf returns the statements in a that are not in b.
func differenceOf(a, b []model.Statement) []model.Statement {
	bs := statementSet(b)
	var out []model.Statement
	for _, s := range a {
		if _, ok := bs[statementKey(s)]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// unionOf returns the deduplicated union of a and b.
func unionOf(a, b []model.Statement) []model.Statement {
	seen := make(map[string]bool, len(a)+len(b))
	var out []model.Statement
	for _, s := range append(append([]model.Statement(nil), a...), b...) {
		k := statementKey(s)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

// intersectionOf returns the statements present in both a and b.
func intersectionOf(a, b []model.Statement) []model.Statement {
	bs := statementSet(b)
	var out []model.Statement
	for _, s := range a {
		if _, ok := bs[statementKey(s)]; ok {
			out = append(out, s)
		}
	}
	return out
}
