// Package security defines the external contract the façade consumes
// to make authorization decisions: principals, actions, and the
// pluggable Evaluator a caller supplies.
package security

import "github.com/google/uuid"

// Principal is an opaque identity on whose behalf an operation
// executes. It is an equality-only key: the façade never inspects its
// contents, only compares it for equality and hands it to the
// Evaluator.
type Principal struct {
	id     uuid.UUID
	name   string
	authed bool
	isAnon bool
}

// Unauthenticated is the distinguished principal representing an
// ambient caller with no established identity.
var Unauthenticated = Principal{isAnon: true}

// NewPrincipal wraps an authenticated identity. name is an opaque
// label (e.g. a subject claim) kept only for diagnostics.
func NewPrincipal(id uuid.UUID, name string) Principal {
	return Principal{id: id, name: name, authed: true}
}

// NewNamedPrincipal wraps an authenticated identity keyed purely by a
// string, for embeddings that do not mint UUIDs for their principals.
func NewNamedPrincipal(name string) Principal {
	return Principal{id: uuid.NewSHA1(uuid.Nil, []byte(name)), name: name, authed: true}
}

// ID returns the principal's UUID key. Two principals with equal IDs
// are the same principal.
func (p Principal) ID() uuid.UUID { return p.id }

// Name returns the opaque diagnostic label, or "" for Unauthenticated.
func (p Principal) Name() string { return p.name }

// IsAuthenticated reports whether this principal carries an
// established identity, i.e. it is not Unauthenticated.
func (p Principal) IsAuthenticated() bool { return p.authed }

// Equal reports whether two principals denote the same identity.
func (p Principal) Equal(o Principal) bool {
	if p.isAnon || o.isAnon {
		return p.isAnon == o.isAnon
	}
	return p.id == o.id
}

// String renders the principal for diagnostics only; never log this
// next to the triple it was evaluated against in a context that could
// leak cross-principal correlations.
func (p Principal) String() string {
	if p.isAnon {
		return "unauthenticated"
	}
	if p.name != "" {
		return p.name
	}
	return p.id.String()
}
