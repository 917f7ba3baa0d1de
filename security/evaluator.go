package security

import "github.com/badwolf-sec/secured/triple"

// Evaluator is the pluggable policy engine the façade consults for
// every operation. Implementations decide, for a principal acting on a
// named graph (and, where relevant, a specific triple pattern),
// whether an Action is permitted.
//
// Triple-level decisions take a triple.Pattern rather than a bare
// triple.Triple so that graph-wide assertions (a pattern containing
// node.WildcardNode or triple.Ignore in any position) can be
// evaluated with the same call as a concrete per-triple check; see
// Pattern.HasWildcard. An Evaluator must treat Wildcard/Ignore
// components as unconstrained, not as "no such node".
type Evaluator interface {
	// Evaluate decides a graph-level Action.
	Evaluate(p Principal, a Action, graphIRI string) bool

	// EvaluateTriple decides a triple-level Action against pat, which
	// may be a concrete triple lifted via triple.FromTriple or an open
	// pattern used for a derived-triple/graph-wide check.
	EvaluateTriple(p Principal, a Action, graphIRI string, pat triple.Pattern) bool

	// EvaluateAny reports whether any of actions is permitted; for a
	// concrete pat it is equivalent to ORing EvaluateTriple over
	// actions, for a graph-level check (pat's zero value) it ORs
	// Evaluate.
	EvaluateAny(p Principal, actions []Action, graphIRI string, pat *triple.Pattern) bool

	// EvaluateUpdate decides whether from may be replaced by to in a
	// single atomic step (used by container set(i, x); an evaluator
	// that has no special-cased replacement policy may implement this
	// as EvaluateTriple(Delete, from) && EvaluateTriple(Create, to)).
	EvaluateUpdate(p Principal, graphIRI string, from, to *triple.Triple) bool

	// CurrentPrincipal returns the principal bound to the ambient
	// execution context (request-scoped, thread-local, or however the
	// embedding tracks identity). The façade never caches this value
	// across calls.
	CurrentPrincipal() Principal

	// IsAuthenticated reports whether p carries an established
	// identity. Distinct from p.IsAuthenticated() because an evaluator
	// may apply additional policy (e.g. a principal can present valid
	// credentials yet still be treated as anonymous for a retired
	// account).
	IsAuthenticated(p Principal) bool

	// IsHardReadError reports the evaluator's read-denial mode: true
	// means unreadable reads raise ReadDenied, false means they return
	// empty/zero/false results silently. This must be a stable
	// property of the evaluator for the lifetime of a façade instance.
	IsHardReadError() bool

	// RequiresAuthentication reports whether every check must fail with
	// AuthenticationRequired when CurrentPrincipal() is not
	// authenticated, before any authorization outcome is produced.
	RequiresAuthentication() bool
}
