package secured

import (
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// aclEvaluator is a minimal fixture Evaluator keyed by predicate IRI,
// shared by this package's tests: any triple whose predicate is in
// deniedPredicates is unreadable/uncreatable/undeletable, and a pattern
// with a wildcard or non-IRI predicate is denied whenever any predicate
// is denied. The graph-level flags deny graph Read or Update; everything
// else is fully permitted.
type aclEvaluator struct {
	hardRead         bool
	deniedPredicates map[string]bool
	graphReadDenied  bool
	graphUpdateDenied bool
	requireAuth      bool
}

func (e *aclEvaluator) Evaluate(p security.Principal, a security.Action, graphIRI string) bool {
	switch a {
	case security.Read:
		return !e.graphReadDenied
	case security.Update:
		return !e.graphUpdateDenied
	}
	return true
}

func (e *aclEvaluator) EvaluateTriple(p security.Principal, a security.Action, graphIRI string, pat triple.Pattern) bool {
	if pat.P == nil || pat.P.Kind() != node.IRI {
		return len(e.deniedPredicates) == 0
	}
	return !e.deniedPredicates[pat.P.IRI()]
}

func (e *aclEvaluator) EvaluateAny(p security.Principal, actions []security.Action, graphIRI string, pat *triple.Pattern) bool {
	for _, a := range actions {
		if pat == nil {
			if e.Evaluate(p, a, graphIRI) {
				return true
			}
			continue
		}
		if e.EvaluateTriple(p, a, graphIRI, *pat) {
			return true
		}
	}
	return false
}

func (e *aclEvaluator) EvaluateUpdate(p security.Principal, graphIRI string, from, to *triple.Triple) bool {
	return e.EvaluateTriple(p, security.Delete, graphIRI, triple.FromTriple(from)) &&
		e.EvaluateTriple(p, security.Create, graphIRI, triple.FromTriple(to))
}

func (e *aclEvaluator) CurrentPrincipal() security.Principal {
	if e.requireAuth {
		return security.Unauthenticated
	}
	return security.NewNamedPrincipal("tester")
}
func (e *aclEvaluator) IsAuthenticated(p security.Principal) bool { return p.IsAuthenticated() }
func (e *aclEvaluator) IsHardReadError() bool                     { return e.hardRead }
func (e *aclEvaluator) RequiresAuthentication() bool              { return e.requireAuth }

func allowAll() *aclEvaluator {
	return &aclEvaluator{deniedPredicates: map[string]bool{}}
}

func denyPredicates(preds ...string) *aclEvaluator {
	m := make(map[string]bool, len(preds))
	for _, p := range preds {
		m[p] = true
	}
	return &aclEvaluator{deniedPredicates: m}
}
