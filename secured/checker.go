// Package secured wraps a base RDF graph/model with per-operation,
// per-triple access control mediated by a pluggable security.Evaluator.
package secured

import (
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// checker is the canonical permission-check helper shared by every
// façade type in this package: it resolves the current principal from
// the evaluator once per call and raises the matching typed denial on
// failure.
type checker struct {
	ev       security.Evaluator
	graphIRI string
}

func newChecker(ev security.Evaluator, graphIRI string) checker {
	return checker{ev: ev, graphIRI: graphIRI}
}

// principal resolves the ambient principal and, when the evaluator
// requires authentication, raises AuthenticationRequired before any
// authorization outcome is produced.
func (c checker) principal() (security.Principal, error) {
	p := c.ev.CurrentPrincipal()
	if c.ev.RequiresAuthentication() && !c.ev.IsAuthenticated(p) {
		return p, security.NewAuthenticationRequired(c.graphIRI)
	}
	return p, nil
}

func (c checker) canRead() bool {
	p, err := c.principal()
	if err != nil {
		return false
	}
	return c.ev.Evaluate(p, security.Read, c.graphIRI)
}

func (c checker) canReadTriple(pat triple.Pattern) bool {
	p, err := c.principal()
	if err != nil {
		return false
	}
	return c.ev.EvaluateTriple(p, security.Read, c.graphIRI, pat)
}

// canReadAny reports whether the principal may read every triple of
// this graph unconditionally: graph-level Read plus triple-level Read
// of the fully wildcarded pattern. This is the guard that lets read
// operations take an unfiltered pass-through path.
func (c checker) canReadAny() bool {
	return c.canRead() && c.canReadTriple(triple.NewPattern(nil, nil, nil))
}

func (c checker) canDelete(pat triple.Pattern) bool {
	p, err := c.principal()
	if err != nil {
		return false
	}
	return c.ev.EvaluateTriple(p, security.Delete, c.graphIRI, pat)
}

func (c checker) canCreate(pat triple.Pattern) bool {
	p, err := c.principal()
	if err != nil {
		return false
	}
	return c.ev.EvaluateTriple(p, security.Create, c.graphIRI, pat)
}

func (c checker) canUpdate() bool {
	p, err := c.principal()
	if err != nil {
		return false
	}
	return c.ev.Evaluate(p, security.Update, c.graphIRI)
}

// checkRead raises ReadDenied (or AuthenticationRequired) unless the
// principal may Read the graph.
func (c checker) checkRead() error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.Evaluate(p, security.Read, c.graphIRI) {
		return security.NewReadDenied(c.graphIRI)
	}
	return nil
}

// checkReadTriple raises ReadDenied for a specific pattern. A
// wildcard-bearing pattern is treated as a graph-wide assertion:
// evaluators must decide it as a single check, not by enumeration.
func (c checker) checkReadTriple(pat triple.Pattern) error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.EvaluateTriple(p, security.Read, c.graphIRI, pat) {
		return security.NewReadDeniedTriple(c.graphIRI, pat)
	}
	return nil
}

// checkReadGate is the entry gate every read-family operation
// (size, isEmpty, contains, find, isIsomorphicWith) calls before doing
// any work. It returns soft=true when the graph-level Read check
// failed but the evaluator is in soft-read mode, signaling the caller
// to return its empty/zero/false result with no error; it returns a
// non-nil error only for AuthenticationRequired or hard-read denials.
func (c checker) checkReadGate() (soft bool, err error) {
	p, err := c.principal()
	if err != nil {
		return false, err
	}
	if c.ev.Evaluate(p, security.Read, c.graphIRI) {
		return false, nil
	}
	if c.ev.IsHardReadError() {
		return false, security.NewReadDenied(c.graphIRI)
	}
	return true, nil
}

// checkUpdate raises UpdateDenied unless the principal may Update the
// graph as a whole; every structural mutation requires this first.
func (c checker) checkUpdate() error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.Evaluate(p, security.Update, c.graphIRI) {
		return security.NewUpdateDenied(c.graphIRI)
	}
	return nil
}

// checkCreate raises AddDenied unless the principal may Create pat.
func (c checker) checkCreate(pat triple.Pattern) error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.EvaluateTriple(p, security.Create, c.graphIRI, pat) {
		return security.NewAddDenied(c.graphIRI, pat)
	}
	return nil
}

// checkDelete raises DeleteDenied unless the principal may Delete pat.
func (c checker) checkDelete(pat triple.Pattern) error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.EvaluateTriple(p, security.Delete, c.graphIRI, pat) {
		return security.NewDeleteDenied(c.graphIRI, pat)
	}
	return nil
}

// checkEvaluateUpdate raises UpdateDenied unless the evaluator permits
// replacing from with to atomically.
func (c checker) checkEvaluateUpdate(from, to *triple.Triple) error {
	p, err := c.principal()
	if err != nil {
		return err
	}
	if !c.ev.EvaluateUpdate(p, c.graphIRI, from, to) {
		return security.NewUpdateDenied(c.graphIRI)
	}
	return nil
}

// hardRead reports whether the evaluator is in hard-read mode: when
// true, an unreadable context raises ReadDenied; when false, it yields
// empty results silently.
func (c checker) hardRead() bool {
	return c.ev.IsHardReadError()
}

// resettable is satisfied by evalcache.Evaluator without this package
// importing it: any evaluator that memoizes decisions and exposes a
// Reset clears it after a successful mutation, since a cached decision
// may no longer hold once the graph's content has changed.
type resettable interface {
	Reset()
}

func (c checker) resetCache() {
	if r, ok := c.ev.(resettable); ok {
		r.Reset()
	}
}
