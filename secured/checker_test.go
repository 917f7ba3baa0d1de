package secured

import (
	"testing"

	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

func TestCheckerCanReadAnyRequiresBothGates(t *testing.T) {
	ck := newChecker(allowAll(), "urn:graph")
	if !ck.canReadAny() {
		t.Error("an evaluator with no denied predicates should permit canReadAny")
	}

	restricted := newChecker(denyPredicates("urn:ssn"), "urn:graph")
	if restricted.canReadAny() {
		t.Error("an evaluator with any denied predicate should not permit canReadAny")
	}
}

func TestCheckerCheckReadGateSoftVsHard(t *testing.T) {
	soft := newChecker(&aclEvaluator{hardRead: false, graphReadDenied: true}, "urn:graph")
	gate, err := soft.checkReadGate()
	if err != nil {
		t.Fatalf("soft-read checkReadGate should not error: %v", err)
	}
	if !gate {
		t.Error("soft-read denied graph should report soft=true")
	}

	hard := newChecker(&aclEvaluator{hardRead: true, graphReadDenied: true}, "urn:graph")
	if _, err := hard.checkReadGate(); err == nil {
		t.Error("hard-read denied graph should raise an error from checkReadGate")
	}
}

func TestCheckerCheckUpdateAndCreateDelete(t *testing.T) {
	ck := newChecker(denyPredicates("urn:ssn"), "urn:graph")
	ssn := triple.NewPattern(nil, mustIRINode(t, "urn:ssn"), nil)
	name := triple.NewPattern(nil, mustIRINode(t, "urn:name"), nil)

	if err := ck.checkCreate(ssn); err == nil {
		t.Error("checkCreate on a denied predicate should fail")
	}
	if err := ck.checkCreate(name); err != nil {
		t.Errorf("checkCreate on a permitted predicate should succeed: %v", err)
	}
	if err := ck.checkDelete(ssn); err == nil {
		t.Error("checkDelete on a denied predicate should fail")
	}
	if err := ck.checkUpdate(); err != nil {
		t.Errorf("checkUpdate should succeed when graph-level Update is granted: %v", err)
	}
}

func TestCheckerAuthenticationRequired(t *testing.T) {
	ck := newChecker(&aclEvaluator{requireAuth: true}, "urn:graph")
	if err := ck.checkRead(); err == nil {
		t.Error("expected AuthenticationRequired for an unauthenticated principal")
	}
}

func TestCheckerResetCacheOnlyAffectsResettableEvaluators(t *testing.T) {
	ck := newChecker(allowAll(), "urn:graph")
	ck.resetCache() // must not panic when the evaluator is not resettable
}

func mustIRINode(t *testing.T, iri string) *node.Node {
	t.Helper()
	n, err := node.NewIRI(iri)
	if err != nil {
		t.Fatalf("node.NewIRI(%q): %v", iri, err)
	}
	return n
}

var _ security.Evaluator = (*aclEvaluator)(nil)
