// Copyright 2016 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package seccompliance

import (
	"context"
	"fmt"

	"github.com/badwolf-sec/secured/graph/memstore"
	"github.com/badwolf-sec/secured/secured"
	"github.com/badwolf-sec/secured/triple"
)

const (
	checkCount               = "non-leakage-count"
	checkContainment         = "non-leakage-containment"
	checkFailClosedMutation  = "fail-closed-mutation"
	checkCreateDeleteRound   = "create-delete-round-trip"
	checkIteratorConfinement = "iterator-confinement"
	checkIsomorphismPrivacy  = "isomorphism-privacy"
	checkHardSoftRead        = "hard-soft-read"
)

// Run executes the full compliance battery against every scenario and
// returns the aggregate report. A scenario that cannot even be set up
// (malformed facts) is reported as a single failed outcome rather than
// aborting the whole run, so one bad scenario does not hide the
// results of the others.
func Run(ctx context.Context, scenarios []Scenario) *Report {
	report := &Report{}
	for _, s := range scenarios {
		report.Outcomes = append(report.Outcomes, runScenario(ctx, s)...)
	}
	return report
}

func fail(scenario, check, detail string) outcome {
	return outcome{Scenario: scenario, Property: check, Passed: false, Detail: detail}
}

func pass(scenario, check string) outcome {
	return outcome{Scenario: scenario, Property: check, Passed: true}
}

func runScenario(ctx context.Context, s Scenario) []outcome {
	facts, err := parseFacts(s.Facts)
	if err != nil {
		return []outcome{fail(s.Name, "setup", fmt.Sprintf("parsing facts: %v", err))}
	}

	var outcomes []outcome
	outcomes = append(outcomes, checkNonLeakageByCount(ctx, s, facts)...)
	outcomes = append(outcomes, checkNonLeakageByContainment(ctx, s, facts)...)
	outcomes = append(outcomes, checkFailClosedOnDeniedMutation(ctx, s, facts)...)
	outcomes = append(outcomes, checkCreateDeleteRoundTrip(ctx, s, facts)...)
	outcomes = append(outcomes, checkIteratorNeverYieldsUnreadable(ctx, s, facts)...)
	outcomes = append(outcomes, checkIsomorphismIgnoresUnreadable(ctx, s, facts)...)
	outcomes = append(outcomes, checkHardVsSoftReadMode(ctx, s, facts)...)
	return outcomes
}

// freshGraph builds a secured.Graph preloaded with facts, backed by a
// new in-memory base graph named after the scenario.
func freshGraph(ctx context.Context, s Scenario, facts []*triple.Triple) (*secured.Graph, error) {
	base := memstore.New("seccompliance://" + s.Name)
	if len(facts) > 0 {
		if err := base.Add(ctx, facts); err != nil {
			return nil, err
		}
	}
	return secured.NewGraph(base, s.Evaluator), nil
}

func readableSet(s Scenario) map[string]bool {
	m := make(map[string]bool, len(s.ReadableFacts))
	for _, f := range s.ReadableFacts {
		m[f] = true
	}
	return m
}

// checkNonLeakageByCount verifies size() equals the count of facts the
// oracle marks readable.
func checkNonLeakageByCount(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkCount, err.Error())}
	}
	n, err := g.Size(ctx)
	if err != nil {
		if s.Evaluator.IsHardReadError() {
			return []outcome{pass(s.Name, checkCount)}
		}
		return []outcome{fail(s.Name, checkCount, fmt.Sprintf("size() raised under soft-read: %v", err))}
	}
	want := int64(len(s.ReadableFacts))
	if n != want {
		return []outcome{fail(s.Name, checkCount, fmt.Sprintf("size()=%d, want %d readable facts", n, want))}
	}
	return []outcome{pass(s.Name, checkCount)}
}

// checkNonLeakageByContainment verifies contains(T) agrees with the
// oracle for every fact.
func checkNonLeakageByContainment(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkContainment, err.Error())}
	}
	readable := readableSet(s)
	for _, t := range facts {
		ok, err := g.Contains(ctx, t)
		if err != nil {
			if s.Evaluator.IsHardReadError() {
				continue
			}
			return []outcome{fail(s.Name, checkContainment, fmt.Sprintf("contains(%s) raised under soft-read: %v", t, err))}
		}
		want := readable[t.String()]
		if ok != want {
			return []outcome{fail(s.Name, checkContainment, fmt.Sprintf("contains(%s)=%v, want %v", t, ok, want))}
		}
	}
	return []outcome{pass(s.Name, checkContainment)}
}

// checkFailClosedOnDeniedMutation verifies that attempting to add an
// unwritable fact leaves the base's readable projection unchanged.
func checkFailClosedOnDeniedMutation(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	if s.UnwritableFact == "" {
		return nil
	}
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkFailClosedMutation, err.Error())}
	}
	before, err := g.Size(ctx)
	if err != nil {
		return []outcome{fail(s.Name, checkFailClosedMutation, fmt.Sprintf("size() before: %v", err))}
	}
	bad, err := parseFact(s.UnwritableFact)
	if err != nil {
		return []outcome{fail(s.Name, checkFailClosedMutation, fmt.Sprintf("parsing UnwritableFact: %v", err))}
	}
	if err := g.Add(ctx, []*triple.Triple{bad}); err == nil {
		return []outcome{fail(s.Name, checkFailClosedMutation, "expected Add of UnwritableFact to be denied")}
	}
	after, err := g.Size(ctx)
	if err != nil {
		return []outcome{fail(s.Name, checkFailClosedMutation, fmt.Sprintf("size() after: %v", err))}
	}
	if before != after {
		return []outcome{fail(s.Name, checkFailClosedMutation, fmt.Sprintf("base changed after denied Add: %d -> %d", before, after))}
	}
	return []outcome{pass(s.Name, checkFailClosedMutation)}
}

// checkCreateDeleteRoundTrip verifies add(T); contains(T)=true;
// remove(T); contains(T)=false for a fact the oracle marks writable.
func checkCreateDeleteRoundTrip(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	if s.CreatableFact == "" {
		return nil
	}
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkCreateDeleteRound, err.Error())}
	}
	t, err := parseFact(s.CreatableFact)
	if err != nil {
		return []outcome{fail(s.Name, checkCreateDeleteRound, fmt.Sprintf("parsing CreatableFact: %v", err))}
	}
	if err := g.Add(ctx, []*triple.Triple{t}); err != nil {
		return []outcome{fail(s.Name, checkCreateDeleteRound, fmt.Sprintf("add: %v", err))}
	}
	if ok, err := g.Contains(ctx, t); err != nil || !ok {
		return []outcome{fail(s.Name, checkCreateDeleteRound, fmt.Sprintf("contains after add: ok=%v err=%v", ok, err))}
	}
	if err := g.Delete(ctx, []*triple.Triple{t}); err != nil {
		return []outcome{fail(s.Name, checkCreateDeleteRound, fmt.Sprintf("remove: %v", err))}
	}
	if ok, err := g.Contains(ctx, t); err != nil || ok {
		return []outcome{fail(s.Name, checkCreateDeleteRound, fmt.Sprintf("contains after remove: ok=%v err=%v", ok, err))}
	}
	return []outcome{pass(s.Name, checkCreateDeleteRound)}
}

// checkIteratorNeverYieldsUnreadable verifies find(ANY) never yields a
// fact the oracle marks unreadable.
func checkIteratorNeverYieldsUnreadable(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkIteratorConfinement, err.Error())}
	}
	readable := readableSet(s)
	out := make(chan *triple.Triple)
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Find(ctx, triple.NewPattern(nil, nil, nil), nil, out)
	}()
	for t := range out {
		if !readable[t.String()] {
			return []outcome{fail(s.Name, checkIteratorConfinement, fmt.Sprintf("find() yielded unreadable fact %s", t))}
		}
	}
	if err := <-errCh; err != nil {
		if s.Evaluator.IsHardReadError() {
			return []outcome{pass(s.Name, checkIteratorConfinement)}
		}
		return []outcome{fail(s.Name, checkIteratorConfinement, fmt.Sprintf("find() raised under soft-read: %v", err))}
	}
	return []outcome{pass(s.Name, checkIteratorConfinement)}
}

// checkIsomorphismIgnoresUnreadable verifies isIsomorphicWith depends
// only on the readable projection: removing a single unreadable fact
// from one side must not change the comparison's outcome against the
// other, unmodified side, since neither principal could ever have
// observed that fact.
func checkIsomorphismIgnoresUnreadable(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	if s.GraphReadDenied {
		// A graph-level denial is the hard/soft read check's concern;
		// this check probes privacy within an otherwise-readable graph.
		return nil
	}
	readable := readableSet(s)
	var unreadable *triple.Triple
	for _, t := range facts {
		if !readable[t.String()] {
			unreadable = t
			break
		}
	}
	if unreadable == nil {
		// Nothing unreadable to vary; no privacy boundary to probe.
		return nil
	}

	g1, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkIsomorphismPrivacy, err.Error())}
	}
	var trimmed []*triple.Triple
	for _, t := range facts {
		if t != unreadable {
			trimmed = append(trimmed, t)
		}
	}
	g2, err := freshGraph(ctx, s, trimmed)
	if err != nil {
		return []outcome{fail(s.Name, checkIsomorphismPrivacy, err.Error())}
	}

	iso, err := g1.IsIsomorphicWith(ctx, g2)
	if err != nil {
		if s.Evaluator.IsHardReadError() {
			return []outcome{pass(s.Name, checkIsomorphismPrivacy)}
		}
		return []outcome{fail(s.Name, checkIsomorphismPrivacy, fmt.Sprintf("isIsomorphicWith raised under soft-read: %v", err))}
	}
	if !iso {
		return []outcome{fail(s.Name, checkIsomorphismPrivacy, "removing an unreadable fact changed isIsomorphicWith's result")}
	}
	return []outcome{pass(s.Name, checkIsomorphismPrivacy)}
}

// checkHardVsSoftReadMode verifies the evaluator's hard/soft read mode
// is observed consistently across a denied-read operation: under
// hard-read, a denied graph-level Read must raise; under soft-read it
// must not.
func checkHardVsSoftReadMode(ctx context.Context, s Scenario, facts []*triple.Triple) []outcome {
	if !s.GraphReadDenied {
		// Graph-level Read is granted in this scenario; there is no
		// denial to observe (per-triple filtering alone never engages
		// checkReadGate's soft/hard branch).
		return nil
	}
	g, err := freshGraph(ctx, s, facts)
	if err != nil {
		return []outcome{fail(s.Name, checkHardSoftRead, err.Error())}
	}
	_, err = g.Size(ctx)
	hard := s.Evaluator.IsHardReadError()
	switch {
	case hard && err == nil:
		return []outcome{fail(s.Name, checkHardSoftRead, "hard-read evaluator did not raise on a denied read")}
	case !hard && err != nil:
		return []outcome{fail(s.Name, checkHardSoftRead, fmt.Sprintf("soft-read evaluator raised: %v", err))}
	}
	return []outcome{pass(s.Name, checkHardSoftRead)}
}
