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

// Package seccompliance validates a security.Evaluator against the set
// of observable behaviors a correct permission façade must uphold:
// that unreadable triples never leak through a count, a containment
// check, or an iterator; that a denied mutation leaves the base
// untouched; that a permitted create/delete round trips cleanly; that
// comparing two graphs never reveals which of their triples were
// unreadable; and that the hard/soft read mode is honored consistently.
// It is built around scenarios: a scenario names a set of facts to
// preload into a fresh graph, the evaluator under test, and an oracle
// describing which of those facts the evaluator's principal may
// actually Read/Update/Create/Delete, so the battery can compare the
// façade's observable behavior against ground truth instead of against
// itself.
package seccompliance

import (
	"strings"

	"github.com/badwolf-sec/secured/graph/memio"
	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// Scenario describes one evaluator-under-test and the graph content
// it should be exercised against.
type Scenario struct {
	// Name identifies the scenario in a Report.
	Name string

	// Facts are pretty-printed triples preloaded into a fresh graph
	// before any check is run.
	Facts []string

	// Evaluator is the implementation under test.
	Evaluator security.Evaluator

	// ReadableFacts is the subset of Facts (by exact string match)
	// that Evaluator's CurrentPrincipal() may Read; it is the oracle
	// the count, containment, iterator-confinement and isomorphism
	// checks compare the façade's output against.
	ReadableFacts []string

	// CreatableFact is a single fresh triple (not in Facts) the
	// principal may Create and Delete, exercised by the round-trip
	// check.
	CreatableFact string

	// UnwritableFact is a single fresh triple the principal may NOT
	// Create, exercised by the fail-closed-mutation check.
	UnwritableFact string

	// GraphReadDenied marks a scenario where the evaluator denies graph-
	// level Read entirely (not merely some triples); only such a
	// scenario can exercise the hard/soft read distinction, since
	// checkReadGate only engages on a graph-level denial.
	GraphReadDenied bool
}

// outcome is the per-check, per-scenario comparison of what the
// battery expects against what actually happened.
type outcome struct {
	Scenario string
	Property string
	Passed   bool
	Detail   string
}

// Report collects every property outcome across every scenario run.
type Report struct {
	Outcomes []outcome
}

// Failures returns only the outcomes that did not pass.
func (r *Report) Failures() []outcome {
	var out []outcome
	for _, o := range r.Outcomes {
		if !o.Passed {
			out = append(out, o)
		}
	}
	return out
}

// Passed reports whether every outcome in the report passed.
func (r *Report) Passed() bool {
	return len(r.Failures()) == 0
}

func parseFacts(facts []string) ([]*triple.Triple, error) {
	return memio.ReadTriples(strings.NewReader(strings.Join(facts, "\n")))
}

func parseFact(fact string) (*triple.Triple, error) {
	ts, err := parseFacts([]string{fact})
	if err != nil {
		return nil, err
	}
	return ts[0], nil
}
