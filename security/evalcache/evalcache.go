// Copyright 2018 Google Inc. All rights reserved.
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

// Package evalcache implements a memoizing decorator over a
// security.Evaluator: repeated graph- and triple-level decisions for
// the same (principal, action, graph, pattern) key are served from
// memory instead of re-consulting the wrapped evaluator.
package evalcache

import (
	"fmt"
	"sync"

	"github.com/badwolf-sec/secured/security"
	"github.com/badwolf-sec/secured/triple"
)

// Evaluator wraps a base security.Evaluator with per-decision
// memoization. A cached entry is only ever reused for the exact key it
// was stored under; Reset drops every entry and must be called by the
// façade whenever the underlying graph's content changes, since a
// decision's correctness may depend on triples that are no longer
// there (or are now there).
type Evaluator struct {
	base security.Evaluator

	mu      sync.RWMutex
	graph   map[string]bool
	triple  map[string]bool
	anyKind map[string]bool
}

// New wraps base with memoization. The cache starts empty.
func New(base security.Evaluator) *Evaluator {
	return &Evaluator{
		base:    base,
		graph:   make(map[string]bool),
		triple:  make(map[string]bool),
		anyKind: make(map[string]bool),
	}
}

// Reset discards every memoized decision. Call this after any
// successful mutation (Add/Delete/Remove/Clear) against the graph the
// evaluator was consulted for, so that stale decisions never survive a
// content change.
func (e *Evaluator) Reset() {
	e.mu.Lock()
	e.graph = make(map[string]bool)
	e.triple = make(map[string]bool)
	e.anyKind = make(map[string]bool)
	e.mu.Unlock()
}

func principalKey(p security.Principal) string {
	if !p.IsAuthenticated() {
		return "anon"
	}
	return p.ID().String()
}

func graphKey(p security.Principal, a security.Action, graphIRI string) string {
	return fmt.Sprintf("%s:%s:%s", principalKey(p), a, graphIRI)
}

func patternKey(pat triple.Pattern) string {
	return fmt.Sprintf("%s|%s|%s", pat.S.String(), pat.P.String(), pat.O.String())
}

func tripleKey(p security.Principal, a security.Action, graphIRI string, pat triple.Pattern) string {
	return graphKey(p, a, graphIRI) + ":" + patternKey(pat)
}

// Evaluate decides a graph-level Action, memoized on (principal,
// action, graph).
func (e *Evaluator) Evaluate(p security.Principal, a security.Action, graphIRI string) bool {
	k := graphKey(p, a, graphIRI)
	e.mu.RLock()
	v, ok := e.graph[k]
	e.mu.RUnlock()
	if ok {
		return v
	}
	v = e.base.Evaluate(p, a, graphIRI)
	e.mu.Lock()
	e.graph[k] = v
	e.mu.Unlock()
	return v
}

// EvaluateTriple decides a triple-level Action, memoized on
// (principal, action, graph, pattern).
func (e *Evaluator) EvaluateTriple(p security.Principal, a security.Action, graphIRI string, pat triple.Pattern) bool {
	k := tripleKey(p, a, graphIRI, pat)
	e.mu.RLock()
	v, ok := e.triple[k]
	e.mu.RUnlock()
	if ok {
		return v
	}
	v = e.base.EvaluateTriple(p, a, graphIRI, pat)
	e.mu.Lock()
	e.triple[k] = v
	e.mu.Unlock()
	return v
}

// EvaluateAny is memoized on the full set of actions considered
// together, since "any of these actions" is a distinct decision from
// each action checked individually.
func (e *Evaluator) EvaluateAny(p security.Principal, actions []security.Action, graphIRI string, pat *triple.Pattern) bool {
	k := principalKey(p) + ":" + graphIRI + ":"
	for _, a := range actions {
		k += a.String() + ","
	}
	if pat != nil {
		k += ":" + patternKey(*pat)
	}
	e.mu.RLock()
	v, ok := e.anyKind[k]
	e.mu.RUnlock()
	if ok {
		return v
	}
	v = e.base.EvaluateAny(p, actions, graphIRI, pat)
	e.mu.Lock()
	e.anyKind[k] = v
	e.mu.Unlock()
	return v
}

// EvaluateUpdate decides an atomic replacement. Left unmemoized: each
// call names two concrete triples so the key space is as large as the
// decision space itself, and replacements are rare enough on the
// container-set path that caching would not be exercised.
func (e *Evaluator) EvaluateUpdate(p security.Principal, graphIRI string, from, to *triple.Triple) bool {
	return e.base.EvaluateUpdate(p, graphIRI, from, to)
}

// CurrentPrincipal delegates directly: a principal's identity is
// request-scoped and must never be memoized across calls.
func (e *Evaluator) CurrentPrincipal() security.Principal { return e.base.CurrentPrincipal() }

// IsAuthenticated delegates directly.
func (e *Evaluator) IsAuthenticated(p security.Principal) bool { return e.base.IsAuthenticated(p) }

// IsHardReadError delegates directly; this is a stable property of
// the base evaluator, not a per-call decision.
func (e *Evaluator) IsHardReadError() bool { return e.base.IsHardReadError() }

// RequiresAuthentication delegates directly.
func (e *Evaluator) RequiresAuthentication() bool { return e.base.RequiresAuthentication() }
