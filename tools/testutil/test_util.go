// Copyright 2020 Google Inc. All rights reserved.
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

// Package testutil implements utility functions used in testing.
package testutil

import (
	"strings"
	"testing"

	"github.com/badwolf-sec/secured/graph/memio"
	"github.com/badwolf-sec/secured/literal"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// MustBuildLiteral builds a Literal out of textLiteral or makes the given test fail.
func MustBuildLiteral(t testing.TB, textLiteral string) *literal.Literal {
	t.Helper()
	lit, err := literal.DefaultBuilder().Parse(textLiteral)
	if err != nil {
		t.Fatalf("could not parse text literal %q, got error: %v", textLiteral, err)
	}
	return lit
}

// MustBuildIRI builds an IRI node out of iri or makes the given test fail.
func MustBuildIRI(t testing.TB, iri string) *node.Node {
	t.Helper()
	n, err := node.NewIRI(iri)
	if err != nil {
		t.Fatalf("could not build IRI node from %q, got error: %v", iri, err)
	}
	return n
}

// MustBuildNode parses a pretty-printed node (<iri>, _:id or *) or makes
// the given test fail.
func MustBuildNode(t testing.TB, pretty string) *node.Node {
	t.Helper()
	n, err := node.Parse(pretty)
	if err != nil {
		t.Fatalf("could not parse node %q, got error: %v", pretty, err)
	}
	return n
}

// MustBuildTriple parses a single tab-separated subject\tpredicate\tobject
// line or makes the given test fail.
func MustBuildTriple(t testing.TB, line string) *triple.Triple {
	t.Helper()
	ts, err := memio.ReadTriples(strings.NewReader(line))
	if err != nil {
		t.Fatalf("could not parse triple %q, got error: %v", line, err)
	}
	if len(ts) != 1 {
		t.Fatalf("expected exactly one triple in %q, got %d", line, len(ts))
	}
	return ts[0]
}

// MustBuildTriples parses one triple per line, tab-separated, or makes
// the given test fail.
func MustBuildTriples(t testing.TB, lines string) []*triple.Triple {
	t.Helper()
	ts, err := memio.ReadTriples(strings.NewReader(lines))
	if err != nil {
		t.Fatalf("could not parse triples, got error: %v", err)
	}
	return ts
}
