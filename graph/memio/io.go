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

// Package memio provides line-oriented read/write helpers over a
// graph.Base. It is intentionally narrow: parsing and serializing
// arbitrary RDF syntaxes is an external collaborator out of scope for
// this façade; memio exists only so the secured model's write() has a
// concrete serializer to delegate to on both the pass-through and
// readable-projection paths, and so read() has a concrete parser to
// build the triples it bulk-adds from.
package memio

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/badwolf-sec/secured/graph"
	"github.com/badwolf-sec/secured/literal"
	"github.com/badwolf-sec/secured/node"
	"github.com/badwolf-sec/secured/triple"
)

// objectParser adapts a literal.Builder into the triple.ObjectParser
// a Triple needs for its object position, which may be a node or a
// literal.
type objectParser struct {
	b literal.Builder
}

func (p objectParser) ParseObject(s string) (*node.Node, error) {
	if n, err := node.Parse(s); err == nil {
		return n, nil
	}
	lit, err := p.b.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("memio: %q is neither a node nor a literal: %v", s, err)
	}
	return node.NewLiteralNode(lit)
}

// ReadTriples parses r, one triple per line in the tab-separated form
// triple.Triple.String produces, and returns the parsed triples. It
// stops at the first malformed line; triples parsed up to that point
// are still returned alongside the error, leaving partial progress
// visible to the caller.
func ReadTriples(r io.Reader) ([]*triple.Triple, error) {
	var out []*triple.Triple
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		t, err := triple.Parse(text, objectParser{b: literal.DefaultBuilder()})
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	if err := scanner.Err(); err != nil {
		return out, err
	}
	return out, nil
}

// WriteTriples serializes ts, one triple per line, stopping at the
// first write error.
func WriteTriples(w io.Writer, ts []*triple.Triple) (int, error) {
	cnt := 0
	for _, t := range ts {
		if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
			return cnt, err
		}
		cnt++
	}
	return cnt, nil
}

// ReadIntoGraph parses r and adds every parsed triple to g in a
// single Add call: a full transcript is read and bulk-loaded into the
// store in one shot.
func ReadIntoGraph(ctx context.Context, g graph.Base, r io.Reader) (int, error) {
	ts, err := ReadTriples(r)
	if err != nil {
		return 0, err
	}
	if len(ts) == 0 {
		return 0, nil
	}
	if err := g.Add(ctx, ts); err != nil {
		return 0, err
	}
	return len(ts), nil
}

// WriteGraph serializes every triple currently in g to w, one per
// line. It streams g's Find(ALL) result directly into the writer
// rather than materializing it.
func WriteGraph(ctx context.Context, g graph.Base, w io.Writer) (int, error) {
	out := make(chan *triple.Triple)
	var (
		wg      sync.WaitGroup
		findErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		findErr = g.Find(ctx, triple.NewPattern(nil, nil, nil), graph.DefaultLookup, out)
	}()

	cnt := 0
	var writeErr error
	for t := range out {
		if writeErr != nil {
			continue
		}
		if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
			writeErr = err
			continue
		}
		cnt++
	}
	wg.Wait()
	if findErr != nil {
		return cnt, findErr
	}
	return cnt, writeErr
}
