//  Copyright (c) 2023 Uber Technologies, Inc.
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

// Package transcript implements the rewrite table and the transcript
// assembled from it (spec.md §4.7): a mapping from parse-node identity
// to the current textual rendering of that node's span, read in
// source order to produce the exact text stream sent to the prover.
package transcript

import (
	"sort"
	"strings"

	"github.com/Variable-Value/TJava/proof/ast"
)

// entry is one rewrite-table row.
type entry struct {
	span     ast.Span
	original string
	current  string
}

// Table maps parse-node identity to its current and original text.
// Each node visited by the walker gets exactly one entry (spec.md §3
// invariant); re-substituting the same node overwrites current without
// touching original.
type Table struct {
	rows map[ast.Node]*entry
	// order preserves first-seen (i.e. visit) order. Leaves enumerates
	// rows in this order and then sorts them by span, per §4.7's
	// "serialized in source order"; rows with equal spans keep their
	// visit order.
	order []ast.Node
}

// NewTable creates an empty rewrite table.
func NewTable() *Table {
	return &Table{rows: make(map[ast.Node]*entry)}
}

// Init seeds the table with node's original source text. Init must be
// called exactly once per node, before any call to Substitute or
// Source for that node; calling it twice for the same node is an
// internal error in the walker and panics, since it would violate the
// "one entry per node visited" invariant.
func (t *Table) Init(node ast.Node, original string) {
	if _, exists := t.rows[node]; exists {
		panic("transcript: Init called twice for the same node")
	}
	t.rows[node] = &entry{span: node.Span(), original: original, current: original}
	t.order = append(t.order, node)
}

// Substitute replaces node's current text. node must already have been
// Init'd.
func (t *Table) Substitute(node ast.Node, text string) {
	e, ok := t.rows[node]
	if !ok {
		panic("transcript: Substitute called before Init")
	}
	e.current = text
}

// Source returns node's current (possibly rewritten) text.
func (t *Table) Source(node ast.Node) string {
	e, ok := t.rows[node]
	if !ok {
		panic("transcript: Source called before Init")
	}
	return e.current
}

// OriginalSource returns node's unmodified original text, for
// user-facing error messages (spec.md §4.7).
func (t *Table) OriginalSource(node ast.Node) string {
	e, ok := t.rows[node]
	if !ok {
		panic("transcript: OriginalSource called before Init")
	}
	return e.original
}

// Leaves returns the nodes whose current text actually contributes to
// the transcript, in source-span order. A row contributes unless its
// span is strictly contained in some other row's span: once a Block
// (or any other summarizing node) substitutes itself with a single
// formula, its span subsumes every child span it accumulated, and the
// children must not also be emitted -- only the summarizing node's own
// rewritten text appears, per spec.md §4.4's "block's own rewritten
// text" replacing its statements'.
func (t *Table) Leaves() []ast.Node {
	contained := func(inner, outer ast.Span) bool {
		if inner == outer {
			return false
		}
		return outer.Start <= inner.Start && inner.End <= outer.End
	}

	var leaves []ast.Node
	for _, n := range t.order {
		span := t.rows[n].span
		subsumed := false
		for _, other := range t.order {
			if other == n {
				continue
			}
			if contained(span, t.rows[other].span) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			leaves = append(leaves, n)
		}
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		si, sj := t.rows[leaves[i]].span, t.rows[leaves[j]].span
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		return si.End < sj.End
	})
	return leaves
}

// Text concatenates every surviving leaf's current text in source
// order. This is the transcript: the exact stream sent to the prover.
func (t *Table) Text() string {
	var b strings.Builder
	for _, n := range t.Leaves() {
		b.WriteString(t.rows[n].current)
	}
	return b.String()
}
