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

package engine_test

import (
	"strings"

	"github.com/Variable-Value/TJava/proof/kb"
)

// equationalProver is a small, self-contained stand-in for the real
// external prover, used across this package's tests. It treats every
// assumed formula as an append-only fact (mirroring the real
// single-connection semantics package kb documents) and decides a
// query by:
//
//  1. splitting it into top-level "/\"-conjuncts,
//  2. deciding each conjunct as proven if it is an equality ("=" or
//     "===") between two atoms already known equal by a union-find
//     over every equality ever assumed, or if the literal conjunct
//     text was itself assumed verbatim.
//
// This is exactly enough propositional/equational reasoning to verify
// the seed scenarios of spec.md §8 (chains of assignments composing
// into an equality, branch guards making a disjunct's own formula
// available) without embedding a real theorem prover in the test
// suite.
type equationalProver struct {
	assumed []string
	uf      map[string]string
	// forced overrides entailment for an exact formula text, letting a
	// test make one specific query report a verdict (e.g. ReachedLimit)
	// the union-find/literal reasoning below would never produce on its
	// own.
	forced map[string]kb.Verdict
}

func newEquationalProver() *equationalProver {
	return &equationalProver{uf: map[string]string{}}
}

func (p *equationalProver) find(x string) string {
	parent, ok := p.uf[x]
	if !ok {
		return x
	}
	if parent == x {
		return x
	}
	root := p.find(parent)
	p.uf[x] = root
	return root
}

func (p *equationalProver) union(a, b string) {
	ra, rb := p.find(a), p.find(b)
	if ra != rb {
		p.uf[ra] = rb
	}
}

func (p *equationalProver) Assume(formula string) error {
	p.assumed = append(p.assumed, formula)
	p.learn(formula)
	return nil
}

func (p *equationalProver) learn(formula string) {
	for _, c := range splitConjuncts(formula) {
		if lhs, rhs, ok := splitEquality(c); ok {
			p.union(lhs, rhs)
		}
	}
}

func (p *equationalProver) Prove(formula string) (kb.Verdict, error) {
	if v, ok := p.forced[formula]; ok {
		return v, nil
	}
	if p.entails(formula) {
		return kb.ProvenTrue, nil
	}
	return kb.Unsupported, nil
}

func (p *equationalProver) entails(formula string) bool {
	for _, c := range splitConjuncts(formula) {
		c = strings.TrimSpace(c)
		if c == "true" {
			continue
		}
		if lhs, rhs, ok := splitEquality(c); ok {
			if p.find(lhs) == p.find(rhs) {
				continue
			}
		}
		if !p.assumedLiterally(c) {
			return false
		}
	}
	return true
}

func (p *equationalProver) assumedLiterally(c string) bool {
	for _, a := range p.assumed {
		if strings.TrimSpace(a) == c {
			return true
		}
		for _, ac := range splitConjuncts(a) {
			if strings.TrimSpace(ac) == c {
				return true
			}
		}
	}
	return false
}

// splitConjuncts strips one layer of enclosing parens (if the whole
// string is wrapped) and splits on top-level " /\ ", recursing into
// each piece so nested parenthesized conjunctions flatten fully.
func splitConjuncts(formula string) []string {
	s := strings.TrimSpace(formula)
	s = unwrapParens(s)

	parts := splitTopLevel(s, "/\\")
	if len(parts) == 1 {
		return []string{s}
	}

	var out []string
	for _, part := range parts {
		out = append(out, splitConjuncts(part)...)
	}
	return out
}

// splitEquality recognizes a top-level "(lhs = rhs)" or "(lhs === rhs)"
// conjunct (tolerating the extra interior spacing the arithmetic "="
// column renders per spec.md §4.2) and returns its two sides.
func splitEquality(c string) (lhs, rhs string, ok bool) {
	s := unwrapParens(strings.TrimSpace(c))

	// Operators that embed a bare "=" but are not equality (inequality,
	// implication, biconditional-negation) must never be mistaken for
	// one by the loop below.
	for _, nonEquality := range []string{"=#=", "==>", "<==", "#="} {
		if strings.Contains(s, nonEquality) {
			return "", "", false
		}
	}

	for _, sep := range []string{"===", "="} {
		parts := splitTopLevel(s, sep)
		if len(parts) == 2 {
			return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
		}
	}
	return "", "", false
}

// unwrapParens strips one matching pair of enclosing parentheses, if
// present and balanced around the entire string.
func unwrapParens(s string) string {
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(s)-1 {
				return s // the closing paren at the end doesn't match the first '('
			}
		}
	}
	return s[1 : len(s)-1]
}

// splitTopLevel splits s on every top-level (paren-depth-0) occurrence
// of sep.
func splitTopLevel(s, sep string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i+len(sep) <= len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		}
		if depth == 0 && s[i:i+len(sep)] == sep {
			parts = append(parts, s[start:i])
			start = i + len(sep)
			i += len(sep) - 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
