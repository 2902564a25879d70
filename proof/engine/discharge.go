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

package engine

import (
	"fmt"

	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/kb"
	"github.com/Variable-Value/TJava/proof/lemma"
	"github.com/Variable-Value/TJava/proof/rewrite"
	"github.com/Variable-Value/TJava/proof/scope"
)

// conjunctiveOps are the surface operators the decomposition scan sees
// through: spec.md §4.5's "walk P's conjunctive structure -- /\, &&, &,
// and parenthesizations."
var conjunctiveOps = map[string]bool{"&": true, "&&": true, "/\\": true}

// conjuncts flattens e's top-level conjunctive structure into its leaf
// operands, left to right, seeing through explicit parenthesization.
// A non-conjunctive e is its own single-element slice.
func conjuncts(e ast.Expression) []ast.Expression {
	if p, ok := e.(*ast.ParenExpr); ok {
		return conjuncts(p.Inner)
	}
	if b, ok := e.(*ast.BinaryExpr); ok && conjunctiveOps[b.Op] {
		return append(conjuncts(b.Left), conjuncts(b.Right)...)
	}
	return []ast.Expression{e}
}

// lemmaEntryPoint is the single conventional lemma name the engine
// consults when a conjunct cannot be discharged outright: a loaded
// library exposing a Starlark function by this name is given the
// conjunct's own formula text and may return an auxiliary formula to
// assume before retrying once.
const lemmaEntryPoint = "lemma"

// Discharge implements spec.md §4.5's means-statement proof: it first
// tries claim as a single query against k; on failure it decomposes
// claim into its top-level conjuncts and assumes each in turn, in
// source order, stopping at (and reporting) the first one the prover
// cannot discharge even with the lemma library's help.
//
// The returned bool reports whether a failure was found; when true,
// rec is the single ErrorRecord to hand to an ErrorSink -- spec.md
// §4.5's "report the first conjunct, then stop" localization property.
// A non-nil error is always an InternalError-worthy transport or
// prover-contract failure, never a proof failure.
func Discharge(
	claim ast.Expression,
	formula string,
	k *kb.KB,
	sc *scope.Scope,
	resolver scope.Resolver,
	lib *lemma.Library,
	originalText func(ast.Expression) string,
) (rec ErrorRecord, failed bool, err error) {
	v, err := k.SubstituteIfProven(formula)
	if err != nil {
		return ErrorRecord{}, false, err
	}
	if v == kb.ProvenTrue {
		return ErrorRecord{}, false, nil
	}

	for _, c := range conjuncts(claim) {
		cf := rewrite.Expr(c, sc, resolver)
		cv, err := k.AssumeIfProven(cf)
		if err != nil {
			return ErrorRecord{}, false, err
		}
		if cv == kb.ProvenTrue {
			continue
		}

		if aux, ok := tryLemma(lib, cf); ok {
			if aerr := k.Assume(aux); aerr == nil {
				cv2, verr := k.AssumeIfProven(cf)
				if verr == nil && cv2 == kb.ProvenTrue {
					continue
				}
			}
		}

		return buildFailure(c, cv, originalText), true, nil
	}

	// Every conjunct proved: the compound claim is supported by the
	// decomposition even though the single-query attempt above failed
	// (spec.md §4.5 treats this as success, not as a second failure).
	return ErrorRecord{}, false, nil
}

// tryLemma consults lib for the conventional lemma entry point, asking
// it to produce an auxiliary formula for the failing conjunct text cf.
// It reports ok=false whenever no usable lemma is available, so the
// caller always falls through to reporting the original failure.
func tryLemma(lib *lemma.Library, cf string) (formula string, ok bool) {
	if lib == nil || !lib.Has(lemmaEntryPoint) {
		return "", false
	}
	aux, err := lib.Call(lemmaEntryPoint, cf)
	if err != nil || aux == "" {
		return "", false
	}
	return aux, true
}

// buildFailure renders the fixed user-facing message for conjunct c,
// per spec.md §4.5's two templates, keyed on the prover's verdict.
func buildFailure(c ast.Expression, v kb.Verdict, originalText func(ast.Expression) string) ErrorRecord {
	orig := originalText(c)
	var msg string
	switch v {
	case kb.ReachedLimit:
		msg = fmt.Sprintf("The prover reached an internal limit. Consider adding a lemma to help prove the statement: \n    %s", orig)
	default:
		msg = fmt.Sprintf("The code does not support the proof of the statement: %s", orig)
	}
	span := c.Span()
	return ErrorRecord{
		Component: "Prover",
		Token:     fmt.Sprintf("span(%d,%d)", span.Start, span.End),
		Message:   msg,
	}
}
