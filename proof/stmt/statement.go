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

// Package stmt implements the Statement Translator (spec.md §4.3):
// pure formula builders for each statement form. These functions are
// deliberately KB-agnostic -- they turn already-rewritten expression
// text (and, for compound statements, already-summarized child
// meanings) into the statement's formula. The stateful parts (which
// KB to assume into, when to push a child KB, how to discharge a
// means-statement) are the Proof Engine's job, package engine.
package stmt

import "fmt"

// LocalDecl returns the type facts and, when initialized, the
// assumption formula for one declarator of a local declaration
// (spec.md §4.3's "Local declaration").
//
// v is the declarator's translated name-atom (post-decorated, since a
// declarator always introduces the variable's initial/final value);
// typ is the declared type; initExpr is the already-rewritten
// initializer expression text, or empty if the declarator is
// uninitialized; boolean indicates whether v is boolean-typed, which
// selects "===" over "=".
func LocalDecl(v, typ, initExpr string, boolean bool) (typeFact string, initFormula string) {
	typeFact = fmt.Sprintf("type(%s, %s)", typ, v)
	if initExpr == "" {
		return typeFact, ""
	}
	op := "="
	if boolean {
		op = "==="
	}
	return typeFact, fmt.Sprintf("(%s %s %s)", v, op, initExpr)
}

// Assignment returns the formula for `t = e;`: spec.md §4.3's
// "(t = e)", boolean-lifted to "===" when the target is boolean.
func Assignment(target, value string, boolean bool) string {
	op := "="
	if boolean {
		op = "==="
	}
	return fmt.Sprintf("(%s %s %s)", target, op, value)
}

// Empty returns the formula for the empty statement: "true".
func Empty() string {
	return "true"
}

// Return returns the formula for `return e;`. When
// requireDecoratedFinalValue is true, only "(return^' = e)" is
// asserted; otherwise both "(return^' = e)" and "(return = e)" are
// asserted, conjoined, so authors may refer to either name in claims
// (spec.md §6's compatibility switch).
func Return(decoratedReturn, bareReturn, value string, requireDecoratedFinalValue bool) string {
	decorated := fmt.Sprintf("(%s = %s)", decoratedReturn, value)
	if requireDecoratedFinalValue {
		return decorated
	}
	bare := fmt.Sprintf("(%s = %s)", bareReturn, value)
	return fmt.Sprintf("(%s /\\ %s)", decorated, bare)
}

// If returns the formula for `if (c) S1 else S2` (spec.md §4.3):
//
//	( (c /\ [[S1]]) \/ (¬c /\ [[S2]]) )
//
// When hasElse is false, the else-arm is just the negated condition.
func If(cond, thenMeaning, elseMeaning string, hasElse bool) string {
	thenArm := fmt.Sprintf("(%s /\\ %s)", cond, thenMeaning)
	var elseArm string
	if hasElse {
		elseArm = fmt.Sprintf("(-%s /\\ %s)", cond, elseMeaning)
	} else {
		elseArm = fmt.Sprintf("-%s", cond)
	}
	return fmt.Sprintf("(%s \\/ %s)", thenArm, elseArm)
}

// While returns the formula for `while (c) S` (spec.md §4.3):
// "(c /\ [[S]])". The loop's full invariant semantics is deliberately
// limited, per §4.3/§9 -- this under-approximation is the documented
// gap, not a bug.
func While(cond, bodyMeaning string) string {
	return fmt.Sprintf("(%s /\\ %s)", cond, bodyMeaning)
}
