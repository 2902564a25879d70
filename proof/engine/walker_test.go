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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/engine"
	"github.com/Variable-Value/TJava/proof/kb"
	"github.com/Variable-Value/TJava/proof/transcript"
)

// spanSource hands out distinct spans and remembers the original text
// registered for each, so a test can supply engine.Walker's SourceText
// dependency without a real token-stream reader.
type spanSource struct {
	next int
	text map[ast.Span]string
}

func newSpanSource() *spanSource {
	return &spanSource{text: map[ast.Span]string{}}
}

// span allocates a fresh span and records text as its source.
func (s *spanSource) span(text string) ast.Span {
	sp := ast.Span{Start: s.next, End: s.next + 1}
	s.next++
	s.text[sp] = text
	return sp
}

func (s *spanSource) lookup(sp ast.Span) string {
	return s.text[sp]
}

// --- small AST-building helpers shared by this file's fixtures ---

func post(v string) *ast.DecoratedName { return &ast.DecoratedName{Kind: ast.Post, Var: v} }
func pre(v string) *ast.DecoratedName  { return &ast.DecoratedName{Kind: ast.Pre, Var: v} }

func boolLit(text string) *ast.Literal {
	return &ast.Literal{Text: text, Kind: ast.BoolLiteral}
}

func assign(target, value ast.Expression) *ast.Assignment {
	return &ast.Assignment{Target: target, Value: value}
}

func block(stmts ...ast.Statement) *ast.Block {
	return &ast.Block{Statements: stmts}
}

// eq builds a single `lhs = rhs` equality node, tagging it with its own
// span (recorded as origText in src) so a Discharge failure naming this
// exact conjunct can be blamed on the right original text.
func eq(src *spanSource, origText string, lhs, rhs ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{
		Base:  ast.Base{SourceSpan: src.span(origText)},
		Op:    "=",
		Left:  lhs,
		Right: rhs,
	}
}

// and joins two claims with "&", for means-statements covering more
// than one conjunct.
func and(l, r ast.Expression) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: "&", Left: l, Right: r}
}

func means(claim ast.Expression) *ast.Means {
	return &ast.Means{Claim: claim}
}

func runWalker(t *testing.T, body *ast.Block, src func(ast.Span) string) (*engine.ErrorSink, *kb.Stack) {
	t.Helper()
	p := newEquationalProver()
	stack := kb.NewStack(p)
	table := transcript.NewTable()
	sink := &engine.ErrorSink{}
	resolver := newFlatResolver(nil)

	w := engine.NewWalker(stack, resolver, table, sink, nil, false, false, src)
	err := w.VisitMethodBody(body)
	require.NoError(t, err)

	// spec.md §8's "scope discipline" property: the KB stack returns to
	// its starting depth regardless of how the walk inside it went.
	assert.Equal(t, 0, stack.Current().Depth())

	return sink, stack
}

// Seed test 1 (spec.md §8, BlockMeaning1): a three-assignment swap of
// a and b through a temporary, verified by a single means-statement
// covering both halves of the swap, proves with zero errors.
func TestWalkerBlockMeaning1Swap(t *testing.T) {
	src := newSpanSource()
	body := block(
		assign(post("tmp"), pre("a")),
		assign(post("a"), pre("b")),
		assign(post("b"), post("tmp")),
		means(and(
			eq(src, "a' = 'b", post("a"), pre("b")),
			eq(src, "b' = 'a", post("b"), pre("a")),
		)),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	assert.False(t, sink.HasErrors())
	assert.Empty(t, sink.Records())
}

// Seed test 2 (spec.md §8, BlockMeaning2): a local declaration saving
// a's starting value, then assignments that route it through b, proves
// a claim ("b' = 'a") that only follows by chaining two equalities
// transitively -- not directly assumed anywhere verbatim.
func TestWalkerBlockMeaning2TransitiveChain(t *testing.T) {
	src := newSpanSource()
	body := block(
		&ast.LocalDecl{
			Type: "int",
			Declarators: []ast.Declarator{
				{Name: post("startingA"), Init: pre("a")},
			},
		},
		assign(post("a"), pre("b")),
		assign(post("b"), post("startingA")),
		means(eq(src, "b' = 'a", post("b"), pre("a"))),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	assert.False(t, sink.HasErrors())
	assert.Empty(t, sink.Records())
}

// Seed test 3 (spec.md §8): a means-statement that proves quenches the
// assignments above it for the rest of the block; a second
// means-statement's first conjunct is still derivable from the first
// means-statement's own (re-assumed) claim, but its second conjunct is
// not derivable from anything assumed, and that is the one reported.
func TestWalkerSecondMeansBlamesItsOwnFailingConjunct(t *testing.T) {
	src := newSpanSource()
	body := block(
		assign(post("a"), pre("b")),
		means(eq(src, "a' = 'b", post("a"), pre("b"))),
		assign(post("b"), pre("aa")),
		means(and(
			eq(src, "a' = 'b", post("a"), pre("b")),
			eq(src, "b' = 'bb", post("b"), pre("bb")),
		)),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	require.True(t, sink.HasErrors())
	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "The code does not support the proof of the statement: b' = 'bb", recs[0].Message)
}

// Seed test 4: an if-branch's own assignment is only ever recorded in
// that branch's short-lived child KB, popped away once the branch
// closes -- but every KB in the tree shares the same underlying Prover
// connection (package kb's documented append-only limitation: only a
// KB's own Go-level Assumptions() bookkeeping is scoped, never the
// connection itself). So a means-statement placed after the if, in the
// same enclosing block, still finds the branch's assignment provable.
func TestWalkerIfBranchAssumptionSurvivesViaSharedProverConnection(t *testing.T) {
	src := newSpanSource()
	body := block(
		&ast.If{
			Condition:   boolLit("true"),
			Consequence: block(assign(post("x"), pre("a"))),
		},
		means(eq(src, "x' = 'a", post("x"), pre("a"))),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	assert.False(t, sink.HasErrors())
	assert.Empty(t, sink.Records())
}

// Seed test 4b: a means-statement naming a variable the if-branch never
// touched is correctly reported as unproven -- the shared connection
// remembers exactly what was assumed, nothing more.
func TestWalkerMeansAboutUnassignedVariableFails(t *testing.T) {
	src := newSpanSource()
	body := block(
		&ast.If{
			Condition:   boolLit("true"),
			Consequence: block(assign(post("x"), pre("a"))),
		},
		means(eq(src, "x' = 'b", post("x"), pre("b"))),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	require.True(t, sink.HasErrors())
	recs := sink.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "The code does not support the proof of the statement: x' = 'b", recs[0].Message)
}

// Seed test 5: an if-statement with explicit, empty then/else arms
// sits between an assignment and a means-statement restating it; the
// no-op branches push and pop their own child KBs but never touch the
// enclosing block's KB, so the means-statement still sees the
// assignment made before the if.
func TestWalkerNoopIfElseLeavesPriorAssumptionIntact(t *testing.T) {
	src := newSpanSource()
	body := block(
		assign(post("a"), pre("b")),
		&ast.If{
			Condition:   boolLit("true"),
			Consequence: block(),
			Alternative: block(),
		},
		means(eq(src, "a' = 'b", post("a"), pre("b"))),
	)

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	assert.False(t, sink.HasErrors())
	assert.Empty(t, sink.Records())
}

// Seed test 6: a nested if/if/else, each innermost arm assigning x and
// immediately verifying its own means-statement in the same block --
// exercising the walker's nested-If recursion end to end with zero
// errors across every branch actually visited.
func TestWalkerNestedIfVerifiesEachBranch(t *testing.T) {
	src := newSpanSource()
	innerThen := block(
		assign(post("x"), pre("a")),
		means(eq(src, "x' = 'a", post("x"), pre("a"))),
	)
	innerElse := block(
		assign(post("x"), pre("b")),
		means(eq(src, "x' = 'b", post("x"), pre("b"))),
	)
	outerElse := block(
		assign(post("x"), pre("c")),
		means(eq(src, "x' = 'c", post("x"), pre("c"))),
	)

	body := block(&ast.If{
		Condition: boolLit("true"),
		Consequence: block(&ast.If{
			Condition:   boolLit("true"),
			Consequence: innerThen,
			Alternative: innerElse,
		}),
		Alternative: outerElse,
	})

	sink, _ := runWalker(t, body, func(sp ast.Span) string { return src.lookup(sp) })
	assert.False(t, sink.HasErrors())
	assert.Empty(t, sink.Records())
}
