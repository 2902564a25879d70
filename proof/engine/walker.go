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
	"errors"
	"fmt"

	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/block"
	"github.com/Variable-Value/TJava/proof/kb"
	"github.com/Variable-Value/TJava/proof/lemma"
	"github.com/Variable-Value/TJava/proof/name"
	"github.com/Variable-Value/TJava/proof/rewrite"
	"github.com/Variable-Value/TJava/proof/scope"
	"github.com/Variable-Value/TJava/proof/stmt"
	"github.com/Variable-Value/TJava/proof/transcript"
)

// Walker is the stateful depth-first traversal spec.md §4.5 describes
// as the Proof Engine: it drives the KB stack, the rewrite table, and
// every pure translation package (rewrite, stmt, block) across one
// method body.
//
// Unlike package ast's generic Visitor (used for simple, read-only
// traversals), Walker recurses by hand over the statement forms it
// cares about: If and While need to push a guard-assuming child KB
// around exactly one child statement, something Pre/Post callbacks
// around a whole node cannot express. The exhaustive type switch
// discipline -- an internal error on any unhandled kind -- is kept all
// the same.
type Walker struct {
	Stack    *kb.Stack
	Resolver scope.Resolver
	Table    *transcript.Table
	Sink     *ErrorSink
	Lemmas   *lemma.Library

	// RequireDecoratedFinalValue mirrors the Proof Engine's return
	// statement: see package stmt's Return.
	RequireDecoratedFinalValue bool
	// RejectLoopsInTotalCorrectness, when true, turns any while loop
	// into an InternalError instead of the documented
	// under-approximation -- spec.md §9's decision for executables
	// that must be proved totally correct, not merely partially.
	RejectLoopsInTotalCorrectness bool

	// SourceText returns the original surface text for a span, read
	// from the token stream. It is the walker's only dependency on the
	// external, out-of-scope reader of the source file.
	SourceText func(ast.Span) string
}

// NewWalker constructs a Walker ready to visit method bodies against a
// freshly rooted KB stack.
func NewWalker(
	stack *kb.Stack,
	resolver scope.Resolver,
	table *transcript.Table,
	sink *ErrorSink,
	lemmas *lemma.Library,
	requireDecoratedFinalValue bool,
	rejectLoopsInTotalCorrectness bool,
	sourceText func(ast.Span) string,
) *Walker {
	return &Walker{
		Stack:                         stack,
		Resolver:                      resolver,
		Table:                         table,
		Sink:                          sink,
		Lemmas:                        lemmas,
		RequireDecoratedFinalValue:    requireDecoratedFinalValue,
		RejectLoopsInTotalCorrectness: rejectLoopsInTotalCorrectness,
		SourceText:                    sourceText,
	}
}

// VisitMethodBody runs the pass over one executable's body. It returns
// only internal errors; proof failures land in w.Sink instead, per
// spec.md §7's "user-level proof failures do not stop the pass."
//
// The KB stack's depth is unchanged across this call (spec.md §8's
// "scope discipline" property): body's own Push/Pop pair is perfectly
// balanced regardless of how the walk inside it turns out.
func (w *Walker) VisitMethodBody(body *ast.Block) error {
	_, err := w.visitBlock(body)
	return err
}

// visitBlock visits every statement of b in source order inside a
// fresh child KB, summarizes them (package block), assumes the
// summary into the parent KB, and records b's own rewritten text
// (spec.md §4.4).
func (w *Walker) visitBlock(b *ast.Block) (meaning string, err error) {
	w.init(b)

	w.Stack.Push()
	var items []block.Item
	for _, s := range b.Statements {
		item, verr := w.visitStatement(s)
		if verr != nil {
			w.Stack.Pop()
			return "", verr
		}
		items = append(items, item)
	}
	summary := block.Summarize(items)
	w.Stack.Pop()

	if err := w.Stack.Current().Assume(summary.Meaning); err != nil {
		return "", err
	}

	blockText := "(" + summary.Meaning + ")"
	w.sub(b, blockText)
	return blockText, nil
}

// withGuard runs body (a block or a single bare statement) inside a
// fresh child KB that has already assumed guard, and returns the
// meaning contributed by body -- the If/While branch-visiting rule of
// spec.md §4.3/§5.
func (w *Walker) withGuard(guard string, body ast.Statement) (meaning string, err error) {
	child := w.Stack.Push()
	defer w.Stack.Pop()

	if err := child.Assume(guard); err != nil {
		return "", err
	}

	if blk, ok := body.(*ast.Block); ok {
		return w.visitBlock(blk)
	}

	item, err := w.visitStatement(body)
	if err != nil {
		return "", err
	}
	return item.Text, nil
}

// visitStatement dispatches on s's concrete kind, translating it and
// assuming its formula into the current KB as appropriate, and returns
// the block.Item the enclosing block's summarizer will see.
func (w *Walker) visitStatement(s ast.Statement) (block.Item, error) {
	switch s := s.(type) {

	case *ast.Block:
		meaning, err := w.visitBlock(s)
		if err != nil {
			return block.Item{}, err
		}
		return block.Item{Kind: block.Other, Text: meaning}, nil

	case *ast.LocalDecl:
		return w.visitLocalDecl(s)

	case *ast.Assignment:
		w.init(s)
		sc := w.Resolver.ScopeOf(s)
		target := rewrite.Expr(s.Target, sc, w.Resolver)
		value := rewrite.Expr(s.Value, sc, w.Resolver)
		boolean := rewrite.IsBooleanValued(s.Target, sc, w.Resolver)
		formula := stmt.Assignment(target, value, boolean)
		w.sub(s, formula)
		if err := w.Stack.Current().Assume(formula); err != nil {
			return block.Item{}, err
		}
		return block.Item{Kind: block.Other, Text: formula}, nil

	case *ast.EmptyStatement:
		w.init(s)
		formula := stmt.Empty()
		w.sub(s, formula)
		return block.Item{Kind: block.Other, Text: formula}, nil

	case *ast.Return:
		return w.visitReturn(s)

	case *ast.If:
		return w.visitIf(s)

	case *ast.While:
		return w.visitWhile(s)

	case *ast.Means:
		return w.visitMeans(s)

	default:
		return block.Item{}, &InternalError{
			Construct: fmt.Sprintf("%T", s),
			Err:       errors.New("engine: unhandled statement kind"),
		}
	}
}

func (w *Walker) visitLocalDecl(s *ast.LocalDecl) (block.Item, error) {
	w.init(s)
	sc := w.Resolver.ScopeOf(s)

	var typeFacts, initFormulas []string
	for _, d := range s.Declarators {
		atom := rewrite.Expr(d.Name, sc, w.Resolver)
		boolean := rewrite.IsBooleanValued(d.Name, sc, w.Resolver)

		var initText string
		if d.Init != nil {
			initText = rewrite.Expr(d.Init, sc, w.Resolver)
		}

		typeFact, initFormula := stmt.LocalDecl(atom, s.Type, initText, boolean)
		typeFacts = append(typeFacts, typeFact)
		if err := w.Stack.Current().Assume(typeFact); err != nil {
			return block.Item{}, err
		}
		if initFormula != "" {
			initFormulas = append(initFormulas, initFormula)
			if err := w.Stack.Current().Assume(initFormula); err != nil {
				return block.Item{}, err
			}
		}
	}

	typeFact := conjoin(typeFacts)
	initFormula := conjoin(initFormulas)

	text := typeFact
	if initFormula != "" {
		text = initFormula
	}
	w.sub(s, text)

	return block.Item{Kind: block.Decl, TypeFact: typeFact, InitFormula: initFormula}, nil
}

func (w *Walker) visitReturn(s *ast.Return) (block.Item, error) {
	w.init(s)

	if s.Value == nil {
		formula := stmt.Empty()
		w.sub(s, formula)
		return block.Item{Kind: block.Other, Text: formula}, nil
	}

	sc := w.Resolver.ScopeOf(s)
	value := rewrite.Expr(s.Value, sc, w.Resolver)
	decorated := name.Translate(&ast.DecoratedName{Var: "return", Kind: ast.Post}, "")
	formula := stmt.Return(decorated, "return", value, w.RequireDecoratedFinalValue)
	w.sub(s, formula)
	if err := w.Stack.Current().Assume(formula); err != nil {
		return block.Item{}, err
	}
	return block.Item{Kind: block.Other, Text: formula}, nil
}

func (w *Walker) visitIf(s *ast.If) (block.Item, error) {
	w.init(s)
	sc := w.Resolver.ScopeOf(s)
	cond := rewrite.Expr(s.Condition, sc, w.Resolver)

	thenMeaning, err := w.withGuard(cond, s.Consequence)
	if err != nil {
		return block.Item{}, err
	}

	hasElse := s.Alternative != nil
	var elseMeaning string
	if hasElse {
		elseMeaning, err = w.withGuard("-"+cond, s.Alternative)
		if err != nil {
			return block.Item{}, err
		}
	}

	formula := stmt.If(cond, thenMeaning, elseMeaning, hasElse)
	w.sub(s, formula)
	return block.Item{Kind: block.Other, Text: formula}, nil
}

func (w *Walker) visitWhile(s *ast.While) (block.Item, error) {
	w.init(s)
	if w.RejectLoopsInTotalCorrectness {
		return block.Item{}, &InternalError{
			Construct: "While",
			Err:       errors.New("loop bodies have no synthesized invariant and cannot be proved totally correct"),
		}
	}

	sc := w.Resolver.ScopeOf(s)
	cond := rewrite.Expr(s.Condition, sc, w.Resolver)
	bodyMeaning, err := w.withGuard(cond, s.Body)
	if err != nil {
		return block.Item{}, err
	}

	formula := stmt.While(cond, bodyMeaning)
	w.sub(s, formula)
	return block.Item{Kind: block.Other, Text: formula}, nil
}

func (w *Walker) visitMeans(s *ast.Means) (block.Item, error) {
	w.init(s)
	sc := w.Resolver.ScopeOf(s)
	formula := rewrite.Expr(s.Claim, sc, w.Resolver)

	rec, failed, err := Discharge(s.Claim, formula, w.Stack.Current(), sc, w.Resolver, w.Lemmas, w.originalExprText)
	if err != nil {
		return block.Item{}, err
	}
	if failed {
		w.Sink.Record(rec)
	}

	w.sub(s, formula)
	return block.Item{Kind: block.Means, Text: formula}, nil
}

func (w *Walker) init(n ast.Node) {
	w.Table.Init(n, w.SourceText(n.Span()))
}

func (w *Walker) sub(n ast.Node, text string) {
	w.Table.Substitute(n, text)
}

func (w *Walker) originalExprText(e ast.Expression) string {
	return w.SourceText(e.Span())
}

func conjoin(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " /\\ " + p
	}
	return out
}
