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

// Package rewrite implements the Expression Rewriter (spec.md §4.2,
// §4.7): it reconstructs an expression tree as a fully parenthesized
// prover term, composing the Name Translator and Operator Translator,
// and decides structurally whether a subexpression is boolean-valued
// so the Operator Translator can pick the right column.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/name"
	"github.com/Variable-Value/TJava/proof/operator"
	"github.com/Variable-Value/TJava/proof/scope"
)

// arithmeticOps are the binary operators outside the Operator
// Translator's vocabulary: ordinary arithmetic, passed through
// unchanged and never boolean-valued.
var arithmeticOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
}

// Expr reconstructs e as a fully parenthesized prover term, resolving
// decorated/undecorated names against sc using resolver.
func Expr(e ast.Expression, sc *scope.Scope, resolver scope.Resolver) string {
	switch n := e.(type) {
	case *ast.Identifier:
		// Undecorated identifiers are left untouched in text form
		// (spec.md §4.1): no scope prefix, no quoting.
		return n.Name

	case *ast.DecoratedName:
		prefix := declaringPrefix(n.Var, sc, resolver)
		return name.Translate(n, prefix)

	case *ast.Literal:
		return literalText(n)

	case *ast.ParenExpr:
		// Re-parenthesization is explicit and unconditional (§4.2), so
		// the original grouping is discarded and rebuilt by the
		// containing expression.
		return Expr(n.Inner, sc, resolver)

	case *ast.UnaryExpr:
		boolOperand := IsBooleanValued(n.Operand, sc, resolver)
		tok, ok := operator.Translate(n.Op, boolOperand)
		if !ok {
			tok = n.Op
		}
		return tok + Expr(n.Operand, sc, resolver)

	case *ast.BinaryExpr:
		left := Expr(n.Left, sc, resolver)
		right := Expr(n.Right, sc, resolver)
		var tok string
		if arithmeticOps[n.Op] {
			tok = n.Op
		} else {
			boolOperands := IsBooleanValued(n.Left, sc, resolver)
			var ok bool
			tok, ok = operator.Translate(n.Op, boolOperands)
			if !ok {
				tok = n.Op
			}
		}
		return fmt.Sprintf("(%s %s %s)", left, tok, right)

	case *ast.Conditional:
		cond := Expr(n.Condition, sc, resolver)
		then := Expr(n.Then, sc, resolver)
		els := Expr(n.Else, sc, resolver)
		return fmt.Sprintf("(%s -> %s ; %s)", cond, then, els)

	case *ast.InstanceOf:
		return fmt.Sprintf("instanceof(%s, %s)", Expr(n.Operand, sc, resolver), n.Type)

	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", Expr(n.Operand, sc, resolver), Expr(n.Index, sc, resolver))

	case *ast.FieldAccess:
		return Expr(n.Operand, sc, resolver) + "." + n.Field

	case *ast.CallExpr:
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = Expr(a, sc, resolver)
		}
		return fmt.Sprintf("%s(%s)", Expr(n.Callee, sc, resolver), strings.Join(args, ", "))

	default:
		panic(fmt.Sprintf("rewrite: unhandled expression kind %T", e))
	}
}

// literalText renders a literal's prover text: floating-point literals
// starting with "." are prefixed with "0" (spec.md §4.7); other
// literals pass through unchanged.
func literalText(lit *ast.Literal) string {
	if lit.Kind == ast.NumberLiteral && strings.HasPrefix(lit.Text, ".") {
		return "0" + lit.Text
	}
	return lit.Text
}

// declaringPrefix finds the scope prefix for variable v as seen from
// sc, per spec.md §3: "determined solely by the declaring scope's
// label as recorded in VarInfo." A variable not found anywhere in the
// scope chain is treated as a top-of-method local (no prefix) rather
// than an error here -- the symbol-table pass, not this rewriter, is
// responsible for catching undeclared names.
func declaringPrefix(v string, sc *scope.Scope, resolver scope.Resolver) string {
	info, ok := resolver.VarInfo(sc, v)
	if !ok {
		return ""
	}
	return info.DeclaredIn.Prefix()
}

// IsBooleanValued decides, structurally, whether e denotes a boolean
// value (spec.md §4.2). Function calls and unresolved dot-expressions
// default to false -- left as an open question (§9), not invented
// further here.
func IsBooleanValued(e ast.Expression, sc *scope.Scope, resolver scope.Resolver) bool {
	switch n := e.(type) {
	case *ast.Literal:
		return n.Kind == ast.BoolLiteral

	case *ast.Identifier:
		info, ok := resolver.VarInfo(sc, n.Name)
		return ok && isBooleanType(info.Type)

	case *ast.DecoratedName:
		info, ok := resolver.VarInfo(sc, n.Var)
		return ok && isBooleanType(info.Type)

	case *ast.ParenExpr:
		return IsBooleanValued(n.Inner, sc, resolver)

	case *ast.UnaryExpr:
		return n.Op == "!"

	case *ast.BinaryExpr:
		return !arithmeticOps[n.Op]

	case *ast.InstanceOf:
		return true

	case *ast.Conditional:
		// judged by the "then" branch's type, per §4.2.
		return IsBooleanValued(n.Then, sc, resolver)

	case *ast.IndexExpr:
		return isBooleanType(elementTypeOf(n.Operand, sc, resolver))

	case *ast.FieldAccess:
		if id, ok := n.Operand.(*ast.Identifier); ok && id.Name == "this" {
			info, ok := resolver.VarInfo(sc, n.Field)
			return ok && isBooleanType(info.Type)
		}
		// unresolved dot-expression: open question, default false.
		return false

	case *ast.CallExpr:
		// function-call: open question, default false.
		return false

	default:
		return false
	}
}

// elementTypeOf returns the declared element type of an array
// expression, by stripping a trailing "[]" from its declared type.
func elementTypeOf(e ast.Expression, sc *scope.Scope, resolver scope.Resolver) string {
	var name string
	switch n := e.(type) {
	case *ast.Identifier:
		name = n.Name
	case *ast.DecoratedName:
		name = n.Var
	default:
		return ""
	}
	info, ok := resolver.VarInfo(sc, name)
	if !ok {
		return ""
	}
	return strings.TrimSuffix(info.Type, "[]")
}

func isBooleanType(t string) bool {
	return t == "boolean" || t == "Boolean"
}
