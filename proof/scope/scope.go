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

// Package scope defines the read-only scope/variable-type data the
// proof pass receives from the (external, preceding) symbol-table
// pass. Nothing here is mutated by the proof pass: it only looks
// variables up.
package scope

import "github.com/Variable-Value/TJava/proof/ast"

// VarInfo describes one declared variable or field, as produced by the
// symbol-table pass.
type VarInfo struct {
	// DeclaredIn is the scope the variable was declared in.
	DeclaredIn *Scope
	// Type is the variable's declared type, by literal spelling
	// ("boolean", "Boolean", "int", a class name, ...).
	Type string
}

// Scope is one node of the scope tree built by the symbol-table pass.
type Scope struct {
	// Label is empty for top-of-method locals, "this" for instance
	// scope, "super" for the superclass scope, or a type name.
	Label string
	// Parent is nil for the root scope.
	Parent *Scope
	vars   map[string]VarInfo
}

// NewScope constructs a Scope with the given label, parent, and
// variable map. A nil vars map is treated as empty.
func NewScope(label string, parent *Scope, vars map[string]VarInfo) *Scope {
	if vars == nil {
		vars = map[string]VarInfo{}
	}
	return &Scope{Label: label, Parent: parent, vars: vars}
}

// Lookup returns the VarInfo for name declared directly in s (not in
// an ancestor), and whether it was found.
func (s *Scope) Lookup(name string) (VarInfo, bool) {
	if s == nil {
		return VarInfo{}, false
	}
	v, ok := s.vars[name]
	return v, ok
}

// Resolve searches s and its ancestors, innermost first, for name.
func (s *Scope) Resolve(name string) (VarInfo, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return VarInfo{}, false
}

// Prefix is the dotted scope-prefix a value name belonging to this
// scope takes in its prover atom (spec.md §3's "scope prefix ...
// determined solely by the declaring scope's label"). A top-of-method
// local scope (empty label) carries no prefix at all.
func (s *Scope) Prefix() string {
	if s == nil || s.Label == "" {
		return ""
	}
	return s.Label + "."
}

// Resolver answers scope and variable-type questions about a node.
// The symbol-table pass is the sole implementer the proof pass
// consumes in production; tests supply fakes.
type Resolver interface {
	// ScopeOf returns the scope a given node was resolved in.
	ScopeOf(n ast.Node) *Scope
	// VarInfo returns the declaration info for name as seen from
	// scope s, searching s and its ancestors.
	VarInfo(s *Scope, name string) (VarInfo, bool)
}
