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

// Package name implements the Name Translator (spec.md §4.1):
// rewriting decorated value-name leaves into their prover atoms, and
// the inverse varName used when carrying type information across a
// rewrite.
package name

import (
	"strings"

	"github.com/Variable-Value/TJava/proof/ast"
)

// Translate computes the prover atom for a decorated value name, given
// the dotted scope prefix of its declaring scope ("label." or "").
//
//	pre:  'x  -> 'p^x'
//	post: x'  -> 'px^'
//	mid:  x'tag -> 'px^tag'
func Translate(d *ast.DecoratedName, prefix string) string {
	var b strings.Builder
	b.WriteByte('\'')

	switch d.Kind {
	case ast.Pre:
		b.WriteString(prefix)
		b.WriteByte('^')
		b.WriteString(d.Var)
	case ast.Post:
		b.WriteString(prefix)
		b.WriteString(d.Var)
		b.WriteByte('^')
	case ast.Mid:
		b.WriteString(prefix)
		b.WriteString(d.Var)
		b.WriteByte('^')
		b.WriteString(d.Tag)
	}

	b.WriteByte('\'')
	return b.String()
}

// VarName recovers the underlying variable identifier from a prover
// atom produced by Translate: it strips the quoting, any scope prefix,
// the '^' decoration marker, and any trailing mid-tag.
//
// varName ∘ Translate recovers v up to the scope prefix (spec.md §8's
// name-encoding round-trip property); this function performs exactly
// that inverse, given the same prefix Translate was called with.
func VarName(atom string, prefix string) string {
	s := strings.Trim(atom, "'")
	s = strings.TrimPrefix(s, prefix)

	if i := strings.IndexByte(s, '^'); i >= 0 {
		// pre-decorated: prefix^v -- nothing precedes '^' to strip from
		// the left beyond what was already removed as the scope prefix,
		// but the variable name itself follows '^'.
		if i == 0 {
			return s[1:]
		}
		// post/mid-decorated: v^[tag] -- the variable name precedes '^'.
		return s[:i]
	}
	return s
}
