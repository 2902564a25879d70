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
	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/scope"
)

// flatResolver is a scope.Resolver backed by a single flat variable
// map -- enough for this package's tests, which never exercise
// multi-scope field-prefix resolution (that is proof/rewrite's own
// concern, already covered by its tests).
type flatResolver struct {
	root *scope.Scope
	vars map[string]scope.VarInfo
}

func newFlatResolver(types map[string]string) *flatResolver {
	vars := make(map[string]scope.VarInfo, len(types))
	for k, v := range types {
		vars[k] = scope.VarInfo{Type: v}
	}
	return &flatResolver{root: scope.NewScope("", nil, nil), vars: vars}
}

func (r *flatResolver) ScopeOf(ast.Node) *scope.Scope { return r.root }

func (r *flatResolver) VarInfo(_ *scope.Scope, name string) (scope.VarInfo, bool) {
	v, ok := r.vars[name]
	return v, ok
}
