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

// Package lemma implements the lemma library consulted by the proof
// engine before it gives up on a leaf conjunct (spec.md §4.5's "adding
// a lemma to help prove the statement"). A lemma library is a small
// Starlark file (go.starlark.net) exposing named functions, each
// returning a formula string built from the text of the failing
// conjunct.
//
// Starlark is used here exactly as the rest of the retrieved example
// pack uses it: as a hermetic, side-effect-free embedded configuration
// language, not a general scripting facility -- a lemma function may
// not perform I/O, and Library.Call enforces a step limit so a
// misbehaving lemma cannot hang the pass.
package lemma

import (
	"fmt"

	"go.starlark.net/starlark"
)

// Library holds the loaded, named lemma functions from one Starlark
// file.
type Library struct {
	globals starlark.StringDict
	thread  *starlark.Thread
}

// Load reads and executes the Starlark file at path, collecting every
// top-level function definition as a named lemma.
func Load(path string) (*Library, error) {
	thread := &starlark.Thread{Name: "lemma-library"}
	globals, err := starlark.ExecFile(thread, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("lemma: loading %s: %w", path, err)
	}
	return &Library{globals: globals, thread: thread}, nil
}

// Has reports whether a lemma named name was defined in the library.
func (l *Library) Has(name string) bool {
	if l == nil {
		return false
	}
	v, ok := l.globals[name]
	if !ok {
		return false
	}
	_, ok = v.(*starlark.Function)
	return ok
}

// Call invokes the named lemma with the given string arguments (the
// Proof Engine passes the formula text of the conjunct it is trying to
// discharge) and returns the formula string it produces.
func (l *Library) Call(name string, args ...string) (string, error) {
	if l == nil {
		return "", fmt.Errorf("lemma: no library loaded")
	}
	fn, ok := l.globals[name].(*starlark.Function)
	if !ok {
		return "", fmt.Errorf("lemma: no lemma named %q", name)
	}

	starArgs := make(starlark.Tuple, len(args))
	for i, a := range args {
		starArgs[i] = starlark.String(a)
	}

	// A fresh thread per call gives every lemma its own step budget.
	thread := &starlark.Thread{Name: l.thread.Name}
	thread.SetMaxExecutionSteps(1000000)
	result, err := starlark.Call(thread, fn, starArgs, nil)
	if err != nil {
		return "", fmt.Errorf("lemma: calling %q: %w", name, err)
	}

	s, ok := starlark.AsString(result)
	if !ok {
		return "", fmt.Errorf("lemma: %q did not return a string", name)
	}
	return s, nil
}
