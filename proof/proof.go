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

// Package proof is the top-level entry point for the TrueJ proof pass:
// it wires the sub-packages of this module (scope resolution, the
// expression/statement/block translators, the knowledge base, the
// proof engine, and the rewrite table) into a single call that a
// driver -- out of scope for this module, per spec.md §1 -- can invoke
// once per compiled unit.
//
// This replaces the source's global mutable "latest visitor" slot
// (spec.md §9 REDESIGN FLAG) with an explicit return value: every
// caller gets its own (errors, transcript) pair back from Run, with
// nothing stashed in package-level state.
package proof

import (
	"github.com/Variable-Value/TJava/proof/ast"
	"github.com/Variable-Value/TJava/proof/config"
	"github.com/Variable-Value/TJava/proof/engine"
	"github.com/Variable-Value/TJava/proof/kb"
	"github.com/Variable-Value/TJava/proof/lemma"
	"github.com/Variable-Value/TJava/proof/prover"
	"github.com/Variable-Value/TJava/proof/scope"
	"github.com/Variable-Value/TJava/proof/transcript"
)

// Result is everything a caller gets back from running the proof pass
// over one method body: the error sink's accumulated proof failures
// (nil if none), and the transcript of everything sent to the prover.
type Result struct {
	// Errors combines every recorded proof failure with
	// go.uber.org/multierr, or is nil when the method verified cleanly.
	Errors error
	// Transcript is the exact text stream the prover saw, in source
	// order (spec.md §4.7).
	Transcript string
}

// Run walks body -- one method's (or other executable's) block --
// against scopes/types and prover, in that order, and returns the
// combined result. A non-nil error return is never a proof failure:
// it is a construct the walker could not translate (spec.md §7), a
// prover connection error, or a failure to load the configured lemma
// library. User-level
// proof failures never surface as the second return value; they are
// folded into Result.Errors instead.
//
// sourceText reads the original surface text for a span from the
// token stream -- the pass's only dependency on the external reader of
// the source file (spec.md §1's "out of scope" list).
func Run(
	body *ast.Block,
	scopes scope.Resolver,
	p prover.Prover,
	cfg *config.Config,
	sourceText func(ast.Span) string,
) (Result, error) {
	stack := kb.NewStack(p)
	table := transcript.NewTable()
	sink := &engine.ErrorSink{}

	var lemmas *lemma.Library
	if cfg.LemmaLibraryPath != "" {
		lib, err := lemma.Load(cfg.LemmaLibraryPath)
		if err != nil {
			return Result{}, err
		}
		lemmas = lib
	}

	w := engine.NewWalker(
		stack,
		scopes,
		table,
		sink,
		lemmas,
		cfg.RequireDecoratedFinalValue,
		cfg.RejectLoopsInTotalCorrectness,
		sourceText,
	)

	if err := w.VisitMethodBody(body); err != nil {
		return Result{}, err
	}

	return Result{
		Errors:     sink.Combined(),
		Transcript: table.Text(),
	}, nil
}
