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

// Package engine implements the Proof Engine (spec.md §4.5): the
// stateful depth-first walk that ties the scope resolver, the
// knowledge base, the expression rewriter, the statement translator,
// and the block summarizer together into one pass over a method body,
// plus the means-statement discharge logic and error reporting that
// make the whole thing observable.
package engine

import (
	"fmt"

	"go.uber.org/multierr"
)

// ErrorRecord is one user-facing proof failure: a means-statement
// whose claim (or some conjunct of it) the prover could not discharge
// (spec.md §4.5, §7). Unlike InternalError, an ErrorRecord never stops
// the pass -- the walker records it and moves on to the next
// statement.
type ErrorRecord struct {
	// Component names the pass component that raised the failure,
	// e.g. "Prover".
	Component string
	// Token identifies the failing conjunct's source span, for tools
	// that want a machine-readable location instead of parsing
	// Message.
	Token string
	// Message is the exact user-facing text, one of the two fixed
	// templates in spec.md §4.5.
	Message string
}

// Error implements error so an ErrorRecord can be combined with
// multierr like any other error value.
func (e ErrorRecord) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

// ErrorSink accumulates every ErrorRecord raised over the course of a
// pass. It never aborts the walk itself; callers decide what finishing
// with a non-empty sink means for the overall run.
type ErrorSink struct {
	records []ErrorRecord
}

// Record appends r to the sink.
func (s *ErrorSink) Record(r ErrorRecord) {
	s.records = append(s.records, r)
}

// Records returns a copy of every record seen so far, in report order.
func (s *ErrorSink) Records() []ErrorRecord {
	out := make([]ErrorRecord, len(s.records))
	copy(out, s.records)
	return out
}

// HasErrors reports whether any proof failure was recorded.
func (s *ErrorSink) HasErrors() bool {
	return len(s.records) > 0
}

// Combined returns every recorded failure as a single multierr-joined
// error, or nil if the sink is empty. This is the value a driver
// returns to its caller as "the pass found N unproven claims."
func (s *ErrorSink) Combined() error {
	var combined error
	for _, r := range s.records {
		combined = multierr.Append(combined, r)
	}
	return combined
}

// InternalError is a fatal, non-recoverable failure of the walk
// itself: Walker returns one for a statement kind it does not handle
// and for a while loop when RejectLoopsInTotalCorrectness is set.
// Prover transport errors reach the caller as plain errors from
// package kb instead. Unlike ErrorRecord, an InternalError stops the
// walk in progress -- it means the pass itself cannot continue, not
// that a proof obligation went unmet.
type InternalError struct {
	// Construct names what the walker was trying to do when it failed,
	// e.g. the Go type name of an unhandled node kind.
	Construct string
	Err       error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("engine: internal error in %s: %v", e.Construct, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }
