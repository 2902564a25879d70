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

// Package block implements the Block Summarizer (spec.md §4.4): the
// bottom-up scan that collapses a block's statements into the single
// formula that becomes the block's own rewritten text.
//
// The scan is a plain reverse iteration over a two-state flag, per the
// "Coroutine-like bottom-up scan" REDESIGN FLAG -- no continuation, no
// generator.
package block

// State is the Block Summarizer's scan state.
type State int

const (
	// Active means no means-statement has been encountered yet
	// (scanning from the end of the block upward): earlier statements
	// still contribute their formulas to the block's meaning.
	Active State = iota
	// Quenched means a means-statement has been seen: statements above
	// it contribute only type facts, never formulas.
	Quenched
)

// ItemKind discriminates the three shapes a block-statement can take
// for summarization purposes.
type ItemKind int

const (
	// Decl is a local declaration. TypeFacts always contribute;
	// InitFormula contributes only while the scan is Active.
	Decl ItemKind = iota
	// Means is a means-statement: its Text, once reached while Active,
	// quenches the scan.
	Means
	// Other is any other statement kind.
	Other
)

// Item is one block-statement as seen by the summarizer: already
// translated by the Statement Translator (package stmt), in source
// order.
type Item struct {
	Kind ItemKind
	// TypeFact is the type(T, v) fact this item contributes,
	// regardless of scan state (spec.md §4.4 point 4). Empty for
	// non-Decl items. For a multi-declarator local declaration,
	// engine.Walker builds a single Item whose TypeFact and InitFormula
	// each conjoin (with " /\ ") the contributions of every declarator.
	TypeFact string
	// InitFormula is the "(v' = e)" (or "(v' === e)") contribution of
	// an initialized declarator; empty for uninitialized declarators
	// and for non-Decl items.
	InitFormula string
	// Text is the item's own rewritten formula text, used for Means
	// and Other items.
	Text string
}

// Summary is the result of summarizing a block: the conjunction of
// surviving formulas ("true" if none survive) and the conjunction of
// every type fact seen, regardless of scan state.
type Summary struct {
	Meaning string
	Types   string
}

// Summarize runs the bottom-up active/quenched scan over items, in
// source order, and returns the block's Summary.
func Summarize(items []Item) Summary {
	state := Active
	var meaningParts []string
	var typeParts []string

	// Scan from last to first (bottom-up), prepending survivors so the
	// accumulated slices end up in source order without a second pass.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]

		switch it.Kind {
		case Decl:
			if it.TypeFact != "" {
				typeParts = prepend(typeParts, it.TypeFact)
			}
			if it.InitFormula != "" && state == Active {
				meaningParts = prepend(meaningParts, it.InitFormula)
			}

		case Means:
			if state == Active {
				meaningParts = prepend(meaningParts, it.Text)
				state = Quenched
			}

		case Other:
			if state == Active {
				meaningParts = prepend(meaningParts, it.Text)
			}
		}
	}

	return Summary{
		Meaning: conjoin(meaningParts),
		Types:   conjoin(typeParts),
	}
}

func prepend(parts []string, s string) []string {
	return append([]string{s}, parts...)
}

func conjoin(parts []string) string {
	if len(parts) == 0 {
		return "true"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += " /\\ " + p
	}
	return out
}
