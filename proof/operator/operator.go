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

// Package operator implements the Operator Translator (spec.md §4.2):
// mapping surface operator tokens to the prover's vocabulary, with a
// separate column for operators applied to boolean-valued operands.
package operator

// entry is one row of the translation table: the prover tokens for
// arithmetic- and boolean-operand contexts. Most rows are identical in
// both columns.
type entry struct {
	arith string
	bool_ string
}

var table = map[string]entry{
	"<":   {"<", "<"},
	">":   {">", ">"},
	">=":  {">=", ">="},
	"<=":  {"=<", "=<"},
	"=":   {" = ", "==="},
	"!=":  {"#=", "=#="},
	"!":   {"-", "-"},
	"&":   {"/\\", "/\\"},
	"&&":  {"/\\", "/\\"},
	"|":   {"\\/", "\\/"},
	"||":  {"\\/", "\\/"},
	"=!=": {"=#=", "=#="},
	"===": {"===", "==="},
	"==>": {"==>", "==>"},
	"<==": {"<==", "<=="},
}

// Translate returns the prover token for surface operator op. boolean
// selects the boolean-operand column, chosen by the caller based on
// IsBooleanValued. The second return is false if op is not a
// recognized surface operator.
func Translate(op string, boolean bool) (string, bool) {
	e, ok := table[op]
	if !ok {
		return "", false
	}
	if boolean {
		return e.bool_, true
	}
	return e.arith, true
}
