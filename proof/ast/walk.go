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

package ast

import "fmt"

// Visitor is implemented by anything that walks a parse tree. Pre is
// called before a node's children are traversed, Post after. Either
// may return an error to abort the walk.
type Visitor interface {
	Pre(Node) error
	Post(Node) error
}

// Walk traverses node depth-first, calling v.Pre before descending into
// children and v.Post after. node must be non-nil.
//
// The switch below is exhaustive over every kind declared in this
// package: an unrecognized concrete type is an internal error (a
// future-work construct the translation layer was never taught about),
// never a silent no-op. This replaces the source implementation's
// dynamic dispatch over parser-generated classes with a closed sum
// type matched exhaustively, per the REDESIGN FLAGS.
func Walk(v Visitor, node Node) error {
	if err := v.Pre(node); err != nil {
		return err
	}

	switch n := node.(type) {
	case *Block:
		for _, s := range n.Statements {
			if err := Walk(v, s); err != nil {
				return err
			}
		}

	case *LocalDecl:
		for _, d := range n.Declarators {
			if d.Name != nil {
				if err := Walk(v, d.Name); err != nil {
					return err
				}
			}
			if d.Init != nil {
				if err := Walk(v, d.Init); err != nil {
					return err
				}
			}
		}

	case *Assignment:
		if n.Target != nil {
			if err := Walk(v, n.Target); err != nil {
				return err
			}
		}
		if n.Value != nil {
			if err := Walk(v, n.Value); err != nil {
				return err
			}
		}

	case *EmptyStatement:
		// no children

	case *Return:
		if n.Value != nil {
			if err := Walk(v, n.Value); err != nil {
				return err
			}
		}

	case *If:
		if n.Condition != nil {
			if err := Walk(v, n.Condition); err != nil {
				return err
			}
		}
		if n.Consequence != nil {
			if err := Walk(v, n.Consequence); err != nil {
				return err
			}
		}
		if n.Alternative != nil {
			if err := Walk(v, n.Alternative); err != nil {
				return err
			}
		}

	case *While:
		if n.Condition != nil {
			if err := Walk(v, n.Condition); err != nil {
				return err
			}
		}
		if n.Body != nil {
			if err := Walk(v, n.Body); err != nil {
				return err
			}
		}

	case *Means:
		if n.Claim != nil {
			if err := Walk(v, n.Claim); err != nil {
				return err
			}
		}

	case *Identifier:
		// leaf

	case *DecoratedName:
		// leaf

	case *Literal:
		// leaf

	case *BinaryExpr:
		if n.Left != nil {
			if err := Walk(v, n.Left); err != nil {
				return err
			}
		}
		if n.Right != nil {
			if err := Walk(v, n.Right); err != nil {
				return err
			}
		}

	case *UnaryExpr:
		if n.Operand != nil {
			if err := Walk(v, n.Operand); err != nil {
				return err
			}
		}

	case *ParenExpr:
		if n.Inner != nil {
			if err := Walk(v, n.Inner); err != nil {
				return err
			}
		}

	case *Conditional:
		if n.Condition != nil {
			if err := Walk(v, n.Condition); err != nil {
				return err
			}
		}
		if n.Then != nil {
			if err := Walk(v, n.Then); err != nil {
				return err
			}
		}
		if n.Else != nil {
			if err := Walk(v, n.Else); err != nil {
				return err
			}
		}

	case *InstanceOf:
		if n.Operand != nil {
			if err := Walk(v, n.Operand); err != nil {
				return err
			}
		}

	case *IndexExpr:
		if n.Operand != nil {
			if err := Walk(v, n.Operand); err != nil {
				return err
			}
		}
		if n.Index != nil {
			if err := Walk(v, n.Index); err != nil {
				return err
			}
		}

	case *FieldAccess:
		if n.Operand != nil {
			if err := Walk(v, n.Operand); err != nil {
				return err
			}
		}

	case *CallExpr:
		if n.Callee != nil {
			if err := Walk(v, n.Callee); err != nil {
				return err
			}
		}
		for _, a := range n.Arguments {
			if a != nil {
				if err := Walk(v, a); err != nil {
					return err
				}
			}
		}

	default:
		return fmt.Errorf("ast: Walk: unhandled node kind %T", node)
	}

	return v.Post(node)
}
