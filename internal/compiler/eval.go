// Package compiler orchestrates a full csv++ build: loading a source and its dependency
// graph, merging scopes, evaluating every formula cell, expanding fills, and handing back the
// finished module for a target writer.
package compiler

import (
	"fmt"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
	"csvpp/internal/builtins"
	"csvpp/internal/cerr"
	"csvpp/internal/module"
	"csvpp/internal/options"
	"csvpp/internal/sheet"
)

// maxInlineDepth bounds how many rounds of variable/function resolution a single cell gets
// before the evaluator gives up on reaching a fixed point.
const maxInlineDepth = 32

// evaluateCell fully resolves n (a parsed formula AST) against scope and the current cell's
// address, repeating variable substitution and function inlining to a fixed point.
func evaluateCell(n ast.Node, cur a1.Address, scope *module.Scope, fills map[int]options.Fill) (ast.Node, error) {
	node := n
	for depth := 0; ; depth++ {
		if depth >= maxInlineDepth {
			return nil, &cerr.EvalError{
				Address: cur.String(),
				Message: "exceeded maximum function inlining depth",
			}
		}

		next, changed, err := resolveOnce(node, cur, scope, fills)
		if err != nil {
			return nil, err
		}
		if !changed {
			return next, nil
		}
		node = next
	}
}

// resolveOnce performs a single bottom-up substitution pass: every Reference is resolved
// against (1) the builtin variable table, (2) the merged scope's variables, in that order;
// every FunctionCall is resolved against (1) the builtin function table, (2) the merged
// scope's user functions; every VariableValue (produced by a prior pass substituting a
// fill-bound `var`) is resolved to a concrete Reference relative to cur.
func resolveOnce(n ast.Node, cur a1.Address, scope *module.Scope, fills map[int]options.Fill) (ast.Node, bool, error) {
	changed := false

	result, err := ast.Transform(n, func(node ast.Node) (ast.Node, error) {
		switch v := node.(type) {
		case ast.Reference:
			if fn, ok := builtins.LookupVariable(v.Name); ok {
				resolved, err := fn(cur)
				if err != nil {
					return nil, &cerr.EvalError{Address: cur.String(), Message: err.Error()}
				}
				changed = true
				return resolved, nil
			}
			if bound, ok := scope.Variables[v.Name]; ok {
				changed = true
				return bound, nil
			}
			// Not a variable in any active scope: a plain spreadsheet reference (A1, B2:B10)
			// that passes through to the target verbatim.
			return node, nil

		case *ast.FunctionCall:
			if fn, ok := builtins.LookupFunction(v.Name); ok {
				resolved, err := fn(cur, v.Args)
				if err != nil {
					return nil, &cerr.EvalError{Address: cur.String(), Message: err.Error()}
				}
				changed = true
				return resolved, nil
			}
			if userFn, ok := scope.Functions[v.Name]; ok {
				if len(v.Args) != len(userFn.Args) {
					return nil, &cerr.EvalError{
						Address: cur.String(),
						Message: fmt.Sprintf("function %q expects %d argument(s), got %d", v.Name, len(userFn.Args), len(v.Args)),
					}
				}
				changed = true
				return inline(userFn, v.Args), nil
			}
			// A spreadsheet function (SUM, IF, ...) the target evaluates, not the compiler.
			return node, nil

		case ast.VariableValue:
			changed = true
			return sheet.ResolveVariableValue(v, cur, fills), nil

		default:
			return node, nil
		}
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}

// inline substitutes fn's formal parameters with args (already resolved by the caller's
// Transform pass) throughout a copy of fn's body.
func inline(fn *ast.Function, args []ast.Node) ast.Node {
	byName := make(map[string]ast.Node, len(fn.Args))
	for i, name := range fn.Args {
		byName[name] = args[i]
	}

	result, _ := ast.Transform(fn.Body.Clone(), func(node ast.Node) (ast.Node, error) {
		if ref, ok := node.(ast.Reference); ok {
			if v, ok := byName[ref.Name]; ok {
				return v, nil
			}
		}
		return node, nil
	})
	return result
}
