// Package builtins holds the compiler's built-in function and variable tables: the handful
// of position-aware identifiers (rownum, colref, cellabove, ...) that the evaluator resolves
// before falling back to scope/imported variables and user functions. Both tables are built
// once and shared by immutable reference, per the "no global mutable state" design note.
package builtins

import (
	"fmt"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
)

// Function evaluates a builtin function call at the given current cell address with its
// (already-resolved) argument sub-trees.
type Function func(cur a1.Address, args []ast.Node) (ast.Node, error)

// Variable evaluates a builtin variable at the given current cell address.
type Variable func(cur a1.Address) (ast.Node, error)

var functionTable = map[string]Function{
	"cellabove": cellAbove,
}

var variableTable = map[string]Variable{
	"rownum":   rownum,
	"colnum":   colnum,
	"rowref":   rowref,
	"colref":   colref,
	"cellref":  cellref,
	"rowabove": rowabove,
	"rowbelow": rowbelow,
	"colleft":  colleft,
	"colright": colright,
}

// LookupFunction reports whether name is a builtin function, returning it if so.
func LookupFunction(name string) (Function, bool) {
	f, ok := functionTable[name]
	return f, ok
}

// LookupVariable reports whether name is a builtin variable, returning it if so.
func LookupVariable(name string) (Variable, bool) {
	v, ok := variableTable[name]
	return v, ok
}

// cellAbove implements `cellabove(reference)`: it requires exactly one argument, a bare cell
// reference, and returns a reference to the cell directly above it.
func cellAbove(_ a1.Address, args []ast.Node) (ast.Node, error) {
	ref, err := verifyOneReferenceArg("cellabove", args)
	if err != nil {
		return nil, err
	}
	addr, err := a1.ParseAddress(ref)
	if err != nil {
		return nil, fmt.Errorf("cellabove: %q is not a valid cell reference: %w", ref, err)
	}
	return ast.Reference{Name: addr.ShiftUp(1).String()}, nil
}

func verifyOneReferenceArg(fnName string, args []ast.Node) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("expected a single argument to `%s`, got %d", fnName, len(args))
	}
	ref, ok := ast.IDRef(args[0])
	if !ok {
		return "", fmt.Errorf("expected a cell reference as the only argument to `%s`, got %s", fnName, ast.Print(args[0]))
	}
	return ref, nil
}

// rownum is the 1-based number of the current row.
func rownum(cur a1.Address) (ast.Node, error) {
	return ast.Integer(cur.Row + 1), nil
}

// colnum is the 1-based number of the current column.
func colnum(cur a1.Address) (ast.Node, error) {
	return ast.Integer(cur.Col + 1), nil
}

// rowref is a reference to the current row as a whole (e.g. "5:5").
func rowref(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: a1.Row{Row: cur.Row}.String()}, nil
}

// colref is a reference to the current column as a whole (e.g. "C:C").
func colref(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: a1.Column{Col: cur.Col}.String()}, nil
}

// cellref is a reference to the current cell.
func cellref(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: cur.String()}, nil
}

// rowabove is a reference to the cell directly above the current cell, clamped at row 0.
func rowabove(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: cur.ShiftUp(1).String()}, nil
}

// rowbelow is a reference to the cell directly below the current cell.
func rowbelow(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: cur.ShiftDown(1).String()}, nil
}

// colleft is a reference to the cell directly left of the current cell, clamped at column 0.
func colleft(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: cur.ShiftLeft(1).String()}, nil
}

// colright is a reference to the cell directly right of the current cell.
func colright(cur a1.Address) (ast.Node, error) {
	return ast.Reference{Name: cur.ShiftRight(1).String()}, nil
}
