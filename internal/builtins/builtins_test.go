package builtins

import (
	"testing"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
)

func TestRownumAndColnum(t *testing.T) {
	addr := a1.NewAddress(2, 4)

	rn, err := rownum(addr)
	if err != nil {
		t.Fatal(err)
	}
	if rn != ast.Integer(5) {
		t.Errorf("rownum(2,4) = %v, want 5", rn)
	}

	cn, err := colnum(addr)
	if err != nil {
		t.Fatal(err)
	}
	if cn != ast.Integer(3) {
		t.Errorf("colnum(2,4) = %v, want 3", cn)
	}
}

func TestRowrefAndColref(t *testing.T) {
	addr := a1.NewAddress(2, 4)

	rr, err := rowref(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(rr); got != "5:5" {
		t.Errorf("rowref = %s, want 5:5", got)
	}

	cr, err := colref(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(cr); got != "C:C" {
		t.Errorf("colref = %s, want C:C", got)
	}
}

func TestRowaboveClampsAtZero(t *testing.T) {
	addr := a1.NewAddress(0, 0)
	n, err := rowabove(addr)
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(n); got != "A1" {
		t.Errorf("rowabove at row 0 = %s, want A1 (clamped)", got)
	}
}

func TestCellAboveShiftsReference(t *testing.T) {
	n, err := cellAbove(a1.NewAddress(0, 0), []ast.Node{ast.Reference{Name: "B3"}})
	if err != nil {
		t.Fatal(err)
	}
	if got := ast.Print(n); got != "B2" {
		t.Errorf("cellabove(B3) = %s, want B2", got)
	}
}

func TestCellAboveRequiresReferenceArg(t *testing.T) {
	if _, err := cellAbove(a1.NewAddress(0, 0), []ast.Node{ast.Integer(1)}); err == nil {
		t.Error("expected an error for a non-reference argument")
	}
	if _, err := cellAbove(a1.NewAddress(0, 0), nil); err == nil {
		t.Error("expected an error for zero arguments")
	}
}

func TestLookupFunctionAndVariable(t *testing.T) {
	if _, ok := LookupFunction("cellabove"); !ok {
		t.Error("expected cellabove to be a builtin function")
	}
	if _, ok := LookupFunction("nope"); ok {
		t.Error("did not expect nope to be a builtin function")
	}
	if _, ok := LookupVariable("rownum"); !ok {
		t.Error("expected rownum to be a builtin variable")
	}
}
