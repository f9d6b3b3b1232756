package sheet

import (
	"testing"

	"csvpp/internal/ast"
	"csvpp/internal/source"
)

func parse(t *testing.T, csv string) *Spreadsheet {
	t.Helper()
	code := source.New(csv, "test.csvpp")
	s, err := ParseSpreadsheet(code)
	if err != nil {
		t.Fatalf("ParseSpreadsheet: %v", err)
	}
	return s
}

func TestParseSimple(t *testing.T) {
	s := parse(t, "foo,bar,1\nbaz,2,3\n")
	if len(s.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(s.Rows))
	}
	if got := s.Rows[0].Cells[0].Value; got != "foo" {
		t.Errorf("cell(0,0) = %q, want foo", got)
	}
	if got := s.Rows[1].Cells[2].Value; got != "3" {
		t.Errorf("cell(2,1) = %q, want 3", got)
	}
}

func TestParseTrimsLeadingSpace(t *testing.T) {
	s := parse(t, "  foo,  bar\n")
	if s.Rows[0].Cells[0].Value != "foo" || s.Rows[0].Cells[1].Value != "bar" {
		t.Errorf("expected trimmed values, got %q / %q", s.Rows[0].Cells[0].Value, s.Rows[0].Cells[1].Value)
	}
}

func TestParseFormula(t *testing.T) {
	s := parse(t, "=1 + 2\n")
	cell := s.Rows[0].Cells[0]
	if cell.AST == nil {
		t.Fatal("expected an AST for a formula cell")
	}
	ic, ok := cell.AST.(*ast.InfixCall)
	if !ok || ic.Op != "+" {
		t.Errorf("expected a + infix call, got %s", ast.Print(cell.AST))
	}
}

func TestParseCellOptions(t *testing.T) {
	s := parse(t, "[[color=f00/halign=center]]hello\n")
	cell := s.Rows[0].Cells[0]
	if cell.Value != "hello" {
		t.Errorf("value = %q, want hello", cell.Value)
	}
	if cell.Options.Color != "FF0000" {
		t.Errorf("color = %q, want FF0000", cell.Options.Color)
	}
}

func TestParseRowScopeOptionsCascade(t *testing.T) {
	s := parse(t, "![[color=00f]]a,b,c\n")
	row := s.Rows[0]
	if row.Options == nil || row.Options.Color != "0000FF" {
		t.Fatalf("expected row options with color=0000FF, got %+v", row.Options)
	}
	for i, c := range row.Cells {
		if c.Options.Color != "0000FF" {
			t.Errorf("cell %d did not inherit row color, got %q", i, c.Options.Color)
		}
	}
	if row.Cells[0].Value != "a" {
		t.Errorf("first cell value = %q, want a (row modifier stripped)", row.Cells[0].Value)
	}
}

func TestRowScopeOptionsOnlyOnFirstCell(t *testing.T) {
	_, err := ParseSpreadsheet(source.New("a,![[color=00f]]b\n", "test.csvpp"))
	if err == nil {
		t.Fatal("expected an error for a row-scope block on a non-first cell")
	}
}

func TestVariablesAbsoluteAndRowValue(t *testing.T) {
	s := parse(t, "[[var=foo]]a,b\n![[var=myrow]]c,d\n")
	vars := s.Variables()

	foo, ok := vars["foo"].(ast.VariableValue)
	if !ok || foo.Kind != ast.Absolute || foo.Col != 0 || foo.Row != 0 {
		t.Errorf("foo = %+v, want Absolute{0,0}", vars["foo"])
	}

	myrow, ok := vars["myrow"].(ast.VariableValue)
	if !ok || myrow.Kind != ast.RowValue || myrow.Row != 1 {
		t.Errorf("myrow = %+v, want RowValue{1}", vars["myrow"])
	}
}

func TestVariablesRelativeWithinFill(t *testing.T) {
	s := parse(t, "![[fill=3/var=rep]][[var=col]]x\n")
	vars := s.Variables()

	rep, ok := vars["rep"].(ast.VariableValue)
	if !ok || rep.Kind != ast.RowRelative || rep.FillID != 0 {
		t.Errorf("rep = %+v, want RowRelative{FillID:0}", vars["rep"])
	}

	col, ok := vars["col"].(ast.VariableValue)
	if !ok || col.Kind != ast.ColumnRelative || col.FillID != 0 || col.Col != 0 {
		t.Errorf("col = %+v, want ColumnRelative{FillID:0, Col:0}", vars["col"])
	}
}

func TestWidestRow(t *testing.T) {
	s := parse(t, "a,b,c\nd,e\n")
	if got := s.WidestRow(); got != 3 {
		t.Errorf("WidestRow = %d, want 3", got)
	}
}

func TestExpandPlainRowsKeepIndex(t *testing.T) {
	s := parse(t, "a\nb\nc\n")
	exp := Expand(s)
	if len(exp.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(exp.Rows))
	}
	for i, r := range exp.Rows {
		if r.Index != i {
			t.Errorf("row %d has index %d", i, r.Index)
		}
	}
}

func TestExpandFillReplicatesRows(t *testing.T) {
	s := parse(t, "![[fill=3]]x\nafter\n")
	exp := Expand(s)

	// fill occupies rows 0,1,2; the plain row keeps its own declared index, 1 — which the
	// fill also claims, so the later-declared row (the plain one, declared after the fill)
	// wins at that index per the documented rule.
	if len(exp.Rows) != 3 {
		t.Fatalf("expected 3 output rows (0,1,2), got %d", len(exp.Rows))
	}
	for i, r := range exp.Rows {
		if r.Index != i {
			t.Errorf("row %d has wrong index %d", i, r.Index)
		}
	}
	if exp.Rows[1].Cells[0].Value != "after" {
		t.Errorf("row 1 = %q, want the later-declared row to win at the collision", exp.Rows[1].Cells[0].Value)
	}
}

func TestExpandFillToSheetMax(t *testing.T) {
	s := parse(t, "![[fill]]x\n")
	exp := Expand(s)
	if len(exp.Rows) != RowMax {
		t.Fatalf("expected a bare fill to expand to %d rows, got %d", RowMax, len(exp.Rows))
	}
}
