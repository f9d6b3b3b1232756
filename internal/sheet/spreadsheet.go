package sheet

import (
	"encoding/csv"
	"fmt"
	"strings"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
	"csvpp/internal/options"
	"csvpp/internal/source"
)

// Spreadsheet is the parsed CSV body of a csv++ source: an ordered list of rows, each
// possibly carrying a fill directive. A freshly parsed Spreadsheet is the "template" form —
// fills are expanded into concrete replicated rows by Expand.
type Spreadsheet struct {
	Rows []*Row
}

// ParseSpreadsheet parses a csv++ source's CSV section (code.CSV) into a template Spreadsheet.
// Fields are read with a flexible column count and leading whitespace trimmed.
func ParseSpreadsheet(code *source.Code) (*Spreadsheet, error) {
	r := csv.NewReader(strings.NewReader(code.CSV))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV section of %s: %w", code.Filename, err)
	}

	rows := make([]*Row, 0, len(records))
	for i, record := range records {
		row, err := parseRow(record, i, code)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &Spreadsheet{Rows: rows}, nil
}

// WidestRow returns the number of cells in the widest row.
func (s *Spreadsheet) WidestRow() int {
	widest := 0
	for _, r := range s.Rows {
		if len(r.Cells) > widest {
			widest = len(r.Cells)
		}
	}
	return widest
}

// Variables extracts every `var=` binding declared anywhere in the (unexpanded) template
// sheet, as the symbolic VariableValue the evaluator resolves relative to whichever cell
// later references it. A row-level var binds the whole row; a cell-level var binds just that
// column. Bindings made inside a fill stay relative to the fill (RowRelative/ColumnRelative);
// bindings on a plain row resolve to one fixed position (RowValue/Absolute).
func (s *Spreadsheet) Variables() map[string]ast.Node {
	vars := make(map[string]ast.Node)
	for _, row := range s.Rows {
		if row.Var != "" {
			if row.Fill != nil {
				vars[row.Var] = ast.VariableValue{Kind: ast.RowRelative, Row: row.Index, FillID: row.Fill.StartRow}
			} else {
				vars[row.Var] = ast.VariableValue{Kind: ast.RowValue, Row: row.Index}
			}
		}
		for _, cell := range row.Cells {
			if cell.Var == "" {
				continue
			}
			if row.Fill != nil {
				vars[cell.Var] = ast.VariableValue{Kind: ast.ColumnRelative, Col: cell.Address.Col, FillID: row.Fill.StartRow}
			} else {
				vars[cell.Var] = ast.VariableValue{Kind: ast.Absolute, Col: cell.Address.Col, Row: cell.Address.Row}
			}
		}
	}
	return vars
}

// FillsByID returns every fill declared in the template sheet, keyed by its StartRow (which
// doubles as the FillID stamped onto the VariableValue nodes Variables produces).
func (s *Spreadsheet) FillsByID() map[int]options.Fill {
	fills := make(map[int]options.Fill)
	for _, row := range s.Rows {
		if row.Fill != nil {
			fills[row.Fill.StartRow] = *row.Fill
		}
	}
	return fills
}

// ResolveVariableValue turns a symbolic VariableValue (produced by Variables) into a concrete
// Reference relative to cur, the address of the cell that referenced the variable. A
// Row/ColumnRelative binding resolves to cur's own row when cur falls inside the owning
// fill's replicated range (so each replica sees its own copy of the bound row/column) and
// falls back to the fill's template row otherwise. fills is the sheet's FillsByID table,
// computed once per module and passed in rather than recomputed per reference.
func ResolveVariableValue(v ast.VariableValue, cur a1.Address, fills map[int]options.Fill) ast.Node {
	switch v.Kind {
	case ast.Absolute:
		return ast.Reference{Name: a1.NewAddress(v.Col, v.Row).String()}
	case ast.RowValue:
		return ast.Reference{Name: a1.Row{Row: v.Row}.String()}
	case ast.ColumnValue:
		return ast.Reference{Name: a1.Column{Col: v.Col}.String()}
	case ast.RowRelative:
		row := v.Row
		if f, ok := fills[v.FillID]; ok && f.Contains(cur.Row) {
			row = cur.Row
		}
		return ast.Reference{Name: a1.Row{Row: row}.String()}
	case ast.ColumnRelative:
		row := v.FillID
		if f, ok := fills[v.FillID]; ok && f.Contains(cur.Row) {
			row = cur.Row
		}
		return ast.Reference{Name: a1.NewAddress(v.Col, row).String()}
	default:
		return ast.Reference{Name: "#REF!"}
	}
}
