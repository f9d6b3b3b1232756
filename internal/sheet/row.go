package sheet

import (
	"csvpp/internal/a1"
	"csvpp/internal/cerr"
	"csvpp/internal/options"
	"csvpp/internal/source"
)

// Row is one line of the spreadsheet: its cells, the row-scope options cascading down to
// them (if any), and the fill directive that replicates it (if any).
type Row struct {
	Cells   []*Cell
	Options *options.Options
	Fill    *options.Fill
	Var     string
	Index   int
}

// parseRow parses one CSV record into a Row. Only the record's first field may carry a
// row-scope ("![[...]]") options block; a later field attempting one is a syntax error
// (enforced inside parseCell).
func parseRow(record []string, rowIndex int, code *source.Code) (*Row, error) {
	if len(record) == 0 {
		return &Row{Index: rowIndex}, nil
	}
	lineNo := code.CSVLineNumber(rowIndex)

	var rowOpts *options.Options
	var fill *options.Fill
	rowVar := ""

	restFirst, opts0, rowScope0, err := options.Parse(record[0])
	if err != nil {
		return nil, &cerr.ModifierSyntaxError{
			Line: lineNo, Address: a1.NewAddress(0, rowIndex).String(), Inner: err, Code: code,
		}
	}
	if rowScope0 {
		rowOpts = opts0
		if opts0.Var != "" {
			rowVar = opts0.Var
		}
		if opts0.Fill != nil {
			f := *opts0.Fill
			f.StartRow = rowIndex
			fill = &f
		}
		record = append([]string{restFirst}, record[1:]...)
	}

	cells := make([]*Cell, len(record))
	for i, field := range record {
		addr := a1.NewAddress(i, rowIndex)
		c, err := parseCell(field, addr, rowOpts, code, lineNo)
		if err != nil {
			return nil, err
		}
		cells[i] = c
	}

	return &Row{Cells: cells, Options: rowOpts, Fill: fill, Var: rowVar, Index: rowIndex}, nil
}

// Clone returns a copy of r re-addressed at newIndex, used by fill expansion to produce one
// replica. The replica never carries a Fill of its own (only the template row does).
func (r *Row) Clone(newIndex int) *Row {
	cells := make([]*Cell, len(r.Cells))
	for i, c := range r.Cells {
		cells[i] = c.Clone(a1.NewAddress(i, newIndex))
	}
	return &Row{Cells: cells, Options: r.Options, Var: r.Var, Index: newIndex}
}
