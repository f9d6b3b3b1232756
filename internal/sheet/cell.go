// Package sheet implements the spreadsheet model a csv++ source compiles to: cells, rows,
// their cell-options and fill directives, and the row-expansion pass that turns a fill
// directive into concrete replicated rows before a target writer ever sees the sheet.
package sheet

import (
	"strings"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
	"csvpp/internal/cerr"
	"csvpp/internal/lexer"
	"csvpp/internal/options"
	"csvpp/internal/parser"
	"csvpp/internal/source"
)

// Cell is one parsed CSV field: its literal/formula value, resolved options, and its address
// in the sheet (a fill replica made by Clone carries the replica's own address).
type Cell struct {
	Value   string
	AST     ast.Node // non-nil when Value begins with "="
	Options *options.Options
	Var     string
	Address a1.Address
}

// parseCell parses one raw CSV field into a Cell. rowOpts is the row's cascading option set
// (nil if the row carries none); it is merged into the cell's own options so a row-level
// "[[color=red]]" reaches every cell unless a cell overrides it.
func parseCell(field string, addr a1.Address, rowOpts *options.Options, code *source.Code, lineNo int) (*Cell, error) {
	rest, opts, rowScope, err := options.Parse(field)
	if err != nil {
		return nil, &cerr.ModifierSyntaxError{Line: lineNo, Address: addr.String(), Inner: err, Code: code}
	}
	if rowScope {
		return nil, &cerr.ModifierSyntaxError{
			Line: lineNo, Address: addr.String(), Code: code,
			Inner: &cerr.BadInput{Message: "row-scoped options (\"![[...]]\") are only allowed on a row's first cell", BadInput: field},
		}
	}

	if opts == nil {
		opts = options.New()
	}
	opts.MergeFrom(rowOpts)

	c := &Cell{Options: opts, Address: addr}

	value := strings.TrimSpace(rest)
	if strings.HasPrefix(value, "=") {
		node, err := parseFormula(value[1:])
		if err != nil {
			return nil, &cerr.CellSyntaxError{Line: lineNo, Address: addr.String(), Inner: err, Code: code}
		}
		c.AST = node
		c.Value = value
	} else {
		c.Value = value
	}

	if opts.Var != "" {
		c.Var = opts.Var
	}

	return c, nil
}

func parseFormula(src string) (ast.Node, error) {
	l, err := lexer.NewASTLexer(src)
	if err != nil {
		return nil, err
	}
	return parser.NewExprParser(l).ParseExpr(0)
}

// DisplayValue returns what a target writer should put in this cell: the evaluated formula
// re-rendered as "=..." source when the cell has one, or its literal Value otherwise.
func (c *Cell) DisplayValue() string {
	if c.AST == nil {
		return c.Value
	}
	return "=" + ast.Print(c.AST)
}

// Clone returns a copy of c bound to a new address, used when a fill replicates its row.
func (c *Cell) Clone(addr a1.Address) *Cell {
	cp := &Cell{Value: c.Value, Options: c.Options, Var: c.Var, Address: addr}
	if c.AST != nil {
		cp.AST = c.AST.Clone()
	}
	return cp
}
