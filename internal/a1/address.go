// Package a1 implements spreadsheet A1-notation addressing: cell addresses, row/column
// references, and ranges, plus the small arithmetic the compiler needs to shift a position
// around (used by the cell-options "fill" and "cellabove" style builtins).
package a1

import (
	"fmt"
	"strconv"
	"strings"
)

const alpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Address is a single, absolute spreadsheet cell position. Col and Row are 0-based; the
// textual A1 form (e.g. "B3") is 1-based in both components.
type Address struct {
	Col int
	Row int
}

// NewAddress builds an Address from 0-based column/row indices.
func NewAddress(col, row int) Address {
	return Address{Col: col, Row: row}
}

// Row represents a reference to an entire row (e.g. A1 notation "5:5").
type Row struct {
	Row int
}

// Column represents a reference to an entire column (e.g. A1 notation "C:C").
type Column struct {
	Col int
}

// RangeOrCell is either a single Address or a first/last pair of Addresses forming a
// rectangular range. IsRange reports which.
type RangeOrCell struct {
	First   Address
	Last    Address
	IsRange bool
}

// Cell builds a RangeOrCell representing a single cell.
func Cell(addr Address) RangeOrCell {
	return RangeOrCell{First: addr, Last: addr}
}

// NewRange builds a RangeOrCell spanning first..last, inclusive.
func NewRange(first, last Address) RangeOrCell {
	return RangeOrCell{First: first, Last: last, IsRange: true}
}

// ColumnLetters renders a 0-based column index as spreadsheet letters: 0 -> "A", 26 -> "AA".
func ColumnLetters(col int) string {
	var b strings.Builder
	c := col
	for {
		b.WriteByte(alpha[c%26])
		next := c/26 - 1
		if next < 0 {
			break
		}
		c = next
	}
	s := b.String()
	// we appended least-significant letter first, reverse it
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// ParseColumnLetters parses spreadsheet column letters ("A", "AA", ...) into a 0-based index.
func ParseColumnLetters(s string) (int, int, error) {
	consumed := 0
	y := 0
	for _, ch := range s {
		upper := ch
		if upper >= 'a' && upper <= 'z' {
			upper = upper - 'a' + 'A'
		}
		idx := strings.IndexRune(alpha, upper)
		if idx < 0 {
			if ch >= '0' && ch <= '9' {
				break
			}
			return 0, 0, fmt.Errorf("invalid character in A1 notation: %q", s)
		}
		consumed++
		y = y*26 + idx + 1
	}
	if consumed == 0 {
		return 0, 0, nil
	}
	return y - 1, consumed, nil
}

// String renders the address in A1 notation, e.g. Address{0,0} -> "A1".
func (a Address) String() string {
	return ColumnLetters(a.Col) + strconv.Itoa(a.Row+1)
}

// String renders a row reference, e.g. Row{4} -> "5:5".
func (r Row) String() string {
	n := strconv.Itoa(r.Row + 1)
	return n + ":" + n
}

// String renders a column reference, e.g. Column{2} -> "C:C".
func (c Column) String() string {
	l := ColumnLetters(c.Col)
	return l + ":" + l
}

func (r RangeOrCell) String() string {
	if !r.IsRange {
		return r.First.String()
	}
	return r.First.String() + ":" + r.Last.String()
}

// ShiftRight returns a copy of a shifted n columns to the right.
func (a Address) ShiftRight(n int) Address { return Address{Col: a.Col + n, Row: a.Row} }

// ShiftLeft returns a copy of a shifted n columns to the left, clamped at column 0.
func (a Address) ShiftLeft(n int) Address {
	col := a.Col - n
	if col < 0 {
		col = 0
	}
	return Address{Col: col, Row: a.Row}
}

// ShiftDown returns a copy of a shifted n rows down.
func (a Address) ShiftDown(n int) Address { return Address{Col: a.Col, Row: a.Row + n} }

// ShiftUp returns a copy of a shifted n rows up, clamped at row 0.
func (a Address) ShiftUp(n int) Address {
	row := a.Row - n
	if row < 0 {
		row = 0
	}
	return Address{Col: a.Col, Row: row}
}

// ParseAddress parses an A1-notation cell reference such as "B3" or "AA12" into an Address.
// It returns an error if the string has no column letters or no row digits.
func ParseAddress(s string) (Address, error) {
	col, consumed, err := ParseColumnLetters(s)
	if err != nil {
		return Address{}, err
	}
	rest := s[consumed:]
	if rest == "" || consumed == 0 {
		return Address{}, fmt.Errorf("A1 reference %q is missing a row or column component", s)
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return Address{}, fmt.Errorf("error parsing number part of A1 reference %q: %w", s, err)
	}
	if n < 1 {
		return Address{}, fmt.Errorf("A1 reference must be greater than 0, got %d", n)
	}
	return Address{Col: col, Row: n - 1}, nil
}
