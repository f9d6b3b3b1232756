// Package options implements the cell-options mini-language: the "[[...]]"/"![[...]]"
// prefixes embedded at the start of CSV fields that carry formatting, metadata, and fill
// directives. Values parse into a fixed, closed set of enumerated types rather than
// string-keyed bags, per the "configuration is an enumerated record" design note.
package options

import "strings"

// Border names one edge of a cell's border set.
type Border int

const (
	BorderTop Border = iota
	BorderRight
	BorderBottom
	BorderLeft
)

// BorderStyle is the line style applied to every border edge set on a cell.
type BorderStyle int

const (
	BorderStyleNone BorderStyle = iota
	BorderStyleDashed
	BorderStyleDotted
	BorderStyleDouble
	BorderStyleSolid
	BorderStyleSolidMedium
	BorderStyleSolidThick
)

// TextFormat is a single formatting flag that can be present or absent independently of the
// others (bold + italic + underline are all simultaneously possible).
type TextFormat int

const (
	FormatBold TextFormat = iota
	FormatItalic
	FormatUnderline
	FormatStrikethrough
)

// HorizontalAlign is a cell's horizontal text alignment.
type HorizontalAlign int

const (
	HAlignNone HorizontalAlign = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
)

// VerticalAlign is a cell's vertical text alignment.
type VerticalAlign int

const (
	VAlignNone VerticalAlign = iota
	VAlignTop
	VAlignCenter
	VAlignBottom
)

// NumberFormat is a closed set of display formats for a cell's numeric value.
type NumberFormat int

const (
	NumberFormatNone NumberFormat = iota
	NumberFormatCurrency
	NumberFormatDate
	NumberFormatDateTime
	NumberFormatNumber
	NumberFormatPercent
	NumberFormatText
	NumberFormatTime
	NumberFormatScientific
)

// Fill is the row-only replication directive: Amount is nil when the row should fill to the
// sheet maximum (1000 rows); StartRow is assigned by the spreadsheet parser from the row's own
// logical index, not parsed out of the options text.
type Fill struct {
	Amount   *int
	StartRow int
}

// Validation is a data-validation rule: a keyword from the closed rule set (between,
// not_between, number_eq, date_eq, text_contains, custom_formula, ...) plus its positional
// arguments.
type Validation struct {
	Kind string
	Args []string
}

// Options holds every cell/row-level modifier recognized by the mini-language. A zero value
// means "no options were specified". Row-scope options (set via "![[...]]") are copied into
// every cell of the row as its starting Options, then a cell's own "[[...]]" block is merged
// on top (cell-scope values win).
type Options struct {
	Borders      map[Border]bool
	BorderStyle  BorderStyle
	BorderColor  string
	Color        string
	FontColor    string
	FontFamily   string
	FontSize     int
	TextFormats  map[TextFormat]bool
	HAlign       HorizontalAlign
	VAlign       VerticalAlign
	NumberFormat NumberFormat
	Note         string
	Lock         bool
	Var          string
	Fill         *Fill
	Validation   *Validation
}

// New returns an Options with its set-typed fields initialized empty (not nil), so merging
// and membership tests never need a nil check.
func New() *Options {
	return &Options{
		Borders:     map[Border]bool{},
		TextFormats: map[TextFormat]bool{},
	}
}

// MergeFrom copies row-scope defaults from base into o for every field o hasn't already set
// except Var and Fill, implementing "a row-level option cascades to every cell of that row unless overridden".
// Set-typed fields (Borders, TextFormats) are unioned rather than overridden.
func (o *Options) MergeFrom(base *Options) {
	if base == nil {
		return
	}
	for b := range base.Borders {
		o.Borders[b] = true
	}
	for f := range base.TextFormats {
		o.TextFormats[f] = true
	}
	if o.BorderStyle == BorderStyleNone {
		o.BorderStyle = base.BorderStyle
	}
	if o.BorderColor == "" {
		o.BorderColor = base.BorderColor
	}
	if o.Color == "" {
		o.Color = base.Color
	}
	if o.FontColor == "" {
		o.FontColor = base.FontColor
	}
	if o.FontFamily == "" {
		o.FontFamily = base.FontFamily
	}
	if o.FontSize == 0 {
		o.FontSize = base.FontSize
	}
	if o.HAlign == HAlignNone {
		o.HAlign = base.HAlign
	}
	if o.VAlign == VAlignNone {
		o.VAlign = base.VAlign
	}
	if o.NumberFormat == NumberFormatNone {
		o.NumberFormat = base.NumberFormat
	}
	if o.Note == "" {
		o.Note = base.Note
	}
	if !o.Lock {
		o.Lock = base.Lock
	}
	if o.Validation == nil {
		o.Validation = base.Validation
	}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
