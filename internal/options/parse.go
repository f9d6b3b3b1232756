package options

import (
	"strconv"
	"strings"

	"csvpp/internal/lexer"
)

// Parse reads cell options from the beginning of field, returning the remaining text (the
// cell's actual value), the parsed Options (nil if the field carries none), and whether the
// block was row-scoped ("![[...]]") vs cell-scoped ("[[...]]"). Row-scope blocks are only
// legal on the first cell of a row; callers enforce that, since this function only knows
// about one field at a time.
func Parse(field string) (rest string, opts *Options, rowScope bool, err error) {
	l := lexer.NewCellOptionsLexer(field)

	startTok, ok := l.MaybeTakeStartModifier()
	if !ok {
		return field, nil, false, nil
	}
	rowScope = startTok == lexer.StartRowModifier

	o := New()
	for {
		name, err := l.TakeToken(lexer.ModifierName)
		if err != nil {
			return "", nil, false, err
		}

		if err := applyOption(l, o, normalize(name)); err != nil {
			return "", nil, false, err
		}

		if _, ok := l.MaybeTakeToken(lexer.Slash); ok {
			continue
		}
		break
	}

	if _, err := l.TakeToken(lexer.EndModifier); err != nil {
		return "", nil, false, err
	}

	return l.Rest(), o, rowScope, nil
}

func applyOption(l *lexer.CellOptionsLexer, o *Options, name string) error {
	switch name {
	case "border", "b":
		return parseBorder(l, o)
	case "borderstyle", "bs":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		bs, err := parseBorderStyle(v)
		if err != nil {
			return err
		}
		o.BorderStyle = bs
		return nil
	case "bordercolor", "bc":
		v, err := takeColorValue(l)
		if err != nil {
			return err
		}
		o.BorderColor = v
		return nil
	case "color", "c":
		v, err := takeColorValue(l)
		if err != nil {
			return err
		}
		o.Color = v
		return nil
	case "fontcolor", "fc":
		v, err := takeColorValue(l)
		if err != nil {
			return err
		}
		o.FontColor = v
		return nil
	case "fontfamily", "ff":
		if _, err := l.TakeToken(lexer.Equals); err != nil {
			return err
		}
		v, err := l.TakeToken(lexer.String)
		if err != nil {
			return err
		}
		o.FontFamily = v
		return nil
	case "fontsize", "fs":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return badInputErr("fontsize must be a positive integer", v)
		}
		o.FontSize = n
		return nil
	case "format", "t":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		tf, err := parseTextFormat(v)
		if err != nil {
			return err
		}
		o.TextFormats[tf] = true
		return nil
	case "halign", "ha":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		ha, err := parseHAlign(v)
		if err != nil {
			return err
		}
		o.HAlign = ha
		return nil
	case "valign", "va":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		va, err := parseVAlign(v)
		if err != nil {
			return err
		}
		o.VAlign = va
		return nil
	case "numberformat", "nf":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		nf, err := parseNumberFormat(v)
		if err != nil {
			return err
		}
		o.NumberFormat = nf
		return nil
	case "note", "n":
		if _, err := l.TakeToken(lexer.Equals); err != nil {
			return err
		}
		v, err := l.TakeToken(lexer.String)
		if err != nil {
			return err
		}
		o.Note = v
		return nil
	case "lock":
		o.Lock = true
		return nil
	case "var":
		v, err := l.TakeModifierRightSide()
		if err != nil {
			return err
		}
		o.Var = v
		return nil
	case "fill", "e":
		return parseFill(l, o)
	case "validation", "v":
		return parseValidation(l, o)
	default:
		return badInputErrPossibilities(
			"unrecognized cell option",
			name,
			[]string{
				"border", "borderstyle", "bordercolor", "color", "fontcolor", "fontfamily",
				"fontsize", "format", "halign", "valign", "numberformat", "note", "lock",
				"var", "fill", "validation",
			},
		)
	}
}

func parseBorder(l *lexer.CellOptionsLexer, o *Options) error {
	v, err := l.TakeModifierRightSide()
	if err != nil {
		return err
	}
	switch normalize(v) {
	case "all", "a":
		o.Borders[BorderTop] = true
		o.Borders[BorderRight] = true
		o.Borders[BorderBottom] = true
		o.Borders[BorderLeft] = true
	case "top", "t":
		o.Borders[BorderTop] = true
	case "right", "r":
		o.Borders[BorderRight] = true
	case "bottom", "b":
		o.Borders[BorderBottom] = true
	case "left", "l":
		o.Borders[BorderLeft] = true
	default:
		return badInputErrPossibilities("invalid border value", v,
			[]string{"all", "top", "bottom", "left", "right"})
	}
	return nil
}

func parseBorderStyle(v string) (BorderStyle, error) {
	switch normalize(v) {
	case "dashed":
		return BorderStyleDashed, nil
	case "dotted":
		return BorderStyleDotted, nil
	case "double":
		return BorderStyleDouble, nil
	case "solid":
		return BorderStyleSolid, nil
	case "solid_medium":
		return BorderStyleSolidMedium, nil
	case "solid_thick":
		return BorderStyleSolidThick, nil
	default:
		return BorderStyleNone, badInputErrPossibilities("invalid border style", v,
			[]string{"dashed", "dotted", "double", "solid", "solid_medium", "solid_thick"})
	}
}

func parseTextFormat(v string) (TextFormat, error) {
	switch normalize(v) {
	case "bold", "b":
		return FormatBold, nil
	case "italic", "i":
		return FormatItalic, nil
	case "underline", "u":
		return FormatUnderline, nil
	case "strikethrough", "s":
		return FormatStrikethrough, nil
	default:
		return 0, badInputErrPossibilities("invalid text format", v,
			[]string{"bold", "italic", "underline", "strikethrough"})
	}
}

func parseHAlign(v string) (HorizontalAlign, error) {
	switch normalize(v) {
	case "left", "l":
		return HAlignLeft, nil
	case "center", "c":
		return HAlignCenter, nil
	case "right", "r":
		return HAlignRight, nil
	default:
		return HAlignNone, badInputErrPossibilities("invalid horizontal alignment", v,
			[]string{"left", "center", "right"})
	}
}

func parseVAlign(v string) (VerticalAlign, error) {
	switch normalize(v) {
	case "top", "t":
		return VAlignTop, nil
	case "center", "c":
		return VAlignCenter, nil
	case "bottom", "b":
		return VAlignBottom, nil
	default:
		return VAlignNone, badInputErrPossibilities("invalid vertical alignment", v,
			[]string{"top", "center", "bottom"})
	}
}

func parseNumberFormat(v string) (NumberFormat, error) {
	switch normalize(v) {
	case "currency", "c":
		return NumberFormatCurrency, nil
	case "date", "d":
		return NumberFormatDate, nil
	case "datetime", "dt":
		return NumberFormatDateTime, nil
	case "number", "n":
		return NumberFormatNumber, nil
	case "percent", "p":
		return NumberFormatPercent, nil
	case "text":
		return NumberFormatText, nil
	case "time", "t":
		return NumberFormatTime, nil
	case "scientific", "s":
		return NumberFormatScientific, nil
	default:
		return NumberFormatNone, badInputErrPossibilities("invalid number format", v,
			[]string{"currency", "date", "datetime", "number", "percent", "text", "time", "scientific"})
	}
}

func parseFill(l *lexer.CellOptionsLexer, o *Options) error {
	if _, ok := l.MaybeTakeToken(lexer.Equals); !ok {
		o.Fill = &Fill{}
		return nil
	}
	v, err := l.TakeToken(lexer.PositiveNumber)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return badInputErr("fill amount must be a positive integer", v)
	}
	o.Fill = &Fill{Amount: &n}
	return nil
}

// validationKinds enumerates the closed set of data-validation rules this mini-language
// supports and how many positional arguments each takes.
var validationKinds = map[string]int{
	"between":           2,
	"not_between":       2,
	"number_eq":         1,
	"number_gt":         1,
	"number_gte":        1,
	"number_lt":         1,
	"number_lte":        1,
	"number_not_eq":     1,
	"date_eq":           1,
	"date_before":       1,
	"date_after":        1,
	"text_contains":     1,
	"text_not_contains": 1,
	"text_eq":           1,
	"custom_formula":    1,
	"one_of_list":       -1, // variable arity
}

func parseValidation(l *lexer.CellOptionsLexer, o *Options) error {
	if _, err := l.TakeToken(lexer.Equals); err != nil {
		return err
	}

	kind, err := l.TakeToken(lexer.ModifierName)
	if err != nil {
		return err
	}
	kind = normalize(kind)

	arity, ok := validationKinds[kind]
	if !ok {
		known := make([]string, 0, len(validationKinds))
		for k := range validationKinds {
			known = append(known, k)
		}
		return badInputErrPossibilities("invalid validation rule", kind, known)
	}

	var args []string
	for arity != 0 {
		v, err := l.TakeToken(lexer.String)
		if err != nil {
			if arity < 0 {
				break // one_of_list: stop once no more args are present
			}
			return err
		}
		args = append(args, v)
		if arity > 0 {
			arity--
		}
	}

	o.Validation = &Validation{Kind: kind, Args: args}
	return nil
}

func takeColorValue(l *lexer.CellOptionsLexer) (string, error) {
	if _, err := l.TakeToken(lexer.Equals); err != nil {
		return "", err
	}
	return l.TakeToken(lexer.Color)
}

func badInputErr(message, input string) error {
	return &cellOptionsError{message: message, input: input}
}

func badInputErrPossibilities(message, input string, possible []string) error {
	return &cellOptionsError{message: message, input: input, possible: possible}
}

type cellOptionsError struct {
	message  string
	input    string
	possible []string
}

func (e *cellOptionsError) Error() string {
	if len(e.possible) == 0 {
		return e.message + " (got " + strconv.Quote(e.input) + ")"
	}
	return e.message + " (got " + strconv.Quote(e.input) + ", expected one of " + strings.Join(e.possible, ", ") + ")"
}

// Possible returns the closed set of acceptable values this error's field has, if any.
func (e *cellOptionsError) Possible() []string { return e.possible }
