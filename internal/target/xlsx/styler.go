package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"csvpp/internal/options"
)

// Styler resolves a cell's option set to an excelize style ID, registering each distinct
// combination with the workbook once and reusing it afterwards. Unlike a fixed handful of
// named styles, the combinations here are open-ended (any mix of borders, fonts, colors,
// and formats a source can write), so registration is lazy and keyed by signature.
type Styler struct {
	file  *excelize.File
	cache map[string]int
}

// NewStyler returns a Styler registering styles against f.
func NewStyler(f *excelize.File) *Styler {
	return &Styler{file: f, cache: map[string]int{}}
}

// StyleID returns the excelize style ID for o, registering it on first use. Options that
// carry no styling at all resolve to 0, the workbook default.
func (s *Styler) StyleID(o *options.Options) (int, error) {
	if o == nil || !hasStyling(o) {
		return 0, nil
	}

	key := signature(o)
	if id, ok := s.cache[key]; ok {
		return id, nil
	}

	id, err := s.file.NewStyle(buildStyle(o))
	if err != nil {
		return 0, err
	}
	s.cache[key] = id
	return id, nil
}

func hasStyling(o *options.Options) bool {
	return len(o.Borders) > 0 || o.Color != "" || o.FontColor != "" || o.FontFamily != "" ||
		o.FontSize != 0 || len(o.TextFormats) > 0 || o.HAlign != options.HAlignNone ||
		o.VAlign != options.VAlignNone || o.NumberFormat != options.NumberFormatNone || o.Lock
}

// signature renders o's styling fields into a stable cache key. Map-typed fields iterate in
// constant order so two equal option sets always produce the same key.
func signature(o *options.Options) string {
	var b strings.Builder
	for _, edge := range []options.Border{options.BorderTop, options.BorderRight, options.BorderBottom, options.BorderLeft} {
		if o.Borders[edge] {
			fmt.Fprintf(&b, "b%d;", edge)
		}
	}
	fmt.Fprintf(&b, "bs%d;bc%s;c%s;fc%s;ff%s;fs%d;", o.BorderStyle, o.BorderColor, o.Color, o.FontColor, o.FontFamily, o.FontSize)
	for _, tf := range []options.TextFormat{options.FormatBold, options.FormatItalic, options.FormatUnderline, options.FormatStrikethrough} {
		if o.TextFormats[tf] {
			fmt.Fprintf(&b, "t%d;", tf)
		}
	}
	fmt.Fprintf(&b, "ha%d;va%d;nf%d;l%v", o.HAlign, o.VAlign, o.NumberFormat, o.Lock)
	return b.String()
}

func buildStyle(o *options.Options) *excelize.Style {
	style := &excelize.Style{}

	if font := buildFont(o); font != nil {
		style.Font = font
	}
	if o.Color != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{"#" + o.Color}, Pattern: 1}
	}
	if borders := buildBorders(o); len(borders) > 0 {
		style.Border = borders
	}
	if o.HAlign != options.HAlignNone || o.VAlign != options.VAlignNone {
		style.Alignment = &excelize.Alignment{
			Horizontal: halignName(o.HAlign),
			Vertical:   valignName(o.VAlign),
		}
	}
	if o.NumberFormat != options.NumberFormatNone {
		style.NumFmt = numFmtID(o.NumberFormat)
	}
	if o.Lock {
		style.Protection = &excelize.Protection{Locked: true}
	}

	return style
}

func buildFont(o *options.Options) *excelize.Font {
	if o.FontColor == "" && o.FontFamily == "" && o.FontSize == 0 && len(o.TextFormats) == 0 {
		return nil
	}
	font := &excelize.Font{
		Bold:   o.TextFormats[options.FormatBold],
		Italic: o.TextFormats[options.FormatItalic],
		Strike: o.TextFormats[options.FormatStrikethrough],
		Family: o.FontFamily,
		Size:   float64(o.FontSize),
	}
	if o.TextFormats[options.FormatUnderline] {
		font.Underline = "single"
	}
	if o.FontColor != "" {
		font.Color = "#" + o.FontColor
	}
	return font
}

func buildBorders(o *options.Options) []excelize.Border {
	if len(o.Borders) == 0 {
		return nil
	}

	styleCode := borderStyleCode(o.BorderStyle)
	color := "000000"
	if o.BorderColor != "" {
		color = o.BorderColor
	}

	names := map[options.Border]string{
		options.BorderTop:    "top",
		options.BorderRight:  "right",
		options.BorderBottom: "bottom",
		options.BorderLeft:   "left",
	}

	borders := make([]excelize.Border, 0, len(o.Borders))
	for _, edge := range []options.Border{options.BorderLeft, options.BorderTop, options.BorderBottom, options.BorderRight} {
		if o.Borders[edge] {
			borders = append(borders, excelize.Border{Type: names[edge], Color: color, Style: styleCode})
		}
	}
	return borders
}

// borderStyleCode maps the mini-language's border styles onto excelize's numeric line-style
// codes (1 thin, 2 medium, 3 dashed, 4 dotted, 5 thick, 6 double).
func borderStyleCode(s options.BorderStyle) int {
	switch s {
	case options.BorderStyleDashed:
		return 3
	case options.BorderStyleDotted:
		return 4
	case options.BorderStyleDouble:
		return 6
	case options.BorderStyleSolidMedium:
		return 2
	case options.BorderStyleSolidThick:
		return 5
	default:
		return 1
	}
}

func halignName(h options.HorizontalAlign) string {
	switch h {
	case options.HAlignLeft:
		return "left"
	case options.HAlignCenter:
		return "center"
	case options.HAlignRight:
		return "right"
	default:
		return ""
	}
}

func valignName(v options.VerticalAlign) string {
	switch v {
	case options.VAlignTop:
		return "top"
	case options.VAlignCenter:
		return "center"
	case options.VAlignBottom:
		return "bottom"
	default:
		return ""
	}
}

// numFmtID maps the mini-language's number formats onto Excel's builtin format IDs.
func numFmtID(nf options.NumberFormat) int {
	switch nf {
	case options.NumberFormatCurrency:
		return 7
	case options.NumberFormatDate:
		return 14
	case options.NumberFormatDateTime:
		return 22
	case options.NumberFormatNumber:
		return 2
	case options.NumberFormatPercent:
		return 10
	case options.NumberFormatText:
		return 49
	case options.NumberFormatTime:
		return 21
	case options.NumberFormatScientific:
		return 11
	default:
		return 0
	}
}
