// Package ods writes a compiled module as an OpenDocument spreadsheet. The ODF package
// format is built directly: a zip archive whose first entry is the uncompressed "mimetype"
// (required by the ODF packaging spec), a META-INF manifest, and a content.xml carrying the
// sheet plus lazily-registered automatic styles.
package ods

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"csvpp/internal/cerr"
	"csvpp/internal/module"
	"csvpp/internal/options"
	"csvpp/internal/sheet"
)

// MimeType is the ODF spreadsheet media type, stored verbatim as the package's first entry.
const MimeType = "application/vnd.oasis.opendocument.spreadsheet"

// DefaultSheetName is used when the CLI doesn't name a sheet with -n.
const DefaultSheetName = "Sheet1"

// Options configures a Writer.
type Options struct {
	OutputFile string
	SheetName  string
	Safe       bool
	XOffset    int
	YOffset    int
	BackupFile string // defaults to "<output>.bak"
}

// Writer renders a module to an .ods package.
type Writer struct {
	opts Options
}

// New returns a Writer for opts.
func New(opts Options) *Writer {
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	return &Writer{opts: opts}
}

// WriteBackup copies the existing package aside ("<output>.bak" unless BackupFile names a
// destination).
func (w *Writer) WriteBackup(ctx context.Context) error {
	dest := w.opts.BackupFile
	if dest == "" {
		dest = w.opts.OutputFile + ".bak"
	}

	src, err := os.Open(w.opts.OutputFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return &cerr.TargetWriteError{Output: dest, Message: err.Error()}
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return &cerr.TargetWriteError{Output: dest, Message: err.Error()}
	}
	return nil
}

// Write renders mod to the output package.
func (w *Writer) Write(ctx context.Context, mod *module.Module) error {
	if w.opts.Safe {
		if _, err := os.Stat(w.opts.OutputFile); err == nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: "output exists and -s was given"}
		}
	}

	f, err := os.Create(w.opts.OutputFile)
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	// The mimetype entry must come first and must not be compressed, so consumers can
	// sniff the package type from the raw bytes.
	mimeEntry, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}
	if _, err := mimeEntry.Write([]byte(MimeType)); err != nil {
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}

	entries := map[string]string{
		"META-INF/manifest.xml": manifestXML,
		"styles.xml":            stylesXML,
		"content.xml":           w.contentXML(mod),
	}
	for _, name := range []string{"META-INF/manifest.xml", "styles.xml", "content.xml"} {
		entry, err := zw.Create(name)
		if err != nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
		}
		if _, err := entry.Write([]byte(entries[name])); err != nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
		}
	}

	if err := zw.Close(); err != nil {
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}
	return nil
}

const manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
 <manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.spreadsheet"/>
 <manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>
 <manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>
</manifest:manifest>
`

const stylesXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" office:version="1.2">
 <office:styles/>
</office:document-styles>
`

// styler registers one automatic cell style per distinct option combination, handing back
// its generated name. Same lazy-cache shape as the xlsx target's Styler, rendered to ODF
// style elements instead of excelize style IDs.
type styler struct {
	names  map[string]string
	styles []string
}

func (s *styler) styleName(o *options.Options) string {
	if o == nil || !hasStyling(o) {
		return ""
	}
	key := signature(o)
	if name, ok := s.names[key]; ok {
		return name
	}
	name := fmt.Sprintf("ce%d", len(s.names)+1)
	s.names[key] = name
	s.styles = append(s.styles, renderStyle(name, o))
	return name
}

func hasStyling(o *options.Options) bool {
	return len(o.Borders) > 0 || o.Color != "" || o.FontColor != "" || o.FontFamily != "" ||
		o.FontSize != 0 || len(o.TextFormats) > 0 || o.HAlign != options.HAlignNone ||
		o.VAlign != options.VAlignNone || o.NumberFormat != options.NumberFormatNone || o.Lock
}

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

func renderStyle(name string, o *options.Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<style:style style:name=%q style:family="table-cell"`, name)
	if ds := dataStyleName(o.NumberFormat); ds != "" {
		fmt.Fprintf(&b, ` style:data-style-name=%q`, ds)
	}
	b.WriteString(">")

	var cellProps strings.Builder
	if o.Color != "" {
		fmt.Fprintf(&cellProps, ` fo:background-color="#%s"`, o.Color)
	}
	if len(o.Borders) > 0 {
		border := borderSpec(o)
		names := map[options.Border]string{
			options.BorderTop:    "fo:border-top",
			options.BorderRight:  "fo:border-right",
			options.BorderBottom: "fo:border-bottom",
			options.BorderLeft:   "fo:border-left",
		}
		for _, edge := range []options.Border{options.BorderTop, options.BorderRight, options.BorderBottom, options.BorderLeft} {
			if o.Borders[edge] {
				fmt.Fprintf(&cellProps, ` %s=%q`, names[edge], border)
			}
		}
	}
	if v := valignName(o.VAlign); v != "" {
		fmt.Fprintf(&cellProps, ` style:vertical-align=%q`, v)
	}
	if o.Lock {
		cellProps.WriteString(` style:cell-protect="protected"`)
	}
	if cellProps.Len() > 0 {
		fmt.Fprintf(&b, "<style:table-cell-properties%s/>", cellProps.String())
	}

	if h := halignName(o.HAlign); h != "" {
		fmt.Fprintf(&b, `<style:paragraph-properties fo:text-align=%q/>`, h)
	}

	var textProps strings.Builder
	if o.TextFormats[options.FormatBold] {
		textProps.WriteString(` fo:font-weight="bold"`)
	}
	if o.TextFormats[options.FormatItalic] {
		textProps.WriteString(` fo:font-style="italic"`)
	}
	if o.TextFormats[options.FormatUnderline] {
		textProps.WriteString(` style:text-underline-style="solid"`)
	}
	if o.TextFormats[options.FormatStrikethrough] {
		textProps.WriteString(` style:text-line-through-style="solid"`)
	}
	if o.FontColor != "" {
		fmt.Fprintf(&textProps, ` fo:color="#%s"`, o.FontColor)
	}
	if o.FontFamily != "" {
		fmt.Fprintf(&textProps, ` style:font-name=%q`, escape(o.FontFamily))
	}
	if o.FontSize != 0 {
		fmt.Fprintf(&textProps, ` fo:font-size="%dpt"`, o.FontSize)
	}
	if textProps.Len() > 0 {
		fmt.Fprintf(&b, "<style:text-properties%s/>", textProps.String())
	}

	b.WriteString("</style:style>")
	return b.String()
}

// borderSpec renders the fo: shorthand "width style color" for every edge of a cell's
// border set (the mini-language has one style/color per cell, not per edge).
func borderSpec(o *options.Options) string {
	width, style := "0.5pt", "solid"
	switch o.BorderStyle {
	case options.BorderStyleDashed:
		style = "dashed"
	case options.BorderStyleDotted:
		style = "dotted"
	case options.BorderStyleDouble:
		style = "double"
	case options.BorderStyleSolidMedium:
		width = "1pt"
	case options.BorderStyleSolidThick:
		width = "2pt"
	}
	color := "000000"
	if o.BorderColor != "" {
		color = o.BorderColor
	}
	return fmt.Sprintf("%s %s #%s", width, style, color)
}

func halignName(h options.HorizontalAlign) string {
	switch h {
	case options.HAlignLeft:
		return "start"
	case options.HAlignCenter:
		return "center"
	case options.HAlignRight:
		return "end"
	default:
		return ""
	}
}

func valignName(v options.VerticalAlign) string {
	switch v {
	case options.VAlignTop:
		return "top"
	case options.VAlignCenter:
		return "middle"
	case options.VAlignBottom:
		return "bottom"
	default:
		return ""
	}
}

// dataStyleName returns the name of the fixed data style backing a number format, or ""
// when the format needs none. The styles themselves are in dataStyleXML.
func dataStyleName(nf options.NumberFormat) string {
	switch nf {
	case options.NumberFormatCurrency:
		return "nf-currency"
	case options.NumberFormatDate:
		return "nf-date"
	case options.NumberFormatDateTime:
		return "nf-datetime"
	case options.NumberFormatNumber:
		return "nf-number"
	case options.NumberFormatPercent:
		return "nf-percent"
	case options.NumberFormatTime:
		return "nf-time"
	case options.NumberFormatScientific:
		return "nf-scientific"
	case options.NumberFormatText:
		return "nf-text"
	default:
		return ""
	}
}

var dataStyleXML = map[string]string{
	"nf-number": `<number:number-style style:name="nf-number"><number:number number:decimal-places="2" number:min-integer-digits="1" number:grouping="true"/></number:number-style>`,
	"nf-currency": `<number:currency-style style:name="nf-currency"><number:currency-symbol>$</number:currency-symbol><number:number number:decimal-places="2" number:min-integer-digits="1" number:grouping="true"/></number:currency-style>`,
	"nf-percent": `<number:percentage-style style:name="nf-percent"><number:number number:decimal-places="2" number:min-integer-digits="1"/><number:text>%</number:text></number:percentage-style>`,
	"nf-date": `<number:date-style style:name="nf-date"><number:year number:style="long"/><number:text>-</number:text><number:month number:style="long"/><number:text>-</number:text><number:day number:style="long"/></number:date-style>`,
	"nf-time": `<number:time-style style:name="nf-time"><number:hours number:style="long"/><number:text>:</number:text><number:minutes number:style="long"/><number:text>:</number:text><number:seconds number:style="long"/></number:time-style>`,
	"nf-datetime": `<number:date-style style:name="nf-datetime"><number:year number:style="long"/><number:text>-</number:text><number:month number:style="long"/><number:text>-</number:text><number:day number:style="long"/><number:text> </number:text><number:hours number:style="long"/><number:text>:</number:text><number:minutes number:style="long"/></number:date-style>`,
	"nf-scientific": `<number:number-style style:name="nf-scientific"><number:scientific-number number:decimal-places="2" number:min-integer-digits="1" number:min-exponent-digits="2"/></number:number-style>`,
	"nf-text": `<number:text-style style:name="nf-text"><number:text-content/></number:text-style>`,
}

func (w *Writer) contentXML(mod *module.Module) string {
	st := &styler{names: map[string]string{}}

	// Render the table body first so every style and data style it needs is registered
	// before the automatic-styles block is emitted.
	var body strings.Builder
	fmt.Fprintf(&body, "<table:table table:name=%q>", escape(w.opts.SheetName))
	for i := 0; i < w.opts.YOffset; i++ {
		body.WriteString("<table:table-row/>")
	}
	for _, row := range mod.Spreadsheet.Rows {
		body.WriteString("<table:table-row>")
		if w.opts.XOffset > 0 {
			fmt.Fprintf(&body, `<table:table-cell table:number-columns-repeated="%d"/>`, w.opts.XOffset)
		}
		for _, cell := range row.Cells {
			body.WriteString(renderCell(st, cell))
		}
		body.WriteString("</table:table-row>")
	}
	body.WriteString("</table:table>")

	usedDataStyles := map[string]bool{}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<office:document-content` +
		` xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"` +
		` xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"` +
		` xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"` +
		` xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"` +
		` xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"` +
		` xmlns:number="urn:oasis:names:tc:opendocument:xmlns:datastyle:1.0"` +
		` office:version="1.2">`)

	b.WriteString("<office:automatic-styles>")
	for _, style := range st.styles {
		for ds := range dataStyleXML {
			if strings.Contains(style, fmt.Sprintf("style:data-style-name=%q", ds)) && !usedDataStyles[ds] {
				usedDataStyles[ds] = true
				b.WriteString(dataStyleXML[ds])
			}
		}
	}
	for _, style := range st.styles {
		b.WriteString(style)
	}
	b.WriteString("</office:automatic-styles>")

	b.WriteString("<office:body><office:spreadsheet>")
	b.WriteString(body.String())
	b.WriteString("</office:spreadsheet></office:body></office:document-content>")
	return b.String()
}

func renderCell(st *styler, cell *sheet.Cell) string {
	var attrs strings.Builder
	if name := st.styleName(cell.Options); name != "" {
		fmt.Fprintf(&attrs, ` table:style-name=%q`, name)
	}

	var content string
	switch {
	case cell.AST != nil:
		// Formulas pass through verbatim; the consumer resolves them on open.
		fmt.Fprintf(&attrs, ` table:formula="of:%s"`, escape(cell.DisplayValue()))
	case cell.Value != "":
		if f, err := strconv.ParseFloat(cell.Value, 64); err == nil {
			fmt.Fprintf(&attrs, ` office:value-type="float" office:value="%v"`, f)
		} else {
			attrs.WriteString(` office:value-type="string"`)
		}
		content = fmt.Sprintf("<text:p>%s</text:p>", escape(cell.Value))
	}

	if cell.Options != nil && cell.Options.Note != "" {
		content += fmt.Sprintf("<office:annotation><text:p>%s</text:p></office:annotation>", escape(cell.Options.Note))
	}

	if content == "" {
		return fmt.Sprintf("<table:table-cell%s/>", attrs.String())
	}
	return fmt.Sprintf("<table:table-cell%s>%s</table:table-cell>", attrs.String(), content)
}

func escape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
