// Package sheets writes a compiled module to a Google Sheet through the Sheets API v4. The
// whole sheet goes up as one batchUpdate so values, formats, notes, and validation land
// atomically from the API's point of view.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"csvpp/internal/cerr"
	"csvpp/internal/module"
	"csvpp/internal/options"
	"csvpp/internal/sheet"
)

// Options configures a Writer.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string // service-account JSON; ambient credentials when empty
	XOffset         int
	YOffset         int
	BackupFile      string // defaults to "<spreadsheet-id>.backup.json"
}

// Writer renders a module to one sheet of a Google spreadsheet.
type Writer struct {
	opts Options
}

// New returns a Writer for opts.
func New(opts Options) *Writer {
	return &Writer{opts: opts}
}

func (w *Writer) service(ctx context.Context) (*sheetsapi.Service, error) {
	if w.opts.CredentialsFile == "" {
		return sheetsapi.NewService(ctx)
	}
	data, err := os.ReadFile(w.opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading credentials %s: %w", w.opts.CredentialsFile, err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, sheetsapi.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials %s: %w", w.opts.CredentialsFile, err)
	}
	return sheetsapi.NewService(ctx, option.WithCredentials(creds))
}

// WriteBackup snapshots the target sheet's current values to a local JSON file, the API-side
// equivalent of the file targets' "<output>.bak" copy.
func (w *Writer) WriteBackup(ctx context.Context) error {
	srv, err := w.service(ctx)
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}

	title := w.opts.SheetName
	if title == "" {
		ss, err := srv.Spreadsheets.Get(w.opts.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
		}
		if len(ss.Sheets) == 0 {
			return nil
		}
		title = ss.Sheets[0].Properties.Title
	}

	vals, err := srv.Spreadsheets.Values.Get(w.opts.SpreadsheetID, title).Context(ctx).Do()
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}

	data, err := json.MarshalIndent(vals.Values, "", "  ")
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}
	backupPath := w.opts.BackupFile
	if backupPath == "" {
		backupPath = w.opts.SpreadsheetID + ".backup.json"
	}
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return &cerr.TargetWriteError{Output: backupPath, Message: err.Error()}
	}
	return nil
}

// Write renders mod to the target sheet.
func (w *Writer) Write(ctx context.Context, mod *module.Module) error {
	srv, err := w.service(ctx)
	if err != nil {
		return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}

	sheetID, err := w.resolveSheetID(ctx, srv)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			UpdateCells: &sheetsapi.UpdateCellsRequest{
				Start: &sheetsapi.GridCoordinate{
					SheetId:     sheetID,
					RowIndex:    int64(w.opts.YOffset),
					ColumnIndex: int64(w.opts.XOffset),
				},
				Rows:   buildRows(mod),
				Fields: "*",
			},
		}},
	}

	if _, err := srv.Spreadsheets.BatchUpdate(w.opts.SpreadsheetID, req).Context(ctx).Do(); err != nil {
		return &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}
	return nil
}

// resolveSheetID maps the -n sheet name onto its numeric sheet ID, defaulting to the
// spreadsheet's first sheet when no name was given.
func (w *Writer) resolveSheetID(ctx context.Context, srv *sheetsapi.Service) (int64, error) {
	ss, err := srv.Spreadsheets.Get(w.opts.SpreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: err.Error()}
	}
	if w.opts.SheetName == "" {
		if len(ss.Sheets) == 0 {
			return 0, &cerr.TargetWriteError{Output: w.opts.SpreadsheetID, Message: "spreadsheet has no sheets"}
		}
		return ss.Sheets[0].Properties.SheetId, nil
	}
	for _, s := range ss.Sheets {
		if s.Properties.Title == w.opts.SheetName {
			return s.Properties.SheetId, nil
		}
	}
	return 0, &cerr.TargetWriteError{
		Output:  w.opts.SpreadsheetID,
		Message: fmt.Sprintf("no sheet named %q", w.opts.SheetName),
	}
}

// buildRows converts the expanded spreadsheet into RowData, padded to the widest row so the
// update clears stale trailing cells.
func buildRows(mod *module.Module) []*sheetsapi.RowData {
	widest := mod.Spreadsheet.WidestRow()
	rows := make([]*sheetsapi.RowData, 0, len(mod.Spreadsheet.Rows))
	for _, row := range mod.Spreadsheet.Rows {
		values := make([]*sheetsapi.CellData, widest)
		for i := range values {
			if i < len(row.Cells) {
				values[i] = cellData(row.Cells[i])
			} else {
				values[i] = &sheetsapi.CellData{}
			}
		}
		rows = append(rows, &sheetsapi.RowData{Values: values})
	}
	return rows
}

func cellData(cell *sheet.Cell) *sheetsapi.CellData {
	cd := &sheetsapi.CellData{UserEnteredValue: extendedValue(cell)}

	o := cell.Options
	if o == nil {
		return cd
	}
	if f := cellFormat(o); f != nil {
		cd.UserEnteredFormat = f
	}
	if o.Note != "" {
		cd.Note = o.Note
	}
	if o.Validation != nil {
		cd.DataValidation = dataValidationRule(o.Validation)
	}
	return cd
}

func extendedValue(cell *sheet.Cell) *sheetsapi.ExtendedValue {
	if cell.AST != nil {
		formula := cell.DisplayValue()
		return &sheetsapi.ExtendedValue{FormulaValue: &formula}
	}
	if cell.Value == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(cell.Value, 64); err == nil {
		return &sheetsapi.ExtendedValue{NumberValue: &n}
	}
	v := cell.Value
	return &sheetsapi.ExtendedValue{StringValue: &v}
}

// cellFormat mirrors the xlsx Styler's option mapping onto the Sheets API's CellFormat.
func cellFormat(o *options.Options) *sheetsapi.CellFormat {
	f := &sheetsapi.CellFormat{}
	used := false

	if o.Color != "" {
		f.BackgroundColor = colorFromHex(o.Color)
		used = true
	}
	if tf := textFormat(o); tf != nil {
		f.TextFormat = tf
		used = true
	}
	if len(o.Borders) > 0 {
		f.Borders = borders(o)
		used = true
	}
	if h := halignName(o.HAlign); h != "" {
		f.HorizontalAlignment = h
		used = true
	}
	if v := valignName(o.VAlign); v != "" {
		f.VerticalAlignment = v
		used = true
	}
	if nf := numberFormatType(o.NumberFormat); nf != "" {
		f.NumberFormat = &sheetsapi.NumberFormat{Type: nf}
		used = true
	}

	if !used {
		return nil
	}
	return f
}

func textFormat(o *options.Options) *sheetsapi.TextFormat {
	if o.FontColor == "" && o.FontFamily == "" && o.FontSize == 0 && len(o.TextFormats) == 0 {
		return nil
	}
	tf := &sheetsapi.TextFormat{
		Bold:          o.TextFormats[options.FormatBold],
		Italic:        o.TextFormats[options.FormatItalic],
		Underline:     o.TextFormats[options.FormatUnderline],
		Strikethrough: o.TextFormats[options.FormatStrikethrough],
		FontFamily:    o.FontFamily,
		FontSize:      int64(o.FontSize),
	}
	if o.FontColor != "" {
		tf.ForegroundColor = colorFromHex(o.FontColor)
	}
	return tf
}

func borders(o *options.Options) *sheetsapi.Borders {
	b := &sheetsapi.Border{Style: borderStyleName(o.BorderStyle)}
	if o.BorderColor != "" {
		b.Color = colorFromHex(o.BorderColor)
	}

	bs := &sheetsapi.Borders{}
	if o.Borders[options.BorderTop] {
		bs.Top = b
	}
	if o.Borders[options.BorderRight] {
		bs.Right = b
	}
	if o.Borders[options.BorderBottom] {
		bs.Bottom = b
	}
	if o.Borders[options.BorderLeft] {
		bs.Left = b
	}
	return bs
}

// colorFromHex converts the option lexer's 6-digit hex form into the API's 0..1 channel
// floats.
func colorFromHex(hex string) *sheetsapi.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return nil
	}
	channel := func(s string) float64 {
		n, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0
		}
		return float64(n) / 255.0
	}
	return &sheetsapi.Color{
		Red:   channel(hex[0:2]),
		Green: channel(hex[2:4]),
		Blue:  channel(hex[4:6]),
		Alpha: 1,
	}
}

func borderStyleName(s options.BorderStyle) string {
	switch s {
	case options.BorderStyleDashed:
		return "DASHED"
	case options.BorderStyleDotted:
		return "DOTTED"
	case options.BorderStyleDouble:
		return "DOUBLE"
	case options.BorderStyleSolidMedium:
		return "SOLID_MEDIUM"
	case options.BorderStyleSolidThick:
		return "SOLID_THICK"
	default:
		return "SOLID"
	}
}

func halignName(h options.HorizontalAlign) string {
	switch h {
	case options.HAlignLeft:
		return "LEFT"
	case options.HAlignCenter:
		return "CENTER"
	case options.HAlignRight:
		return "RIGHT"
	default:
		return ""
	}
}

func valignName(v options.VerticalAlign) string {
	switch v {
	case options.VAlignTop:
		return "TOP"
	case options.VAlignCenter:
		return "MIDDLE"
	case options.VAlignBottom:
		return "BOTTOM"
	default:
		return ""
	}
}

func numberFormatType(nf options.NumberFormat) string {
	switch nf {
	case options.NumberFormatCurrency:
		return "CURRENCY"
	case options.NumberFormatDate:
		return "DATE"
	case options.NumberFormatDateTime:
		return "DATE_TIME"
	case options.NumberFormatNumber:
		return "NUMBER"
	case options.NumberFormatPercent:
		return "PERCENT"
	case options.NumberFormatText:
		return "TEXT"
	case options.NumberFormatTime:
		return "TIME"
	case options.NumberFormatScientific:
		return "SCIENTIFIC"
	default:
		return ""
	}
}

// dataValidationRule maps the validation DSL onto the API's BooleanCondition types, which
// cover the whole closed set natively (unlike Excel, which needs custom formulas for the
// text rules).
func dataValidationRule(v *options.Validation) *sheetsapi.DataValidationRule {
	condType := conditionFor(v.Kind)
	if condType == "" {
		return nil
	}

	args := v.Args
	if v.Kind == "custom_formula" && len(args) == 1 && !strings.HasPrefix(args[0], "=") {
		args = []string{"=" + args[0]}
	}

	values := make([]*sheetsapi.ConditionValue, len(args))
	for i, a := range args {
		values[i] = &sheetsapi.ConditionValue{UserEnteredValue: a}
	}

	return &sheetsapi.DataValidationRule{
		Condition: &sheetsapi.BooleanCondition{Type: condType, Values: values},
	}
}

func conditionFor(kind string) string {
	switch kind {
	case "between":
		return "NUMBER_BETWEEN"
	case "not_between":
		return "NUMBER_NOT_BETWEEN"
	case "number_eq":
		return "NUMBER_EQ"
	case "number_not_eq":
		return "NUMBER_NOT_EQ"
	case "number_gt":
		return "NUMBER_GREATER"
	case "number_gte":
		return "NUMBER_GREATER_THAN_EQ"
	case "number_lt":
		return "NUMBER_LESS"
	case "number_lte":
		return "NUMBER_LESS_THAN_EQ"
	case "date_eq":
		return "DATE_EQ"
	case "date_before":
		return "DATE_BEFORE"
	case "date_after":
		return "DATE_AFTER"
	case "text_contains":
		return "TEXT_CONTAINS"
	case "text_not_contains":
		return "TEXT_NOT_CONTAINS"
	case "text_eq":
		return "TEXT_EQ"
	case "custom_formula":
		return "CUSTOM_FORMULA"
	case "one_of_list":
		return "ONE_OF_LIST"
	default:
		return ""
	}
}
