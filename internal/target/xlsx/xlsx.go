// Package xlsx writes a compiled module to an Excel workbook, carrying over the cell
// formatting, notes, data validation, and formulas CSV cannot express.
package xlsx

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"csvpp/internal/cerr"
	"csvpp/internal/module"
	"csvpp/internal/options"
	"csvpp/internal/sheet"
)

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

// Writer renders a module to an .xlsx workbook.
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

// WriteBackup copies the existing workbook aside.
func (w *Writer) WriteBackup(ctx context.Context) error {
	return backupFile(w.opts.OutputFile, w.opts.BackupFile)
}

// Write renders mod to the output workbook.
func (w *Writer) Write(ctx context.Context, mod *module.Module) error {
	if w.opts.Safe {
		if _, err := os.Stat(w.opts.OutputFile); err == nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: "output exists and -s was given"}
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := w.opts.SheetName
	if sheetName != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheetName); err != nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
		}
	}

	styler := NewStyler(f)
	anyLocked := false

	for _, row := range mod.Spreadsheet.Rows {
		for _, cell := range row.Cells {
			if err := w.writeCell(f, styler, sheetName, row, cell); err != nil {
				return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
			}
			if cell.Options != nil && cell.Options.Lock {
				anyLocked = true
			}
		}
	}

	// A Locked cell style only takes effect once the sheet itself is protected.
	if anyLocked {
		err := f.ProtectSheet(sheetName, &excelize.SheetProtectionOptions{
			SelectLockedCells:   true,
			SelectUnlockedCells: true,
		})
		if err != nil {
			return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
		}
	}

	if err := f.SaveAs(w.opts.OutputFile); err != nil {
		return &cerr.TargetWriteError{Output: w.opts.OutputFile, Message: err.Error()}
	}
	return nil
}

func (w *Writer) writeCell(f *excelize.File, styler *Styler, sheetName string, row *sheet.Row, cell *sheet.Cell) error {
	ref, err := excelize.CoordinatesToCellName(cell.Address.Col+w.opts.XOffset+1, row.Index+w.opts.YOffset+1)
	if err != nil {
		return err
	}

	if cell.AST != nil {
		if err := f.SetCellFormula(sheetName, ref, strings.TrimPrefix(cell.DisplayValue(), "=")); err != nil {
			return err
		}
	} else if cell.Value != "" {
		if err := f.SetCellValue(sheetName, ref, typedValue(cell.Value)); err != nil {
			return err
		}
	}

	o := cell.Options
	if o == nil {
		return nil
	}

	styleID, err := styler.StyleID(o)
	if err != nil {
		return err
	}
	if styleID != 0 {
		if err := f.SetCellStyle(sheetName, ref, ref, styleID); err != nil {
			return err
		}
	}

	if o.Note != "" {
		err := f.AddComment(sheetName, excelize.Comment{
			Cell:      ref,
			Author:    "csvpp",
			Paragraph: []excelize.RichTextRun{{Text: o.Note}},
		})
		if err != nil {
			return err
		}
	}

	if o.Validation != nil {
		dv, err := buildDataValidation(o.Validation, ref)
		if err != nil {
			return err
		}
		if err := f.AddDataValidation(sheetName, dv); err != nil {
			return err
		}
	}

	return nil
}

// typedValue parses a literal cell value into a number when it looks like one, so number
// formats apply to it in the workbook; everything else stays a string.
func typedValue(value string) interface{} {
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	if fl, err := strconv.ParseFloat(value, 64); err == nil {
		return fl
	}
	return value
}

// buildDataValidation maps a validation rule onto excelize's model: Excel-native
// decimal/date/list rules where one exists, and a custom formula where it doesn't (Excel has
// no native substring or exact-text rule).
func buildDataValidation(v *options.Validation, ref string) (*excelize.DataValidation, error) {
	dv := excelize.NewDataValidation(true)
	dv.Sqref = ref + ":" + ref

	rule := func(typ, op, f1, f2 string) (*excelize.DataValidation, error) {
		dv.Type = typ
		dv.Operator = op
		dv.Formula1 = f1
		dv.Formula2 = f2
		return dv, nil
	}

	switch v.Kind {
	case "between":
		return rule("decimal", "between", v.Args[0], v.Args[1])
	case "not_between":
		return rule("decimal", "notBetween", v.Args[0], v.Args[1])
	case "number_eq":
		return rule("decimal", "equal", v.Args[0], "")
	case "number_not_eq":
		return rule("decimal", "notEqual", v.Args[0], "")
	case "number_gt":
		return rule("decimal", "greaterThan", v.Args[0], "")
	case "number_gte":
		return rule("decimal", "greaterThanOrEqual", v.Args[0], "")
	case "number_lt":
		return rule("decimal", "lessThan", v.Args[0], "")
	case "number_lte":
		return rule("decimal", "lessThanOrEqual", v.Args[0], "")
	case "date_eq":
		return rule("date", "equal", fmt.Sprintf("DATEVALUE(%q)", v.Args[0]), "")
	case "date_before":
		return rule("date", "lessThan", fmt.Sprintf("DATEVALUE(%q)", v.Args[0]), "")
	case "date_after":
		return rule("date", "greaterThan", fmt.Sprintf("DATEVALUE(%q)", v.Args[0]), "")
	case "one_of_list":
		return dv, dv.SetDropList(v.Args)
	case "text_contains":
		dv.Type = "custom"
		dv.Formula1 = fmt.Sprintf("ISNUMBER(SEARCH(%q,%s))", v.Args[0], ref)
		return dv, nil
	case "text_not_contains":
		dv.Type = "custom"
		dv.Formula1 = fmt.Sprintf("NOT(ISNUMBER(SEARCH(%q,%s)))", v.Args[0], ref)
		return dv, nil
	case "text_eq":
		dv.Type = "custom"
		dv.Formula1 = fmt.Sprintf("EXACT(%s,%q)", ref, v.Args[0])
		return dv, nil
	case "custom_formula":
		dv.Type = "custom"
		dv.Formula1 = strings.TrimPrefix(v.Args[0], "=")
		return dv, nil
	default:
		return nil, fmt.Errorf("unknown validation rule %q", v.Kind)
	}
}

func backupFile(path, dest string) error {
	if dest == "" {
		dest = path + ".bak"
	}

	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &cerr.TargetWriteError{Output: path, Message: err.Error()}
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
