package ods

import (
	"archive/zip"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"csvpp/internal/a1"
	"csvpp/internal/ast"
	"csvpp/internal/module"
	"csvpp/internal/options"
	"csvpp/internal/sheet"
)

func writePackage(t *testing.T, mod *module.Module, opts Options) map[string]string {
	t.Helper()
	if opts.OutputFile == "" {
		opts.OutputFile = filepath.Join(t.TempDir(), "out.ods")
	}
	if err := New(opts).Write(context.Background(), mod); err != nil {
		t.Fatalf("Write: %v", err)
	}

	r, err := zip.OpenReader(opts.OutputFile)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer r.Close()

	if len(r.File) == 0 || r.File[0].Name != "mimetype" {
		t.Fatal("mimetype must be the package's first entry")
	}
	if r.File[0].Method != zip.Store {
		t.Error("mimetype must be stored uncompressed")
	}

	entries := map[string]string{}
	for _, zf := range r.File {
		rc, err := zf.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		entries[zf.Name] = string(data)
	}
	return entries
}

func testModule(rows []*sheet.Row) *module.Module {
	return &module.Module{Spreadsheet: &sheet.Spreadsheet{Rows: rows}}
}

func TestWritePackageLayout(t *testing.T) {
	entries := writePackage(t, testModule([]*sheet.Row{
		{Index: 0, Cells: []*sheet.Cell{{Value: "Header", Address: a1.NewAddress(0, 0)}}},
	}), Options{})

	if entries["mimetype"] != MimeType {
		t.Errorf("mimetype = %q", entries["mimetype"])
	}
	if !strings.Contains(entries["META-INF/manifest.xml"], MimeType) {
		t.Error("manifest missing the package media type")
	}
	if !strings.Contains(entries["content.xml"], "<text:p>Header</text:p>") {
		t.Error("content.xml missing the cell value")
	}
	if !strings.Contains(entries["content.xml"], `table:name="Sheet1"`) {
		t.Error("content.xml missing the default sheet name")
	}
}

func TestWriteNumericAndFormulaCells(t *testing.T) {
	entries := writePackage(t, testModule([]*sheet.Row{
		{Index: 0, Cells: []*sheet.Cell{
			{Value: "42", Address: a1.NewAddress(0, 0)},
			{Value: "=foo", AST: ast.Integer(1), Address: a1.NewAddress(1, 0)},
		}},
	}), Options{})

	content := entries["content.xml"]
	if !strings.Contains(content, `office:value-type="float" office:value="42"`) {
		t.Error("numeric cell not written as a float value")
	}
	if !strings.Contains(content, `table:formula="of:=1"`) {
		t.Error("formula cell not written as a table:formula")
	}
}

func TestWriteStyledCellRegistersAutomaticStyle(t *testing.T) {
	o := options.New()
	o.TextFormats[options.FormatBold] = true
	o.Color = "ff0000"
	o.NumberFormat = options.NumberFormatPercent

	entries := writePackage(t, testModule([]*sheet.Row{
		{Index: 0, Cells: []*sheet.Cell{{Value: "x", Options: o, Address: a1.NewAddress(0, 0)}}},
	}), Options{})

	content := entries["content.xml"]
	if !strings.Contains(content, `table:style-name="ce1"`) {
		t.Error("cell not linked to its automatic style")
	}
	if !strings.Contains(content, `fo:font-weight="bold"`) {
		t.Error("bold text property missing")
	}
	if !strings.Contains(content, `fo:background-color="#ff0000"`) {
		t.Error("background color missing")
	}
	if !strings.Contains(content, `style:data-style-name="nf-percent"`) ||
		!strings.Contains(content, `<number:percentage-style style:name="nf-percent">`) {
		t.Error("percent data style missing")
	}
}

func TestWriteOffsetsEmitLeadingRowsAndCells(t *testing.T) {
	entries := writePackage(t, testModule([]*sheet.Row{
		{Index: 0, Cells: []*sheet.Cell{{Value: "x", Address: a1.NewAddress(0, 0)}}},
	}), Options{XOffset: 2, YOffset: 1})

	content := entries["content.xml"]
	if !strings.Contains(content, "<table:table-row/>") {
		t.Error("y-offset filler row missing")
	}
	if !strings.Contains(content, `table:number-columns-repeated="2"`) {
		t.Error("x-offset filler cells missing")
	}
}

func TestWriteEscapesXMLSpecials(t *testing.T) {
	entries := writePackage(t, testModule([]*sheet.Row{
		{Index: 0, Cells: []*sheet.Cell{{Value: "a<b&c", Address: a1.NewAddress(0, 0)}}},
	}), Options{})

	content := entries["content.xml"]
	if strings.Contains(content, "<text:p>a<b&c</text:p>") {
		t.Error("cell value written unescaped")
	}
	if !strings.Contains(content, "a&lt;b&amp;c") {
		t.Error("escaped cell value missing")
	}
}
