// Package csv writes a compiled module back out as plain CSV. Formatting options have no
// CSV surface, so only each cell's display value survives; rows are padded with empty
// fields to the sheet's widest row.
package csv

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"csvpp/internal/cerr"
	"csvpp/internal/module"
)

// Writer renders a module to a CSV file.
type Writer struct {
	outputFile string
	safe       bool

	// BackupFile overrides where WriteBackup preserves the existing output; it defaults to
	// "<output>.bak".
	BackupFile string
}

// New returns a Writer targeting outputFile. With safe set, Write refuses to replace an
// existing file.
func New(outputFile string, safe bool) *Writer {
	return &Writer{outputFile: outputFile, safe: safe}
}

// WriteBackup copies the existing output file aside. A missing output is not an error (there
// is nothing to preserve yet).
func (w *Writer) WriteBackup(ctx context.Context) error {
	return backupFile(w.outputFile, w.BackupFile)
}

// Write renders mod to the output file.
func (w *Writer) Write(ctx context.Context, mod *module.Module) error {
	if w.safe {
		if _, err := os.Stat(w.outputFile); err == nil {
			return &cerr.TargetWriteError{Output: w.outputFile, Message: "output exists and -s was given"}
		}
	}

	f, err := os.Create(w.outputFile)
	if err != nil {
		return &cerr.TargetWriteError{Output: w.outputFile, Message: err.Error()}
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	widest := mod.Spreadsheet.WidestRow()
	record := make([]string, widest)

	for _, row := range mod.Spreadsheet.Rows {
		for i := range record {
			record[i] = ""
		}
		for i, cell := range row.Cells {
			record[i] = cell.DisplayValue()
		}
		if err := cw.Write(record); err != nil {
			return &cerr.TargetWriteError{Output: w.outputFile, Message: err.Error()}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &cerr.TargetWriteError{Output: w.outputFile, Message: err.Error()}
	}
	return nil
}

// backupFile copies path to dest (path+".bak" when dest is empty), replacing any previous
// backup.
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
