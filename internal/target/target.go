// Package target picks and constructs the output writer a compile hands its finished module
// to. Each writer lives in its own subpackage; this package only knows how to choose one
// from the CLI's output options.
package target

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"csvpp/internal/cerr"
	"csvpp/internal/module"
	"csvpp/internal/target/csv"
	"csvpp/internal/target/ods"
	"csvpp/internal/target/sheets"
	"csvpp/internal/target/xlsx"
)

// Adapter is the interface every output writer implements.
type Adapter interface {
	// WriteBackup preserves the existing output (file copy or API snapshot) before Write
	// replaces it. Calling it twice is safe.
	WriteBackup(ctx context.Context) error
	// Write renders the compiled module to the target.
	Write(ctx context.Context, mod *module.Module) error
}

// Options selects and configures a writer.
type Options struct {
	OutputFile   string
	GoogleSheet  string
	SheetName    string
	Safe         bool
	XOffset      int
	YOffset      int
	BackupFile   string // where WriteBackup preserves the existing output (writer default if empty)
	KeyValuePath string // Google service-account credentials file, sheets target only
}

// ForFormat returns the writer matching opts: the Google Sheets client when a sheet ID is
// given, otherwise a file writer chosen by the output filename's extension.
func ForFormat(opts Options) (Adapter, error) {
	if opts.GoogleSheet != "" {
		return sheets.New(sheets.Options{
			SpreadsheetID:   opts.GoogleSheet,
			SheetName:       opts.SheetName,
			CredentialsFile: opts.KeyValuePath,
			XOffset:         opts.XOffset,
			YOffset:         opts.YOffset,
			BackupFile:      opts.BackupFile,
		}), nil
	}

	if opts.OutputFile == "" {
		return nil, &cerr.InitError{Message: "no output given: provide -o <file> or -g <sheet-id>"}
	}

	switch ext := strings.ToLower(filepath.Ext(opts.OutputFile)); ext {
	case ".csv":
		w := csv.New(opts.OutputFile, opts.Safe)
		w.BackupFile = opts.BackupFile
		return w, nil
	case ".xlsx":
		return xlsx.New(xlsx.Options{
			OutputFile: opts.OutputFile,
			SheetName:  opts.SheetName,
			Safe:       opts.Safe,
			XOffset:    opts.XOffset,
			YOffset:    opts.YOffset,
			BackupFile: opts.BackupFile,
		}), nil
	case ".ods":
		return ods.New(ods.Options{
			OutputFile: opts.OutputFile,
			SheetName:  opts.SheetName,
			Safe:       opts.Safe,
			XOffset:    opts.XOffset,
			YOffset:    opts.YOffset,
			BackupFile: opts.BackupFile,
		}), nil
	default:
		return nil, &cerr.InitError{
			Message: fmt.Sprintf("unrecognized output format %q: expected .csv, .xlsx, or .ods", ext),
		}
	}
}
