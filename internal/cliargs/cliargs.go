// Package cliargs defines the compiler's command-line surface and the parsed Args struct the
// rest of the program runs against.
package cliargs

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"csvpp/internal/cerr"
)

// Args is the parsed form of the CLI flags and positional input.
type Args struct {
	InputFile string // positional

	Backup      string // -b/--backup: path to copy the existing output to before overwriting
	GoogleSheet string // -g/--google-sheet-id
	OutputFile  string // -o/--output-file
	SheetName   string // -n/--sheet-name
	KeyValues   map[string]string // -k/--key-values, repeatable "key=value"
	Safe        bool              // -s/--safe
	Verbose     bool              // -v/--verbose
	XOffset     int               // -x
	YOffset     int               // -y

	ConfigFile string // --config: where to find csvpp.yaml
}

// Parse parses argv (typically os.Args[1:]) into an Args, enforcing that exactly one of
// -g/--google-sheet-id or -o/--output-file is given and that an input file is present.
func Parse(argv []string) (*Args, error) {
	fs := pflag.NewFlagSet("csvpp", pflag.ContinueOnError)

	backup := fs.StringP("backup", "b", "", "back up the existing output before overwriting it")
	googleSheet := fs.StringP("google-sheet-id", "g", "", "Google Sheets spreadsheet ID to write to")
	outputFile := fs.StringP("output-file", "o", "", "output file to write to")
	sheetName := fs.StringP("sheet-name", "n", "", "sheet/tab name in the output")
	keyValues := fs.StringArrayP("key-values", "k", nil, "key=value pairs injected as highest-precedence scope variables (repeatable)")
	safe := fs.BoolP("safe", "s", false, "refuse to overwrite an existing output")
	verbose := fs.BoolP("verbose", "v", false, "enable verbose logging")
	xOffset := fs.IntP("x-offset", "x", 0, "column offset applied to every written cell")
	yOffset := fs.IntP("y-offset", "y", 0, "row offset applied to every written cell")
	configFile := fs.String("config", "", "path to a csvpp.yaml config file")

	if err := fs.Parse(argv); err != nil {
		return nil, &cerr.InitError{Message: err.Error()}
	}

	positional := fs.Args()
	if len(positional) != 1 {
		return nil, &cerr.InitError{Message: fmt.Sprintf("expected exactly one input file, got %d", len(positional))}
	}

	if (*googleSheet == "") == (*outputFile == "") {
		return nil, &cerr.InitError{Message: "exactly one of -g/--google-sheet-id or -o/--output-file is required"}
	}

	kv, err := parseKeyValues(*keyValues)
	if err != nil {
		return nil, err
	}

	return &Args{
		InputFile:   positional[0],
		Backup:      *backup,
		GoogleSheet: *googleSheet,
		OutputFile:  *outputFile,
		SheetName:   *sheetName,
		KeyValues:   kv,
		Safe:        *safe,
		Verbose:     *verbose,
		XOffset:     *xOffset,
		YOffset:     *yOffset,
		ConfigFile:  *configFile,
	}, nil
}

func parseKeyValues(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, &cerr.InitError{Message: fmt.Sprintf("invalid -k value %q: expected key=value", pair)}
		}
		out[key] = value
	}
	return out, nil
}
