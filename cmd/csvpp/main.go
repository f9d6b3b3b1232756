// Command csvpp compiles a csv++ source file and writes the result to a CSV file, an Excel
// workbook, an OpenDocument spreadsheet, or a Google Sheet.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"csvpp/internal/ast"
	"csvpp/internal/cliargs"
	"csvpp/internal/compiler"
	"csvpp/internal/config"
	"csvpp/internal/lexer"
	"csvpp/internal/logger"
	"csvpp/internal/parser"
	"csvpp/internal/progress"
	"csvpp/internal/target"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		report(err)
		os.Exit(1)
	}
}

func run(argv []string) error {
	args, err := cliargs.Parse(argv)
	if err != nil {
		return err
	}

	cfg, err := config.Load(args.ConfigFile)
	if err != nil {
		return err
	}

	logPath := filepath.Join(os.TempDir(), "csvpp.log")
	if err := logger.Init(os.Stdout, logPath, args.Verbose); err != nil {
		return err
	}
	defer logger.Close()

	if logger.IsVerbose() {
		cfg.Print()
		logger.InfoClean("log file: %s", logger.GetLogFilePath())
	}

	overrides, err := buildOverrides(args.KeyValues)
	if err != nil {
		return err
	}

	pipeline := progress.NewPipeline([]progress.Phase{
		progress.PhaseLoad, progress.PhaseWrite,
	})
	if !args.Verbose {
		pipeline.Disable()
	}

	ctx := context.Background()

	pipeline.Next(1)
	logger.Info("compiling %s", args.InputFile)
	mod, err := compiler.Compile(ctx, args.InputFile, cfg, overrides)
	if err != nil {
		return err
	}
	pipeline.Finish()

	writer, err := target.ForFormat(target.Options{
		OutputFile:   args.OutputFile,
		GoogleSheet:  args.GoogleSheet,
		SheetName:    args.SheetName,
		Safe:         args.Safe,
		XOffset:      args.XOffset,
		YOffset:      args.YOffset,
		BackupFile:   args.Backup,
		KeyValuePath: os.Getenv("CSVPP_GOOGLE_CREDENTIALS"),
	})
	if err != nil {
		return err
	}

	bar := pipeline.Next(1)
	if args.Backup != "" {
		if err := writer.WriteBackup(ctx); err != nil {
			return err
		}
	}
	if err := writer.Write(ctx, mod); err != nil {
		return err
	}
	if bar != nil {
		bar.Add(1)
	}
	pipeline.Finish()

	logger.Info("wrote %s", destinationOf(args))
	return nil
}

// destinationOf reports what the compile wrote to, for the final log line.
func destinationOf(args *cliargs.Args) string {
	if args.GoogleSheet != "" {
		return "Google Sheet " + args.GoogleSheet
	}
	return args.OutputFile
}

// buildOverrides parses each "-k key=value" pair's value as a csv++ expression (so `-k n=5`
// binds an Integer rather than the Text "5"), falling back to a literal Text node when the
// value isn't valid expression syntax.
func buildOverrides(kv map[string]string) (map[string]ast.Node, error) {
	overrides := make(map[string]ast.Node, len(kv))
	for name, raw := range kv {
		overrides[name] = parseOverrideValue(raw)
	}
	return overrides, nil
}

func parseOverrideValue(raw string) ast.Node {
	l, err := lexer.NewASTLexer(raw)
	if err != nil {
		return ast.Text(raw)
	}
	node, err := parser.NewExprParser(l).ParseExpr(0)
	if err != nil {
		return ast.Text(raw)
	}
	return node
}

// report renders a user-visible error: a highlighted source excerpt when the error carries
// one, or its plain message otherwise.
func report(err error) {
	type highlighter interface{ Highlighted() string }
	if h, ok := err.(highlighter); ok {
		fmt.Fprintln(os.Stderr, h.Highlighted())
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
