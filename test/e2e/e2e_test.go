// Package e2e drives full compiles (source file -> Module -> target writer) end to end,
// rather than exercising any single package in isolation.
package e2e

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"csvpp/internal/compiler"
	"csvpp/internal/config"
	"csvpp/internal/target/csv"
)

func compileAndWriteCSV(t *testing.T, source string) string {
	t.Helper()
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.csvpp")
	if err := os.WriteFile(srcPath, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Compiler: config.CompilerConfig{UseCache: false}}
	mod, err := compiler.Compile(context.Background(), srcPath, cfg, nil)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	outPath := filepath.Join(dir, "out.csv")
	if err := csv.New(outPath, false).Write(context.Background(), mod); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	return string(out)
}

// A scope variable is substituted into a formula cell.
func TestVariableSubstitution(t *testing.T) {
	got := compileAndWriteCSV(t, "foo := 1\n---\nfoo,bar,baz,=foo\n")
	want := "foo,bar,baz,=1\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Infix precedence pretty-prints fully parenthesised.
func TestInfixPrecedencePrettyPrint(t *testing.T) {
	got := compileAndWriteCSV(t, "foo := 1 - 2 + 3 / 4 * 5 ^ 6 & 7 = 8 < 9\n---\n=foo\n")
	want := "=(((1 - (2 + (3 / (4 * (5 ^ 6))))) & 7) = (8 < 9))\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// A finite fill with a row-scope option replicates the row and rebinds rownum per replica.
func TestFiniteFillReplicatesRows(t *testing.T) {
	got := compileAndWriteCSV(t, "---\n![[fill=2]]A,B,=rownum\n")
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d rows, want 2: %q", len(lines), got)
	}
	if lines[0] != "A,B,=1" || lines[1] != "A,B,=2" {
		t.Errorf("got %v, want [A,B,=1 A,B,=2]", lines)
	}
}

// Cell formatting passes through the compile unchanged (CSV has no styling surface, so the
// written value is unaffected by it).
func TestCellFormattingPassthrough(t *testing.T) {
	got := compileAndWriteCSV(t, "---\n[[t=b/fs=20]]Header\n")
	want := "Header\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Boundary: a source with no "---" separator is parsed entirely as CSV, with no scope
// variables available.
func TestNoScopeSeparator(t *testing.T) {
	got := compileAndWriteCSV(t, "a,b,c\n1,2,3\n")
	want := "a,b,c\n1,2,3\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// A `use` cycle between two files is rejected before any output is produced.
func TestModuleLoadCycleIsRejected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.csvpp")
	bPath := filepath.Join(dir, "b.csvpp")
	if err := os.WriteFile(aPath, []byte("use b\n---\na\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bPath, []byte("use a\n---\nb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Compiler: config.CompilerConfig{UseCache: false}}
	_, err := compiler.Compile(context.Background(), aPath, cfg, nil)
	if err == nil {
		t.Fatal("expected a module-load cycle error, got nil")
	}
	if !strings.Contains(err.Error(), "cycle") {
		t.Errorf("error = %v, want it to mention a cycle", err)
	}
}

// A malformed scope statement reports a syntax error rather than compiling.
func TestScopeSyntaxErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	srcPath := filepath.Join(dir, "main.csvpp")
	if err := os.WriteFile(srcPath, []byte("fn foo<a,b,c> a + b * c\n---\nx\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Compiler: config.CompilerConfig{UseCache: false}}
	_, err := compiler.Compile(context.Background(), srcPath, cfg, nil)
	if err == nil {
		t.Fatal("expected a syntax error, got nil")
	}
}
