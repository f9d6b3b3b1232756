package module

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"csvpp/internal/source"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoaderLoadsASingleModule(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.csvpp", "foo,bar\n1,2\n")

	l := NewLoader("test-version", nil, false)
	mod, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Spreadsheet.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(mod.Spreadsheet.Rows))
	}
}

func TestLoaderResolvesDirectDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.csvpp", "x\n1\n")
	main := writeFile(t, dir, "main.csvpp", "use util\n---\na\n2\n")

	l := NewLoader("test-version", nil, false)
	mod, err := l.Load(context.Background(), main)
	if err != nil {
		t.Fatal(err)
	}
	if len(mod.Scope.Uses) != 1 || mod.Scope.Uses[0] != "util" {
		t.Errorf("expected a single use of util, got %+v", mod.Scope.Uses)
	}
}

func TestLoaderDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csvpp", "use b\n---\n1\n")
	writeFile(t, dir, "b.csvpp", "use a\n---\n2\n")

	l := NewLoader("test-version", nil, false)
	_, err := l.Load(context.Background(), a)
	if err == nil {
		t.Fatal("expected a cycle error")
	}
}

func TestLoaderSharesModulesAcrossDiamondDependency(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shared.csvpp", "x\n1\n")
	writeFile(t, dir, "left.csvpp", "use shared\n---\nl\n2\n")
	writeFile(t, dir, "right.csvpp", "use shared\n---\nr\n3\n")
	main := writeFile(t, dir, "main.csvpp", "use left\nuse right\n---\nm\n4\n")

	l := NewLoader("test-version", nil, false)
	if _, err := l.Load(context.Background(), main); err != nil {
		t.Fatal(err)
	}
	if len(l.loaded) != 4 {
		t.Errorf("expected 4 distinct modules loaded, got %d", len(l.loaded))
	}
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.csvpp", "foo\n1\n")

	l := NewLoader("v1", nil, true)
	mod, err := l.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(mod.Path[:len(mod.Path)-len(filepath.Ext(mod.Path))] + ".csvpo"); err != nil {
		t.Fatalf("expected an object cache file to be written: %v", err)
	}

	l2 := NewLoader("v1", nil, true)
	mod2, err := l2.Load(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(mod2.Spreadsheet.Rows) != len(mod.Spreadsheet.Rows) {
		t.Errorf("cached module has a different row count")
	}
}

func TestCacheMissesOnCompilerVersionChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.csvpp", "foo\n1\n")

	l := NewLoader("v1", nil, true)
	if _, err := l.Load(context.Background(), path); err != nil {
		t.Fatal(err)
	}

	code, err := source.Open(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := Load(code, "v2"); ok {
		t.Error("expected a cache miss after the compiler version changed")
	}
}
