package config

import (
	"os"
	"testing"
)

func TestLoadConfigWithDefaults(t *testing.T) {
	cfg, err := Load("nonexistent.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(cfg.Compiler.EncodingHints) == 0 {
		t.Error("expected at least one encoding hint")
	}
	if !cfg.Compiler.UseCache {
		t.Error("expected use_cache to default true")
	}
	if len(cfg.Compiler.ExcludeGlobs) == 0 {
		t.Error("expected at least one exclude glob")
	}
	if cfg.Output.Dir == "" {
		t.Error("expected Output.Dir to be set")
	}
	if len(cfg.Output.DefaultFormats) == 0 {
		t.Error("expected at least one default output format")
	}

	cfg.Print()
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/csvpp.yaml"
	contents := "compiler:\n  use_cache: false\n  encoding_hints: [\"utf-8\"]\noutput:\n  dir: /tmp/out\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Compiler.UseCache {
		t.Error("expected use_cache to be overridden to false")
	}
	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("Output.Dir = %q, want /tmp/out", cfg.Output.Dir)
	}
}
