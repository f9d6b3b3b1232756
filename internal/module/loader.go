package module

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"csvpp/internal/cerr"
	"csvpp/internal/parser"
	"csvpp/internal/sheet"
	"csvpp/internal/source"
)

// Loader resolves a source file's `use` dependency graph concurrently: one goroutine per
// direct dependency, joined before the parent module is considered loaded. It's shared across
// a whole build, so a module path that has already finished loading (or failed) is reused
// rather than parsed again. Loads of one path that overlap in time are not deduplicated: two
// branches that reach a shared dependency concurrently each parse it.
type Loader struct {
	mu        sync.Mutex
	attempted map[string]bool
	loaded    map[string]*Module
	failed    map[string]error

	compilerVersion string
	encodingHints   []string
	useCache        bool
}

// NewLoader builds a Loader that tags every module it produces with compilerVersion (so a
// stale cache entry from a different compiler build is never trusted) and decodes source
// files with encodingHints when they aren't valid UTF-8.
func NewLoader(compilerVersion string, encodingHints []string, useCache bool) *Loader {
	return &Loader{
		attempted:       map[string]bool{},
		loaded:          map[string]*Module{},
		failed:          map[string]error{},
		compilerVersion: compilerVersion,
		encodingHints:   encodingHints,
		useCache:        useCache,
	}
}

// Load resolves path (and everything it transitively `use`s) and returns its Module.
func (l *Loader) Load(ctx context.Context, path string) (*Module, error) {
	return l.load(ctx, path, nil)
}

// Get returns an already-loaded module by its resolved path. Only meaningful after a Load
// call has returned; used by the compiler to look up a module's direct dependencies by path
// when merging scopes.
func (l *Loader) Get(path string) (*Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.loaded[path]
	return m, ok
}

// ResolvePath resolves a `use`d module path relative to the directory of the module that
// named it, appending the default ".csvpp" extension when the path doesn't already carry one.
func ResolvePath(fromPath, path string) string {
	dir := filepath.Dir(fromPath)
	resolved := filepath.Join(dir, filepath.FromSlash(path))
	if filepath.Ext(resolved) == "" {
		resolved += ".csvpp"
	}
	return resolved
}

func (l *Loader) load(ctx context.Context, path string, chain []string) (*Module, error) {
	for _, p := range chain {
		if p == path {
			return nil, &cerr.ModuleLoadError{
				Message: "cycle: " + strings.Join(append(append([]string{}, chain...), path), " → "),
			}
		}
	}

	l.mu.Lock()
	if m, ok := l.loaded[path]; ok {
		l.mu.Unlock()
		return m, nil
	}
	if err, ok := l.failed[path]; ok {
		l.mu.Unlock()
		return nil, err
	}
	l.attempted[path] = true
	l.mu.Unlock()

	mod, err := l.loadOne(ctx, path, chain)
	l.mu.Lock()
	if err != nil {
		l.failed[path] = err
	} else {
		l.loaded[path] = mod
	}
	l.mu.Unlock()

	return mod, err
}

func (l *Loader) loadOne(ctx context.Context, path string, chain []string) (*Module, error) {
	code, err := source.Open(path, l.encodingHints)
	if err != nil {
		return nil, &cerr.SourceCodeError{Filename: path, Message: err.Error()}
	}

	if l.useCache {
		if cached, ok := Load(code, l.compilerVersion); ok {
			return cached, nil
		}
	}

	scope, err := parser.ParseScope(code.Scope)
	if err != nil {
		return nil, err
	}
	spreadsheet, err := sheet.ParseSpreadsheet(code)
	if err != nil {
		return nil, err
	}

	mod := &Module{CompilerVersion: l.compilerVersion, Path: path, Scope: scope, Spreadsheet: spreadsheet}

	childChain := append(append([]string{}, chain...), path)
	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range scope.Uses {
		depPath := ResolvePath(path, dep)
		g.Go(func() error {
			_, err := l.load(gctx, depPath, childChain)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if l.useCache {
		// A failure to write the cache shouldn't fail a compile that otherwise succeeded; the
		// next run just recompiles this module from source again.
		_ = Save(code, l.compilerVersion, mod)
	}

	return mod, nil
}
