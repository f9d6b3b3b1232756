// Package module holds a compiled csv++ source's public surface (its scope and spreadsheet),
// the object-file cache that lets repeat compiles skip re-parsing, and the concurrent loader
// that resolves a source's `use` dependency graph.
package module

import (
	"csvpp/internal/parser"
	"csvpp/internal/sheet"
)

// Scope is the parsed code section of a source file. It's the same type the parser builds
// directly, re-exported here under the module package's name since that's where callers
// compiling a dependency graph think of it.
type Scope = parser.Scope

// Module is one fully parsed (not yet evaluated) csv++ source: its code-section scope and its
// template spreadsheet, tagged with the compiler version that produced it so a stale object
// cache entry from an older compiler is never trusted.
type Module struct {
	CompilerVersion string
	Path            string
	Scope           *Scope
	Spreadsheet     *sheet.Spreadsheet
}
