// Package cerr defines the compiler's error taxonomy. Every user-visible error eventually
// becomes one of the types here so the CLI can render a consistent "summary, message,
// highlight" report regardless of which phase of compilation failed.
package cerr

import (
	"fmt"

	"csvpp/internal/source"
)

// BadInput is the simplest inner parse error: the parser expected something specific and got
// this instead.
type BadInput struct {
	Message  string
	BadInput string
}

func (e *BadInput) Error() string {
	return fmt.Sprintf("%s (got %q)", e.Message, e.BadInput)
}

// BadInputWithPossibilities is BadInput plus the closed set of values that would have been
// accepted, used by the cell-options parser when rejecting an option value.
type BadInputWithPossibilities struct {
	Message        string
	BadInput       string
	PossibleValues []string
}

func (e *BadInputWithPossibilities) Error() string {
	return fmt.Sprintf("%s (got %q, expected one of %v)", e.Message, e.BadInput, e.PossibleValues)
}

// RgbSyntaxError reports a malformed color value.
type RgbSyntaxError struct {
	BadInput string
}

func (e *RgbSyntaxError) Error() string {
	return fmt.Sprintf("invalid RGB color %q: expected #RGB or #RRGGBB", e.BadInput)
}

// CellSyntaxError wraps an inner parse error with the cell address and source line it
// occurred at, raised when a formula or option block fails to parse.
type CellSyntaxError struct {
	Line    int
	Address string
	Inner   error
	Code    *source.Code
}

func (e *CellSyntaxError) Error() string {
	return fmt.Sprintf("Syntax error in cell %s on line %d: %v", e.Address, e.Line, e.Inner)
}

func (e *CellSyntaxError) Unwrap() error { return e.Inner }

// Highlighted renders the full user-visible report: summary, message, then the source
// highlight window, when the underlying source is known.
func (e *CellSyntaxError) Highlighted() string {
	if e.Code == nil {
		return e.Error()
	}
	return e.Error() + "\n\n" + e.Code.Highlight(e.Line, 1)
}

// CodeSyntaxError is raised while parsing the scope (code section).
type CodeSyntaxError struct {
	Line             int
	Column           int
	Message          string
	HighlightedLines string
}

func (e *CodeSyntaxError) Error() string {
	return fmt.Sprintf("Syntax error on line %d, column %d: %s", e.Line, e.Column, e.Message)
}

func (e *CodeSyntaxError) Highlighted() string {
	if e.HighlightedLines == "" {
		return e.Error()
	}
	return e.Error() + "\n\n" + e.HighlightedLines
}

// ModifierSyntaxError is raised in the cell-options mini-language.
type ModifierSyntaxError struct {
	Line    int
	Address string
	Inner   error
	Code    *source.Code
}

func (e *ModifierSyntaxError) Error() string {
	return fmt.Sprintf("Syntax error in cell options for %s on line %d: %v", e.Address, e.Line, e.Inner)
}

func (e *ModifierSyntaxError) Unwrap() error { return e.Inner }

func (e *ModifierSyntaxError) Highlighted() string {
	if e.Code == nil {
		return e.Error()
	}
	return e.Error() + "\n\n" + e.Code.Highlight(e.Line, 1)
}

// EvalError is a resolution-time error: wrong arity, a missing column/row component, or
// exceeded recursion depth during function inlining.
type EvalError struct {
	Line    int
	Address string
	Message string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("Evaluation error in cell %s on line %d: %s", e.Address, e.Line, e.Message)
}

// ModuleLoadError reports cycles, unreadable files, or lock poisoning encountered by the
// module loader.
type ModuleLoadError struct {
	Message string
}

func (e *ModuleLoadError) Error() string { return e.Message }

// ObjectWriteError is a filesystem-level failure writing the .csvpo object cache.
type ObjectWriteError struct {
	Filename string
	Message  string
}

func (e *ObjectWriteError) Error() string {
	return fmt.Sprintf("failed to write object file %s: %s", e.Filename, e.Message)
}

// SourceCodeError is a filesystem-level failure reading a source file.
type SourceCodeError struct {
	Filename string
	Message  string
}

func (e *SourceCodeError) Error() string {
	return fmt.Sprintf("failed to read %s: %s", e.Filename, e.Message)
}

// TargetWriteError is a fatal failure in an output target writer.
type TargetWriteError struct {
	Output  string
	Message string
}

func (e *TargetWriteError) Error() string {
	return fmt.Sprintf("failed writing to %s: %s", e.Output, e.Message)
}

// InitError reports CLI or configuration mistakes detected before compilation starts.
type InitError struct {
	Message string
}

func (e *InitError) Error() string { return e.Message }
