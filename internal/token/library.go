// Package token defines the shared token catalog used by both the AST lexer (code section)
// and, indirectly, the cell-options lexer. Each token kind is paired with an anchored regular
// expression; the catalog is built once and shared by immutable reference.
package token

import (
	"regexp"
	"sync"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	Boolean Kind = iota
	CloseParen
	CodeSectionEof
	Comma
	Comment
	DateTime
	DoubleQuotedString
	Float
	FunctionDefinition
	Integer
	Newline
	OpenParen
	Operator
	Reference
	UseModule
	VarAssign
	EOF
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "Boolean"
	case CloseParen:
		return "CloseParen"
	case CodeSectionEof:
		return "CodeSectionEof"
	case Comma:
		return "Comma"
	case Comment:
		return "Comment"
	case DateTime:
		return "DateTime"
	case DoubleQuotedString:
		return "DoubleQuotedString"
	case Float:
		return "Float"
	case FunctionDefinition:
		return "FunctionDefinition"
	case Integer:
		return "Integer"
	case Newline:
		return "Newline"
	case OpenParen:
		return "OpenParen"
	case Operator:
		return "Operator"
	case Reference:
		return "Reference"
	case UseModule:
		return "UseModule"
	case VarAssign:
		return "VarAssign"
	case EOF:
		return "Eof"
	default:
		return "Unknown"
	}
}

// Matcher pairs a token kind with the regex that recognizes it.
type Matcher struct {
	Kind  Kind
	Regex *regexp.Regexp
}

// Match is one token produced by a lexer: its kind, the exact matched (trimmed) text, and its
// 1-based line/column in the source it was lexed from.
type Match struct {
	Kind   Kind
	Text   string
	Line   int
	Column int
}

// leading allows horizontal whitespace (not newlines) before the real pattern, and anchors
// the match to the start of the remaining input.
func leading(pattern string) string {
	return `^[^\S\r\n]*(?:` + pattern + `)`
}

var library struct {
	once     sync.Once
	matchers []Matcher
}

// Library returns the process-wide ordered matcher list. Order matters: several patterns are
// subsets of others (e.g. a Float's integer prefix also matches Integer), so more specific or
// earlier-terminating matchers must be tried first.
func Library() []Matcher {
	library.once.Do(func() {
		library.matchers = []Matcher{
			{Newline, regexp.MustCompile(`^[^\S\r\n]*\r?\n`)},
			{Comment, regexp.MustCompile(leading(`#[^\r\n]*`))},
			{DoubleQuotedString, regexp.MustCompile(leading(`"(?:\\.|[^"\\])*"`))},
			{FunctionDefinition, regexp.MustCompile(leading(`fn\b`))},
			{UseModule, regexp.MustCompile(leading(`use\b`))},
			{VarAssign, regexp.MustCompile(leading(`:=`))},
			{Comma, regexp.MustCompile(leading(`,`))},
			{OpenParen, regexp.MustCompile(leading(`\(`))},
			{CloseParen, regexp.MustCompile(leading(`\)`))},
			{CodeSectionEof, regexp.MustCompile(leading(`---`))},
			{Operator, regexp.MustCompile(leading(`<=|>=|<>|[=<>&+\-*/^%]`))},
			{DateTime, regexp.MustCompile(leading(dateTimePattern))},
			{Float, regexp.MustCompile(leading(`[0-9]+\.[0-9]+`))},
			{Integer, regexp.MustCompile(leading(`[0-9]+`))},
			{Boolean, regexp.MustCompile(leading(`(?i:true|false)\b`))},
			{Reference, regexp.MustCompile(leading(`[$!\w:]+`))},
		}
	})
	return library.matchers
}

// dateTimePattern accepts date-only, time-only, or date+time, optionally followed by a
// bare timezone token (e.g. "UTC", "EST").
const dateTimePattern = `[0-9]{4}-[0-9]{2}-[0-9]{2}(?:[ T][0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?)?(?:\s+[A-Za-z]+)?|[0-9]{1,2}:[0-9]{2}(?::[0-9]{2})?(?:\s+[A-Za-z]+)?`
