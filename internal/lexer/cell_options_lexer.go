package lexer

import (
	"fmt"
	"strings"
)

// OptionsToken names one of the token classes the cell-options grammar can ask for. Unlike
// ASTLexer, this lexer does not tokenize ahead of time: the parser pulls exactly the kind of
// token it expects next, because which kind is legal depends on which option is currently
// being read (the "lexer hack").
type OptionsToken int

const (
	Color OptionsToken = iota
	EndModifier
	Equals
	ModifierName
	ModifierRightSide
	PositiveNumber
	String
	Slash
	StartCellModifier
	StartRowModifier
)

// SyntaxError reports a cell-options lexing failure with enough context for the caller to
// build a CellSyntaxError/ModifierSyntaxError around it.
type SyntaxError struct {
	Message  string
	BadInput string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %q", e.Message, e.BadInput)
}

// CellOptionsLexer is pull-based: each call consumes a prefix of the remaining input matching
// the requested token kind, or reports an error. It never looks ahead past what's asked for.
type CellOptionsLexer struct {
	input string
}

// NewCellOptionsLexer wraps the text following the cell value up to (and including) its
// trailing option blocks.
func NewCellOptionsLexer(input string) *CellOptionsLexer {
	return &CellOptionsLexer{input: input}
}

// Rest returns whatever remains unconsumed.
func (l *CellOptionsLexer) Rest() string { return l.input }

// MaybeTakeStartModifier consumes a leading "[[" or "![[" if present, reporting which kind
// it saw. It returns false if neither is present (the field carries no options).
func (l *CellOptionsLexer) MaybeTakeStartModifier() (OptionsToken, bool) {
	trimmed := strings.TrimSpace(l.input)
	switch {
	case strings.HasPrefix(trimmed, "![["):
		l.input = trimmed[len("!["):]
		l.input = strings.TrimPrefix(l.input, "[")
		return StartRowModifier, true
	case strings.HasPrefix(trimmed, "[["):
		l.input = trimmed[len("[["):]
		return StartCellModifier, true
	default:
		return 0, false
	}
}

// TakeModifierRightSide consumes "=" followed by the value text of an option.
func (l *CellOptionsLexer) TakeModifierRightSide() (string, error) {
	if _, err := l.TakeToken(Equals); err != nil {
		return "", err
	}
	return l.TakeToken(ModifierRightSide)
}

// MaybeTakeToken consumes token if present, returning ("", false) rather than an error when
// it isn't — used for the optional "/" separator and "=" in flag-style options.
func (l *CellOptionsLexer) MaybeTakeToken(tok OptionsToken) (string, bool) {
	switch tok {
	case Equals:
		return l.maybeTake("=")
	case Slash:
		return l.maybeTake("/")
	default:
		v, err := l.TakeToken(tok)
		if err != nil {
			return "", false
		}
		return v, true
	}
}

func (l *CellOptionsLexer) maybeTake(substr string) (string, bool) {
	trimmed := strings.TrimSpace(l.input)
	if strings.HasPrefix(trimmed, substr) {
		l.input = trimmed[len(substr):]
		return substr, true
	}
	return "", false
}

// TakeToken consumes exactly the requested token kind from the front of the remaining input,
// or returns a SyntaxError describing what was expected instead.
func (l *CellOptionsLexer) TakeToken(tok OptionsToken) (string, error) {
	switch tok {
	case Color:
		return l.takeColor()
	case EndModifier:
		return l.take("]]")
	case Equals:
		return l.take("=")
	case ModifierName:
		return l.takeWhile(isAlphaNumeric)
	case ModifierRightSide:
		return l.takeWhile(func(r rune) bool { return isAlphaNumeric(r) || r == '_' })
	case PositiveNumber:
		return l.takeWhile(isDigit)
	case String:
		return l.takeString()
	case Slash:
		return l.take("/")
	case StartCellModifier:
		return l.take("[[")
	case StartRowModifier:
		return l.take("![[")
	default:
		return "", &SyntaxError{Message: "unknown token kind", BadInput: l.input}
	}
}

func (l *CellOptionsLexer) take(substr string) (string, error) {
	trimmed := strings.TrimSpace(l.input)
	if !strings.HasPrefix(trimmed, substr) {
		return "", &SyntaxError{
			Message:  fmt.Sprintf("error parsing input, expected %q", substr),
			BadInput: trimmed,
		}
	}
	l.input = trimmed[len(substr):]
	return substr, nil
}

// takeColor parses an RGB color: optional "#" prefix, then 3 or 6 hex digits. A 3-digit
// shorthand doubles each nibble (e.g. "abc" -> "aabbcc") so callers always get a 6-digit form.
func (l *CellOptionsLexer) takeColor() (string, error) {
	trimmed := strings.TrimSpace(l.input)
	rest := strings.TrimPrefix(trimmed, "#")

	hexLen := 0
	for hexLen < len(rest) && isHexDigit(rune(rest[hexLen])) {
		hexLen++
	}

	var hex string
	switch hexLen {
	case 3:
		hex = rest[:3]
	case 6:
		hex = rest[:6]
	default:
		return "", &SyntaxError{
			Message:  "expected a 3 or 6 digit hex color (optionally prefixed with '#')",
			BadInput: trimmed,
		}
	}

	l.input = rest[hexLen:]

	if len(hex) == 3 {
		doubled := make([]byte, 0, 6)
		for _, c := range []byte(hex) {
			doubled = append(doubled, c, c)
		}
		hex = string(doubled)
	}

	return strings.ToUpper(hex), nil
}

func (l *CellOptionsLexer) takeString() (string, error) {
	trimmed := strings.TrimSpace(l.input)
	if strings.HasPrefix(trimmed, "'") {
		l.input = trimmed
		return l.takeSingleQuotedString()
	}
	return l.takeWhile(isBareValue)
}

// takeSingleQuotedString consumes '...' with backslash escapes for \' and \\.
func (l *CellOptionsLexer) takeSingleQuotedString() (string, error) {
	trimmed := strings.TrimSpace(l.input)
	if !strings.HasPrefix(trimmed, "'") {
		return "", &SyntaxError{Message: "expected a single-quoted string", BadInput: trimmed}
	}

	runes := []rune(trimmed)
	var b strings.Builder
	i := 1
	closed := false
	for i < len(runes) {
		switch runes[i] {
		case '\\':
			if i+1 < len(runes) {
				b.WriteRune(runes[i+1])
				i += 2
				continue
			}
			return "", &SyntaxError{Message: "unterminated escape in string", BadInput: trimmed}
		case '\'':
			closed = true
			i++
		default:
			b.WriteRune(runes[i])
			i++
		}
		if closed {
			break
		}
	}

	if !closed {
		return "", &SyntaxError{Message: "unterminated single-quoted string", BadInput: trimmed}
	}

	l.input = string(runes[i:])
	return b.String(), nil
}

func (l *CellOptionsLexer) takeWhile(pred func(rune) bool) (string, error) {
	trimmed := strings.TrimSpace(l.input)
	var matched []rune
	for _, r := range trimmed {
		if !pred(r) {
			break
		}
		matched = append(matched, r)
	}

	if len(matched) == 0 {
		return "", &SyntaxError{
			Message:  "expected a modifier definition (i.e. format/halign/etc)",
			BadInput: trimmed,
		}
	}

	l.input = trimmed[len(string(matched)):]
	return string(matched), nil
}

func isAlphaNumeric(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

// isBareValue admits the characters of an unquoted option value: words, numbers (signed,
// decimal), and dates.
func isBareValue(r rune) bool {
	return isAlphaNumeric(r) || r == '.' || r == '-' || r == '+' || r == ':'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
