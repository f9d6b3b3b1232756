// Package source holds the raw text of a csv++ source file, split into its optional code
// section and its CSV body, and knows how to render a highlighted excerpt around a given
// line/column for error messages.
package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
)

// Separator is the line that divides the code section from the CSV body.
const Separator = "---"

// Code holds a file's raw text, already split at the first bare "---" line.
type Code struct {
	Filename   string
	Raw        string
	Scope      string // empty if there was no separator
	HasScope   bool
	CSV        string
	ScopeLines int
	CSVLines   int
}

// Open reads filename from disk (trying the encodings in encodingHints in order whenever the
// bytes are not valid UTF-8) and splits it into code/CSV sections.
func Open(filename string, encodingHints []string) (*Code, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", filename, err)
	}
	text, err := decode(raw, encodingHints)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filename, err)
	}
	return New(text, filename), nil
}

// decode returns the input unchanged if it's already valid UTF-8, otherwise walks
// encodingHints trying each known decoder until one produces valid UTF-8.
func decode(raw []byte, encodingHints []string) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	for _, hint := range encodingHints {
		dec := decoderFor(hint)
		if dec == nil {
			continue
		}
		out, err := dec.Bytes(raw)
		if err == nil && utf8.Valid(out) {
			return string(out), nil
		}
	}
	return "", fmt.Errorf("could not decode file as UTF-8 or any of %v", encodingHints)
}

func decoderFor(hint string) interface{ Bytes([]byte) ([]byte, error) } {
	switch strings.ToLower(hint) {
	case "euc-kr", "euckr":
		return korean.EUCKR.NewDecoder()
	case "ms949", "cp949":
		return korean.EUCKR.NewDecoder()
	case "euc-jp", "eucjp":
		return japanese.EUCJP.NewDecoder()
	case "shift-jis", "shiftjis", "sjis":
		return japanese.ShiftJIS.NewDecoder()
	case "latin1", "iso-8859-1", "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder()
	default:
		return nil
	}
}

// New splits text at the first line whose trimmed content is exactly "---". Lines above that
// separator (not including it) form the scope; everything below forms the CSV body. If no
// such line exists, the scope is absent and the whole input is CSV.
func New(text, filename string) *Code {
	lines := strings.Split(text, "\n")

	sepIdx := -1
	for i, l := range lines {
		if strings.TrimSpace(l) == Separator {
			sepIdx = i
			break
		}
	}

	c := &Code{Filename: filename, Raw: text}
	if sepIdx == -1 {
		c.CSV = text
		c.CSVLines = len(lines)
		return c
	}

	c.HasScope = true
	c.Scope = strings.Join(lines[:sepIdx], "\n")
	c.ScopeLines = sepIdx
	c.CSV = strings.Join(lines[sepIdx+1:], "\n")
	c.CSVLines = len(lines) - sepIdx - 1
	return c
}

// ObjectFilename returns the path of the cached object file for this source (".csvpo" next
// to the source file).
func (c *Code) ObjectFilename() string {
	ext := filepath.Ext(c.Filename)
	return strings.TrimSuffix(c.Filename, ext) + ".csvpo"
}

// CSVLineNumber maps a 0-based row within the CSV section to a 1-based line number in the
// original file (accounting for the scope and the separator line).
func (c *Code) CSVLineNumber(csvLocalRow int) int {
	offset := 0
	if c.HasScope {
		offset = c.ScopeLines + 1
	}
	return offset + csvLocalRow + 1
}

// Highlight renders up to 3 lines of context before and after the given 1-based line number,
// each prefixed with a right-aligned line number, with a "^" pointer line inserted
// immediately below the target line pointing at column (1-based). Out-of-range requests
// return an empty string.
func (c *Code) Highlight(line, column int) string {
	lines := strings.Split(c.Raw, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 1 {
		start = 1
	}
	end := line + 3
	if end > len(lines) {
		end = len(lines)
	}

	width := len(strconv.Itoa(end))

	var b bytes.Buffer
	for n := start; n <= end; n++ {
		fmt.Fprintf(&b, "%*d| %s\n", width, n, lines[n-1])
		if n == line {
			pointer := strings.Repeat("-", max(column-1, 0)) + "^"
			fmt.Fprintf(&b, "%*s| %s\n", width, "", pointer)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
