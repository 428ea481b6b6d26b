package script

import (
	"regexp"
	"strings"
)

// Span locates a block by line index. Start is the header line holding the
// opening brace and End the line holding the matching closing brace.
type Span struct {
	Start int
	End   int
}

// Body returns the line range strictly between the braces.
func (s Span) Body() (from, to int) {
	return s.Start + 1, s.End
}

// FindBlock locates a nested block path in text, e.g.
// FindBlock(text, "buildFeatures", "features"). The first marker must open a
// top-level block; each further marker is searched anywhere inside the
// previous block. A header is a line of the form `marker {` whose brace is
// still open at the end of the line, so single-line blocks never match.
//
// Brace counting skips quoted strings and // comments but is otherwise naive:
// braces in block comments or string interpolation can break a match.
func FindBlock(text string, markers ...string) (Span, bool) {
	return findBlock(splitLines(text), markers...)
}

func findBlock(lines []string, markers ...string) (Span, bool) {
	if len(markers) == 0 {
		return Span{}, false
	}
	span, ok := findHeader(lines, 0, len(lines), markers[0], true)
	if !ok {
		return Span{}, false
	}
	for _, m := range markers[1:] {
		from, to := span.Body()
		span, ok = findHeader(lines, from, to, m, false)
		if !ok {
			return Span{}, false
		}
	}
	return span, true
}

// findHeader scans lines[from:to] for the first block opened by marker.
func findHeader(lines []string, from, to int, marker string, topLevel bool) (Span, bool) {
	header := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(marker) + `\s*\{`)
	depth := 0
	for i := from; i < to; i++ {
		line := lines[i]
		if (!topLevel || depth == 0) && header.MatchString(line) {
			if end, ok := closingLine(lines, i, to); ok {
				return Span{Start: i, End: end}, true
			}
		}
		depth += braceDelta(line)
	}
	return Span{}, false
}

// closingLine returns the line where the block opened on line start closes.
// It fails when the block closes on its own header line or never closes
// before limit.
func closingLine(lines []string, start, limit int) (int, bool) {
	depth := braceDelta(lines[start])
	if depth <= 0 {
		return 0, false
	}
	for i := start + 1; i < limit; i++ {
		depth += braceDelta(lines[i])
		if depth <= 0 {
			return i, true
		}
	}
	return 0, false
}

// braceDelta counts '{' minus '}' outside quotes and line comments.
func braceDelta(line string) int {
	delta := 0
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return delta
		case c == '{':
			delta++
		case c == '}':
			delta--
		}
	}
	return delta
}

func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// indentOf returns the leading whitespace of line.
func indentOf(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}
