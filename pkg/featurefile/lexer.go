package featurefile

import (
	"fmt"
	"strings"
	"unicode"
)

// arg is one argument of a DSL call: a positional quoted string or bare
// word, or a named `key: 'value'` pair.
type arg struct {
	Key   string
	Value string
}

// call is one DSL statement on a single line, e.g.
//
//	implementation('g:n:1.0', 'nVersion') {
//	exclude group: 'g', name: 'n'
//	}
type call struct {
	Name  string
	Args  []arg
	Open  bool // line ends with '{'
	Close bool // line is a lone '}'
}

// positional returns the positional arguments.
func (c call) positional() []string {
	var out []string
	for _, a := range c.Args {
		if a.Key == "" {
			out = append(out, a.Value)
		}
	}
	return out
}

// named returns the value of the named argument key.
func (c call) named(key string) (string, bool) {
	for _, a := range c.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// lexLine splits a statement line into a call. Comments starting with //
// outside quotes are dropped. ok is false for blank lines.
func lexLine(line string) (c call, ok bool, err error) {
	s := &scanner{src: line}
	s.skipSpace()
	if s.done() || s.peekComment() {
		return call{}, false, nil
	}
	if s.peek() == '}' {
		s.pos++
		s.skipSpace()
		if !s.done() && !s.peekComment() {
			return call{}, false, fmt.Errorf("unexpected %q after '}'", s.rest())
		}
		return call{Close: true}, true, nil
	}

	c.Name = s.ident()
	if c.Name == "" {
		return call{}, false, fmt.Errorf("expected statement, got %q", s.rest())
	}
	s.skipSpace()
	paren := false
	if s.peek() == '(' {
		paren = true
		s.pos++
	}
	for {
		s.skipSpace()
		if s.done() || s.peek() == ')' || s.peek() == '{' || s.peekComment() {
			break
		}
		a, err := s.arg()
		if err != nil {
			return call{}, false, err
		}
		c.Args = append(c.Args, a)
		s.skipSpace()
		if s.peek() == ',' {
			s.pos++
			continue
		}
		break
	}
	if paren {
		if s.peek() != ')' {
			return call{}, false, fmt.Errorf("missing ')' in %q", line)
		}
		s.pos++
		s.skipSpace()
	}
	if s.peek() == '{' {
		c.Open = true
		s.pos++
		s.skipSpace()
	}
	if !s.done() && !s.peekComment() {
		return call{}, false, fmt.Errorf("unexpected %q", s.rest())
	}
	return c, true, nil
}

type scanner struct {
	src string
	pos int
}

func (s *scanner) done() bool   { return s.pos >= len(s.src) }
func (s *scanner) rest() string { return s.src[s.pos:] }

func (s *scanner) peek() byte {
	if s.done() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekComment() bool {
	return strings.HasPrefix(s.rest(), "//")
}

func (s *scanner) skipSpace() {
	for !s.done() && (s.src[s.pos] == ' ' || s.src[s.pos] == '\t' || s.src[s.pos] == '\r') {
		s.pos++
	}
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.done() {
		r := rune(s.src[s.pos])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '.' && r != '-' {
			break
		}
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *scanner) quoted() (string, error) {
	q := s.peek()
	s.pos++
	var b strings.Builder
	for !s.done() {
		c := s.src[s.pos]
		s.pos++
		switch {
		case c == '\\' && !s.done():
			b.WriteByte(s.src[s.pos])
			s.pos++
		case c == q:
			return b.String(), nil
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("unterminated string in %q", s.src)
}

func (s *scanner) arg() (arg, error) {
	if c := s.peek(); c == '\'' || c == '"' {
		v, err := s.quoted()
		return arg{Value: v}, err
	}
	word := s.ident()
	if word == "" {
		return arg{}, fmt.Errorf("unexpected %q", s.rest())
	}
	s.skipSpace()
	if s.peek() != ':' {
		return arg{Value: word}, nil
	}
	s.pos++
	s.skipSpace()
	if c := s.peek(); c == '\'' || c == '"' {
		v, err := s.quoted()
		return arg{Key: word, Value: v}, err
	}
	v := s.ident()
	if v == "" {
		return arg{}, fmt.Errorf("missing value for %s", word)
	}
	return arg{Key: word, Value: v}, nil
}

// quote renders v as a single-quoted DSL string.
func quote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return "'" + strings.ReplaceAll(v, "'", `\'`) + "'"
}
