package stored

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/treedot/pkg/errors"
)

// MaxDepth bounds sequence nesting so adversarial input fails with an error
// instead of exhausting the stack.
const MaxDepth = 10000

// Parse decodes a single literal value from text. Leading and trailing
// whitespace is ignored; anything else after the value is an error.
func Parse(text string) (any, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("empty input")
	}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

type parser struct {
	src   string
	pos   int
	depth int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			p.pos++
		default:
			return
		}
	}
}

// errorf reports a deserialization error at the current position.
func (p *parser) errorf(format string, args ...any) error {
	return p.errorAt(p.pos, format, args...)
}

func (p *parser) errorAt(pos int, format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < pos && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	msg := fmt.Sprintf(format, args...)
	return errors.New(errors.ErrCodeDeserialization, "line %d, column %d: %s", line, col, msg)
}

func (p *parser) value() (any, error) {
	c := p.peek()
	switch {
	case c == '[':
		return p.sequence('[', ']')
	case c == '(':
		return p.sequence('(', ')')
	case c == '\'' || c == '"':
		return p.str(false)
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.number()
	case isIdentStart(c):
		return p.ident()
	case c == 0 && p.eof():
		return nil, p.errorf("unexpected end of input")
	}
	return nil, p.errorf("unexpected character %q", c)
}

func (p *parser) sequence(open, close byte) (any, error) {
	start := p.pos
	p.pos++ // open
	p.depth++
	if p.depth > MaxDepth {
		return nil, p.errorAt(start, "nesting deeper than %d", MaxDepth)
	}
	defer func() { p.depth-- }()

	items := []any{}
	sawComma := false
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorAt(start, "unterminated sequence")
		}
		if p.peek() == close {
			p.pos++
			break
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
			sawComma = true
		case close:
		default:
			if p.eof() {
				return nil, p.errorAt(start, "unterminated sequence")
			}
			return nil, p.errorf("expected ',' or %q, got %q", close, p.peek())
		}
	}

	// (x) is a parenthesized value, (x,) a one-element tuple.
	if open == '(' && len(items) == 1 && !sawComma {
		return items[0], nil
	}
	return items, nil
}

func (p *parser) number() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	digits := 0
	isFloat := false
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
		digits++
	}
	if p.peek() == '.' {
		isFloat = true
		p.pos++
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		return nil, p.errorAt(start, "malformed number")
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		isFloat = true
		p.pos++
		if c := p.peek(); c == '-' || c == '+' {
			p.pos++
		}
		exp := 0
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
			exp++
		}
		if exp == 0 {
			return nil, p.errorAt(start, "malformed exponent")
		}
	}
	lit := p.src[start:p.pos]

	if isFloat {
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			return nil, p.errorAt(start, "invalid float %q", lit)
		}
		return f, nil
	}

	// Legacy long integers carry an L suffix.
	if c := p.peek(); c == 'L' || c == 'l' {
		p.pos++
	}
	n, err := strconv.ParseInt(lit, 10, 64)
	if err != nil {
		return nil, p.errorAt(start, "integer out of range %q", lit)
	}
	return n, nil
}

func (p *parser) ident() (any, error) {
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.pos++
	}
	word := p.src[start:p.pos]

	// String prefixes: u'', b'', r'' and combinations such as ur''.
	if q := p.peek(); (q == '\'' || q == '"') && len(word) <= 2 && strings.Trim(strings.ToLower(word), "ubr") == "" {
		return p.str(strings.ContainsAny(word, "rR"))
	}

	switch word {
	case "None":
		return nil, nil
	case "True":
		return true, nil
	case "False":
		return false, nil
	}
	return nil, p.errorAt(start, "unknown identifier %q", word)
}

func (p *parser) str(raw bool) (any, error) {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for {
		if p.eof() {
			return nil, p.errorAt(start, "unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n':
			return nil, p.errorAt(start, "unterminated string")
		case c == '\\':
			if err := p.escape(&b, raw); err != nil {
				return nil, err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

// escape decodes one backslash sequence starting at p.pos. Unknown escapes
// are kept verbatim, backslash included.
func (p *parser) escape(b *strings.Builder, raw bool) error {
	start := p.pos
	p.pos++ // backslash
	if p.eof() {
		return p.errorAt(start, "unterminated string")
	}
	c := p.src[p.pos]
	p.pos++

	if raw {
		b.WriteByte('\\')
		b.WriteByte(c)
		return nil
	}

	switch c {
	case '\\', '\'', '"':
		b.WriteByte(c)
	case '\n':
		// line continuation
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'a':
		b.WriteByte('\a')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0', '1', '2', '3', '4', '5', '6', '7':
		n := int(c - '0')
		for i := 0; i < 2 && !p.eof() && p.peek() >= '0' && p.peek() <= '7'; i++ {
			n = n*8 + int(p.peek()-'0')
			p.pos++
		}
		b.WriteRune(rune(n))
	case 'x':
		r, err := p.hex(start, 2)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'u':
		r, err := p.hex(start, 4)
		if err != nil {
			return err
		}
		b.WriteRune(r)
	case 'U':
		r, err := p.hex(start, 8)
		if err != nil {
			return err
		}
		if !utf8.ValidRune(r) {
			return p.errorAt(start, "invalid code point in escape")
		}
		b.WriteRune(r)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) hex(start, n int) (rune, error) {
	if p.pos+n > len(p.src) {
		return 0, p.errorAt(start, "truncated escape")
	}
	v, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return 0, p.errorAt(start, "invalid escape %q", p.src[start:p.pos+n])
	}
	p.pos += n
	return rune(v), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
