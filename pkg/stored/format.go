package stored

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Format renders v in the same literal syntax that [Parse] accepts, on a
// single line. Values that are not produced by Parse are rendered with %v.
func Format(v any) string {
	var b strings.Builder
	writeValue(&b, v)
	return b.String()
}

// Summary is [Format] truncated to at most n runes, for error messages.
func Summary(v any, n int) string {
	s := Format(v)
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// Indent renders v across multiple lines, one sequence element per line,
// keeping sequences that fit in the line width on a single line.
func Indent(v any) string {
	var b strings.Builder
	writeIndented(&b, v, 0)
	return b.String()
}

const lineWidth = 79

func writeIndented(b *strings.Builder, v any, level int) {
	items, ok := v.([]any)
	flat := Format(v)
	if !ok || len(items) == 0 || level+len(flat) <= lineWidth {
		b.WriteString(flat)
		return
	}

	pad := strings.Repeat(" ", level+1)
	b.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			b.WriteString(",\n")
			b.WriteString(pad)
		}
		writeIndented(b, item, level+1)
	}
	b.WriteByte(']')
}

func writeValue(b *strings.Builder, v any) {
	switch x := v.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if x {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case int64:
		b.WriteString(strconv.FormatInt(x, 10))
	case int:
		b.WriteString(strconv.Itoa(x))
	case float64:
		b.WriteString(formatFloat(x))
	case string:
		b.WriteString(quote(x))
	case []any:
		b.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, item)
		}
		b.WriteByte(']')
	default:
		fmt.Fprintf(b, "%v", x)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// quote produces a single-quoted literal, switching to double quotes when
// the text contains a single quote but no double quote.
func quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}

	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch {
		case r == rune(q) || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r < 0x100 && !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\x%02x`, r)
		case !unicode.IsPrint(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
