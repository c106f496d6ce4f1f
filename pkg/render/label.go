package render

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/treedot/pkg/errors"
	"github.com/matzehuels/treedot/pkg/tree"
)

// Variant selects how node labels are derived.
type Variant string

const (
	// Plain labels a node with its value.
	Plain Variant = "plain"
	// Abbreviated labels a node with the initials of its text above its
	// integer value.
	Abbreviated Variant = "abbreviated"
)

// Variants lists the supported labeling policies.
var Variants = []Variant{Plain, Abbreviated}

// ParseVariant converts a flag or config value into a Variant. "abbrev" is
// accepted as shorthand.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(Plain):
		return Plain, nil
	case string(Abbreviated), "abbrev":
		return Abbreviated, nil
	}
	return "", errors.New(errors.ErrCodeInvalidVariant, "invalid variant: %s (must be 'plain' or 'abbreviated')", s)
}

type labelFunc func(tree.Node) (string, error)

func (v Variant) labeler() (labelFunc, error) {
	switch v {
	case Plain, "":
		return plainLabel, nil
	case Abbreviated:
		return abbreviatedLabel, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidVariant, "unknown variant %q", string(v))
}

func plainLabel(n tree.Node) (string, error) {
	if s, ok := n.Value().(string); ok {
		return s, nil
	}
	i, err := n.Int()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(i, 10), nil
}

func abbreviatedLabel(n tree.Node) (string, error) {
	i, err := n.Int()
	if err != nil {
		return "", err
	}
	num := strconv.FormatInt(i, 10)

	text, _, err := n.Text()
	if err != nil {
		return "", err
	}
	abbrev := Initials(text)
	if abbrev == "" {
		return num, nil
	}
	return abbrev + "\n" + num, nil
}

// Initials returns the first character of every whitespace-separated word
// in s: "Move Left Arm" becomes "MLA".
func Initials(s string) string {
	var b strings.Builder
	for _, word := range strings.Fields(s) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(r)
	}
	return b.String()
}

// escapeLabel makes s safe inside a double-quoted DOT string. Newlines become
// the \n line-break escape.
func escapeLabel(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
