// Package tree gives fixed-shape access to kd-tree nodes decoded by
// [github.com/matzehuels/treedot/pkg/stored].
//
// A node is a sequence of at least three entries. Index 1 holds the node's
// value (a number or a string), index 3 optionally holds a descriptive text
// and the last index holds the child sequence, in which None marks an absent
// child:
//
//	[kind, value, ..., text?, ..., [child, None, child]]
//
// Every accessor reports shape mismatches as STRUCTURE_ERROR with the
// traversal [Path] of the offending node.
package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/treedot/pkg/errors"
	"github.com/matzehuels/treedot/pkg/stored"
)

const (
	valueIndex = 1 // label value
	textIndex  = 3 // descriptive text, when present
	minLength  = 3 // index 1 plus a distinct child index
)

// summaryLen bounds how much of an offending value is quoted in errors.
const summaryLen = 60

// Path locates a node by the child indices taken from the root.
type Path []int

// Child returns a new path extended by index i. The receiver is not modified.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// String renders the path as root[3][0].
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("root")
	for _, i := range p {
		fmt.Fprintf(&b, "[%d]", i)
	}
	return b.String()
}

// ParsePath parses a comma-separated list of child indices such as "0,2,1".
// The empty string is the root path.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, ",")
	out := make(Path, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return nil, errors.New(errors.ErrCodeInvalidPath, "invalid child index %q in %q", part, s)
		}
		out[i] = n
	}
	return out, nil
}

// Node is a validated view of one tree node.
type Node struct {
	raw  []any
	path Path
}

// AsNode checks that v has the node shape and wraps it.
func AsNode(v any, path Path) (Node, error) {
	raw, ok := v.([]any)
	if !ok {
		return Node{}, structureError(path, v, "expected node sequence, got %s", kindOf(v))
	}
	if len(raw) < minLength {
		return Node{}, structureError(path, v, "node has %d entries, need at least %d", len(raw), minLength)
	}
	return Node{raw: raw, path: path}, nil
}

// Path returns the location of the node.
func (n Node) Path() Path { return n.path }

// Value returns the raw label value at index 1.
func (n Node) Value() any { return n.raw[valueIndex] }

// Children returns the child sequence stored at the last index. Entries may
// be nil.
func (n Node) Children() ([]any, error) {
	last := n.raw[len(n.raw)-1]
	children, ok := last.([]any)
	if !ok {
		return nil, structureError(n.path, n.raw, "expected child sequence at index %d, got %s", len(n.raw)-1, kindOf(last))
	}
	return children, nil
}

// Text returns the descriptive text at index 3. The boolean is false when the
// node has no such field (too short, or index 3 is the child sequence) or the
// field is None.
func (n Node) Text() (string, bool, error) {
	if textIndex >= len(n.raw)-1 {
		return "", false, nil
	}
	switch v := n.raw[textIndex].(type) {
	case nil:
		return "", false, nil
	case string:
		return v, true, nil
	default:
		return "", false, structureError(n.path, n.raw, "expected text at index %d, got %s", textIndex, kindOf(v))
	}
}

// Int returns the value at index 1 as an integer. Floats are truncated
// toward zero; any other type is a structure error.
func (n Node) Int() (int64, error) {
	switch v := n.Value().(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 || v < math.MinInt64 {
			return 0, structureError(n.path, n.raw, "value %v at index %d is not representable as an integer", v, valueIndex)
		}
		return int64(v), nil
	default:
		return 0, structureError(n.path, n.raw, "expected number at index %d, got %s", valueIndex, kindOf(v))
	}
}

// Descend follows path from root and returns the value found there. Every
// node on the way must have the node shape, and the target must exist and
// not be None.
func Descend(root any, path Path) (any, error) {
	cur := root
	for depth, i := range path {
		at := path[:depth]
		n, err := AsNode(cur, at)
		if err != nil {
			return nil, err
		}
		children, err := n.Children()
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(children) {
			return nil, errors.New(errors.ErrCodeStructure, "%s: child index %d out of range (node has %d children)", at, i, len(children))
		}
		if children[i] == nil {
			return nil, errors.New(errors.ErrCodeStructure, "%s: child %d is absent", at, i)
		}
		cur = children[i]
	}
	return cur, nil
}

func structureError(path Path, v any, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return errors.New(errors.ErrCodeStructure, "%s: %s (value: %s)", path, msg, stored.Summary(v, summaryLen))
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "None"
	case bool:
		return "bool"
	case int64, int:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "sequence"
	}
	return fmt.Sprintf("%T", v)
}
