// Package stored reads the "stored" tree dumps produced by the kd-tree
// builder.
//
// # Format
//
// A stored file is the textual dump of a nested value: sequences written as
// [...] or (...), decimal integers (a trailing L is accepted), floats, quoted
// strings, and the literals None, True and False. Substrings that had to
// survive the dump are wrapped in an escaping marker (":::" by default),
// which is stripped before parsing:
//
//	[0, 12, None, :::'split x':::, [[1, 3, None, 'leaf', []], None]]
//
// # Parsing
//
// The text is parsed as data by a small recursive-descent parser and is never
// evaluated. Parsed values use plain Go types:
//
//   - None   -> nil
//   - True   -> true (bool)
//   - 12, 7L -> int64
//   - 1.5    -> float64
//   - 'abc'  -> string
//   - [...]  -> []any (tuples too)
//
// Anything outside this grammar is reported as a DESERIALIZATION_ERROR from
// [github.com/matzehuels/treedot/pkg/errors] with the line and column of the
// offending input.
//
// # Usage
//
//	v, err := stored.Load("stored", stored.DefaultMarker)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(stored.Indent(v))
package stored
