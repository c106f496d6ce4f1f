// Package render turns a stored kd-tree into a Graphviz directed graph.
//
// # Overview
//
// [Render] walks the tree depth-first, pre-order, left to right. Every
// visited node gets the next identifier (n0, n1, ...) and a node statement;
// after a child's whole subtree has been emitted, the edge from the parent to
// that child follows. Absent children (None) produce neither a node nor an
// edge:
//
//	digraph G {
//	    n0 [label="5"];
//	    n1 [label="3"];
//	    n0 -> n1;
//	    n2 [label="8"];
//	    n0 -> n2;
//	}
//
// The identifier counter belongs to a single call, so rendering the same
// tree twice yields byte-identical output. The walk uses an explicit stack,
// so deep trees cost heap memory rather than call-stack depth.
//
// # Variants
//
// Two labeling policies are available:
//
//   - [Plain]: the node's value (index 1); numbers as decimal integers,
//     strings verbatim
//   - [Abbreviated]: the initials of the descriptive text (index 3) above
//     the integer value, or the integer alone when there are no initials
//
// Labels are escaped, so quotes or backslashes in the input cannot break
// the DOT syntax.
//
// # Output
//
// Render buffers the whole description; nothing is written when the tree is
// malformed. [WriteFile] replaces the destination atomically. [RenderSVG] and
// [RenderPNG] lay the description out in-process with
// [github.com/goccy/go-graphviz].
package render
