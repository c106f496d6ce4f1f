package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/treedot/pkg/tree"
)

// Result is a rendered graph description with its statement counts.
type Result struct {
	DOT   string
	Nodes int
	Edges int
}

// frame is one node on the explicit traversal stack.
type frame struct {
	id       string
	children []any
	next     int // index of the next child entry to visit
}

// Render converts the tree rooted at root into a DOT digraph using the
// labeling policy v. Any node that does not have the expected shape aborts
// the render with a STRUCTURE_ERROR naming its path.
func Render(root any, v Variant) (*Result, error) {
	labeler, err := v.labeler()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	res := &Result{}
	seq := 0

	// visit declares one node and returns its stack frame. path is only
	// read while visit runs.
	visit := func(value any, path tree.Path) (*frame, error) {
		n, err := tree.AsNode(value, path)
		if err != nil {
			return nil, err
		}
		children, err := n.Children()
		if err != nil {
			return nil, err
		}
		label, err := labeler(n)
		if err != nil {
			return nil, err
		}
		id := fmt.Sprintf("n%d", seq)
		seq++
		fmt.Fprintf(&buf, "    %s [label=\"%s\"];\n", id, escapeLabel(label))
		res.Nodes++
		return &frame{id: id, children: children}, nil
	}

	buf.WriteString("digraph G {\n")

	// path mirrors the stack: len(path) == len(stack)-1.
	path := tree.Path{}
	top, err := visit(root, path)
	if err != nil {
		return nil, err
	}
	stack := []*frame{top}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		if f.next < len(f.children) {
			i := f.next
			f.next++
			if f.children[i] == nil {
				continue
			}
			path = append(path, i)
			child, err := visit(f.children[i], path)
			if err != nil {
				return nil, err
			}
			stack = append(stack, child)
			continue
		}

		stack = stack[:len(stack)-1]
		if len(stack) > 0 {
			path = path[:len(path)-1]
			fmt.Fprintf(&buf, "    %s -> %s;\n", stack[len(stack)-1].id, f.id)
			res.Edges++
		}
	}

	buf.WriteString("}\n")
	res.DOT = buf.String()
	return res, nil
}

// ToDOT is [Render] returning only the graph description.
func ToDOT(root any, v Variant) (string, error) {
	res, err := Render(root, v)
	if err != nil {
		return "", err
	}
	return res.DOT, nil
}
