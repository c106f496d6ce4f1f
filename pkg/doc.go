// Package pkg provides the libraries behind the treedot command.
//
// # Overview
//
// treedot turns a kd-tree that was dumped as literal nested sequences into a
// Graphviz graph. The pkg directory is organized by stage:
//
//  1. [stored] - Marker stripping, a data-only literal parser and formatting
//  2. [tree] - Shape-checked access to tree nodes and subtree paths
//  3. [render] - DOT generation, Graphviz layout and atomic file output
//  4. [cache] - Reuse of SVG and PNG layouts between runs
//  5. [mesh] - Binary STL reading and bounding boxes
//
// # Architecture
//
//	stored file
//	     ↓
//	[stored] Load (strip marker, parse)
//	     ↓
//	[tree] Descend (optional subtree)
//	     ↓
//	[render] Render (DOT text, pre-order ids)
//	     ↓
//	[render] Encode (SVG/PNG via Graphviz, cached by [cache])
//	     ↓
//	[render] WriteFile
//
// # Quick Start
//
//	root, err := stored.Load("stored", stored.DefaultMarker)
//	if err != nil {
//	    return err
//	}
//	res, err := render.Render(root, render.Abbreviated)
//	if err != nil {
//	    return err
//	}
//	return render.WriteFile("graph.dot", []byte(res.DOT))
//
// Every error returned by these packages is a [errors.Error] carrying a
// machine-readable code such as STRUCTURE_ERROR.
package pkg
