package render

import (
	"bytes"
	"context"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/treedot/pkg/errors"
)

// Format is an output format for a rendered tree.
type Format string

const (
	FormatDOT Format = "dot" // graph description text, written as-is
	FormatSVG Format = "svg" // laid out by Graphviz
	FormatPNG Format = "png" // laid out by Graphviz
)

// ParseFormat converts a flag or config value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDOT, "gv":
		return FormatDOT, nil
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %s (must be 'dot', 'svg', or 'png')", s)
}

// Encode produces the bytes of dot in format f. DOT is returned unchanged;
// SVG and PNG go through Graphviz.
func Encode(ctx context.Context, dot string, f Format) ([]byte, error) {
	switch f {
	case FormatDOT, "":
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(ctx, dot)
	case FormatPNG:
		return RenderPNG(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", string(f))
}

// RenderSVG lays out a DOT graph and returns the SVG document.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return layout(ctx, dot, graphviz.SVG)
}

// RenderPNG lays out a DOT graph and returns the PNG image.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return layout(ctx, dot, graphviz.PNG)
}

func layout(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
	}
	if buf.Len() == 0 {
		return nil, errors.New(errors.ErrCodeInternal, "render %s: graphviz produced no output", format)
	}
	return buf.Bytes(), nil
}
