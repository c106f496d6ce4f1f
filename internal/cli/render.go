package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treedot/pkg/cache"
	"github.com/matzehuels/treedot/pkg/errors"
	"github.com/matzehuels/treedot/pkg/observability"
	"github.com/matzehuels/treedot/pkg/render"
	"github.com/matzehuels/treedot/pkg/stored"
	"github.com/matzehuels/treedot/pkg/tree"
)

const (
	defaultInput      = "stored"    // stored tree read when no file is given
	defaultOutputBase = "graph"     // output file name without extension
	defaultOutput     = "graph.dot" // output written by a plain render
)

// renderOpts holds the raw render flags, shared by render and browse.
type renderOpts struct {
	output  string // output file path
	variant string // label variant: plain, abbreviated
	format  string // output format: dot, svg, png
	marker  string // escaping marker stripped before parsing
	descend string // comma-separated child indices of the subtree to render
	mesh    string // optional STL mesh whose bounding box is printed afterwards
	dump    bool   // pretty-print the parsed tree to stdout
	noCache bool   // bypass the render cache
}

func defaultRenderOpts() renderOpts {
	return renderOpts{
		output:  defaultOutput,
		variant: string(render.Plain),
		format:  string(render.FormatDOT),
		marker:  stored.DefaultMarker,
	}
}

// renderJob is a validated render request.
type renderJob struct {
	input   string
	output  string
	variant render.Variant
	format  render.Format
	marker  string
	descend tree.Path
	mesh    string
	dump    bool
	noCache bool
}

// renderCommand creates the render command.
//
// Defaults:
//   - input: ./stored
//   - output: ./graph.dot (graph.svg or graph.png with --format)
//   - variant: plain (integer labels)
func (c *CLI) renderCommand() *cobra.Command {
	opts := defaultRenderOpts()

	cmd := &cobra.Command{
		Use:   "render [stored]",
		Short: "Convert a stored kd-tree to a Graphviz graph",
		Long: `Render reads a stored kd-tree, strips the escaping marker, parses the
nested sequences and writes one DOT node per tree node and one edge per
parent-child link. Nodes are numbered n0, n1, ... in pre-order.`,
		Example: `  # Plain integer labels to ./graph.dot
  treedot render

  # Initials of each node's text above its value, laid out as SVG
  treedot render kd.stored --variant abbreviated -f svg -o kd.svg

  # Only the subtree at root[0][1]
  treedot render --descend 0,1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.resolveRenderJob(cmd, args, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), job)
		},
	}

	addRenderFlags(cmd, &opts)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, opts *renderOpts) {
	variants := make([]string, len(render.Variants))
	for i, v := range render.Variants {
		variants[i] = string(v)
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output file")
	cmd.Flags().StringVar(&opts.variant, "variant", opts.variant, "label variant: "+strings.Join(variants, ", "))
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png")
	cmd.Flags().StringVar(&opts.marker, "marker", opts.marker, "escaping marker removed before parsing")
	cmd.Flags().StringVar(&opts.descend, "descend", "", "render only the subtree at these child indices (e.g. 0,2)")
	cmd.Flags().StringVar(&opts.mesh, "mesh", "", "also print the bounding box of this binary STL mesh")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "pretty-print the parsed tree to stdout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	_ = cmd.RegisterFlagCompletionFunc("variant", cobra.FixedCompletions(variants, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"dot", "svg", "png"}, cobra.ShellCompDirectiveNoFileComp))
}

// resolveRenderJob merges flags, config and defaults, then validates the
// result. A flag set on the command line beats the config file, which beats
// the built-in default.
func (c *CLI) resolveRenderJob(cmd *cobra.Command, args []string, opts renderOpts) (*renderJob, error) {
	cfg := c.config
	fromConfig := func(flag string, dst *string, value string) {
		if value != "" && !cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	fromConfig("output", &opts.output, cfg.Output)
	fromConfig("variant", &opts.variant, cfg.Variant)
	fromConfig("format", &opts.format, cfg.Format)
	fromConfig("marker", &opts.marker, cfg.Marker)
	fromConfig("descend", &opts.descend, cfg.Descend)
	fromConfig("mesh", &opts.mesh, cfg.Mesh)

	job := &renderJob{
		input:   defaultInput,
		marker:  opts.marker,
		mesh:    opts.mesh,
		dump:    opts.dump,
		noCache: opts.noCache,
	}
	switch {
	case len(args) > 0:
		job.input = args[0]
	case cfg.Input != "":
		job.input = cfg.Input
	}

	var err error
	if job.variant, err = render.ParseVariant(opts.variant); err != nil {
		return nil, err
	}
	if job.format, err = render.ParseFormat(opts.format); err != nil {
		return nil, err
	}
	if job.descend, err = tree.ParsePath(opts.descend); err != nil {
		return nil, err
	}
	if err := errors.ValidateMarker(job.marker); err != nil {
		return nil, err
	}

	job.output = opts.output
	if !cmd.Flags().Changed("output") && cfg.Output == "" {
		job.output = defaultOutputBase + "." + string(job.format)
	}
	if err := errors.ValidateOutputPath(job.output); err != nil {
		return nil, err
	}
	return job, nil
}

// runRender loads the stored tree, renders it and writes the output file.
// Nothing is written unless the whole tree renders.
func (c *CLI) runRender(ctx context.Context, job *renderJob) error {
	logger := c.Logger.With("run", newRunID())
	ctx = withLogger(ctx, logger)
	prog := newProgress(logger)

	hooks := observability.Pipeline()

	logger.Debug("loading stored tree", "input", job.input, "marker", job.marker)
	start := time.Now()
	root, err := stored.Load(job.input, job.marker)
	hooks.OnLoad(ctx, job.input, time.Since(start), err)
	if err != nil {
		return err
	}
	if job.dump {
		fmt.Println(stored.Indent(root))
	}

	if len(job.descend) > 0 {
		logger.Debug("descending", "path", job.descend)
		if root, err = tree.Descend(root, job.descend); err != nil {
			return err
		}
	}

	start = time.Now()
	res, err := render.Render(root, job.variant)
	if err != nil {
		hooks.OnRender(ctx, string(job.variant), 0, time.Since(start), err)
		return err
	}
	hooks.OnRender(ctx, string(job.variant), res.Nodes, time.Since(start), nil)
	logger.Debug("rendered DOT", "nodes", res.Nodes, "edges", res.Edges, "variant", job.variant)

	data, cached, err := c.encode(ctx, res.DOT, job.format, job.noCache)
	if err != nil {
		return err
	}
	if err := render.WriteFile(job.output, data); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", res.Nodes))

	printSuccess("Rendered %s", StyleHighlight.Render(job.descend.String()))
	printStats(res.Nodes, res.Edges, cached)
	printFile(job.output)
	if job.format == render.FormatDOT {
		base := strings.TrimSuffix(job.output, filepath.Ext(job.output))
		printNextStep("Lay out with Graphviz", fmt.Sprintf("dot -Tsvg %s -o %s.svg", job.output, base))
	}

	if job.mesh != "" {
		return runBBox(job.mesh)
	}
	return nil
}

// encode turns DOT text into the bytes of format. Graphviz output is looked
// up in and stored to the render cache; a failing cache never fails the run.
func (c *CLI) encode(ctx context.Context, dot string, format render.Format, noCache bool) ([]byte, bool, error) {
	if format == render.FormatDOT {
		return []byte(dot), false, nil
	}
	logger := loggerFromContext(ctx)

	store, err := c.newCache(noCache)
	if err != nil {
		logger.Warn("render cache unavailable", "error", err)
		store = cache.NewNullCache()
	}
	defer store.Close()

	const keyType = "artifact"
	key := cache.ArtifactKey(dot, string(format))
	if data, hit, err := store.Get(ctx, key); err != nil {
		logger.Warn("render cache read failed", "error", err)
	} else if hit {
		logger.Debug("render cache hit", "format", format)
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyType)

	start := time.Now()
	data, err := c.layout(ctx, logger, dot, format)
	observability.Pipeline().OnLayout(ctx, string(format), len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
		logger.Warn("render cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}

// layout runs Graphviz behind a spinner unless debug logging would
// interleave with it.
func (c *CLI) layout(ctx context.Context, logger *log.Logger, dot string, format render.Format) ([]byte, error) {
	if logger.GetLevel() <= log.DebugLevel {
		return render.Encode(ctx, dot, format)
	}
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Laying out %s...", strings.ToUpper(string(format))))
	spinner.Start()
	defer spinner.Stop()
	return render.Encode(ctx, dot, format)
}
