package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/treedot/pkg/errors"
	"github.com/matzehuels/treedot/pkg/observability"
	"github.com/matzehuels/treedot/pkg/render"
	"github.com/matzehuels/treedot/pkg/tree"
)

const (
	plainStored  = "[0, 5, None, [[0, 3, None, []], None, [0, 8, None, []]]]"
	abbrevStored = "[0, 7, None, :::'Move Left Arm':::, [[0, 2, None, None, []]]]"
)

// isolate points config and cache lookups at empty temp directories.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Chdir(t.TempDir())
}

// execute runs the root command with args.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRenderCommand(t *testing.T) {
	isolate(t)
	writeFile(t, defaultInput, plainStored)

	if err := execute(t, "render"); err != nil {
		t.Fatalf("render error: %v", err)
	}

	want := "digraph G {\n" +
		"    n0 [label=\"5\"];\n" +
		"    n1 [label=\"3\"];\n" +
		"    n0 -> n1;\n" +
		"    n2 [label=\"8\"];\n" +
		"    n0 -> n2;\n" +
		"}\n"
	if got := readFile(t, defaultOutput); got != want {
		t.Errorf("graph.dot =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderCommandVariantAndDescend(t *testing.T) {
	isolate(t)
	in := writeFile(t, "kd.stored", abbrevStored)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "abbreviated",
			args: []string{"--variant", "abbreviated"},
			want: "digraph G {\n    n0 [label=\"MLA\\n7\"];\n    n1 [label=\"2\"];\n    n0 -> n1;\n}\n",
		},
		{
			name: "plain",
			args: nil,
			want: "digraph G {\n    n0 [label=\"7\"];\n    n1 [label=\"2\"];\n    n0 -> n1;\n}\n",
		},
		{
			name: "descend",
			args: []string{"--descend", "0"},
			want: "digraph G {\n    n0 [label=\"2\"];\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.dot")
			args := append([]string{"render", in, "-o", out}, tt.args...)
			if err := execute(t, args...); err != nil {
				t.Fatalf("render error: %v", err)
			}
			if got := readFile(t, out); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	isolate(t)
	writeFile(t, "bad.stored", "[0, 1, None, [[0, 2, None, []], [0, 3]]]")
	writeFile(t, "garbage.stored", "[0, 1, None, [")
	writeFile(t, "ok.stored", plainStored)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"render", "nope.stored"}, errors.ErrCodeIO},
		{"malformed node", []string{"render", "bad.stored"}, errors.ErrCodeStructure},
		{"not literal data", []string{"render", "garbage.stored"}, errors.ErrCodeDeserialization},
		{"absent child", []string{"render", "ok.stored", "--descend", "1"}, errors.ErrCodeStructure},
		{"bad variant", []string{"render", "ok.stored", "--variant", "fancy"}, errors.ErrCodeInvalidVariant},
		{"bad format", []string{"render", "ok.stored", "-f", "pdf"}, errors.ErrCodeInvalidFormat},
		{"bad descend", []string{"render", "ok.stored", "--descend", "a"}, errors.ErrCodeInvalidPath},
		{"bad marker", []string{"render", "ok.stored", "--marker", " "}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("render error = %v, want %s", err, tt.code)
			}
			if _, statErr := os.Stat(defaultOutput); !os.IsNotExist(statErr) {
				t.Error("failed render must not write an output file")
			}
		})
	}
}

func TestRenderCommandConfig(t *testing.T) {
	isolate(t)
	writeFile(t, "kd.stored", abbrevStored)
	cfg := writeFile(t, "render.toml", `
input   = "kd.stored"
output  = "from-config.dot"
variant = "abbreviated"
`)

	if err := execute(t, "render", "--config", cfg); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if got := readFile(t, "from-config.dot"); !strings.Contains(got, `label="MLA\n7"`) {
		t.Errorf("config variant not applied: %q", got)
	}

	// Flags beat the file.
	if err := execute(t, "render", "--config", cfg, "--variant", "plain", "-o", "flag.dot"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	if got := readFile(t, "flag.dot"); !strings.Contains(got, `label="7"`) {
		t.Errorf("flag variant should override config: %q", got)
	}
}

// recordingHooks counts pipeline and cache events.
type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnLoad(_ context.Context, _ string, _ time.Duration, err error) {
	h.add(fmt.Sprintf("load:%v", err == nil))
}

func (h *recordingHooks) OnRender(_ context.Context, variant string, nodes int, _ time.Duration, _ error) {
	h.add(fmt.Sprintf("render:%s:%d", variant, nodes))
}

func (h *recordingHooks) OnLayout(_ context.Context, format string, size int, _ time.Duration, err error) {
	h.add(fmt.Sprintf("layout:%s:%v", format, err == nil && size > 0))
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.add("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.add("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.add("set") }

func (h *recordingHooks) String() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return strings.Join(h.events, " ")
}

func TestRenderCommandSVG(t *testing.T) {
	isolate(t)
	writeFile(t, defaultInput, abbrevStored)

	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	if err := execute(t, "render", "-f", "svg", "--variant", "abbreviated"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	svg := readFile(t, "graph.svg")
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "MLA") {
		t.Errorf("graph.svg is not the rendered tree: %.200q", svg)
	}

	// The second run is served from the cache and must match byte for byte.
	if err := os.Remove("graph.svg"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "render", "-f", "svg", "--variant", "abbreviated"); err != nil {
		t.Fatalf("cached render error: %v", err)
	}
	if again := readFile(t, "graph.svg"); again != svg {
		t.Error("cached SVG differs from the fresh render")
	}

	want := "load:true render:abbreviated:2 miss layout:svg:true set " +
		"load:true render:abbreviated:2 hit"
	if got := hooks.String(); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}

	dir, err := cacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if count, _ := clearDir(dir); count != 1 {
		t.Errorf("cache held %d entries, want 1", count)
	}
}

func TestResolveRenderJob(t *testing.T) {
	isolate(t)

	tests := []struct {
		name   string
		args   []string
		config Config
		check  func(t *testing.T, job *renderJob)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, job *renderJob) {
				if job.input != defaultInput || job.output != defaultOutput {
					t.Errorf("input/output = %q/%q", job.input, job.output)
				}
				if job.variant != render.Plain || job.format != render.FormatDOT {
					t.Errorf("variant/format = %q/%q", job.variant, job.format)
				}
				if len(job.descend) != 0 {
					t.Errorf("descend = %v, want root", job.descend)
				}
			},
		},
		{
			name: "output follows format",
			args: []string{"-f", "png"},
			check: func(t *testing.T, job *renderJob) {
				if job.output != "graph.png" {
					t.Errorf("output = %q, want graph.png", job.output)
				}
			},
		},
		{
			name:   "config fills unset flags",
			args:   []string{"--variant", "plain"},
			config: Config{Input: "kd.stored", Variant: "abbreviated", Descend: "2,0", Format: "svg"},
			check: func(t *testing.T, job *renderJob) {
				if job.input != "kd.stored" {
					t.Errorf("input = %q", job.input)
				}
				if job.variant != render.Plain {
					t.Errorf("variant = %q, flag should win", job.variant)
				}
				if job.descend.String() != (tree.Path{2, 0}).String() {
					t.Errorf("descend = %v", job.descend)
				}
				if job.output != "graph.svg" {
					t.Errorf("output = %q", job.output)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(io.Discard, LogInfo)
			c.config = tt.config

			cmd := &cobra.Command{}
			opts := defaultRenderOpts()
			addRenderFlags(cmd, &opts)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatal(err)
			}

			job, err := c.resolveRenderJob(cmd, nil, opts)
			if err != nil {
				t.Fatalf("resolveRenderJob() error: %v", err)
			}
			tt.check(t, job)
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	isolate(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion error: %v", err)
	}
	if !strings.Contains(buf.String(), appName) {
		t.Error("bash completion should mention the binary name")
	}
}
