package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treedot/pkg/stored"
	"github.com/matzehuels/treedot/pkg/tree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const browseLabelLen = 48

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	opts := defaultRenderOpts()

	cmd := &cobra.Command{
		Use:   "browse [stored]",
		Short: "Pick a subtree interactively and render it",
		Long: `Browse opens the stored tree in the terminal. Walk down and up the
child slots, then press enter to render the highlighted subtree (or s to
render the node being viewed) with the same options as render.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := c.resolveRenderJob(cmd, args, opts)
			if err != nil {
				return err
			}

			root, err := stored.Load(job.input, job.marker)
			if err != nil {
				return err
			}
			if _, err := tree.Descend(root, job.descend); err != nil {
				return err
			}

			p := tea.NewProgram(NewBrowseModel(root, job.descend), tea.WithContext(cmd.Context()))
			final, err := p.Run()
			if err != nil {
				return err
			}
			m := final.(BrowseModel)
			if m.Selected == nil {
				printInfo("Nothing selected")
				return nil
			}

			job.descend = m.Selected
			return c.runRender(cmd.Context(), job)
		},
	}

	addRenderFlags(cmd, &opts)
	return cmd
}

// =============================================================================
// BrowseModel - Interactive subtree selection
// =============================================================================

// browseEntry is one child slot of the node being viewed.
type browseEntry struct {
	index    int
	absent   bool   // slot holds None
	label    string // value and text of the child, or a summary if malformed
	children int    // present grandchildren, -1 when the child is malformed
}

// BrowseModel is the bubbletea model for picking a subtree.
type BrowseModel struct {
	Path     tree.Path // node being viewed
	Entries  []browseEntry
	Cursor   int
	Offset   int
	Height   int
	Selected tree.Path // set when a node was picked
	Err      error     // shape error at the node being viewed

	root    any
	cursors []int // cursor of each ancestor, restored when going back up
}

// NewBrowseModel creates a model viewing the node at start.
func NewBrowseModel(root any, start tree.Path) BrowseModel {
	m := BrowseModel{
		Path:   append(tree.Path{}, start...),
		Height: 15,
		root:   root,
	}
	m.cursors = make([]int, len(start))
	m.load()
	return m
}

// load fills Entries for the node at Path.
func (m *BrowseModel) load() {
	m.Entries, m.Err = nil, nil
	m.Cursor, m.Offset = 0, 0

	v, err := tree.Descend(m.root, m.Path)
	if err != nil {
		m.Err = err
		return
	}
	n, err := tree.AsNode(v, m.Path)
	if err != nil {
		m.Err = err
		return
	}
	children, err := n.Children()
	if err != nil {
		m.Err = err
		return
	}

	m.Entries = make([]browseEntry, len(children))
	for i, child := range children {
		e := browseEntry{index: i, children: -1}
		switch cn, err := tree.AsNode(child, m.Path.Child(i)); {
		case child == nil:
			e.absent = true
		case err != nil:
			e.label = stored.Summary(child, browseLabelLen)
		default:
			e.label = describeNode(cn)
			e.children = countPresent(cn)
		}
		m.Entries[i] = e
	}
}

func describeNode(n tree.Node) string {
	label := stored.Summary(n.Value(), browseLabelLen)
	if text, ok, err := n.Text(); err == nil && ok && strings.TrimSpace(text) != "" {
		label += "  " + stored.Summary(text, browseLabelLen)
	}
	return label
}

func countPresent(n tree.Node) int {
	children, err := n.Children()
	if err != nil {
		return -1
	}
	count := 0
	for _, c := range children {
		if c != nil {
			count++
		}
	}
	return count
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Entries)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "right", "l":
			if e, ok := m.current(); ok && !e.absent && e.children >= 0 {
				m.cursors = append(m.cursors, m.Cursor)
				m.Path = m.Path.Child(e.index)
				m.load()
			}
		case "left", "h", "backspace":
			if len(m.Path) > 0 {
				m.Path = m.Path[:len(m.Path)-1]
				cursor := m.cursors[len(m.cursors)-1]
				m.cursors = m.cursors[:len(m.cursors)-1]
				m.load()
				m.moveTo(cursor)
			}
		case "enter":
			if e, ok := m.current(); ok && !e.absent && e.children >= 0 {
				m.Selected = m.Path.Child(e.index)
				return m, tea.Quit
			}
		case "s":
			if m.Err == nil {
				m.Selected = append(tree.Path{}, m.Path...)
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
		m.moveTo(m.Cursor)
	}
	return m, nil
}

func (m BrowseModel) current() (browseEntry, bool) {
	if m.Cursor < 0 || m.Cursor >= len(m.Entries) {
		return browseEntry{}, false
	}
	return m.Entries[m.Cursor], true
}

// moveTo places the cursor on entry i and scrolls it into view.
func (m *BrowseModel) moveTo(i int) {
	if i >= len(m.Entries) {
		i = len(m.Entries) - 1
	}
	m.Cursor = max(i, 0)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse " + m.Path.String()))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  → open  ← back  ⏎ render child  s render this node  q quit"))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(StyleError.Render(m.Err.Error()))
		b.WriteString("\n")
		return b.String()
	}
	if len(m.Entries) == 0 {
		b.WriteString(listDimStyle.Render("  (leaf: no children)"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Entries))
	for i := m.Offset; i < end; i++ {
		e := m.Entries[i]

		cursor := "  "
		style := listNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		line := fmt.Sprintf("%s[%d] ", cursor, e.index)
		switch {
		case e.absent:
			b.WriteString(listDimStyle.Render(line + "None"))
		case e.children < 0:
			b.WriteString(StyleWarning.Render(line + e.label))
		default:
			b.WriteString(style.Render(line+e.label) + listDimStyle.Render(fmt.Sprintf("  (%d children)", e.children)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Entries))))
	return b.String()
}
