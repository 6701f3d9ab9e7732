package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/graph"
)

var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// browseCommand creates the "browse" command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse the nodes of a document interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(args[0], nil)
			if err != nil {
				return err
			}
			if ed.Scene().NodeCount() == 0 {
				printInfo("%s has no nodes", args[0])
				return nil
			}
			m := NewNodeBrowserModel(ed.Title(), ed.Scene())
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// NodeBrowserModel - Interactive node table
// =============================================================================

// NodeBrowserModel is the bubbletea model of the browse command. It shows
// the node table and, on demand, the connections of the node under the
// cursor.
type NodeBrowserModel struct {
	Title   string
	Scene   *graph.Scene
	Cursor  int
	Details bool
}

// NewNodeBrowserModel creates a browser over s.
func NewNodeBrowserModel(title string, s *graph.Scene) NodeBrowserModel {
	return NodeBrowserModel{Title: title, Scene: s}
}

func (m NodeBrowserModel) Init() tea.Cmd {
	return nil
}

func (m NodeBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < m.Scene.NodeCount()-1 {
				m.Cursor++
			}
		case "enter", " ":
			m.Details = !m.Details
		}
	}
	return m, nil
}

func (m NodeBrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ connections  q quit"))
	b.WriteString("\n\n")
	b.WriteString(nodeTable(m.Scene, m.Cursor).Render())
	b.WriteString("\n")

	if m.Details {
		if n := m.current(); n != nil {
			b.WriteString(detailBoxStyle.Render(connections(m.Scene, n)))
			b.WriteString("\n")
		}
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, m.Scene.NodeCount())))
	return b.String()
}

func (m NodeBrowserModel) current() *graph.Node {
	nodes := m.Scene.Nodes()
	if m.Cursor < 0 || m.Cursor >= len(nodes) {
		return nil
	}
	return nodes[m.Cursor]
}

// connections describes every edge of n, one line per socket.
func connections(s *graph.Scene, n *graph.Node) string {
	var lines []string
	for _, sid := range n.Sockets() {
		sock, ok := s.Socket(sid)
		if !ok {
			continue
		}
		dir, arrow := "out", iconArrow
		if sock.IsInput {
			dir, arrow = "in", "←"
		}
		head := fmt.Sprintf("%s %d %s", dir, sock.Index, sock.Type)
		if !sock.HasAnyEdge() {
			lines = append(lines, head+listDimStyle.Render("  unconnected"))
			continue
		}
		for _, eid := range sock.Edges() {
			e, ok := s.Edge(eid)
			if !ok {
				continue
			}
			other, err := e.OtherSocket(sid)
			if err != nil {
				continue
			}
			peer := "?"
			if pn, ok := s.NodeOf(other); ok {
				peer = fmt.Sprintf("%s #%d", pn.Title, pn.ID)
			}
			lines = append(lines, fmt.Sprintf("%s  %s %s (socket %d, edge %d)", head, arrow, peer, other, eid))
		}
	}
	if len(lines) == 0 {
		return listDimStyle.Render("no sockets")
	}
	return strings.Join(lines, "\n")
}
