package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

// newCommand creates the "new" command.
func (c *CLI) newCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "new <file>",
		Short: "Create an empty graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidState, "%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			ed, err := c.newEditor(nil)
			if err != nil {
				return err
			}
			if err := ed.SaveAs(path); err != nil {
				return err
			}

			printSuccess("Created %s", ed.Name())
			printFile(path)
			printNextStep("Add a node", fmt.Sprintf("%s add-node %s --type float", appName, path))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// infoCommand creates the "info" command.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(args[0], nil)
			if err != nil {
				return err
			}
			s := ed.Scene()
			w, h := s.Size()

			fmt.Println(StyleTitle.Render(ed.Title()))
			printKeyValue("Document", s.UUID())
			printKeyValue("Path", ed.Path())
			printKeyValue("Canvas", fmt.Sprintf("%.0f x %.0f", w, h))
			printStats(s.NodeCount(), s.SocketCount(), s.EdgeCount(), ed.IsModified())
			if s.NodeCount() > 0 {
				fmt.Println()
				fmt.Println(nodeTable(s, -1).Render())
			}
			return nil
		},
	}
}

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a graph document for structural problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(args[0], nil)
			if err != nil {
				printError("%s: %s", args[0], errs.UserMessage(err))
				return err
			}
			if err := ed.Scene().Validate(); err != nil {
				for _, line := range strings.Split(err.Error(), "\n") {
					printError("%s", line)
				}
				return err
			}
			printSuccess("%s is valid", args[0])
			return nil
		},
	}
}

// nodeTable renders the scene's nodes. The row at cursor is highlighted; a
// negative cursor highlights nothing.
func nodeTable(s *graph.Scene, cursor int) *table.Table {
	reg := s.Registry()
	nodes := s.Nodes()

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		kind := reg.Name(n.Type)
		if n.IsSetter {
			kind += " (set)"
		}
		rows = append(rows, []string{
			n.ID.String(),
			n.Title,
			kind,
			formatSockets(s, n.Inputs),
			formatSockets(s, n.Outputs),
			fmt.Sprintf("%.0f,%.0f", n.Pos.X, n.Pos.Y),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Title", "Type", "Inputs", "Outputs", "Pos").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case row == cursor:
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			case col == 0 || col == 5:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

// formatSockets lists sockets as "id:type", marking connected ones with *.
func formatSockets(s *graph.Scene, ids []graph.ID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		sock, ok := s.Socket(id)
		if !ok {
			continue
		}
		p := id.String() + ":" + sock.Type.String()
		if sock.HasAnyEdge() {
			p += "*"
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}

// =============================================================================
// Argument Parsing
// =============================================================================

// parseID parses a decimal entity ID.
func parseID(s string) (graph.ID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return graph.NoID, errs.New(errs.ErrCodeInvalidInput, "invalid id %q", s)
	}
	return graph.ID(v), nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (graph.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return graph.Point{}, errs.New(errs.ErrCodeInvalidInput, "invalid point %q, want x,y", s)
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if errX != nil || errY != nil {
		return graph.Point{}, errs.New(errs.ErrCodeInvalidInput, "invalid point %q, want x,y", s)
	}
	return graph.Point{X: x, Y: y}, nil
}

// parseNodeType accepts a registered type name or its number.
func parseNodeType(reg *graph.Registry, s string) (graph.NodeType, error) {
	if t, ok := reg.TypeByName(s); ok {
		return t, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		if _, ok := reg.Lookup(graph.NodeType(v)); ok {
			return graph.NodeType(v), nil
		}
	}
	names := make([]string, 0)
	for _, t := range reg.Types() {
		names = append(names, reg.Name(t))
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "unknown node type %q (known: %s)", s, strings.Join(names, ", "))
}
