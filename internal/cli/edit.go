package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/editor"
	errs "github.com/matzehuels/nodeweave/pkg/errors"
	"github.com/matzehuels/nodeweave/pkg/graph"
	"github.com/matzehuels/nodeweave/pkg/interact"
)

// addNodeCommand creates the "add-node" command.
func (c *CLI) addNodeCommand() *cobra.Command {
	var typeName, title, at string

	cmd := &cobra.Command{
		Use:   "add-node <file>",
		Short: "Add a node of a registered type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePoint(at)
			if err != nil {
				return err
			}
			var node *graph.Node
			_, err = c.edit(args[0], func(ed *editor.Editor) error {
				t, err := parseNodeType(ed.Scene().Registry(), typeName)
				if err != nil {
					return err
				}
				node, err = ed.AddNode(t, title, pos)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added node %d %q", node.ID, node.Title)
			printDetail("inputs %v, outputs %v", node.Inputs, node.Outputs)
			return nil
		},
	}

	cmd.Flags().StringVarP(&typeName, "type", "t", "Undefined", "node type name or number")
	cmd.Flags().StringVar(&title, "title", "", "node title (default: the type's title)")
	cmd.Flags().StringVar(&at, "at", "0,0", "position as x,y")
	return cmd
}

// removeNodeCommand creates the "remove-node" command.
func (c *CLI) removeNodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-node <file> <node>",
		Short: "Remove a node and its edges",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := c.edit(args[0], func(ed *editor.Editor) error { return ed.RemoveNode(id) }); err != nil {
				return err
			}
			printSuccess("Removed node %d", id)
			return nil
		},
	}
}

// connectCommand creates the "connect" command. The edge is drawn with a
// press on the first socket and a release on the second, exactly as a
// pointer would.
func (c *CLI) connectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <file> <from-socket> <to-socket>",
		Short: "Connect two sockets by dragging an edge between them",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseID(args[1])
			if err != nil {
				return err
			}
			to, err := parseID(args[2])
			if err != nil {
				return err
			}
			_, err = c.edit(args[0], func(ed *editor.Editor) error { return dragEdge(ed, from, to) })
			if err != nil {
				return err
			}
			printSuccess("Connected %d %s %d", from, iconArrow, to)
			return nil
		},
	}
}

// dragEdge drives the editor's edge dragger from socket from to socket to.
func dragEdge(ed *editor.Editor, from, to graph.ID) error {
	s := ed.Scene()
	d := ed.Dragger()
	hit := interact.GeometryHitTester{Scene: s}

	start, err := s.SocketPos(from)
	if err != nil {
		return err
	}
	end, err := s.SocketPos(to)
	if err != nil {
		return err
	}
	target := func(p graph.Point, want graph.ID) interact.Target {
		if t := hit.HitTest(p); t.Kind == interact.TargetSocket && t.ID == want {
			return t
		}
		return interact.SocketTarget(want)
	}

	if _, err := d.Press(interact.ButtonLeft, start, target(start, from)); err != nil {
		return err
	}
	d.Move(end)
	handled, err := d.Release(interact.ButtonLeft, end, target(end, to))
	if err != nil {
		return err
	}
	if !handled && d.Mode() == interact.ModeEdgeDrag {
		// Sockets closer than the drag threshold: finish with a second click.
		if _, err := d.Press(interact.ButtonLeft, end, target(end, to)); err != nil {
			return err
		}
	}
	if st, ok := ed.History().Current(); !ok || st.Desc != interact.DescEdgeCreated {
		return errs.New(errs.ErrCodeInvalidInput, "sockets %d and %d cannot be connected", from, to)
	}
	return nil
}

// disconnectCommand creates the "disconnect" command.
func (c *CLI) disconnectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect <file> <edge>",
		Short: "Remove an edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := c.edit(args[0], func(ed *editor.Editor) error { return ed.RemoveEdge(id) }); err != nil {
				return err
			}
			printSuccess("Removed edge %d", id)
			return nil
		},
	}
}

// moveCommand creates the "move" command.
func (c *CLI) moveCommand() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "move <file> <node>...",
		Short: "Move nodes by an offset",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parsePoint(by)
			if err != nil {
				return err
			}
			ids := make([]graph.ID, 0, len(args)-1)
			for _, a := range args[1:] {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if _, err := c.edit(args[0], func(ed *editor.Editor) error { return ed.MoveNodes(ids, delta) }); err != nil {
				return err
			}
			printSuccess("Moved %d node(s) by %s", len(ids), by)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "0,0", "offset as dx,dy")
	return cmd
}

// renameCommand creates the "rename" command.
func (c *CLI) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <file> <node> <title>",
		Short: "Change a node's title",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			if _, err := c.edit(args[0], func(ed *editor.Editor) error { return ed.SetTitle(id, args[2]) }); err != nil {
				return err
			}
			printSuccess("Renamed node %d to %q", id, args[2])
			return nil
		},
	}
}

// toggleSetterCommand creates the "toggle-setter" command.
func (c *CLI) toggleSetterCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-setter <file> <node>",
		Short: "Switch a variable node between getter and setter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			ed, err := c.edit(args[0], func(ed *editor.Editor) error { return ed.ToggleSetter(id) })
			if err != nil {
				return err
			}
			form := "getter"
			if n, ok := ed.Scene().Node(id); ok && n.IsSetter {
				form = "setter"
			}
			printSuccess("Node %d is now a %s", id, form)
			return nil
		},
	}
}
