package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/clipboard"
	"github.com/matzehuels/nodeweave/pkg/graph"
)

// clipOpts holds the flags shared by the clipboard commands.
type clipOpts struct {
	nodes  string // comma-separated node IDs to copy
	edges  string // comma-separated edge IDs to copy
	output string // payload file for copy/cut, "" for stdout
	from   string // payload file for paste, "-" for stdin
	at     string // paste centre as x,y
	redis  string // redis address of a shared clipboard
}

func (o *clipOpts) addRedisFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.redis, "redis", "", "use the shared clipboard at this redis address")
}

// buffer returns the clipboard buffer selected by the flags.
func (o *clipOpts) buffer() (clipboard.Buffer, func()) {
	if o.redis == "" {
		return clipboard.NewMemoryBuffer(), func() {}
	}
	buf := clipboard.NewRedisBuffer(clipboard.RedisOptions{Addr: o.redis})
	return buf, func() { _ = buf.Close() }
}

// selection parses the --nodes and --edges flags into item references.
func (o *clipOpts) selection() ([]graph.ItemRef, error) {
	var refs []graph.ItemRef
	for _, spec := range []struct {
		list string
		ref  func(graph.ID) graph.ItemRef
	}{{o.nodes, graph.NodeRef}, {o.edges, graph.EdgeRef}} {
		for _, s := range strings.Split(spec.list, ",") {
			if strings.TrimSpace(s) == "" {
				continue
			}
			id, err := parseID(s)
			if err != nil {
				return nil, err
			}
			refs = append(refs, spec.ref(id))
		}
	}
	return refs, nil
}

// copyCommand creates the "copy" command.
func (c *CLI) copyCommand() *cobra.Command {
	var opts clipOpts

	cmd := &cobra.Command{
		Use:   "copy <file>",
		Short: "Copy nodes to a clipboard payload",
		Long: `Copy the given nodes, the edges between them and any listed edges to a
clipboard payload. The payload goes to stdout unless --output or --redis is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCopy(cmd.Context(), args[0], &opts, false)
		},
	}

	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "comma-separated node IDs")
	cmd.Flags().StringVar(&opts.edges, "edges", "", "comma-separated edge IDs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the payload to this file")
	opts.addRedisFlag(cmd)
	return cmd
}

// cutCommand creates the "cut" command.
func (c *CLI) cutCommand() *cobra.Command {
	var opts clipOpts

	cmd := &cobra.Command{
		Use:   "cut <file>",
		Short: "Copy nodes to a clipboard payload and remove them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCopy(cmd.Context(), args[0], &opts, true)
		},
	}

	cmd.Flags().StringVar(&opts.nodes, "nodes", "", "comma-separated node IDs")
	cmd.Flags().StringVar(&opts.edges, "edges", "", "comma-separated edge IDs")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the payload to this file")
	opts.addRedisFlag(cmd)
	return cmd
}

func (c *CLI) runCopy(ctx context.Context, path string, opts *clipOpts, cut bool) error {
	refs, err := opts.selection()
	if err != nil {
		return err
	}
	buf, closeBuf := opts.buffer()
	defer closeBuf()

	ed, err := c.openEditor(path, buf)
	if err != nil {
		return err
	}
	if err := ed.Select(refs...); err != nil {
		return err
	}
	if cut {
		err = ed.Cut(ctx)
	} else {
		err = ed.Copy(ctx)
	}
	if err != nil {
		return err
	}

	// A cut is saved only once the payload is delivered.
	if err := deliverPayload(ctx, buf, opts); err != nil {
		return err
	}
	if cut {
		if err := ed.Save(); err != nil {
			return err
		}
	}

	switch {
	case opts.redis != "":
		printSuccess("Copied %d item(s) to the shared clipboard", len(refs))
	case opts.output != "":
		printSuccess("Copied %d item(s)", len(refs))
		printFile(opts.output)
	}
	return nil
}

// deliverPayload writes the buffered payload to --output or stdout. A redis
// buffer already is the destination.
func deliverPayload(ctx context.Context, buf clipboard.Buffer, opts *clipOpts) error {
	if opts.redis != "" {
		return nil
	}
	data, err := buf.Get(ctx)
	if err != nil {
		return err
	}
	if opts.output != "" {
		return os.WriteFile(opts.output, data, 0o644)
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

// pasteCommand creates the "paste" command.
func (c *CLI) pasteCommand() *cobra.Command {
	var opts clipOpts

	cmd := &cobra.Command{
		Use:   "paste <file>",
		Short: "Paste a clipboard payload into a document",
		Long: `Paste a clipboard payload with fresh IDs. The payload is read from --from
(a file, or - for stdin) or from the shared clipboard given by --redis.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var at *graph.Point
			if opts.at != "" {
				p, err := parsePoint(opts.at)
				if err != nil {
					return err
				}
				at = &p
			}

			buf, closeBuf := opts.buffer()
			defer closeBuf()
			if opts.redis == "" {
				data, err := readPayload(opts.from)
				if err != nil {
					return err
				}
				if err := buf.Set(ctx, data); err != nil {
					return err
				}
			}

			ed, err := c.openEditor(args[0], buf)
			if err != nil {
				return err
			}
			f, err := ed.Paste(ctx, at)
			if err != nil {
				return err
			}
			if err := ed.Save(); err != nil {
				return err
			}
			printSuccess("Pasted %d node(s) and %d edge(s)", len(f.Nodes), len(f.Edges))
			printDetail("new nodes %v", f.NodeIDs())
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "-", "payload file, - for stdin")
	cmd.Flags().StringVar(&opts.at, "at", "", "centre the pasted items on x,y")
	opts.addRedisFlag(cmd)
	return cmd
}

func readPayload(from string) ([]byte, error) {
	if from == "" || from == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(from)
}
