package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
	"github.com/matzehuels/nodeweave/pkg/store"
)

// storeCommand creates the document store command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Share documents through the configured store",
		Long: `Push, pull, list and remove documents in the store selected by the [store]
section of the settings file (file, redis, sqlite or mongo).`,
	}

	cmd.AddCommand(c.storePushCommand())
	cmd.AddCommand(c.storePullCommand())
	cmd.AddCommand(c.storeListCommand())
	cmd.AddCommand(c.storeRemoveCommand())

	return cmd
}

// withStore opens the store, runs fn behind a spinner and closes the store.
func (c *CLI) withStore(ctx context.Context, msg string, fn func(store.Store) error) error {
	spinner := newSpinnerWithContext(ctx, msg)
	spinner.Start()

	st, err := c.openStore(ctx)
	if err != nil {
		spinner.StopWithError(errs.UserMessage(err))
		return err
	}
	defer st.Close()

	err = fn(st)
	spinner.Stop()
	return err
}

// storePushCommand creates the "store push" subcommand.
func (c *CLI) storePushCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "push <file> [name]",
		Short: "Upload a document (default name: its document ID)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(args[0], nil)
			if err != nil {
				return err
			}
			name := ed.Scene().UUID()
			if len(args) == 2 {
				name = args[1]
			}
			doc := graphio.Serialize(ed.Scene())

			err = c.withStore(cmd.Context(), "Pushing "+name, func(st store.Store) error {
				return st.Put(cmd.Context(), name, doc)
			})
			if err != nil {
				return err
			}
			printSuccess("Pushed %s", name)
			printDetail("%d nodes, %d edges", len(doc.Nodes), len(doc.Edges))
			return nil
		},
	}
}

// storePullCommand creates the "store pull" subcommand.
func (c *CLI) storePullCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "pull <name> <file>",
		Short: "Download a document into a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidState, "%s already exists (use --force to overwrite)", path)
			}

			var doc *graphio.Document
			err := c.withStore(cmd.Context(), "Pulling "+name, func(st store.Store) error {
				var err error
				doc, err = st.Get(cmd.Context(), name)
				return err
			})
			if err != nil {
				return err
			}

			// Loading validates the document before it is written.
			ed, err := c.newEditor(nil)
			if err != nil {
				return err
			}
			if err := ed.LoadDocument(doc, ""); err != nil {
				return err
			}
			if err := ed.SaveAs(path); err != nil {
				return err
			}
			printSuccess("Pulled %s", name)
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// storeListCommand creates the "store list" subcommand.
func (c *CLI) storeListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var entries []store.Entry
			err := c.withStore(cmd.Context(), "Listing documents", func(st store.Store) error {
				var err error
				entries, err = st.List(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No stored documents")
				return nil
			}
			fmt.Println(entryTable(entries).Render())
			return nil
		},
	}
}

// storeRemoveCommand creates the "store rm" subcommand.
func (c *CLI) storeRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>...",
		Aliases: []string{"remove"},
		Short:   "Remove stored documents",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := c.withStore(cmd.Context(), "Removing documents", func(st store.Store) error {
				for _, name := range args {
					if err := st.Delete(cmd.Context(), name); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %d document(s)", len(args))
			return nil
		},
	}
}

func entryTable(entries []store.Entry) *table.Table {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Name,
			fmt.Sprint(e.Nodes),
			fmt.Sprint(e.Edges),
			formatRelativeTime(e.UpdatedAt, time.Now()),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Nodes", "Edges", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle()
		})
}

// formatRelativeTime renders t relative to now for recent times and as a
// date otherwise.
func formatRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
