package cli

import (
	"github.com/spf13/cobra"
)

// autosaveCommand creates the "autosave" command.
func (c *CLI) autosaveCommand() *cobra.Command {
	var projectDir string

	cmd := &cobra.Command{
		Use:   "autosave <file>",
		Short: "Write a recovery copy to the project's AutoSave folder",
		Long: `Write a copy of the document to <project>/AutoSave/<name>.json. The original
file is left untouched. Autosaved copies refuse plain saves; open one and
save it elsewhere to recover it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := c.openEditor(args[0], nil)
			if err != nil {
				return err
			}
			if projectDir != "" {
				ed.SetProjectDir(projectDir)
			}
			path, err := ed.AutoSave()
			if err != nil {
				return err
			}
			printSuccess("Autosaved %s", ed.Name())
			printFile(path)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectDir, "project", "", "project directory (default from settings)")
	return cmd
}
