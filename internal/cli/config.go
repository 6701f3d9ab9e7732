package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/config"
	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// configCommand creates the settings command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the settings file",
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configKeysCommand())

	return cmd
}

func (c *CLI) settingsPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.DefaultPath()
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			data, err := cfg.Encode()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.settingsPath()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return errs.New(errs.ErrCodeInvalidState, "%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			printSuccess("Wrote default settings")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.settingsPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

// configKeysCommand creates the "config keys" subcommand.
func (c *CLI) configKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the editor key bindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			bindings := cfg.Keys.Bindings()
			actions := make([]string, 0, len(bindings))
			for action := range bindings {
				actions = append(actions, action)
			}
			slices.Sort(actions)
			keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(22)
			for _, action := range actions {
				fmt.Println(keyStyle.Render(action) + " " + StyleValue.Render(bindings[action]))
			}
			return nil
		},
	}
}
