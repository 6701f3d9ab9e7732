// Package cli implements the nodeweave command-line interface.
//
// Every editing command opens a document in an [editor.Editor], applies one
// change through it and saves the result, so the same rules hold as in an
// interactive session: edges go through the drag state machine, pastes get
// fresh IDs and invalid documents are rejected before anything is written.
//
// # Commands
//
//   - new, info, validate: create and inspect documents
//   - add-node, remove-node, connect, disconnect, move, rename, toggle-setter: edit
//   - copy, cut, paste: clipboard payloads on stdout, in files or in Redis
//   - render: Graphviz previews as DOT, SVG, PDF or PNG
//   - store: push, pull, list and remove documents in the configured store
//   - browse: interactive node table
//   - autosave: write a recovery copy under the project directory
//   - config: print or initialize the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodeweave/pkg/buildinfo"
	"github.com/matzehuels/nodeweave/pkg/cache"
	"github.com/matzehuels/nodeweave/pkg/clipboard"
	"github.com/matzehuels/nodeweave/pkg/config"
	"github.com/matzehuels/nodeweave/pkg/editor"
	"github.com/matzehuels/nodeweave/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodeweave"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "nodeweave edits node graphs from the command line",
		Long:         `nodeweave is a headless node-graph editor. It creates, edits, validates and renders node graph documents and moves them between local files and shared stores.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (default $XDG_CONFIG_HOME/nodeweave/config.toml)")

	root.AddCommand(c.newCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.addNodeCommand())
	root.AddCommand(c.removeNodeCommand())
	root.AddCommand(c.connectCommand())
	root.AddCommand(c.disconnectCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.renameCommand())
	root.AddCommand(c.toggleSetterCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.cutCommand())
	root.AddCommand(c.pasteCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.storeCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.autosaveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// loadConfig loads the settings file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// newEditor returns an editor configured from the settings file. A non-nil
// buf replaces the in-process clipboard.
func (c *CLI) newEditor(buf clipboard.Buffer) (*editor.Editor, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts, err := editor.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = c.Logger
	opts.Clipboard = buf
	return editor.New(opts), nil
}

// openEditor returns an editor bound to the document at path.
func (c *CLI) openEditor(path string, buf clipboard.Buffer) (*editor.Editor, error) {
	ed, err := c.newEditor(buf)
	if err != nil {
		return nil, err
	}
	if err := ed.Load(path); err != nil {
		return nil, err
	}
	return ed, nil
}

// edit opens path, runs fn and saves the document when fn succeeds.
func (c *CLI) edit(path string, fn func(*editor.Editor) error) (*editor.Editor, error) {
	ed, err := c.openEditor(path, nil)
	if err != nil {
		return nil, err
	}
	if err := fn(ed); err != nil {
		return nil, err
	}
	if err := ed.Save(); err != nil {
		return nil, err
	}
	c.Logger.Debug("saved", "path", path, "history", ed.History().Descriptions())
	return ed, nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(ctx, cfg.Store)
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the render cache directory using XDG standard
// (~/.cache/nodeweave/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
