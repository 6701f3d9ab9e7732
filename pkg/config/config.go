// Package config loads editor settings from a TOML file.
//
// Settings live at $XDG_CONFIG_HOME/nodeweave/config.toml unless a path is
// given explicitly. A missing file yields [Default]; a present file is
// decoded over the defaults, so any key may be omitted.
//
//	[editor]
//	drag_threshold = 10.0
//	history_limit  = 32
//	autosave_edits = 10
//	project_dir    = "~/graphs"
//
//	[keys]
//	undo = "Ctrl+Z"
//	redo = "Ctrl+Shift+Z"
//
//	[store]
//	backend = "redis"
//	addr    = "localhost:6379"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
)

// Config is the complete settings file.
type Config struct {
	Editor Editor `toml:"editor"`
	Keys   Keys   `toml:"keys"`
	Store  Store  `toml:"store"`
}

// Editor holds the behaviour settings of an editing session.
type Editor struct {
	DragThreshold float64 `toml:"drag_threshold" validate:"gt=0,lte=200"`
	HistoryLimit  int     `toml:"history_limit" validate:"min=2,max=10000"`
	AutosaveEdits int     `toml:"autosave_edits" validate:"min=0"` // 0 disables autosave
	ProjectDir    string  `toml:"project_dir"`
}

// Keys maps editor actions to key sequences.
type Keys struct {
	NewGraph           string `toml:"new_graph" validate:"required"`
	Open               string `toml:"open" validate:"required"`
	SetProjectLocation string `toml:"set_project_location" validate:"required"`
	Save               string `toml:"save" validate:"required"`
	SaveAs             string `toml:"save_as" validate:"required"`
	Exit               string `toml:"exit" validate:"required"`
	Undo               string `toml:"undo" validate:"required"`
	Redo               string `toml:"redo" validate:"required"`
	Cut                string `toml:"cut" validate:"required"`
	Copy               string `toml:"copy" validate:"required"`
	Paste              string `toml:"paste" validate:"required"`
	Delete             string `toml:"delete" validate:"required"`
}

// Store selects and configures the document store backend.
type Store struct {
	Backend string `toml:"backend" validate:"oneof=file redis sqlite mongo"`

	// file
	Dir string `toml:"dir"`

	// redis
	Addr     string        `toml:"addr" validate:"required_if=Backend redis"`
	Password string        `toml:"password"`
	DB       int           `toml:"db" validate:"min=0"`
	Prefix   string        `toml:"prefix"`
	TTL      time.Duration `toml:"ttl"`

	// sqlite
	Path string `toml:"path" validate:"required_if=Backend sqlite"`

	// mongo
	URI        string `toml:"uri" validate:"required_if=Backend mongo"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: Editor{
			DragThreshold: 10,
			HistoryLimit:  32,
			AutosaveEdits: 10,
		},
		Keys: Keys{
			NewGraph:           "Ctrl+N",
			Open:               "Ctrl+O",
			SetProjectLocation: "Ctrl+Shift+O",
			Save:               "Ctrl+S",
			SaveAs:             "Ctrl+Shift+S",
			Exit:               "Ctrl+Q",
			Undo:               "Ctrl+Z",
			Redo:               "Ctrl+Shift+Z",
			Cut:                "Ctrl+X",
			Copy:               "Ctrl+C",
			Paste:              "Ctrl+V",
			Delete:             "Del",
		},
		Store: Store{
			Backend:    "file",
			Database:   "nodeweave",
			Collection: "documents",
		},
	}
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "nodeweave", "config.toml"), nil
}

// Load reads the settings file at path, or [DefaultPath] when path is empty.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := cfg.Decode(data); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode decodes TOML over c and validates the result.
func (c *Config) Decode(data []byte) error {
	md, err := toml.Decode(string(data), c)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config")
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return errs.New(errs.ErrCodeInvalidInput, "unknown config key %q", keys[0].String())
	}
	return c.Validate()
}

// Encode returns c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes c to path, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ProjectDir returns the configured project directory with a leading ~
// expanded, or the working directory when none is set.
func (c *Config) ProjectDir() (string, error) {
	dir := c.Editor.ProjectDir
	if dir == "" {
		return os.Getwd()
	}
	if rest, ok := strings.CutPrefix(dir, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("get home dir: %w", err)
		}
		dir = filepath.Join(home, rest)
	}
	return dir, nil
}

// Bindings returns the key map as action name → key sequence.
func (k Keys) Bindings() map[string]string {
	return map[string]string{
		"new_graph":            k.NewGraph,
		"open":                 k.Open,
		"set_project_location": k.SetProjectLocation,
		"save":                 k.Save,
		"save_as":              k.SaveAs,
		"exit":                 k.Exit,
		"undo":                 k.Undo,
		"redo":                 k.Redo,
		"cut":                  k.Cut,
		"copy":                 k.Copy,
		"paste":                k.Paste,
		"delete":               k.Delete,
	}
}
