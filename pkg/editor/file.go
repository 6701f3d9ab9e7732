package editor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
	"github.com/matzehuels/nodeweave/pkg/observability"
)

// AppName is appended to window titles.
const AppName = "nodeweave"

// AutoSaveDir is the folder under the project directory that holds
// autosaved copies.
const AutoSaveDir = "AutoSave"

// UntitledName names a session that has no file yet.
const UntitledName = "Untitled"

// Path returns the file the session is bound to, or "".
func (e *Editor) Path() string { return e.path }

// ProjectDir returns the directory autosaves are written under.
func (e *Editor) ProjectDir() string { return e.projectDir }

// SetProjectDir changes the autosave directory.
func (e *Editor) SetProjectDir(dir string) { e.projectDir = dir }

// IsModified reports whether the scene has unsaved changes.
func (e *Editor) IsModified() bool { return e.scene.IsModified() }

// Name returns the file's base name without extension, or UntitledName.
func (e *Editor) Name() string {
	if e.path == "" {
		return UntitledName
	}
	return strings.TrimSuffix(filepath.Base(e.path), filepath.Ext(e.path))
}

// Title returns the window title, "<name>[*] - nodeweave", where the star
// marks unsaved changes.
func (e *Editor) Title() string {
	mark := ""
	if e.IsModified() {
		mark = "*"
	}
	return fmt.Sprintf("%s%s - %s", e.Name(), mark, AppName)
}

// Reset discards the scene and unbinds the session from its file.
func (e *Editor) Reset() {
	e.drag.Cancel()
	e.scene.Clear()
	e.path = ""
	e.resetHistory()
}

// Load replaces the scene with the document at path and binds the session
// to it. The history restarts from the loaded scene. On error the session
// is unchanged.
func (e *Editor) Load(path string) (err error) {
	start := time.Now()
	defer func() {
		observability.Editor().OnLoad(context.Background(), path, e.scene.NodeCount(), time.Since(start), err)
	}()

	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	doc, err := graphio.ImportJSON(path)
	if err != nil {
		return err
	}
	return e.LoadDocument(doc, path)
}

// LoadDocument replaces the scene with doc and binds the session to path,
// which may be empty.
func (e *Editor) LoadDocument(doc *graphio.Document, path string) error {
	if err := graphio.Load(e.scene, doc); err != nil {
		return err
	}
	e.drag.Cancel()
	e.path = path
	e.scene.SetModified(false)
	e.resetHistory()
	e.log.Debug("loaded", "path", path, "nodes", e.scene.NodeCount(), "edges", e.scene.EdgeCount())
	return nil
}

// Save writes the scene to the bound path and clears the modified flag.
// Without a path, or with a path inside an AutoSave folder, Save fails with
// INVALID_STATE; use SaveAs.
func (e *Editor) Save() error {
	if e.path == "" {
		return errs.New(errs.ErrCodeInvalidState, "no file name set, use save as")
	}
	if inAutoSave(e.path) {
		return errs.New(errs.ErrCodeInvalidState, "%s is an autosave copy, use save as", e.path)
	}
	return e.write(e.path, false)
}

// SaveAs writes the scene to path and binds the session to it.
func (e *Editor) SaveAs(path string) error {
	if err := errs.ValidatePath(path); err != nil {
		return err
	}
	if err := e.write(path, false); err != nil {
		return err
	}
	e.path = path
	return nil
}

// AutoSavePath returns <project>/AutoSave/<name>.json.
func (e *Editor) AutoSavePath() (string, error) {
	name := e.Name()
	if err := errs.ValidateTitle(name); err != nil {
		return "", err
	}
	return filepath.Join(e.projectDir, AutoSaveDir, name+".json"), nil
}

// AutoSaveDue reports whether the configured number of edits has been
// recorded since the last autosave.
func (e *Editor) AutoSaveDue() bool {
	return e.autosaveEvery > 0 && e.sinceAutosave >= e.autosaveEvery
}

// AutoSave writes a recovery copy to AutoSavePath. The bound path and the
// modified flag are left alone.
func (e *Editor) AutoSave() (string, error) {
	path, err := e.AutoSavePath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create autosave dir: %w", err)
	}
	if err := e.write(path, true); err != nil {
		return "", err
	}
	e.sinceAutosave = 0
	return path, nil
}

func (e *Editor) write(path string, autosave bool) (err error) {
	start := time.Now()
	defer func() {
		observability.Editor().OnSave(context.Background(), path, autosave, time.Since(start), err)
	}()

	if err := graphio.ExportJSON(graphio.Serialize(e.scene), path); err != nil {
		return err
	}
	if !autosave {
		e.scene.SetModified(false)
	}
	e.log.Debug("saved", "path", path, "autosave", autosave)
	return nil
}

func inAutoSave(path string) bool {
	return slices.Contains(strings.Split(filepath.ToSlash(filepath.Dir(path)), "/"), AutoSaveDir)
}
