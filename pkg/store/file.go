package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
)

// FileStore is a file-based document store for CLI applications.
// Documents are stored as JSON files in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based document store.
// If baseDir is empty, defaults to <user config dir>/nodeweave/documents.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "nodeweave", "documents")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) docPath(name string) string {
	return filepath.Join(s.baseDir, name+".json")
}

func (s *FileStore) Put(_ context.Context, name string, doc *graphio.Document) error {
	if err := checkPut(name, doc); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := s.docPath(name) + ".tmp"
	if err := graphio.ExportJSON(doc, tmp); err != nil {
		return fmt.Errorf("write document file: %w", err)
	}
	if err := os.Rename(tmp, s.docPath(name)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace document file: %w", err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, name string) (*graphio.Document, error) {
	if err := errs.ValidateKey(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := graphio.ImportJSON(s.docPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(name)
		}
		return nil, err
	}
	return doc, nil
}

func (s *FileStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read document dir: %w", err)
	}

	var out []Entry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ".json")
		info, err := f.Info()
		if err != nil {
			continue
		}
		doc, err := graphio.ImportJSON(filepath.Join(s.baseDir, f.Name()))
		if err != nil {
			continue
		}
		out = append(out, entryFor(name, doc, info.ModTime()))
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := errs.ValidateKey(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.docPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove document file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
