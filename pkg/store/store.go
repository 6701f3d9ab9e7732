// Package store persists named graph documents.
//
// Every backend implements [Store]:
//   - file: one JSON file per document in a directory, for CLI use
//   - redis: shared storage with optional expiration
//   - sqlite: a single local database file
//   - mongo: a MongoDB collection, documents stored in their bson form
//
// Names are single-segment keys (see errors.ValidateKey). A missing document
// is reported as NOT_FOUND so callers can branch on errors.Is.
//
// # Usage
//
//	st, err := store.Open(ctx, cfg.Store)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = st.Put(ctx, "calculator", graphio.Serialize(scene))
//	doc, err := st.Get(ctx, "calculator")
package store

import (
	"context"
	"time"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
	"github.com/matzehuels/nodeweave/pkg/observability"
)

// Entry describes a stored document without loading it.
type Entry struct {
	Name      string    `json:"name" bson:"name"`
	DocID     string    `json:"doc_id" bson:"doc_id"`
	Nodes     int       `json:"nodes" bson:"nodes"`
	Edges     int       `json:"edges" bson:"edges"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Store is the interface for document storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Put stores doc under name, replacing any previous version.
	Put(ctx context.Context, name string, doc *graphio.Document) error

	// Get returns the document stored under name, or a NOT_FOUND error.
	Get(ctx context.Context, name string) (*graphio.Document, error)

	// List returns all entries sorted by name.
	List(ctx context.Context) ([]Entry, error)

	// Delete removes a document. Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error

	// Close releases the backend's resources.
	Close() error
}

func entryFor(name string, doc *graphio.Document, at time.Time) Entry {
	return Entry{
		Name:      name,
		DocID:     doc.ID,
		Nodes:     len(doc.Nodes),
		Edges:     len(doc.Edges),
		UpdatedAt: at.UTC(),
	}
}

func notFound(name string) error {
	return errs.New(errs.ErrCodeNotFound, "document %q not found", name)
}

func checkPut(name string, doc *graphio.Document) error {
	if err := errs.ValidateKey(name); err != nil {
		return err
	}
	if doc == nil {
		return errs.New(errs.ErrCodeInvalidInput, "nil document")
	}
	return nil
}

// instrumented reports every operation of a backend to the store hooks.
type instrumented struct {
	Store
	backend string
}

// Instrument wraps st so that its operations reach observability.Store().
func Instrument(st Store, backend string) Store {
	return &instrumented{Store: st, backend: backend}
}

func (s *instrumented) Put(ctx context.Context, name string, doc *graphio.Document) error {
	err := s.Store.Put(ctx, name, doc)
	size := 0
	if doc != nil {
		size = len(doc.Nodes) + len(doc.Edges)
	}
	observability.Store().OnPut(ctx, s.backend, name, size, err)
	return err
}

func (s *instrumented) Get(ctx context.Context, name string) (*graphio.Document, error) {
	doc, err := s.Store.Get(ctx, name)
	observability.Store().OnGet(ctx, s.backend, name, err == nil)
	return doc, err
}

func (s *instrumented) Delete(ctx context.Context, name string) error {
	err := s.Store.Delete(ctx, name)
	if err == nil {
		observability.Store().OnDelete(ctx, s.backend, name)
	}
	return err
}
