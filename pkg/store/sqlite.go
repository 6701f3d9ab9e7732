package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	errs "github.com/matzehuels/nodeweave/pkg/errors"
	graphio "github.com/matzehuels/nodeweave/pkg/io"
)

// SQLiteOptions configures a [SQLiteStore].
type SQLiteOptions struct {
	Path      string
	TableName string // Default "documents"
}

// SQLiteStore keeps documents in a SQLite table.
type SQLiteStore struct {
	db        *sql.DB
	tableName string
}

// NewSQLiteStore opens the database at opts.Path and creates the table if
// needed.
func NewSQLiteStore(ctx context.Context, opts SQLiteOptions) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", opts.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	tableName := opts.TableName
	if tableName == "" {
		tableName = "documents"
	}

	s := &SQLiteStore{db: db, tableName: tableName}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			name TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			nodes INTEGER NOT NULL,
			edges INTEGER NOT NULL,
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Put(ctx context.Context, name string, doc *graphio.Document) error {
	if err := checkPut(name, doc); err != nil {
		return err
	}
	data, err := graphio.Marshal(doc)
	if err != nil {
		return err
	}
	e := entryFor(name, doc, time.Now())

	query := fmt.Sprintf(`
		INSERT INTO %s (name, doc_id, nodes, edges, data, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			doc_id = excluded.doc_id,
			nodes = excluded.nodes,
			edges = excluded.edges,
			data = excluded.data,
			updated_at = excluded.updated_at
	`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, e.Name, e.DocID, e.Nodes, e.Edges, string(data), e.UpdatedAt); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*graphio.Document, error) {
	if err := errs.ValidateKey(name); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT data FROM %s WHERE name = ?`, s.tableName)

	var data string
	err := s.db.QueryRowContext(ctx, query, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return graphio.Parse([]byte(data))
}

func (s *SQLiteStore) List(ctx context.Context) ([]Entry, error) {
	query := fmt.Sprintf(`SELECT name, doc_id, nodes, edges, updated_at FROM %s ORDER BY name`, s.tableName)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.DocID, &e.Nodes, &e.Edges, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if err := errs.ValidateKey(name); err != nil {
		return err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = ?`, s.tableName)
	if _, err := s.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

var _ Store = (*SQLiteStore)(nil)
