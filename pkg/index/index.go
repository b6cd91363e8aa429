// Package index keeps a database of the declarations found in eol files.
//
// Each indexed file has a row in files holding its content hash and
// modification time, used to skip unchanged files on the next Sync, and
// its syntax tree as gzip-compressed JSON. Its imports, models and
// operations are rows in declarations.
package index

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/sambeau/eol/pkg/eol/ast"
	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/parser"
)

// Index is a declaration index backed by a SQL database.
type Index struct {
	db          *sql.DB
	dialect     dialect
	log         *zap.Logger
	maxDepth    int
	concurrency int
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(idx *Index) {
		if log != nil {
			idx.log = log
		}
	}
}

// WithMaxDepth sets the parser nesting limit used when indexing.
func WithMaxDepth(n int) Option {
	return func(idx *Index) {
		idx.maxDepth = n
	}
}

// WithConcurrency sets how many files are parsed at once.
func WithConcurrency(n int) Option {
	return func(idx *Index) {
		if n > 0 {
			idx.concurrency = n
		}
	}
}

// Entry is one indexed declaration.
type Entry struct {
	Path      string `json:"path"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Context   string `json:"context,omitempty"`
	Signature string `json:"signature"`
	Line      int    `json:"line"`
}

// File is one indexed file.
type File struct {
	Path      string `json:"path"`
	Hash      string `json:"hash"`
	IndexedAt int64  `json:"indexed_at"`
	Error     string `json:"error,omitempty"` // syntax error, if the file did not parse
}

// Open connects to the database and creates the tables if necessary.
// driver is one of sqlite, postgres or mysql.
func Open(driver, dsn string, opts ...Option) (*Index, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, errors.WithHint(errors.Newf("unknown index driver %q", driver),
			"use one of: sqlite, postgres, mysql")
	}

	if driver == "sqlite" && dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrap(err, "creating index directory")
			}
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s index", driver)
	}
	if driver == "sqlite" {
		// one connection, so :memory: databases are shared and writes never contend
		db.SetMaxOpenConns(1)
	}

	idx := &Index{
		db:          db,
		dialect:     d,
		log:         zap.NewNop(),
		maxDepth:    parser.DefaultMaxDepth,
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(idx)
	}

	if err := idx.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *Index) createTables() error {
	for _, stmt := range idx.dialect.schema {
		if _, err := idx.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "creating index tables")
		}
	}
	return nil
}

// Close closes the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// DB returns the underlying database connection
func (idx *Index) DB() *sql.DB {
	return idx.db
}

func (idx *Index) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return idx.db.QueryContext(ctx, idx.dialect.rebind(query), args...)
}

// Lookup returns the declarations with the given name, ordered by file
// and line.
func (idx *Index) Lookup(ctx context.Context, name string) ([]Entry, error) {
	rows, err := idx.query(ctx,
		`SELECT path, kind, name, context, signature, line FROM declarations
		WHERE name = ? ORDER BY path, line`, name)
	if err != nil {
		return nil, errors.Wrapf(err, "looking up %s", name)
	}
	return scanEntries(rows)
}

// Declarations returns every declaration of one file in line order.
func (idx *Index) Declarations(ctx context.Context, path string) ([]Entry, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving path")
	}
	rows, err := idx.query(ctx,
		`SELECT path, kind, name, context, signature, line FROM declarations
		WHERE path = ? ORDER BY line`, path)
	if err != nil {
		return nil, errors.Wrapf(err, "listing declarations of %s", path)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Kind, &e.Name, &e.Context, &e.Signature, &e.Line); err != nil {
			return nil, errors.Wrap(err, "reading declaration")
		}
		entries = append(entries, e)
	}
	return entries, errors.Wrap(rows.Err(), "reading declarations")
}

// Files returns every indexed file ordered by path.
func (idx *Index) Files(ctx context.Context) ([]File, error) {
	rows, err := idx.query(ctx, `SELECT path, hash, indexed_at, error FROM files ORDER BY path`)
	if err != nil {
		return nil, errors.Wrap(err, "listing files")
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		var msg sql.NullString
		if err := rows.Scan(&f.Path, &f.Hash, &f.IndexedAt, &msg); err != nil {
			return nil, errors.Wrap(err, "reading file")
		}
		f.Error = msg.String
		files = append(files, f)
	}
	return files, errors.Wrap(rows.Err(), "reading files")
}

// Tree returns the stored syntax tree of an indexed file.
func (idx *Index) Tree(ctx context.Context, path string) (*ast.Node, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolving path")
	}
	var blob []byte
	var msg sql.NullString
	err = idx.db.QueryRowContext(ctx, idx.dialect.rebind(`SELECT ast, error FROM files WHERE path = ?`), path).
		Scan(&blob, &msg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Newf("%s is not indexed", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree of %s", path)
	}
	if len(blob) == 0 {
		return nil, errors.WithHint(errors.Newf("no tree stored for %s", path), msg.String)
	}
	return format.ReadJSON(bytes.NewReader(blob))
}

// Stats reports the number of indexed files, declarations and files that
// did not parse.
type Stats struct {
	Files        int `json:"files"`
	Declarations int `json:"declarations"`
	Errors       int `json:"errors"`
}

// Stats returns index statistics
func (idx *Index) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	queries := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM files`, &s.Files},
		{`SELECT COUNT(*) FROM declarations`, &s.Declarations},
		{`SELECT COUNT(*) FROM files WHERE error IS NOT NULL`, &s.Errors},
	}
	for _, q := range queries {
		if err := idx.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, errors.Wrap(err, "counting index rows")
		}
	}
	return &s, nil
}
