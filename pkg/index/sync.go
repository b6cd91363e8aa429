package index

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"github.com/sambeau/eol/pkg/eol/format"
	"github.com/sambeau/eol/pkg/eol/outline"
	"github.com/sambeau/eol/pkg/eol/parser"
)

// SyncStats describes what one Sync did.
type SyncStats struct {
	Scanned   int
	New       int
	Changed   int
	Unchanged int
	Deleted   int
	Invalid   int // new or changed files that did not parse
	Duration  time.Duration
}

// String formats the stats for logging.
func (s SyncStats) String() string {
	return fmt.Sprintf("scanned=%d new=%d changed=%d unchanged=%d deleted=%d invalid=%d duration=%v",
		s.Scanned, s.New, s.Changed, s.Unchanged, s.Deleted, s.Invalid, s.Duration)
}

// stored is what the files table knows about a path.
type stored struct {
	hash  string
	mtime int64
}

// scanned is a file found on disk.
type scanned struct {
	path  string
	mtime int64
}

// result is a new or changed file, read and parsed.
type result struct {
	scanned
	hash    string
	touch   bool // content unchanged, only the mtime moved
	blob    []byte
	entries []Entry
	err     string
}

// Sync brings the index up to date with the files under roots whose
// extension is one of exts. Files whose modification time and content
// hash are unchanged are skipped; files that no longer exist under roots
// are removed. Files under other roots are left alone.
func (idx *Index) Sync(ctx context.Context, roots, exts []string) (*SyncStats, error) {
	start := time.Now()

	roots, err := absAll(roots)
	if err != nil {
		return nil, err
	}

	found, err := scan(roots, exts)
	if err != nil {
		return nil, err
	}
	known, err := idx.known(ctx)
	if err != nil {
		return nil, err
	}

	stats := &SyncStats{Scanned: len(found)}
	var todo []scanned
	seen := make(map[string]bool, len(found))
	for _, f := range found {
		seen[f.path] = true
		if k, ok := known[f.path]; ok && k.mtime == f.mtime {
			stats.Unchanged++
			continue
		}
		todo = append(todo, f)
	}

	results, err := idx.parseAll(ctx, todo, known)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	for _, r := range results {
		_, existed := known[r.path]
		switch {
		case r.touch:
			stats.Unchanged++
		case existed:
			stats.Changed++
		default:
			stats.New++
		}
		if r.err != "" {
			stats.Invalid++
		}
		if err := idx.store(ctx, r, existed, now); err != nil {
			return nil, err
		}
	}

	for path := range known {
		if seen[path] || !underAny(path, roots) {
			continue
		}
		if err := idx.remove(ctx, path); err != nil {
			return nil, err
		}
		idx.log.Debug("removed", zap.String("path", path))
		stats.Deleted++
	}

	stats.Duration = time.Since(start)
	idx.log.Info("index synced",
		zap.Strings("roots", roots),
		zap.Int("new", stats.New),
		zap.Int("changed", stats.Changed),
		zap.Int("deleted", stats.Deleted),
		zap.Int("invalid", stats.Invalid),
		zap.Duration("duration", stats.Duration))
	return stats, nil
}

// scan walks roots for files with a matching extension, skipping hidden
// directories.
func scan(roots, exts []string) ([]scanned, error) {
	var found []scanned
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return nil
			}
			if d.IsDir() {
				if strings.HasPrefix(d.Name(), ".") && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if !hasExt(path, exts) {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			found = append(found, scanned{path: path, mtime: info.ModTime().UnixNano()})
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "scanning %s", root)
		}
	}
	return found, nil
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving %s", p)
		}
		out[i] = abs
	}
	return out, nil
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func underAny(path string, roots []string) bool {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (idx *Index) known(ctx context.Context) (map[string]stored, error) {
	rows, err := idx.query(ctx, `SELECT path, hash, mtime FROM files`)
	if err != nil {
		return nil, errors.Wrap(err, "reading indexed files")
	}
	defer rows.Close()

	known := make(map[string]stored)
	for rows.Next() {
		var path string
		var s stored
		if err := rows.Scan(&path, &s.hash, &s.mtime); err != nil {
			return nil, errors.Wrap(err, "reading indexed file")
		}
		known[path] = s
	}
	return known, errors.Wrap(rows.Err(), "reading indexed files")
}

// parseAll reads, hashes and parses files concurrently. Parsers share no
// state, so each file gets its own.
func (idx *Index) parseAll(ctx context.Context, todo []scanned, known map[string]stored) ([]result, error) {
	results := make([]result, len(todo))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.concurrency)
	for i, f := range todo {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := idx.parseFile(f, known)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (idx *Index) parseFile(f scanned, known map[string]stored) (result, error) {
	r := result{scanned: f}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return r, errors.Wrapf(err, "reading %s", f.path)
	}
	sum := blake2b.Sum256(data)
	r.hash = hex.EncodeToString(sum[:])
	if k, ok := known[f.path]; ok && k.hash == r.hash {
		r.touch = true
		return r, nil
	}

	module, err := parser.ParseModule(string(data),
		parser.WithFilename(f.path), parser.WithMaxDepth(idx.maxDepth))
	if err != nil {
		r.err = err.Error()
		idx.log.Debug("syntax error", zap.String("path", f.path), zap.Error(err))
		return r, nil
	}

	var buf bytes.Buffer
	if err := format.WriteJSON(&buf, module, format.JSONOptions{Gzip: true}); err != nil {
		return r, errors.Wrapf(err, "encoding tree of %s", f.path)
	}
	r.blob = buf.Bytes()

	for _, d := range outline.Extract(f.path, module).Declarations() {
		r.entries = append(r.entries, Entry{
			Path:      f.path,
			Kind:      d.Kind,
			Name:      d.Name,
			Context:   d.Context,
			Signature: d.Signature(),
			Line:      d.Line,
		})
	}
	return r, nil
}

// store writes one parsed file in its own transaction.
func (idx *Index) store(ctx context.Context, r result, existed bool, now int64) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	exec := func(query string, args ...any) error {
		_, err := tx.ExecContext(ctx, idx.dialect.rebind(query), args...)
		return err
	}

	if r.touch {
		if err := exec(`UPDATE files SET mtime = ? WHERE path = ?`, r.mtime, r.path); err != nil {
			return errors.Wrapf(err, "updating %s", r.path)
		}
		return errors.Wrap(tx.Commit(), "committing")
	}

	if existed {
		if err := exec(`DELETE FROM declarations WHERE path = ?`, r.path); err != nil {
			return errors.Wrapf(err, "clearing declarations of %s", r.path)
		}
		if err := exec(`DELETE FROM files WHERE path = ?`, r.path); err != nil {
			return errors.Wrapf(err, "clearing %s", r.path)
		}
	}

	var blob any
	if r.blob != nil {
		blob = r.blob
	}
	var msg sql.NullString
	if r.err != "" {
		msg = sql.NullString{String: r.err, Valid: true}
	}
	if err := exec(`INSERT INTO files (path, hash, mtime, indexed_at, ast, error) VALUES (?, ?, ?, ?, ?, ?)`,
		r.path, r.hash, r.mtime, now, blob, msg); err != nil {
		return errors.Wrapf(err, "storing %s", r.path)
	}
	for _, e := range r.entries {
		if err := exec(`INSERT INTO declarations (path, kind, name, context, signature, line) VALUES (?, ?, ?, ?, ?, ?)`,
			e.Path, e.Kind, e.Name, e.Context, e.Signature, e.Line); err != nil {
			return errors.Wrapf(err, "storing declaration %s", e.Name)
		}
	}

	idx.log.Debug("indexed", zap.String("path", r.path), zap.Int("declarations", len(r.entries)))
	return errors.Wrap(tx.Commit(), "committing")
}

func (idx *Index) remove(ctx context.Context, path string) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting transaction")
	}
	defer tx.Rollback()

	for _, q := range []string{`DELETE FROM declarations WHERE path = ?`, `DELETE FROM files WHERE path = ?`} {
		if _, err := tx.ExecContext(ctx, idx.dialect.rebind(q), path); err != nil {
			return errors.Wrapf(err, "removing %s", path)
		}
	}
	return errors.Wrap(tx.Commit(), "committing")
}
