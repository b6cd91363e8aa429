package index

// Database driver imports for side-effect registration with database/sql.

import (
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/lib/pq"              // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// dialect holds what differs between the supported backends.
type dialect struct {
	driver   string   // database/sql driver name
	numbered bool     // $1-style placeholders
	schema   []string // statements creating the tables
}

var dialects = map[string]dialect{
	"sqlite": {
		driver: "sqlite",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS files (
				path TEXT PRIMARY KEY,
				hash TEXT NOT NULL,
				mtime INTEGER NOT NULL,
				indexed_at INTEGER NOT NULL,
				ast BLOB,
				error TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS declarations (
				path TEXT NOT NULL,
				kind TEXT NOT NULL,
				name TEXT NOT NULL,
				context TEXT NOT NULL,
				signature TEXT NOT NULL,
				line INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name)`,
			`CREATE INDEX IF NOT EXISTS idx_declarations_path ON declarations(path)`,
		},
	},
	"postgres": {
		driver:   "postgres",
		numbered: true,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS files (
				path TEXT PRIMARY KEY,
				hash TEXT NOT NULL,
				mtime BIGINT NOT NULL,
				indexed_at BIGINT NOT NULL,
				ast BYTEA,
				error TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS declarations (
				path TEXT NOT NULL,
				kind TEXT NOT NULL,
				name TEXT NOT NULL,
				context TEXT NOT NULL,
				signature TEXT NOT NULL,
				line INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name)`,
			`CREATE INDEX IF NOT EXISTS idx_declarations_path ON declarations(path)`,
		},
	},
	"mysql": {
		driver: "mysql",
		schema: []string{
			`CREATE TABLE IF NOT EXISTS files (
				path VARCHAR(512) PRIMARY KEY,
				hash CHAR(64) NOT NULL,
				mtime BIGINT NOT NULL,
				indexed_at BIGINT NOT NULL,
				ast LONGBLOB,
				error TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS declarations (
				path VARCHAR(512) NOT NULL,
				kind VARCHAR(32) NOT NULL,
				name VARCHAR(255) NOT NULL,
				context VARCHAR(255) NOT NULL,
				signature TEXT NOT NULL,
				line INT NOT NULL,
				INDEX idx_declarations_name (name),
				INDEX idx_declarations_path (path)
			)`,
		},
	},
}

// rebind rewrites ? placeholders for backends that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
