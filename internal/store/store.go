// Package store implements the persistent schema, row-level CRUD
// primitives, connection lifecycle, and schema-version gate. It is
// backed by modernc.org/sqlite, a CGo-free embedded engine reached
// through database/sql — the store is a single file (or in-memory)
// relational store with foreign-key enforcement on and write-ahead
// logging for file-backed handles.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/wnedit/wnedit/internal/domain"
)

// Store owns the connection and every persistent row.
// Single-writer: callers must not share a *Store across goroutines that
// mutate concurrently.
type Store struct {
	db   *sqlx.DB
	path string
}

// Options controls the connection pragmas Open applies to a file-backed
// store. The zero value is not valid; use DefaultOptions.
type Options struct {
	WAL         bool
	BusyTimeout time.Duration
}

// DefaultOptions matches the pragmas Open used before Options existed:
// WAL on, a five-second busy timeout.
func DefaultOptions() Options {
	return Options{WAL: true, BusyTimeout: 5 * time.Second}
}

// Open opens (creating if necessary) a SQLite-backed store at path, or an
// in-memory store if path is "" or ":memory:", using DefaultOptions. It
// does not run Initialize; callers open then Initialize explicitly so a
// caller can distinguish "open an existing store" from "create a fresh
// one" if they need to.
func Open(ctx context.Context, path string) (*Store, error) {
	return OpenWithOptions(ctx, path, DefaultOptions())
}

// OpenWithOptions is Open with caller-controlled connection pragmas, for
// callers that source WAL/busy-timeout from their own configuration.
func OpenWithOptions(ctx context.Context, path string, opts Options) (*Store, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sqlx.Open("sqlite", dsn+pragmaSuffix(dsn, opts))
	if err != nil {
		return nil, domain.NewStoreError("open", err)
	}

	// Single-writer model: cap to one physical connection so SQLite's
	// own file lock is never contended from within this process.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, domain.NewStoreError("ping", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, domain.NewStoreError("enable foreign keys", err)
	}

	return &Store{db: db, path: dsn}, nil
}

// pragmaSuffix appends connection pragmas for file-backed stores;
// in-memory stores don't support WAL and don't need a busy timeout.
func pragmaSuffix(dsn string, opts Options) string {
	if dsn == ":memory:" {
		return ""
	}
	suffix := fmt.Sprintf("?_pragma=busy_timeout(%d)", opts.BusyTimeout.Milliseconds())
	if opts.WAL {
		suffix += "&_pragma=journal_mode(WAL)"
	}
	return suffix
}

// Initialize runs idempotent DDL, seeds ILI statuses and adjposition
// values, writes the schema-version marker and creation timestamp if
// absent, and checks the existing marker against schemaVersion otherwise.
func (s *Store) Initialize(ctx context.Context) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.NewStoreError("initialize: begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return domain.NewStoreError("initialize: ddl", err)
	}

	var existing string
	err = tx.GetContext(ctx, &existing, `SELECT value FROM meta WHERE key = 'schema_version'`)
	switch {
	case err == sql.ErrNoRows:
		now := time.Now().UTC().Format(time.RFC3339Nano)
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('schema_version', ?), ('created_at', ?)`,
			schemaVersion, now); err != nil {
			return domain.NewStoreError("initialize: seed meta", err)
		}
	case err != nil:
		return domain.NewStoreError("initialize: read schema version", err)
	default:
		if existing != schemaVersion {
			return &domain.SchemaMismatchError{Expected: schemaVersion, Actual: existing}
		}
	}

	for _, status := range seedILIStatuses {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO ili_statuses (status) VALUES (?)`, status); err != nil {
			return domain.NewStoreError("initialize: seed ili_statuses", err)
		}
	}
	for _, v := range seedAdjPositions {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO adjpositions (value) VALUES (?)`, v); err != nil {
			return domain.NewStoreError("initialize: seed adjpositions", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError("initialize: commit", err)
	}
	return nil
}

// SchemaVersion returns the store's recorded schema-version token.
func (s *Store) SchemaVersion(ctx context.Context) (string, error) {
	var v string
	if err := s.db.GetContext(ctx, &v, `SELECT value FROM meta WHERE key = 'schema_version'`); err != nil {
		return "", mapError(err, domain.KindLexicon, "schema_version")
	}
	return v, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying *sqlx.DB for packages (engine, validate, lmf)
// that need to build ad-hoc queries beyond the primitives in this package.
// It is not part of the public editor API.
func (s *Store) DB() *sqlx.DB { return s.db }

// UpsertRelationType records a relation kind seen for a domain, along with
// its inverse if known. The importer calls this for every kind referenced
// in the input, even kinds outside the static catalog; a relation of such
// a kind is still refused by the editor's AddRelation when the importer
// tries to add it, and the importer reports it as a non-fatal problem.
func (s *Store) UpsertRelationType(ctx context.Context, domainName, kind, inverse string) error {
	_, err := s.exec(ctx, `
		INSERT INTO relation_types (domain, kind, inverse) VALUES (?, ?, ?)
		ON CONFLICT(domain, kind) DO UPDATE SET inverse = excluded.inverse`,
		domainName, kind, inverse)
	return err
}

// UpsertLexfile records a lexfile name seen in the input, returning its
// row id.
func (s *Store) UpsertLexfile(ctx context.Context, name string) (int64, error) {
	if _, err := s.exec(ctx, `INSERT OR IGNORE INTO lexfiles (name) VALUES (?)`, name); err != nil {
		return 0, err
	}
	var id int64
	if err := s.get(ctx, &id, `SELECT id FROM lexfiles WHERE name = ?`, name); err != nil {
		return 0, mapError(err, domain.KindSynset, name)
	}
	return id, nil
}

// UpsertILIStatus returns the row id for status, inserting it if new.
func (s *Store) UpsertILIStatus(ctx context.Context, status string) (int64, error) {
	if _, err := s.exec(ctx, `INSERT OR IGNORE INTO ili_statuses (status) VALUES (?)`, status); err != nil {
		return 0, err
	}
	var id int64
	if err := s.get(ctx, &id, `SELECT id FROM ili_statuses WHERE status = ?`, status); err != nil {
		return 0, mapError(err, domain.KindILI, status)
	}
	return id, nil
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	q := QuerierFromCtx(ctx, s.db)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec: %w", err)
	}
	return res, nil
}

func (s *Store) get(ctx context.Context, dest any, query string, args ...any) error {
	q := QuerierFromCtx(ctx, s.db)
	return q.GetContext(ctx, dest, query, args...)
}
