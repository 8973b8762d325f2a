package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/wnedit/wnedit/internal/domain"
)

// mapError converts database/sql and modernc.org/sqlite errors into domain
// errors, switching on SQLite's extended result codes instead of
// Postgres SQLSTATEs.
// context.DeadlineExceeded and context.Canceled pass through unmapped.
// MapError is the exported form of mapError for collaborators (engine,
// lmf) that issue ad-hoc SQL through QuerierFromCtx rather than a Store
// method.
func MapError(err error, kind domain.EntityKind, id string) error {
	return mapError(err, kind, id)
}

func mapError(err error, kind domain.EntityKind, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", kind, id, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError(kind, id)
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return domain.NewDuplicateError(kind, id)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return domain.NewNotFoundError(kind, id)
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return domain.NewValidationError(string(kind), sqliteErr.Error())
		}
	}

	return fmt.Errorf("%s %s: %w", kind, id, domain.NewStoreError("query", err))
}
