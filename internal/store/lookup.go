package store

import (
	"context"
	"strings"

	"github.com/wnedit/wnedit/internal/domain"
)

// LexiconRowIDByID returns the row id for a lexicon's bare id. At most
// one lexicon can exist per bare id, so no version is needed.
func (s *Store) LexiconRowIDByID(ctx context.Context, id string) (int64, error) {
	var rowID int64
	err := QuerierFromCtx(ctx, s.db).GetContext(ctx, &rowID, `SELECT id FROM lexicons WHERE lex_id = ?`, id)
	if err != nil {
		return 0, mapError(err, domain.KindLexicon, id)
	}
	return rowID, nil
}

// LexiconRowIDBySpecifier resolves a "{id}:{version}" or bare "{id}" string
// to a row id. Because multiple versions of one bare id can never
// coexist, both forms resolve unambiguously; the version component (if
// given) is validated against the stored version.
func (s *Store) LexiconRowIDBySpecifier(ctx context.Context, specifier string) (int64, error) {
	id, version, hasVersion := strings.Cut(specifier, ":")

	var rowID int64
	var storedVersion string
	err := QuerierFromCtx(ctx, s.db).QueryRowxContext(ctx,
		`SELECT id, version FROM lexicons WHERE lex_id = ?`, id).Scan(&rowID, &storedVersion)
	if err != nil {
		return 0, mapError(err, domain.KindLexicon, specifier)
	}
	if hasVersion && storedVersion != version {
		return 0, domain.NewNotFoundError(domain.KindLexicon, specifier)
	}
	return rowID, nil
}

// SynsetRowIDByID returns the row id for a synset business key.
func (s *Store) SynsetRowIDByID(ctx context.Context, id string) (int64, error) {
	var rowID int64
	err := QuerierFromCtx(ctx, s.db).GetContext(ctx, &rowID, `SELECT id FROM synsets WHERE synset_id = ?`, id)
	if err != nil {
		return 0, mapError(err, domain.KindSynset, id)
	}
	return rowID, nil
}

// EntryRowIDByID returns the row id for an entry business key.
func (s *Store) EntryRowIDByID(ctx context.Context, id string) (int64, error) {
	var rowID int64
	err := QuerierFromCtx(ctx, s.db).GetContext(ctx, &rowID, `SELECT id FROM entries WHERE entry_id = ?`, id)
	if err != nil {
		return 0, mapError(err, domain.KindEntry, id)
	}
	return rowID, nil
}

// SenseRowIDByID returns the row id for a sense business key.
func (s *Store) SenseRowIDByID(ctx context.Context, id string) (int64, error) {
	var rowID int64
	err := QuerierFromCtx(ctx, s.db).GetContext(ctx, &rowID, `SELECT id FROM senses WHERE sense_id = ?`, id)
	if err != nil {
		return 0, mapError(err, domain.KindSense, id)
	}
	return rowID, nil
}

// ILIRowIDByID returns the row id for an ILI business key.
func (s *Store) ILIRowIDByID(ctx context.Context, id string) (int64, error) {
	var rowID int64
	err := QuerierFromCtx(ctx, s.db).GetContext(ctx, &rowID, `SELECT id FROM ilis WHERE ili_id = ?`, id)
	if err != nil {
		return 0, mapError(err, domain.KindILI, id)
	}
	return rowID, nil
}

// EscapeLike escapes SQL LIKE wildcards (_ and %) so a literal substring
// match doesn't cross-match unrelated identifiers — e.g. without this,
// a LIKE pattern built from "foo_bar" would also match "foo-bar" because
// '_' matches any single character.
func EscapeLike(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "_", "\\_", "%", "\\%")
	return r.Replace(s)
}
