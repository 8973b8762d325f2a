package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/wnedit/wnedit/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	s, err := Open(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Initialize(ctx))
	return s
}

func TestOpen_InMemory_InitializeSeeds(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := openTestStore(t)

	v, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, schemaVersion, v)
}

func TestInitialize_Idempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := openTestStore(t)
	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))
}

func TestInitialize_SchemaMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := openTestStore(t)

	_, err := s.db.ExecContext(ctx, `UPDATE meta SET value = '0.9' WHERE key = 'schema_version'`)
	require.NoError(t, err)

	err = s.Initialize(ctx)
	require.Error(t, err)
	var mismatch *domain.SchemaMismatchError
	assert.ErrorAs(t, err, &mismatch)
	assert.ErrorIs(t, err, domain.ErrStore)
}

func TestLexiconRowIDByID_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := openTestStore(t)
	_, err := s.LexiconRowIDByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLexiconRowIDBySpecifier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := openTestStore(t)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lexicons (lex_id, version, label, language, email, license, created_at)
		VALUES ('awn', '1.0', 'Animal WordNet', 'en', 'a@b.com', 'CC0', '2026-01-01T00:00:00Z')`)
	require.NoError(t, err)

	rowID, err := s.LexiconRowIDBySpecifier(ctx, "awn:1.0")
	require.NoError(t, err)
	assert.NotZero(t, rowID)

	rowID2, err := s.LexiconRowIDBySpecifier(ctx, "awn")
	require.NoError(t, err)
	assert.Equal(t, rowID, rowID2)

	_, err = s.LexiconRowIDBySpecifier(ctx, "awn:2.0")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `foo\_bar`, EscapeLike("foo_bar"))
	assert.Equal(t, `foo\%bar`, EscapeLike("foo%bar"))
	assert.Equal(t, `foo-bar`, EscapeLike("foo-bar"))
}
