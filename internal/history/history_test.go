package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

func newTestLog(t *testing.T) (*Log, context.Context) {
	t.Helper()
	ctx := context.Background()

	s, err := store.Open(ctx, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Initialize(ctx))

	return New(s), ctx
}

func TestRecordCreate_ThenQuery(t *testing.T) {
	t.Parallel()

	log, ctx := newTestLog(t)
	require.NoError(t, log.RecordCreate(ctx, domain.KindSynset, "awn-00000001-n", `{"pos":"n"}`))

	rows, err := log.Query(ctx, Filter{Kind: domain.KindSynset})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.OpCreate, rows[0].Operation)
	assert.Equal(t, "awn-00000001-n", rows[0].EntityID)
}

func TestRecordFieldUpdate_OnePerField(t *testing.T) {
	t.Parallel()

	log, ctx := newTestLog(t)
	require.NoError(t, log.RecordFieldUpdate(ctx, domain.KindLexicon, "awn", "label", `"old"`, `"new"`))
	require.NoError(t, log.RecordFieldUpdate(ctx, domain.KindLexicon, "awn", "license", `"old"`, `"new"`))

	rows, err := log.Query(ctx, Filter{EntityID: "awn"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "label", rows[0].Field)
	assert.Equal(t, "license", rows[1].Field)
}

func TestSetEnabled_SuppressesWrites(t *testing.T) {
	t.Parallel()

	log, ctx := newTestLog(t)
	log.SetEnabled(false)
	require.NoError(t, log.RecordCreate(ctx, domain.KindEntry, "awn-cat-n", ""))

	rows, err := log.Query(ctx, Filter{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestQuery_OrderedAscendingByTimestamp(t *testing.T) {
	t.Parallel()

	log, ctx := newTestLog(t)
	require.NoError(t, log.RecordCreate(ctx, domain.KindEntry, "e1", ""))
	require.NoError(t, log.RecordCreate(ctx, domain.KindEntry, "e2", ""))
	require.NoError(t, log.RecordDelete(ctx, domain.KindEntry, "e1", ""))

	rows, err := log.Query(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "e1", rows[0].EntityID)
	assert.Equal(t, domain.OpCreate, rows[0].Operation)
	assert.Equal(t, "e1", rows[2].EntityID)
	assert.Equal(t, domain.OpDelete, rows[2].Operation)
}
