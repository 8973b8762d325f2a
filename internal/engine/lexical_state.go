package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// synsetSenseCount returns how many senses currently target the synset
// row.
func synsetSenseCount(ctx context.Context, e *Editor, synsetRowID int64) (int, error) {
	var n int
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM senses WHERE synset_id = ?`, synsetRowID); err != nil {
		return 0, domain.NewStoreError("count senses", err)
	}
	return n, nil
}

func setUnlexicalizedSynset(ctx context.Context, e *Editor, synsetRowID int64) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())
	_, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO unlexicalized_synsets (synset_id) VALUES (?)`, synsetRowID)
	if err != nil {
		return domain.NewStoreError("mark unlexicalized", err)
	}
	return nil
}

func clearUnlexicalizedSynset(ctx context.Context, e *Editor, synsetRowID int64) error {
	q := store.QuerierFromCtx(ctx, e.db.DB())
	_, err := q.ExecContext(ctx, `DELETE FROM unlexicalized_synsets WHERE synset_id = ?`, synsetRowID)
	if err != nil {
		return domain.NewStoreError("clear unlexicalized", err)
	}
	return nil
}

// recheckSynsetLexicalization restores the lexicalization invariant after
// a sense is added, removed, or moved: a synset with zero senses becomes
// unlexicalized; one with at least one sense is never marked unlexicalized.
func recheckSynsetLexicalization(ctx context.Context, e *Editor, synsetRowID int64) error {
	n, err := synsetSenseCount(ctx, e, synsetRowID)
	if err != nil {
		return err
	}
	if n == 0 {
		return setUnlexicalizedSynset(ctx, e, synsetRowID)
	}
	return clearUnlexicalizedSynset(ctx, e, synsetRowID)
}

func isUnlexicalizedSynset(ctx context.Context, e *Editor, synsetRowID int64) (bool, error) {
	var n int
	q := store.QuerierFromCtx(ctx, e.db.DB())
	if err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM unlexicalized_synsets WHERE synset_id = ?`, synsetRowID); err != nil {
		return false, domain.NewStoreError("read unlexicalized mark", err)
	}
	return n > 0, nil
}
