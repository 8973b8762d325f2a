package engine

import (
	"context"

	"github.com/wnedit/wnedit/internal/domain"
	"github.com/wnedit/wnedit/internal/store"
)

// AddSyntacticBehaviour records a verb-frame template for a lexicon,
// unique per (lexicon, frame). sbID is optional; WN-LMF allows
// syntactic behaviours to carry no explicit id.
func (e *Editor) AddSyntacticBehaviour(ctx context.Context, lexiconID, frame string, sbID domain.Opt[string]) (domain.SyntacticBehaviour, error) {
	var out domain.SyntacticBehaviour
	err := e.runTx(ctx, func(ctx context.Context) error {
		lexRow, err := e.db.LexiconRowIDByID(ctx, lexiconID)
		if err != nil {
			return err
		}
		var id *string
		if sbID.Set && sbID.Value != "" {
			if !hasLexiconPrefix(sbID.Value, lexiconID) {
				return domain.NewValidationError("id", "syntactic behaviour id must begin with the owning lexicon's id")
			}
			id = &sbID.Value
		}

		q := store.QuerierFromCtx(ctx, e.db.DB())
		if _, err := q.ExecContext(ctx, `INSERT INTO syntactic_behaviours (lexicon_id, sb_id, frame) VALUES (?, ?, ?)`,
			lexRow, id, frame); err != nil {
			return store.MapError(err, domain.KindSyntacticBehaviour, frame)
		}

		out = domain.SyntacticBehaviour{LexiconID: lexiconID, Frame: frame}
		if id != nil {
			out.ID = *id
		}
		return e.history.RecordCreate(ctx, domain.KindSyntacticBehaviour, frame, "")
	})
	return out, err
}

// RemoveSyntacticBehaviour deletes the (lexicon, frame) row and, via
// cascade, its sense attachments.
func (e *Editor) RemoveSyntacticBehaviour(ctx context.Context, lexiconID, frame string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		lexRow, err := e.db.LexiconRowIDByID(ctx, lexiconID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())
		res, err := q.ExecContext(ctx, `DELETE FROM syntactic_behaviours WHERE lexicon_id = ? AND frame = ?`, lexRow, frame)
		if err != nil {
			return domain.NewStoreError("remove syntactic behaviour", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return domain.NewNotFoundError(domain.KindSyntacticBehaviour, frame)
		}
		return e.history.RecordDelete(ctx, domain.KindSyntacticBehaviour, frame, "")
	})
}

// AttachSyntacticBehaviourToSense associates a sense with a syntactic
// behaviour of the same lexicon. Duplicate attachment is a no-op.
func (e *Editor) AttachSyntacticBehaviourToSense(ctx context.Context, lexiconID, frame, senseID string) error {
	return e.runTx(ctx, func(ctx context.Context) error {
		lexRow, err := e.db.LexiconRowIDByID(ctx, lexiconID)
		if err != nil {
			return err
		}
		senseRow, err := e.db.SenseRowIDByID(ctx, senseID)
		if err != nil {
			return err
		}
		q := store.QuerierFromCtx(ctx, e.db.DB())

		var sbRow int64
		if err := q.GetContext(ctx, &sbRow, `SELECT id FROM syntactic_behaviours WHERE lexicon_id = ? AND frame = ?`, lexRow, frame); err != nil {
			return domain.NewNotFoundError(domain.KindSyntacticBehaviour, frame)
		}

		if _, err := q.ExecContext(ctx, `INSERT OR IGNORE INTO syntactic_behaviour_senses (sb_id, sense_id) VALUES (?, ?)`, sbRow, senseRow); err != nil {
			return domain.NewStoreError("attach syntactic behaviour", err)
		}
		return e.history.RecordCreate(ctx, domain.KindSyntacticBehaviour, frame+"/"+senseID, "")
	})
}
