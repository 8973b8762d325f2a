package lmf

import (
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"github.com/wnedit/wnedit/internal/domain"
)

// expandIn rewrites a query containing one "?" bound to a slice into the
// repeated placeholders sqlx.In requires, the same pattern the store's
// other bulk-read paths use for a single IN-clause parameter.
func expandIn(query string, ids []int64) (string, []any, error) {
	return sqlx.In(query, ids)
}

// decodeJSONMeta parses a metadata JSON blob read directly off a row.
// This duplicates the engine package's own metadata codec rather than
// importing its unexported identifier; both sides independently wrap
// encoding/json over the same textual column.
func decodeJSONMeta(raw string) (domain.Metadata, error) {
	if raw == "" {
		return nil, nil
	}
	var m domain.Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
