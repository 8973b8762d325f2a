package validate

import "encoding/json"

// decodeMetadataForValidate parses a metadata JSON blob read straight off
// a row. There's no ecosystem replacement in the corpus for ad-hoc JSON
// decode of a single column value, so this stays on encoding/json like
// the engine package's own metadata codec does.
func decodeMetadataForValidate(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}
