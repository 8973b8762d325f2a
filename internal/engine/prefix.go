package engine

import "strings"

// hasLexiconPrefix reports whether id begins with "{lexID}-", as
// required of every non-lexicon entity id.
func hasLexiconPrefix(id, lexID string) bool {
	return strings.HasPrefix(id, lexID+"-")
}
