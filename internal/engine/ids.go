package engine

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wnedit/wnedit/internal/store"
)

// nextSynsetID returns the 8-digit zero-padded synset counter one greater
// than the largest existing counter among this lexicon's synset ids (of
// any part of speech), formatted "{lexID}-{NNNNNNNN}-{pos}".
func nextSynsetID(ctx context.Context, s *store.Store, lexID string, pos string) (string, error) {
	prefix := lexID + "-"
	pattern := store.EscapeLike(prefix) + "%"

	var ids []string
	q := store.QuerierFromCtx(ctx, s.DB())
	if err := q.SelectContext(ctx, &ids, `SELECT synset_id FROM synsets WHERE synset_id LIKE ? ESCAPE '\'`, pattern); err != nil {
		return "", err
	}

	max := 0
	for _, id := range ids {
		rest := strings.TrimPrefix(id, prefix)
		parts := strings.SplitN(rest, "-", 2)
		if len(parts) != 2 {
			continue
		}
		n, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("%s-%08d-%s", lexID, max+1, pos), nil
}

// normalizeLemmaForID lowercases, turns spaces into underscores, and
// strips any character outside word characters and hyphens; an empty
// result falls back to "entry".
func normalizeLemmaForID(lemma string) string {
	lower := strings.ToLower(lemma)
	lower = strings.ReplaceAll(lower, " ", "_")

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	out := b.String()
	if out == "" {
		return "entry"
	}
	return out
}

// nextEntryID builds the base "{lex}-{normalized}-{pos}" id and, on
// collision, appends the smallest unused integer suffix >= 2, filling
// gaps left by prior deletions rather than always appending at the end.
func nextEntryID(ctx context.Context, s *store.Store, lexID, lemma string, pos string) (string, error) {
	normalized := normalizeLemmaForID(lemma)
	base := fmt.Sprintf("%s-%s-%s", lexID, normalized, pos)

	q := store.QuerierFromCtx(ctx, s.DB())

	var baseExists int
	if err := q.GetContext(ctx, &baseExists, `SELECT COUNT(*) FROM entries WHERE entry_id = ?`, base); err != nil {
		return "", err
	}
	if baseExists == 0 {
		return base, nil
	}

	pattern := store.EscapeLike(base) + `-%`
	var ids []string
	if err := q.SelectContext(ctx, &ids, `SELECT entry_id FROM entries WHERE entry_id LIKE ? ESCAPE '\'`, pattern); err != nil {
		return "", err
	}

	used := map[int]bool{}
	prefix := base + "-"
	for _, id := range ids {
		rest := strings.TrimPrefix(id, prefix)
		n, err := strconv.Atoi(rest)
		if err != nil {
			continue
		}
		used[n] = true
	}

	suffixes := make([]int, 0, len(used))
	for n := range used {
		suffixes = append(suffixes, n)
	}
	sort.Ints(suffixes)

	for n := 2; ; n++ {
		if !used[n] {
			return fmt.Sprintf("%s-%d", base, n), nil
		}
	}
}

// synsetLocalPart extracts the counter segment of a synset id
// "{lex}-{NNNNNNNN}-{pos}", used to build sense auto-ids.
func synsetLocalPart(synsetID string) string {
	parts := strings.Split(synsetID, "-")
	if len(parts) < 2 {
		return synsetID
	}
	return parts[len(parts)-2]
}

// nextSenseID builds "{entryID}-{synsetLocalPart}-{PP}" where PP is the
// entry-rank, zero-padded to 2 digits.
func nextSenseID(entryID, synsetID string, entryRank int) string {
	return fmt.Sprintf("%s-%s-%02d", entryID, synsetLocalPart(synsetID), entryRank)
}
