package pipeline

import (
	"strings"

	"github.com/itmurugan/marketbrief/internal/digest/source"
)

// KeyFunc derives the dedup key identifying a story across sources.
type KeyFunc func(source.Article) string

// ExactTitleKey keys on the verbatim title. The daily briefing uses it;
// identical wire stories republished by several feeds collapse, near
// duplicates with edited titles survive.
func ExactTitleKey(a source.Article) string {
	return a.Title
}

// NormalizedTitleKey keys on the lowercase first 50 characters of the
// title. More tolerant of minor title edits across sources covering the
// same story; it subsumes exact matching and is the default.
func NormalizedTitleKey(a source.Article) string {
	key := strings.ToLower(a.Title)
	runes := []rune(key)
	if len(runes) > 50 {
		key = string(runes[:50])
	}
	return key
}

// Dedupe removes articles whose key was already seen, first occurrence
// wins. Insertion order is preserved and no fields are merged between a
// survivor and its discarded duplicates.
func Dedupe(articles []source.Article, key KeyFunc) []source.Article {
	if key == nil {
		key = NormalizedTitleKey
	}

	seen := make(map[string]bool, len(articles))
	out := make([]source.Article, 0, len(articles))
	for _, a := range articles {
		k := key(a)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
