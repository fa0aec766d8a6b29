package pipeline

import (
	"strings"

	"github.com/itmurugan/marketbrief/internal/digest/roster"
	"github.com/itmurugan/marketbrief/internal/digest/source"
)

// MatchStocks returns the roster stocks an article mentions, in roster
// order. A mention is the lowercase company name or the bare ticker
// appearing anywhere in the title or description.
func MatchStocks(a source.Article, r roster.Roster) []string {
	text := strings.ToLower(a.Title + " " + a.Description)

	var names []string
	for _, s := range r {
		if strings.Contains(text, strings.ToLower(s.Name)) ||
			strings.Contains(text, strings.ToLower(s.BareTicker())) {
			names = append(names, s.Name)
		}
	}
	return names
}
