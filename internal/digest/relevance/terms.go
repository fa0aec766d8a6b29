package relevance

import (
	"regexp"
	"strings"
)

// TermPolicy retains an article when its text contains at least one of the
// configured search terms as a whole word. Substring hits do not count:
// the term "AI" must not match inside "Airline".
type TermPolicy struct {
	pattern *regexp.Regexp
}

// NewTermPolicy compiles a whole-word matcher for the given search terms.
// Terms are matched case-insensitively; regex metacharacters inside a term
// (tickers like "BRK.B") are escaped. An empty term set matches nothing.
func NewTermPolicy(terms []string) *TermPolicy {
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	if len(quoted) == 0 {
		return &TermPolicy{}
	}
	pattern := regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	return &TermPolicy{pattern: pattern}
}

func (p *TermPolicy) Relevant(title, description string) bool {
	if p.pattern == nil {
		return false
	}
	return p.pattern.MatchString(title + " " + description)
}
