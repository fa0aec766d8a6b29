// Package relevance decides whether an article belongs in a digest.
//
// Two interchangeable policies exist: a keyword policy for the general
// market briefing, and a roster term-match policy for the portfolio and
// watchlist pipelines.
package relevance

import "strings"

// Policy reports whether an article's title and description qualify it
// for inclusion in a pipeline's result.
type Policy interface {
	Relevant(title, description string) bool
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(title, description string) bool

func (f PolicyFunc) Relevant(title, description string) bool {
	return f(title, description)
}

func foldText(title, description string) string {
	return strings.ToLower(title + " " + description)
}
