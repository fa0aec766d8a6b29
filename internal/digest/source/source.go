// Package source defines the article model, the source contract, and the
// fetch adapters for every feed and API the digest pipelines pull from.
package source

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Article is a single news item normalized from any source.
// PublishedAt keeps the source's native date string; it is parsed only
// when articles need to be compared by recency.
type Article struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	URL            string   `json:"url"`
	Source         string   `json:"source"`
	Category       string   `json:"category"`
	PublishedAt    string   `json:"publishedAt"`
	RelatedStocks  []string `json:"relatedStocks,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	Sentiment      string   `json:"sentiment,omitempty"`
	SentimentScore float64  `json:"sentimentScore,omitempty"`
}

// publishedLayouts covers the date formats seen across RSS feeds and the
// JSON news APIs. RFC1123 variants dominate; AlphaVantage uses a compact
// form of its own.
var publishedLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z",
	"20060102T150405",
}

// PublishedTime parses the article's publish date. Unparseable or missing
// dates yield the zero time, which sorts behind everything else.
func (a Article) PublishedTime() time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, a.PublishedAt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Source is the contract every fetch adapter implements.
type Source interface {
	// Name returns the human-readable publisher name.
	Name() string

	// Fetch retrieves and normalizes articles from this source.
	Fetch(ctx context.Context) ([]Article, error)
}

// FetchError records one source's failure in a fan-out run.
type FetchError struct {
	Source string `json:"source"`
	Err    error  `json:"-"`
}

func (e FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e FetchError) Unwrap() error { return e.Err }

// Group fans out fetches across a set of sources.
type Group struct {
	sources []Source
}

// NewGroup creates an empty fan-out group.
func NewGroup() *Group {
	return &Group{}
}

// Add registers a source with the group.
func (g *Group) Add(s Source) {
	g.sources = append(g.sources, s)
}

// Len returns the number of registered sources.
func (g *Group) Len() int { return len(g.sources) }

// FetchAll dispatches every source concurrently and waits for all of them
// to settle. Successful results are appended in registration order; each
// failure becomes a FetchError in the ledger. FetchAll itself never fails:
// a fully failed run is simply an empty article slice plus a full ledger.
func (g *Group) FetchAll(ctx context.Context) ([]Article, []FetchError) {
	type outcome struct {
		articles []Article
		err      error
	}

	outcomes := make([]outcome, len(g.sources))
	var wg sync.WaitGroup
	for i, s := range g.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			articles, err := src.Fetch(ctx)
			outcomes[i] = outcome{articles: articles, err: err}
		}(i, s)
	}
	wg.Wait()

	var all []Article
	var ledger []FetchError
	for i, o := range outcomes {
		if o.err != nil {
			ledger = append(ledger, FetchError{Source: g.sources[i].Name(), Err: o.err})
			continue
		}
		all = append(all, o.articles...)
	}
	return all, ledger
}
