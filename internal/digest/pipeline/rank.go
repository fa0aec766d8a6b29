package pipeline

import (
	"sort"
	"time"

	"github.com/itmurugan/marketbrief/internal/digest/source"
)

// SortByRecency orders articles most recent first. Unparseable dates
// parse to the zero time and therefore sort last. The sort is stable so
// equal timestamps keep their traversal order.
func SortByRecency(articles []source.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublishedTime().After(articles[j].PublishedTime())
	})
}

// Window drops articles published before now minus the lookback. A zero
// lookback disables windowing. Articles with unparseable dates fall
// outside any window and are dropped with it.
func Window(articles []source.Article, lookback time.Duration, now time.Time) []source.Article {
	if lookback <= 0 {
		return articles
	}
	cutoff := now.Add(-lookback)
	out := make([]source.Article, 0, len(articles))
	for _, a := range articles {
		if !a.PublishedTime().Before(cutoff) {
			out = append(out, a)
		}
	}
	return out
}

// Cap truncates the list to at most n articles; n <= 0 means no cap.
func Cap(articles []source.Article, n int) []source.Article {
	if n <= 0 || len(articles) <= n {
		return articles
	}
	return articles[:n]
}
