package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/itmurugan/marketbrief/internal/digest/relevance"
)

const feedUserAgent = "Mozilla/5.0 (compatible; MarketBrief/1.0)"

// FeedConfig describes one RSS/Atom feed adapter.
type FeedConfig struct {
	Name     string
	URL      string
	Category string

	// MaxItems caps how many feed entries are considered; zero means all.
	// The cap keeps a single noisy feed from dominating the aggregate.
	MaxItems int

	// DescriptionLimit truncates descriptions after HTML stripping.
	DescriptionLimit int

	// Policy, when set, filters items before they are returned.
	Policy relevance.Policy

	// Timeout for the single HTTP GET. Defaults to 10s.
	Timeout time.Duration
}

// Feed fetches one RSS or Atom feed and maps its entries to Articles.
type Feed struct {
	cfg    FeedConfig
	client *http.Client
	parser *gofeed.Parser
}

// NewFeed creates a feed adapter. It issues exactly one GET per Fetch
// and never retries; failures surface to the fan-out group's ledger.
func NewFeed(cfg FeedConfig) *Feed {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Feed{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		parser: gofeed.NewParser(),
	}
}

func (f *Feed) Name() string { return f.cfg.Name }

func (f *Feed) Fetch(ctx context.Context) ([]Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", f.cfg.Name, err)
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch: %w", f.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d", f.cfg.Name, resp.StatusCode)
	}

	feed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", f.cfg.Name, err)
	}

	items := feed.Items
	if f.cfg.MaxItems > 0 && len(items) > f.cfg.MaxItems {
		items = items[:f.cfg.MaxItems]
	}

	var articles []Article
	for _, item := range items {
		desc := Truncate(StripTags(item.Description), f.cfg.DescriptionLimit)

		if f.cfg.Policy != nil && !f.cfg.Policy.Relevant(item.Title, desc) {
			continue
		}

		a := Article{
			Title:       item.Title,
			Description: desc,
			URL:         item.Link,
			Source:      f.cfg.Name,
			Category:    f.cfg.Category,
			PublishedAt: item.Published,
		}
		if item.Image != nil {
			a.ImageURL = item.Image.URL
		}
		articles = append(articles, a)
	}
	return articles, nil
}
