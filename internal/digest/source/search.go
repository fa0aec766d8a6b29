package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/itmurugan/marketbrief/internal/digest/relevance"
	"github.com/itmurugan/marketbrief/internal/digest/roster"
)

const defaultSearchEndpoint = "https://news.google.com/rss/search"

// StockSearch queries a news-search RSS endpoint for one tracked stock.
// It runs a small batch of queries (company name, short name, bare
// ticker, configured alternates) with a fixed throttle delay between
// them, since the endpoint rate-limits bursty clients.
type StockSearch struct {
	stock    roster.Stock
	queries  []string
	suffix   string
	source   string
	check    bool
	perQuery int

	endpoint  string
	descLimit int
	delay     time.Duration
	client    *http.Client
	parser    *gofeed.Parser
}

// NewStockSearch builds the name-based search for a stock. Results pass
// the AboutStock relevance check before being accepted. maxQueries
// limits how many query variants run (the watchlist pipeline uses fewer).
func NewStockSearch(stock roster.Stock, maxQueries int) *StockSearch {
	queries := []string{stock.Name}
	if first := firstWord(stock.Name); first != stock.Name {
		queries = append(queries, first)
	}
	if bare := stock.BareTicker(); bare != stock.Name {
		queries = append(queries, bare)
	}
	queries = append(queries, stock.Alternates...)
	if maxQueries > 0 && len(queries) > maxQueries {
		queries = queries[:maxQueries]
	}

	return newSearch(stock, queries, "stock market news", "Google News", true, 3)
}

// NewTickerSearch builds the ticker-based earnings search for a stock.
// The query is already specific, so no secondary relevance check applies.
func NewTickerSearch(stock roster.Stock) *StockSearch {
	return newSearch(stock, []string{stock.BareTicker()}, "earnings stock", "Google News (Ticker)", false, 3)
}

func newSearch(stock roster.Stock, queries []string, suffix, sourceName string, check bool, perQuery int) *StockSearch {
	return &StockSearch{
		stock:     stock,
		queries:   queries,
		suffix:    suffix,
		source:    sourceName,
		check:     check,
		perQuery:  perQuery,
		endpoint:  defaultSearchEndpoint,
		descLimit: 300,
		delay:     100 * time.Millisecond,
		client:    &http.Client{Timeout: 8 * time.Second},
		parser:    gofeed.NewParser(),
	}
}

func (s *StockSearch) Name() string {
	return fmt.Sprintf("%s: %s", s.source, s.stock.Name)
}

func (s *StockSearch) Fetch(ctx context.Context) ([]Article, error) {
	var articles []Article
	var lastErr error

	for i, query := range s.queries {
		if i > 0 {
			// Throttle between successive queries, not a retry delay.
			select {
			case <-time.After(s.delay):
			case <-ctx.Done():
				return articles, ctx.Err()
			}
		}

		items, err := s.search(ctx, query)
		if err != nil {
			lastErr = err
			continue
		}
		articles = append(articles, items...)
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, fmt.Errorf("%s: %w", s.Name(), lastErr)
	}
	return articles, nil
}

func (s *StockSearch) search(ctx context.Context, query string) ([]Article, error) {
	q := url.Values{}
	q.Set("q", query+" "+s.suffix)
	q.Set("hl", "en-US")
	q.Set("gl", "US")
	q.Set("ceid", "US:en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search %q: status %d", query, resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("search %q: parse: %w", query, err)
	}

	items := feed.Items
	if len(items) > s.perQuery {
		items = items[:s.perQuery]
	}

	var articles []Article
	for _, item := range items {
		desc := Truncate(StripTags(item.Description), s.descLimit)

		if s.check && !relevance.AboutStock(item.Title+" "+desc, s.stock.Name, s.stock.BareTicker()) {
			continue
		}

		articles = append(articles, Article{
			Title:         item.Title,
			Description:   desc,
			URL:           item.Link,
			Source:        s.source,
			Category:      "Stock Specific",
			PublishedAt:   item.Published,
			RelatedStocks: []string{s.stock.Name},
		})
	}
	return articles, nil
}

func firstWord(s string) string {
	first, _, _ := strings.Cut(s, " ")
	return first
}
