package source

import (
	"context"
	"fmt"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"github.com/itmurugan/marketbrief/internal/digest/roster"
)

// Finnhub fetches company news for one tracked stock through the Finnhub
// API. The date range is bounded at the source (last N days) instead of
// windowing client-side.
type Finnhub struct {
	client   *finnhub.DefaultApiService
	stock    roster.Stock
	category string
	lookback time.Duration
	maxItems int
	now      func() time.Time
}

// NewFinnhub creates a per-stock company-news adapter.
func NewFinnhub(apiKey string, stock roster.Stock, category string, lookback time.Duration) *Finnhub {
	cfg := finnhub.NewConfiguration()
	cfg.AddDefaultHeader("X-Finnhub-Token", apiKey)
	return &Finnhub{
		client:   finnhub.NewAPIClient(cfg).DefaultApi,
		stock:    stock,
		category: category,
		lookback: lookback,
		maxItems: 6,
		now:      time.Now,
	}
}

func (f *Finnhub) Name() string {
	return fmt.Sprintf("Finnhub: %s", f.stock.Name)
}

func (f *Finnhub) Fetch(ctx context.Context) ([]Article, error) {
	to := f.now()
	from := to.Add(-f.lookback)

	news, _, err := f.client.CompanyNews(ctx).
		Symbol(f.stock.BareTicker()).
		From(from.Format("2006-01-02")).
		To(to.Format("2006-01-02")).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("finnhub %s: %w", f.stock.BareTicker(), err)
	}

	if len(news) > f.maxItems {
		news = news[:f.maxItems]
	}

	articles := make([]Article, 0, len(news))
	for _, item := range news {
		a := Article{
			Source:        "Finnhub",
			Category:      f.category,
			RelatedStocks: []string{f.stock.Name},
		}
		if item.Headline != nil {
			a.Title = *item.Headline
		}
		if item.Summary != nil {
			a.Description = Truncate(StripTags(*item.Summary), 300)
		}
		if item.Url != nil {
			a.URL = *item.Url
		}
		if item.Image != nil {
			a.ImageURL = *item.Image
		}
		if item.Datetime != nil {
			a.PublishedAt = time.Unix(*item.Datetime, 0).UTC().Format(time.RFC3339)
		}
		if a.Title == "" {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}
