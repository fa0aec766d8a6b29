package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/itmurugan/marketbrief/internal/digest/roster"
)

const defaultAlphaVantageEndpoint = "https://www.alphavantage.co/query"

// AlphaVantage queries the NEWS_SENTIMENT API for the roster's tickers.
// It is the one source that supplies a sentiment label and score; both
// are passed through verbatim, never computed here. The lookback is
// requested at the source rather than filtered client-side.
type AlphaVantage struct {
	apiKey   string
	tickers  []string
	byTicker map[string]string // bare ticker -> display name
	category string
	lookback time.Duration
	limit    int

	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewAlphaVantage creates the adapter for a roster. Tickers with an
// exchange prefix are skipped; AlphaVantage only resolves US symbols.
func NewAlphaVantage(apiKey string, r roster.Roster, category string, lookback time.Duration) *AlphaVantage {
	a := &AlphaVantage{
		apiKey:   apiKey,
		byTicker: make(map[string]string),
		category: category,
		lookback: lookback,
		limit:    50,
		endpoint: defaultAlphaVantageEndpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
	for _, s := range r {
		if strings.Contains(s.Ticker, ":") {
			continue
		}
		a.tickers = append(a.tickers, s.Ticker)
		a.byTicker[s.Ticker] = s.Name
	}
	return a
}

func (a *AlphaVantage) Name() string { return "AlphaVantage" }

func (a *AlphaVantage) Fetch(ctx context.Context) ([]Article, error) {
	if len(a.tickers) == 0 {
		return nil, nil
	}

	q := url.Values{}
	q.Set("function", "NEWS_SENTIMENT")
	q.Set("tickers", strings.Join(a.tickers, ","))
	q.Set("time_from", a.now().Add(-a.lookback).UTC().Format("20060102T1504"))
	q.Set("sort", "LATEST")
	q.Set("limit", fmt.Sprintf("%d", a.limit))
	q.Set("apikey", a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alphavantage: fetch: %w", err)
	}
	defer resp.Body.Close()

	var raw avResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("alphavantage: decode: %w", err)
	}

	articles := make([]Article, 0, len(raw.Feed))
	for _, item := range raw.Feed {
		var related []string
		for _, ts := range item.TickerSentiment {
			if name, ok := a.byTicker[ts.Ticker]; ok {
				related = append(related, name)
			}
		}

		articles = append(articles, Article{
			Title:          item.Title,
			Description:    Truncate(item.Summary, 300),
			URL:            item.URL,
			Source:         a.Name(),
			Category:       a.category,
			PublishedAt:    item.TimePublished,
			RelatedStocks:  related,
			ImageURL:       item.BannerImage,
			Sentiment:      item.OverallSentimentLabel,
			SentimentScore: item.OverallSentimentScore,
		})
	}
	return articles, nil
}

type avResponse struct {
	Feed []avFeedItem `json:"feed"`
}

type avFeedItem struct {
	Title                 string              `json:"title"`
	Summary               string              `json:"summary"`
	URL                   string              `json:"url"`
	TimePublished         string              `json:"time_published"`
	BannerImage           string              `json:"banner_image"`
	OverallSentimentLabel string              `json:"overall_sentiment_label"`
	OverallSentimentScore float64             `json:"overall_sentiment_score"`
	TickerSentiment       []avTickerSentiment `json:"ticker_sentiment"`
}

type avTickerSentiment struct {
	Ticker string `json:"ticker"`
}
