package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"github.com/itmurugan/marketbrief/internal/digest/roster"
)

func TestAlphaVantageFetch(t *testing.T) {
	payload := map[string]interface{}{
		"feed": []map[string]interface{}{
			{
				"title":                   "NVIDIA unveils next data center GPU",
				"summary":                 "The chip targets AI training workloads.",
				"url":                     "https://example.com/nvda",
				"time_published":          "20240315T093000",
				"banner_image":            "https://example.com/nvda.jpg",
				"overall_sentiment_label": "Bullish",
				"overall_sentiment_score": 0.42,
				"ticker_sentiment": []map[string]interface{}{
					{"ticker": "NVDA"},
					{"ticker": "SPY"},
				},
			},
		},
	}

	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}))
	defer srv.Close()

	r := roster.Roster{
		{Ticker: "NVDA", Name: "NVIDIA"},
		{Ticker: "SEHK:9988", Name: "Alibaba Group Holding"},
	}
	av := NewAlphaVantage("test-key", r, "Stock Specific", 72*time.Hour)
	av.endpoint = srv.URL

	articles, err := av.Fetch(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(articles))

	// Exchange-prefixed tickers are not queryable.
	assert.Equal(t, "NVDA", gotQuery["tickers"])
	assert.Equal(t, "NEWS_SENTIMENT", gotQuery["function"])
	assert.Equal(t, "test-key", gotQuery["apikey"])

	a := articles[0]
	assert.Equal(t, "NVIDIA unveils next data center GPU", a.Title)
	assert.Equal(t, "AlphaVantage", a.Source)
	assert.Equal(t, "Stock Specific", a.Category)
	assert.Equal(t, "Bullish", a.Sentiment)
	assert.Equal(t, 0.42, a.SentimentScore)
	assert.Equal(t, []string{"NVIDIA"}, a.RelatedStocks)
	assert.Equal(t, 2024, a.PublishedTime().Year())
}

func TestAlphaVantageNoQueryableTickers(t *testing.T) {
	r := roster.Roster{{Ticker: "SEHK:700", Name: "Tencent Holdings"}}
	av := NewAlphaVantage("test-key", r, "Stock Specific", 72*time.Hour)

	articles, err := av.Fetch(context.Background())
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(articles))
}
