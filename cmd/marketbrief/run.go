package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/itmurugan/marketbrief/internal/digest/config"
	"github.com/itmurugan/marketbrief/internal/digest/pipeline"
	"github.com/itmurugan/marketbrief/internal/digest/relevance"
	"github.com/itmurugan/marketbrief/internal/digest/report"
	"github.com/itmurugan/marketbrief/internal/digest/roster"
	"github.com/itmurugan/marketbrief/internal/digest/source"
	"github.com/itmurugan/marketbrief/internal/digest/store"
	"github.com/itmurugan/marketbrief/pkg/notify"
)

type app struct {
	cfg    config.Config
	dryRun bool
	logger *slog.Logger
}

// variant couples a pipeline with its report renderer and subject line.
type variant struct {
	name     string
	title    string
	pipeline *pipeline.Pipeline
	render   func(*pipeline.Result) string
}

func (a *app) buildVariant(name string) (*variant, error) {
	switch name {
	case "daily":
		return a.buildDaily(), nil
	case "portfolio":
		return a.buildPortfolio()
	case "watchlist":
		return a.buildWatchlist()
	default:
		return nil, fmt.Errorf("unknown digest variant %q", name)
	}
}

// marketFeeds lists the general-news feeds every variant draws from.
// Caps and policies differ per variant; the daily digest caps each feed
// and filters by financial keywords, while the stock digests take every
// item matching the roster's search terms.
func marketFeeds(policy relevance.Policy, stockPolicy relevance.Policy) []source.FeedConfig {
	daily := policy != nil
	limit := func(n int) int {
		if daily {
			return n
		}
		return 0
	}
	descLimit := 300
	if daily {
		descLimit = 200
	}
	category := func(dailyCat string) string {
		if daily {
			return dailyCat
		}
		return "Portfolio News"
	}
	pol := policy
	if !daily {
		pol = stockPolicy
	}

	feeds := []source.FeedConfig{
		{Name: "MarketWatch", URL: "https://feeds.marketwatch.com/marketwatch/topstories/", Category: category("US Markets"), MaxItems: limit(10), Policy: pol},
		{Name: "Yahoo Finance", URL: "https://feeds.finance.yahoo.com/rss/2.0/headline", Category: category("US Markets"), MaxItems: limit(10), Policy: pol},
		{Name: "Bloomberg", URL: "https://feeds.bloomberg.com/markets/news.rss", Category: category("Global Markets"), MaxItems: limit(12), Policy: pol},
		{Name: "Reuters", URL: "https://feeds.reuters.com/reuters/businessNews", Category: category("Global Business"), MaxItems: limit(10), Policy: pol},
		{Name: "CNBC", URL: "https://feeds.nbcnews.com/nbcnews/public/business", Category: category("US Markets"), MaxItems: limit(10), Policy: pol},
	}

	// Regional feeds keep their regional category in every variant. The
	// daily digest takes them unfiltered; the stock digests still apply
	// the roster term filter.
	regional := []source.FeedConfig{
		{Name: "Business Times SG", URL: "https://www.businesstimes.com.sg/rss-feeds/singapore", Category: "Singapore Markets", MaxItems: limit(6)},
		{Name: "Economic Times", URL: "https://economictimes.indiatimes.com/markets/rssfeeds/1977021501.cms", Category: "India Markets", MaxItems: limit(8)},
		{Name: "SCMP Business", URL: "https://www.scmp.com/rss/91/feed", Category: "Hong Kong Markets", MaxItems: limit(6)},
		{Name: "Nikkei Asia", URL: "https://asia.nikkei.com/rss/feed/nar", Category: "Asia Markets", MaxItems: limit(6)},
	}
	if !daily {
		for i := range regional {
			regional[i].Policy = stockPolicy
		}
	}
	feeds = append(feeds, regional...)

	for i := range feeds {
		feeds[i].DescriptionLimit = descLimit
	}
	return feeds
}

func (a *app) buildDaily() *variant {
	group := source.NewGroup()
	for _, cfg := range marketFeeds(relevance.NewKeywordPolicy(), nil) {
		group.Add(source.NewFeed(cfg))
	}

	p := pipeline.New("daily", group, pipeline.Options{
		DedupKey:    pipeline.ExactTitleKey,
		Lookback:    48 * time.Hour,
		MaxArticles: 60,
	})

	return &variant{
		name:     "daily",
		title:    "Daily Financial News Digest",
		pipeline: p,
		render:   report.Daily,
	}
}

func (a *app) buildPortfolio() (*variant, error) {
	r, err := roster.Load(a.cfg.PortfolioPath)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}

	group := a.stockGroup(r, len(r), 0)

	p := pipeline.New("portfolio", group, pipeline.Options{
		MaxArticles:   100,
		Roster:        r,
		RequireRoster: true,
	})

	return &variant{
		name:     "portfolio",
		title:    "Portfolio News Digest",
		pipeline: p,
		render:   report.Portfolio,
	}, nil
}

func (a *app) buildWatchlist() (*variant, error) {
	r, err := roster.Load(a.cfg.WatchlistPath)
	if err != nil {
		return nil, fmt.Errorf("load watchlist: %w", err)
	}

	// Per-stock searches for the whole watchlist would take too long;
	// only the first entries get them. The feed term filter still covers
	// every stock.
	group := a.stockGroup(r, 25, 2)

	p := pipeline.New("watchlist", group, pipeline.Options{
		Lookback:      48 * time.Hour,
		MaxArticles:   100,
		Roster:        r,
		RequireRoster: true,
	})

	return &variant{
		name:     "watchlist",
		title:    "Watchlist News Digest",
		pipeline: p,
		render:   report.Watchlist,
	}, nil
}

// stockGroup assembles the source set for a roster-driven digest:
// term-filtered market feeds, per-stock Google News searches for the
// first maxSearches stocks, and the market data APIs when keys are set.
func (a *app) stockGroup(r roster.Roster, maxSearches, queriesPerStock int) *source.Group {
	group := source.NewGroup()

	terms := relevance.NewTermPolicy(r.SearchTerms())
	for _, cfg := range marketFeeds(nil, terms) {
		group.Add(source.NewFeed(cfg))
	}

	for i, stock := range r {
		if i >= maxSearches {
			break
		}
		group.Add(source.NewStockSearch(stock, queriesPerStock))
		group.Add(source.NewTickerSearch(stock))
	}

	if a.cfg.AlphaVantageKey != "" {
		group.Add(source.NewAlphaVantage(a.cfg.AlphaVantageKey, r, "Stock Specific", 72*time.Hour))
	}
	if a.cfg.FinnhubKey != "" {
		for i, stock := range r {
			if i >= maxSearches {
				break
			}
			if stock.BareTicker() == "" {
				continue
			}
			group.Add(source.NewFinnhub(a.cfg.FinnhubKey, stock, "Stock Specific", 72*time.Hour))
		}
	}

	return group
}

func (a *app) runDigest(ctx context.Context, name string) error {
	v, err := a.buildVariant(name)
	if err != nil {
		return err
	}
	return a.runVariant(ctx, v)
}

func (a *app) runAll(ctx context.Context) error {
	var failed []string
	for i, name := range []string{"daily", "portfolio", "watchlist"} {
		if i > 0 {
			// Brief pause so the shared feed hosts see spaced requests.
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		if err := a.runDigest(ctx, name); err != nil {
			a.logger.Error("digest failed", "digest", name, "error", err)
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("digests failed: %v", failed)
	}
	return nil
}

func (a *app) runVariant(ctx context.Context, v *variant) error {
	a.logger.Info("starting digest run", "digest", v.name)

	res, err := v.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("%s pipeline: %w", v.name, err)
	}

	logSummary(a.logger, v.name, res)

	snapPath, err := store.WriteSnapshot(a.cfg.DataDir, v.name, res)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	a.logger.Info("snapshot written", "path", snapPath)

	html := v.render(res)
	reportPath, err := a.writeReport(v.name, html)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	a.logger.Info("report written", "path", reportPath)

	if a.dryRun || a.cfg.TestRun {
		a.logger.Info("test mode, skipping email delivery", "digest", v.name)
		return nil
	}

	subject := report.Subject(v.title, res.FetchedAt)
	if err := a.deliver(ctx, subject, html); err != nil {
		return fmt.Errorf("deliver %s digest: %w", v.name, err)
	}

	a.logger.Info("digest run complete", "digest", v.name, "articles", len(res.Articles))
	return nil
}

func (a *app) writeReport(name, html string) (string, error) {
	if err := os.MkdirAll(a.cfg.ReportDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(a.cfg.ReportDir,
		fmt.Sprintf("%s-report-%s.html", name, time.Now().Format("2006-01-02")))
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// deliver emails the report to active subscribers, falling back to the
// configured recipient list when none are registered.
func (a *app) deliver(ctx context.Context, subject, html string) error {
	recipients, err := a.recipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		a.logger.Warn("no recipients configured, skipping email")
		return nil
	}

	notifier := notify.NewEmailNotifier(notify.EmailConfig{
		SMTPHost:     a.cfg.Email.SMTPHost,
		SMTPPort:     a.cfg.Email.SMTPPort,
		From:         a.cfg.Email.From,
		FromName:     a.cfg.Email.FromName,
		Password:     a.cfg.Email.Password,
		ClientID:     a.cfg.Email.ClientID,
		ClientSecret: a.cfg.Email.ClientSecret,
		RefreshToken: a.cfg.Email.RefreshToken,
	})

	if err := notifier.Send(ctx, recipients, notify.Message{Subject: subject, HTMLBody: html}); err != nil {
		return err
	}
	a.logger.Info("email sent", "recipients", len(recipients))
	return nil
}

func (a *app) recipients(ctx context.Context) ([]string, error) {
	db, err := store.New(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open subscriber store: %w", err)
	}
	defer db.Close()

	subs, err := db.ActiveSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}

	recipients := make([]string, 0, len(subs))
	for _, s := range subs {
		recipients = append(recipients, s.Email)
	}
	if len(recipients) == 0 {
		recipients = a.cfg.Email.Recipients()
	}
	return recipients, nil
}

func logSummary(logger *slog.Logger, name string, res *pipeline.Result) {
	categories := map[string]int{}
	for _, art := range res.Articles {
		cat := art.Category
		if cat == "" {
			cat = "General"
		}
		categories[cat]++
	}
	logger.Info("fetch summary",
		"digest", name,
		"articles", len(res.Articles),
		"failedSources", len(res.Errors),
		"categories", categories)

	for _, e := range res.Errors {
		logger.Warn("source failed", "source", e.Source, "error", e.Error)
	}
}

func (a *app) subscribe(ctx context.Context, email string) error {
	db, err := store.New(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.AddSubscriber(ctx, email); err != nil {
		return err
	}
	fmt.Printf("Subscribed: %s\n", email)
	return nil
}

func (a *app) unsubscribe(ctx context.Context, email string) error {
	db, err := store.New(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RemoveSubscriber(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no subscriber with email %s", email)
		}
		return err
	}
	fmt.Printf("Unsubscribed: %s\n", email)
	return nil
}

func (a *app) listSubscribers(ctx context.Context) error {
	db, err := store.New(a.cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	subs, err := db.ActiveSubscribers(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("No active subscribers.")
		return nil
	}
	for _, s := range subs {
		fmt.Printf("%s  (since %s)\n", s.Email, s.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
