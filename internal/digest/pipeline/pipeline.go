// Package pipeline runs the aggregation flow shared by all report
// variants: concurrent source fan-out, dedup, stock matching, and
// recency ranking into a bounded result. The daily, portfolio, and
// watchlist reports differ only in the configuration passed here.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/itmurugan/marketbrief/internal/digest/roster"
	"github.com/itmurugan/marketbrief/internal/digest/source"
)

// ErrNoArticles signals a run that produced no usable articles at all.
// An empty report is not a meaningful deliverable, so this aborts the run.
var ErrNoArticles = errors.New("no articles fetched")

// ErrEmptyRoster signals a portfolio or watchlist run configured without
// any tracked stocks.
var ErrEmptyRoster = errors.New("roster is empty")

// SourceError is one entry of a run's error ledger, JSON-friendly for
// the snapshot file.
type SourceError struct {
	Source string `json:"source"`
	Error  string `json:"error"`
}

// Result is the terminal output of one pipeline run. It is constructed
// once and never mutated afterwards; the report renderer and the
// snapshot writer both consume it read-only.
type Result struct {
	Articles  []source.Article `json:"articles"`
	FetchedAt time.Time        `json:"fetchedAt"`
	Errors    []SourceError    `json:"errors,omitempty"`

	RosterSize   int `json:"rosterSize,omitempty"`
	ActiveStocks int `json:"activeStocks,omitempty"`
	WatchingOnly int `json:"watchingOnly,omitempty"`
}

// Options parameterize one pipeline variant.
type Options struct {
	// DedupKey selects the duplicate-story key; nil uses
	// NormalizedTitleKey.
	DedupKey KeyFunc

	// Lookback drops articles older than this; zero keeps everything.
	Lookback time.Duration

	// MaxArticles hard-caps the final result, applied after dedup and
	// windowing.
	MaxArticles int

	// Roster enables stock matching; articles without source-provided
	// related stocks get them resolved against this roster. Nil skips
	// matching entirely.
	Roster roster.Roster

	// RequireRoster aborts the run with ErrEmptyRoster when the roster
	// is empty. Set for the portfolio and watchlist variants, whose
	// reports are meaningless without tracked stocks.
	RequireRoster bool
}

// Pipeline aggregates articles from a source group into one Result.
type Pipeline struct {
	name   string
	group  *source.Group
	opts   Options
	logger *slog.Logger
	now    func() time.Time
}

// New assembles a pipeline over the given sources.
func New(name string, group *source.Group, opts Options) *Pipeline {
	return &Pipeline{
		name:   name,
		group:  group,
		opts:   opts,
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Run executes one aggregation pass. Individual source failures are
// absorbed into the result's error ledger; only total failure (no usable
// articles, or a missing required roster) returns an error.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if p.opts.RequireRoster && len(p.opts.Roster) == 0 {
		return nil, fmt.Errorf("%s: %w", p.name, ErrEmptyRoster)
	}

	start := p.now()
	p.logger.Info("pipeline run started", "pipeline", p.name, "sources", p.group.Len())

	articles, ledger := p.group.FetchAll(ctx)
	for _, fe := range ledger {
		p.logger.Warn("source failed", "pipeline", p.name, "source", fe.Source, "error", fe.Err)
	}

	articles = Dedupe(articles, p.opts.DedupKey)

	if p.opts.Roster != nil {
		for i := range articles {
			if len(articles[i].RelatedStocks) == 0 {
				articles[i].RelatedStocks = MatchStocks(articles[i], p.opts.Roster)
			}
		}
	}

	articles = Window(articles, p.opts.Lookback, start)
	SortByRecency(articles)
	articles = Cap(articles, p.opts.MaxArticles)

	if len(articles) == 0 {
		return nil, fmt.Errorf("%s: %w", p.name, ErrNoArticles)
	}

	res := &Result{
		Articles:  articles,
		FetchedAt: start,
	}
	for _, fe := range ledger {
		res.Errors = append(res.Errors, SourceError{Source: fe.Source, Error: fe.Err.Error()})
	}
	if p.opts.Roster != nil {
		res.RosterSize = len(p.opts.Roster)
		res.ActiveStocks = len(p.opts.Roster.Active())
		res.WatchingOnly = len(p.opts.Roster.WatchOnly())
	}

	p.logger.Info("pipeline run finished",
		"pipeline", p.name,
		"articles", len(articles),
		"failed_sources", len(ledger),
		"duration", time.Since(start))
	return res, nil
}
