// Package roster models the tracked financial instruments (portfolio
// holdings and watchlist entries) and derives the search terms the
// relevance filters use. Rosters are loaded once per run from YAML and
// never mutated by a pipeline.
package roster

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stock is one tracked instrument. Shares of zero means "watched, not
// held". Alternates are extra search tickers for companies whose primary
// listing differs from the name people write about (BABA for the
// Hong-Kong-listed Alibaba, TCEHY for Tencent, and so on).
type Stock struct {
	Ticker     string   `yaml:"ticker" json:"ticker"`
	Name       string   `yaml:"name" json:"name"`
	Shares     int      `yaml:"shares" json:"shares"`
	AvgPrice   float64  `yaml:"avgPrice,omitempty" json:"avgPrice,omitempty"`
	Currency   string   `yaml:"currency,omitempty" json:"currency,omitempty"`
	Exchange   string   `yaml:"exchange,omitempty" json:"exchange,omitempty"`
	Alternates []string `yaml:"alternates,omitempty" json:"alternates,omitempty"`
}

// BareTicker strips an exchange prefix: "SEHK:9988" yields "9988".
func (s Stock) BareTicker() string {
	if _, bare, ok := strings.Cut(s.Ticker, ":"); ok {
		return bare
	}
	return s.Ticker
}

// ShortName returns the first two words of the company name, or the full
// name if it has fewer.
func (s Stock) ShortName() string {
	words := strings.Fields(s.Name)
	if len(words) <= 2 {
		return s.Name
	}
	return strings.Join(words[:2], " ")
}

// Roster is an ordered list of tracked stocks.
type Roster []Stock

// SearchTerms derives the term set used for relevance matching: each
// stock contributes its full name, its bare ticker, and (when different)
// its two-word short name. Comparison is case-insensitive, so terms
// differing only in case collapse to the first spelling seen.
func (r Roster) SearchTerms() []string {
	seen := make(map[string]bool)
	var terms []string
	add := func(t string) {
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, t)
	}

	for _, s := range r {
		add(s.Name)
		add(s.BareTicker())
		if short := s.ShortName(); short != s.Name {
			add(short)
		}
	}
	return terms
}

// Active returns the stocks actually held.
func (r Roster) Active() Roster {
	var out Roster
	for _, s := range r {
		if s.Shares > 0 {
			out = append(out, s)
		}
	}
	return out
}

// WatchOnly returns the stocks tracked without a position.
func (r Roster) WatchOnly() Roster {
	var out Roster
	for _, s := range r {
		if s.Shares == 0 {
			out = append(out, s)
		}
	}
	return out
}

// Names returns the display names in roster order.
func (r Roster) Names() []string {
	names := make([]string, len(r))
	for i, s := range r {
		names[i] = s.Name
	}
	return names
}

type rosterFile struct {
	Stocks Roster `yaml:"stocks"`
}

// Load reads a roster from a YAML file.
func Load(path string) (Roster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster %s: %w", path, err)
	}

	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	return f.Stocks, nil
}
