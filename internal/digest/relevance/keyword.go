package relevance

import "strings"

// financialKeywords mark an article as market or business related.
var financialKeywords = []string{
	"stock", "share", "market", "trading", "investor", "earnings", "revenue",
	"profit", "loss", "ipo", "acquisition", "merger", "deal", "billion", "million",
	"nasdaq", "s&p", "dow", "index", "fed", "inflation", "gdp", "economic",
	"bank", "finance", "equity", "bond", "yield", "rate", "growth", "quarter",
	"fiscal", "valuation", "dividend", "portfolio", "hedge", "fund", "capital",
	"exchange", "sec", "regulatory", "compliance", "forecast", "analyst",
	"upgrade", "downgrade", "target price", "bull", "bear", "volatility",
}

// excludeKeywords reject lifestyle and entertainment items that slip into
// general feeds.
var excludeKeywords = []string{
	"crime", "accident", "weather", "celebrity", "entertainment", "sports",
	"recipe", "fashion", "lifestyle", "travel", "personal", "dating",
	"gossip", "viral", "meme", "tiktok", "instagram", "twitter drama",
}

// KeywordPolicy retains an article only when its case-folded text contains
// at least one financial keyword and none of the exclusion keywords.
type KeywordPolicy struct{}

// NewKeywordPolicy returns the general-market relevance policy.
func NewKeywordPolicy() KeywordPolicy { return KeywordPolicy{} }

func (KeywordPolicy) Relevant(title, description string) bool {
	text := foldText(title, description)

	financial := false
	for _, kw := range financialKeywords {
		if strings.Contains(text, kw) {
			financial = true
			break
		}
	}
	if !financial {
		return false
	}

	for _, kw := range excludeKeywords {
		if strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
