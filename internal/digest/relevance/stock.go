package relevance

import "strings"

// stockKeywords indicate that an article is actually about a company's
// stock rather than mentioning it in passing.
var stockKeywords = []string{
	"earnings", "revenue", "profit", "stock", "shares", "market cap",
	"dividend", "analyst", "rating",
}

// AboutStock guards per-stock search results against a search engine
// returning only incidentally matching items. The text must reference the
// company (full name, ticker, or the first word of the name) and contain
// at least one stock-discourse keyword.
func AboutStock(text, name, ticker string) bool {
	lower := strings.ToLower(text)
	lowerName := strings.ToLower(name)

	if !strings.Contains(lower, lowerName) &&
		(ticker == "" || !strings.Contains(lower, strings.ToLower(ticker))) {
		firstWord, _, _ := strings.Cut(lowerName, " ")
		if firstWord == "" || !strings.Contains(lower, firstWord) {
			return false
		}
	}

	for _, kw := range stockKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
