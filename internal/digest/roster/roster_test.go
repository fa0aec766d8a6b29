package roster

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBareTicker(t *testing.T) {
	tests := []struct {
		ticker string
		want   string
	}{
		{"SEHK:9988", "9988"},
		{"GOOGL", "GOOGL"},
		{"BRK.B", "BRK.B"},
	}
	for _, tt := range tests {
		if got := (Stock{Ticker: tt.ticker}).BareTicker(); got != tt.want {
			t.Errorf("BareTicker(%q) = %q, want %q", tt.ticker, got, tt.want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Alibaba Group Holding", "Alibaba Group"},
		{"NVIDIA", "NVIDIA"},
		{"Meta Platforms", "Meta Platforms"},
	}
	for _, tt := range tests {
		if got := (Stock{Name: tt.name}).ShortName(); got != tt.want {
			t.Errorf("ShortName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSearchTerms(t *testing.T) {
	r := Roster{
		{Ticker: "SEHK:9988", Name: "Alibaba Group Holding"},
		{Ticker: "META", Name: "Meta Platforms"},
		// Duplicate-producing entry: name equals bare ticker, short
		// name equals the full name.
		{Ticker: "NIO", Name: "NIO"},
	}

	got := r.SearchTerms()
	want := []string{
		"Alibaba Group Holding", "9988", "Alibaba Group",
		"Meta Platforms", "META",
		"NIO",
	}
	if len(got) != len(want) {
		t.Fatalf("SearchTerms() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SearchTerms()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSearchTermsCaseInsensitiveDedup(t *testing.T) {
	r := Roster{
		{Ticker: "META", Name: "Meta"},
	}
	got := r.SearchTerms()
	// "Meta" and "META" fold to the same term; only the first survives.
	if len(got) != 1 || got[0] != "Meta" {
		t.Errorf("SearchTerms() = %v", got)
	}
}

func TestActiveAndWatchOnly(t *testing.T) {
	r := Roster{
		{Ticker: "GOOGL", Name: "Alphabet", Shares: 500},
		{Ticker: "NVDA", Name: "NVIDIA"},
		{Ticker: "META", Name: "Meta Platforms", Shares: 55},
	}

	if got := r.Active(); len(got) != 2 {
		t.Errorf("Active() = %v", got.Names())
	}
	if got := r.WatchOnly(); len(got) != 1 || got[0].Ticker != "NVDA" {
		t.Errorf("WatchOnly() = %v", got.Names())
	}
}

func TestLoad(t *testing.T) {
	content := `
stocks:
  - ticker: "SEHK:9988"
    name: Alibaba Group Holding
    shares: 1900
    avgPrice: 80
    currency: HKD
    alternates: [BABA]
  - ticker: NVDA
    name: NVIDIA
    currency: USD
    exchange: NASDAQ
`
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(r) != 2 {
		t.Fatalf("got %d stocks, want 2", len(r))
	}

	ali := r[0]
	if ali.Ticker != "SEHK:9988" || ali.Shares != 1900 || ali.AvgPrice != 80 {
		t.Errorf("first stock = %+v", ali)
	}
	if len(ali.Alternates) != 1 || ali.Alternates[0] != "BABA" {
		t.Errorf("Alternates = %v", ali.Alternates)
	}
	if r[1].Shares != 0 {
		t.Errorf("watch-only stock has shares %d", r[1].Shares)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing roster file")
	}
}
