package relevance

import "testing"

func TestKeywordPolicy(t *testing.T) {
	p := NewKeywordPolicy()

	tests := []struct {
		name  string
		title string
		desc  string
		want  bool
	}{
		{"financial", "Fed raises rates by 25 basis points", "Markets rallied on the news.", true},
		{"no keywords", "Local library reopens", "New reading rooms available.", false},
		{"excluded", "Celebrity stock picks go viral", "Entertainment news roundup.", false},
		{"keyword in description", "Quiet day ahead", "Analysts expect earnings to dominate the week.", true},
		{"case folded", "NASDAQ closes higher", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Relevant(tt.title, tt.desc); got != tt.want {
				t.Errorf("Relevant(%q, %q) = %v, want %v", tt.title, tt.desc, got, tt.want)
			}
		})
	}
}

func TestTermPolicyWholeWord(t *testing.T) {
	p := NewTermPolicy([]string{"Meta", "V", "BRK.B", "AI"})

	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"exact", "Meta beats expectations", true},
		{"case insensitive", "META stock jumps", true},
		{"substring rejected", "Metaverse startups struggle", false},
		{"single letter exact", "V posts record volume", true},
		{"single letter inside word", "Velocity of money slows", false},
		{"dotted ticker", "BRK.B closes at a high", true},
		{"short term whole word", "AI stocks rally", true},
		{"short term inside word", "Airline bookings recover", false},
		{"no match", "Oil prices slip", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Relevant(tt.title, ""); got != tt.want {
				t.Errorf("Relevant(%q) = %v, want %v", tt.title, got, tt.want)
			}
		})
	}
}

func TestTermPolicyEmpty(t *testing.T) {
	p := NewTermPolicy(nil)
	if p.Relevant("Meta beats expectations", "anything") {
		t.Error("empty term set must match nothing")
	}
}

func TestAboutStock(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		stock  string
		ticker string
		want   bool
	}{
		{"name and keyword", "Alibaba Group Holding reports strong earnings", "Alibaba Group Holding", "9988", true},
		{"ticker and keyword", "9988 shares climb in Hong Kong", "Alibaba Group Holding", "9988", true},
		{"first word and keyword", "Alibaba revenue grows", "Alibaba Group Holding", "9988", true},
		{"reference without keyword", "Alibaba opens new campus", "Alibaba Group Holding", "9988", false},
		{"keyword without reference", "Tech earnings season begins", "Alibaba Group Holding", "9988", false},
		{"empty ticker", "NVIDIA stock soars", "NVIDIA", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AboutStock(tt.text, tt.stock, tt.ticker); got != tt.want {
				t.Errorf("AboutStock(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
