// Package report renders finalized pipeline results into HTML email
// bodies. Rendering is pure string templating; the pipeline has already
// filtered, deduplicated, and ranked everything by the time it gets here.
package report

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/itmurugan/marketbrief/internal/digest/pipeline"
	"github.com/itmurugan/marketbrief/internal/digest/source"
)

func wrapperOpen() string {
	return `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><meta name="viewport" content="width=device-width, initial-scale=1.0"></head>
<body style="margin:0;padding:0;background-color:#f4f4f4;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,'Helvetica Neue',Arial,sans-serif;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f4f4;">
<tr><td align="center" style="padding:20px 10px;">
<table role="presentation" width="640" cellpadding="0" cellspacing="0" style="max-width:640px;width:100%;background-color:#ffffff;border-radius:8px;overflow:hidden;">
`
}

func wrapperClose() string {
	return `
</table>
</td></tr>
</table>
</body>
</html>`
}

func header(title, subtitle string) string {
	return fmt.Sprintf(`
<tr><td style="background-color:#000000;padding:28px 40px;text-align:center;">
  <h1 style="margin:0;font-size:26px;font-weight:800;color:#ffffff;">%s</h1>
  <p style="margin:8px 0 0;font-size:14px;color:#FF6B00;font-weight:600;">%s</p>
</td></tr>
`, html.EscapeString(title), html.EscapeString(subtitle))
}

func footer(res *pipeline.Result) string {
	note := fmt.Sprintf("%d articles · fetched %s", len(res.Articles), res.FetchedAt.Format("Mon, 2 Jan 2006 15:04 MST"))
	if len(res.Errors) > 0 {
		note += fmt.Sprintf(" · %d sources unavailable", len(res.Errors))
	}
	return fmt.Sprintf(`
<tr><td style="background-color:#000000;padding:20px 40px;text-align:center;">
  <p style="margin:0;font-size:12px;color:#999999;">%s</p>
</td></tr>
`, html.EscapeString(note))
}

func articleRow(a source.Article) string {
	var meta []string
	meta = append(meta, a.Source)
	if a.PublishedAt != "" {
		meta = append(meta, a.PublishedAt)
	}

	var extras strings.Builder
	if len(a.RelatedStocks) > 0 {
		for _, s := range a.RelatedStocks {
			extras.WriteString(fmt.Sprintf(`<span style="display:inline-block;margin:2px 4px 0 0;padding:2px 8px;background-color:#fff3e8;color:#FF6B00;border-radius:10px;font-size:11px;font-weight:600;">%s</span>`, html.EscapeString(s)))
		}
	}
	if a.Sentiment != "" {
		extras.WriteString(fmt.Sprintf(`<span style="display:inline-block;margin:2px 0 0;padding:2px 8px;background-color:%s;color:#ffffff;border-radius:10px;font-size:11px;font-weight:600;">%s</span>`, sentimentColor(a.Sentiment), html.EscapeString(a.Sentiment)))
	}

	return fmt.Sprintf(`
<tr><td style="padding:18px 40px;border-bottom:1px solid #eeeeee;">
  <a href="%s" style="font-size:16px;font-weight:700;color:#000000;text-decoration:none;line-height:1.4;">%s</a>
  <p style="margin:6px 0 0;font-size:13px;line-height:1.6;color:#555555;">%s</p>
  <p style="margin:8px 0 0;font-size:11px;color:#999999;">%s</p>
  %s
</td></tr>
`,
		html.EscapeString(a.URL),
		html.EscapeString(a.Title),
		html.EscapeString(a.Description),
		html.EscapeString(strings.Join(meta, " · ")),
		extras.String())
}

func sentimentColor(label string) string {
	switch strings.ToLower(label) {
	case "bullish", "somewhat-bullish", "positive":
		return "#1e8e3e"
	case "bearish", "somewhat-bearish", "negative":
		return "#d93025"
	default:
		return "#777777"
	}
}

func sectionHeading(title string) string {
	return fmt.Sprintf(`
<tr><td style="padding:22px 40px 8px;background-color:#fafafa;">
  <h2 style="margin:0;font-size:13px;font-weight:700;text-transform:uppercase;letter-spacing:1px;color:#FF6B00;">%s</h2>
</td></tr>
`, html.EscapeString(title))
}

// Daily renders the general market briefing grouped by category.
func Daily(res *pipeline.Result) string {
	var sb strings.Builder
	sb.WriteString(wrapperOpen())
	sb.WriteString(header("Daily Market Briefing", res.FetchedAt.Format("Monday, January 2, 2006")))

	byCategory := make(map[string][]source.Article)
	var order []string
	for _, a := range res.Articles {
		cat := a.Category
		if cat == "" {
			cat = "General"
		}
		if _, ok := byCategory[cat]; !ok {
			order = append(order, cat)
		}
		byCategory[cat] = append(byCategory[cat], a)
	}

	for _, cat := range order {
		sb.WriteString(sectionHeading(cat))
		for _, a := range byCategory[cat] {
			sb.WriteString(articleRow(a))
		}
	}

	sb.WriteString(footer(res))
	sb.WriteString(wrapperClose())
	return sb.String()
}

// Portfolio renders the holdings report with per-stock article counts.
func Portfolio(res *pipeline.Result) string {
	subtitle := fmt.Sprintf("%s · %d holdings tracked", res.FetchedAt.Format("Monday, January 2, 2006"), res.RosterSize)
	return stockReport("Portfolio News Report", subtitle, res)
}

// Watchlist renders the watchlist report, splitting out held vs
// watch-only counts.
func Watchlist(res *pipeline.Result) string {
	subtitle := fmt.Sprintf("%s · %d stocks (%d held, %d watching)",
		res.FetchedAt.Format("Monday, January 2, 2006"), res.RosterSize, res.ActiveStocks, res.WatchingOnly)
	return stockReport("Watchlist News Report", subtitle, res)
}

func stockReport(title, subtitle string, res *pipeline.Result) string {
	var sb strings.Builder
	sb.WriteString(wrapperOpen())
	sb.WriteString(header(title, subtitle))

	if top := topStocks(res.Articles, 5); len(top) > 0 {
		var parts []string
		for _, t := range top {
			parts = append(parts, fmt.Sprintf("%s (%d)", t.name, t.count))
		}
		sb.WriteString(fmt.Sprintf(`
<tr><td style="padding:16px 40px;background-color:#fff3e8;">
  <p style="margin:0;font-size:12px;color:#333333;"><strong>Most covered:</strong> %s</p>
</td></tr>
`, html.EscapeString(strings.Join(parts, ", "))))
	}

	for _, a := range res.Articles {
		sb.WriteString(articleRow(a))
	}

	sb.WriteString(footer(res))
	sb.WriteString(wrapperClose())
	return sb.String()
}

type stockCount struct {
	name  string
	count int
}

func topStocks(articles []source.Article, n int) []stockCount {
	counts := make(map[string]int)
	for _, a := range articles {
		for _, s := range a.RelatedStocks {
			counts[s]++
		}
	}

	out := make([]stockCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, stockCount{name, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Subject builds the email subject line for a report.
func Subject(title string, at time.Time) string {
	return fmt.Sprintf("%s - %s", title, at.Format("Monday, January 2, 2006"))
}
