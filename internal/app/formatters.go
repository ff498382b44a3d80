package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/finnews-io/finnews/internal/models"
)

const maxTablePoints = 30

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func formatInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *v)
}

// formatChart formats a chart series as markdown
func formatChart(series *models.ChartSeries) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Chart: %s\n\n", series.Symbol))
	sb.WriteString(fmt.Sprintf("**Range:** %s | **Interval:** %s", series.Range, series.Interval))
	if series.Currency != "" {
		sb.WriteString(fmt.Sprintf(" | **Currency:** %s", series.Currency))
	}
	sb.WriteString("\n\n")

	s := series.Summary
	sb.WriteString(fmt.Sprintf("**Points:** %d | **Start Close:** %s | **End Close:** %s",
		s.Count, formatFloat(s.StartClose), formatFloat(s.EndClose)))
	if s.PctChange != nil {
		sb.WriteString(fmt.Sprintf(" | **Change:** %+.2f%%", *s.PctChange))
	}
	sb.WriteString("\n\n")

	if len(series.Points) == 0 {
		sb.WriteString("_No data points._\n")
		return sb.String()
	}

	points := series.Points
	if len(points) > maxTablePoints {
		sb.WriteString(fmt.Sprintf("_Showing last %d of %d points._\n\n", maxTablePoints, len(points)))
		points = points[len(points)-maxTablePoints:]
	}

	sb.WriteString("| Date | Open | High | Low | Close | Volume |\n")
	sb.WriteString("|------|------|------|-----|-------|--------|\n")
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			p.Datetime.Format("2006-01-02"),
			formatFloat(p.Open), formatFloat(p.High), formatFloat(p.Low),
			formatFloat(p.Close), formatInt(p.Volume)))
	}

	return sb.String()
}

// formatOptionsChain formats an options chain as markdown
func formatOptionsChain(chain *models.OptionsChain) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Options Chain: %s\n\n", chain.Symbol))
	if !chain.Expiration.IsZero() {
		sb.WriteString(fmt.Sprintf("**Expiration:** %s\n", chain.Expiration.Format("2006-01-02")))
	}
	if len(chain.Expirations) > 0 {
		dates := make([]string, 0, len(chain.Expirations))
		for _, e := range chain.Expirations {
			dates = append(dates, e.Format("2006-01-02"))
		}
		sb.WriteString(fmt.Sprintf("**Available:** %s\n", strings.Join(dates, ", ")))
	}
	sb.WriteString("\n")

	writeContracts := func(label string, contracts []models.OptionContract) {
		sb.WriteString(fmt.Sprintf("## %s (%d)\n\n", label, len(contracts)))
		if len(contracts) == 0 {
			sb.WriteString("_None._\n\n")
			return
		}
		sb.WriteString("| Contract | Strike | Last | Bid | Ask | Vol | OI | IV | ITM |\n")
		sb.WriteString("|----------|--------|------|-----|-----|-----|----|----|-----|\n")
		for _, c := range contracts {
			itm := ""
			if c.InTheMoney {
				itm = "Y"
			}
			sb.WriteString(fmt.Sprintf("| %s | %.2f | %.2f | %.2f | %.2f | %d | %d | %.1f%% | %s |\n",
				c.ContractSymbol, c.Strike, c.LastPrice, c.Bid, c.Ask,
				c.Volume, c.OpenInterest, c.ImpliedVol*100, itm))
		}
		sb.WriteString("\n")
	}

	writeContracts("Calls", chain.Calls)
	writeContracts("Puts", chain.Puts)

	return sb.String()
}

// formatMacroSeries formats one macro series as markdown
func formatMacroSeries(series *models.MacroSeries) string {
	var sb strings.Builder

	title := series.SeriesID
	if series.Title != "" {
		title = fmt.Sprintf("%s (%s)", series.Title, series.SeriesID)
	}
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))

	if series.Error != "" {
		sb.WriteString(fmt.Sprintf("⚠️ Unavailable: %s\n\n", series.Error))
		return sb.String()
	}
	if series.Unit != "" {
		sb.WriteString(fmt.Sprintf("**Unit:** %s\n\n", series.Unit))
	}
	if len(series.Observations) == 0 {
		sb.WriteString("_No observations._\n\n")
		return sb.String()
	}

	obs := series.Observations
	if len(obs) > maxTablePoints {
		sb.WriteString(fmt.Sprintf("_Showing last %d of %d observations._\n\n", maxTablePoints, len(obs)))
		obs = obs[len(obs)-maxTablePoints:]
	}

	sb.WriteString("| Date | Value |\n|------|-------|\n")
	for _, o := range obs {
		sb.WriteString(fmt.Sprintf("| %s | %s |\n", o.Date, formatFloat(o.Value)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// formatMacroSeriesList formats a batch of macro series as markdown
func formatMacroSeriesList(list []*models.MacroSeries) string {
	var sb strings.Builder
	sb.WriteString("# Macro Series\n\n")
	for _, series := range list {
		sb.WriteString(formatMacroSeries(series))
	}
	return sb.String()
}

// formatFilings formats a filings result, including its source provenance
func formatFilings(result *models.FilingsResult, corpName string) string {
	var sb strings.Builder

	header := "Filings"
	if corpName != "" {
		header = fmt.Sprintf("Filings: %s", corpName)
	}
	sb.WriteString(fmt.Sprintf("# %s\n\n", header))
	sb.WriteString(fmt.Sprintf("**Source:** %s\n\n", result.Source))

	for _, w := range result.Warnings {
		sb.WriteString(fmt.Sprintf("⚠️ %s\n", w))
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\n")
	}

	if len(result.Items) > 0 {
		sb.WriteString("| Date | Title | Submitter |\n|------|-------|----------|\n")
		for _, f := range result.Items {
			title := f.Title
			if f.URL != "" {
				title = fmt.Sprintf("[%s](%s)", f.Title, f.URL)
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", f.FiledDate, title, f.Submitter))
		}
		sb.WriteString("\n")
	}

	if len(result.News) > 0 {
		sb.WriteString("## Related News\n\n")
		for _, n := range result.News {
			sb.WriteString(fmt.Sprintf("- [%s](%s)\n", n.Title, n.Link))
		}
		sb.WriteString("\n")
	}

	if len(result.Items) == 0 && len(result.News) == 0 {
		sb.WriteString("_No filings found._\n")
	}

	return sb.String()
}

// formatNews formats aggregated news items as markdown
func formatNews(items []models.NewsItem) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Latest News (%d)\n\n", len(items)))
	if len(items) == 0 {
		sb.WriteString("_No articles found._\n")
		return sb.String()
	}

	for _, item := range items {
		sb.WriteString(fmt.Sprintf("- **[%s](%s)**", item.Title, item.Link))
		var meta []string
		if item.Source != "" {
			meta = append(meta, item.Source)
		}
		if !item.PublishedAt.IsZero() {
			meta = append(meta, item.PublishedAt.Format("2006-01-02 15:04"))
		}
		if len(meta) > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(meta, ", ")))
		}
		sb.WriteString("\n")
		if item.Summary != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", item.Summary))
		}
	}

	return sb.String()
}

// formatCandidates formats resolved symbol candidates as markdown
func formatCandidates(keyword string, candidates []models.SymbolCandidate) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Symbol Resolution: %q\n\n", keyword))
	if len(candidates) == 0 {
		sb.WriteString("_No matching symbols._\n")
		return sb.String()
	}

	sb.WriteString("| Symbol | Label | Class | Match | Confidence |\n")
	sb.WriteString("|--------|-------|-------|-------|------------|\n")
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.1f |\n",
			c.Symbol, c.Label, c.Class, c.MatchType, c.Confidence))
	}

	return sb.String()
}

// formatMacroPreset formats a composite preset result as markdown
func formatMacroPreset(result *models.MacroPresetResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Macro Snapshot: %s\n\n", result.Preset))

	sb.WriteString("## Sources\n\n")
	for _, status := range result.Sources {
		if status.OK {
			sb.WriteString(fmt.Sprintf("- ✅ %s\n", status.Source))
		} else {
			sb.WriteString(fmt.Sprintf("- ❌ %s: %s\n", status.Source, status.Error))
		}
	}
	sb.WriteString("\n")

	for _, series := range result.Series {
		sb.WriteString(formatMacroSeries(series))
	}

	if len(result.Charts) > 0 {
		sb.WriteString("## Charts\n\n")
		sb.WriteString("| Symbol | Points | Start | End | Change |\n")
		sb.WriteString("|--------|--------|-------|-----|--------|\n")
		for _, chart := range result.Charts {
			change := "-"
			if chart.Summary.PctChange != nil {
				change = fmt.Sprintf("%+.2f%%", *chart.Summary.PctChange)
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
				chart.Symbol, chart.Summary.Count,
				formatFloat(chart.Summary.StartClose), formatFloat(chart.Summary.EndClose), change))
		}
	}

	return sb.String()
}

// formatIndustryReport formats an industry screen as markdown
func formatIndustryReport(report *models.IndustryReport) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Industry Screen: %s (%d)\n\n", report.Industry, report.Year))

	writePick := func(pick models.IndustryPick) {
		health := "⚠️"
		if pick.Health.Healthy {
			health = "✅"
		}
		sb.WriteString(fmt.Sprintf("- %s **%s** (%s): score %d/%d",
			health, pick.CorpName, pick.CorpCode, pick.Health.Score, pick.Health.MaxScore))
		m := pick.Health.Metrics
		var parts []string
		if m.ROE != nil {
			parts = append(parts, fmt.Sprintf("ROE %.1f%%", *m.ROE))
		}
		if m.DebtRatio != nil {
			parts = append(parts, fmt.Sprintf("debt %.0f%%", *m.DebtRatio))
		}
		if m.CurrentRatio != nil {
			parts = append(parts, fmt.Sprintf("current %.0f%%", *m.CurrentRatio))
		}
		if len(parts) > 0 {
			sb.WriteString(fmt.Sprintf(" (%s)", strings.Join(parts, ", ")))
		}
		if pick.Error != "" {
			sb.WriteString(fmt.Sprintf(" - %s", pick.Error))
		} else if pick.Health.Reason != "" {
			sb.WriteString(fmt.Sprintf(" - %s", pick.Health.Reason))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Recommendations\n\n")
	if len(report.Recommendations) == 0 {
		sb.WriteString("_No companies could be screened._\n\n")
	}
	for _, pick := range report.Recommendations {
		writePick(pick)
	}
	sb.WriteString("\n## All Screened\n\n")
	for _, pick := range report.AllCompanies {
		writePick(pick)
	}

	return sb.String()
}

// formatIndustries formats the available industries as markdown
func formatIndustries(industries map[string][]string) string {
	var sb strings.Builder

	sb.WriteString("# Available Industries\n\n")

	names := make([]string, 0, len(industries))
	for name := range industries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		sb.WriteString(fmt.Sprintf("- **%s**: %s\n", name, strings.Join(industries[name], ", ")))
	}

	return sb.String()
}
