package report

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/wonny/ichiba/internal/contracts"
)

const (
	topSignalStocks  = 5
	signalsPerStock  = 5
	disclaimerLine   = "⚠️ 本レポートは情報提供のみを目的としており、投資助言ではありません。"
	dateLayout       = "2006-01-02"
	reportTitle      = "デイリーレポート"
	applicationLabel = "市場分析"
)

// RenderText renders the full report as plain text, for the CLI and
// as the plain-text part of the report mail.
func RenderText(report *contracts.DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s %s [%s] ===\n\n", applicationLabel, reportTitle, report.ReportDate.Format(dateLayout))

	renderMarketSummary(&b, report.MarketSummary)
	renderRecommendations(&b, report.Recommendations)
	renderSignals(&b, report.Recommendations)
	renderSectors(&b, report.SectorAnalysis)
	renderWarnings(&b, report.RiskWarnings)
	renderAllScores(&b, report.AllResults)

	b.WriteString("\n" + disclaimerLine + "\n")
	return b.String()
}

func renderMarketSummary(b *strings.Builder, summary contracts.MarketSummary) {
	fmt.Fprintf(b, "市場センチメント: %s\n", summary.MarketSentiment)
	fmt.Fprintf(b, "マクロ環境スコア: %.1f/100\n", summary.MacroScore)

	m := summary.MacroIndicators
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	writeIndicator(w, "日経平均", m.Nikkei225, m.Nikkei225Change)
	writeIndicator(w, "TOPIX", m.Topix, m.TopixChange)
	writeIndicator(w, "S&P500", m.SP500, m.SP500Change)
	writeIndicator(w, "ドル円", m.USDJPY, m.USDJPYChange)
	writeIndicator(w, "VIX", m.VIX, m.VIXChange)
	writeIndicator(w, "米10年債", m.US10Y, m.US10YChange)
	writeIndicator(w, "原油(WTI)", m.Oil, m.OilChange)
	writeIndicator(w, "金", m.Gold, m.GoldChange)
	w.Flush()
	b.WriteString("\n")
}

func writeIndicator(w *tabwriter.Writer, name string, value, change *float64) {
	if value == nil {
		return
	}
	if change != nil {
		fmt.Fprintf(w, "  %s\t%.2f\t%+.2f%%\n", name, *value, *change)
	} else {
		fmt.Fprintf(w, "  %s\t%.2f\t-\n", name, *value)
	}
}

func renderRecommendations(b *strings.Builder, recs []contracts.ScoreResult) {
	fmt.Fprintf(b, "--- おすすめ銘柄 Top %d ---\n", len(recs))
	if len(recs) == 0 {
		b.WriteString("  おすすめ銘柄データがありません\n\n")
		return
	}

	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  #\t銘柄\t銘柄名\tセクター\tスコア\t評価")
	for i, r := range recs {
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%.1f\t%s %s\n",
			i+1, r.Ticker, r.Name, r.Sector, r.TotalScore, r.RatingIcon, r.Rating)
	}
	w.Flush()
	b.WriteString("\n")
}

func renderSignals(b *strings.Builder, recs []contracts.ScoreResult) {
	n := len(recs)
	if n > topSignalStocks {
		n = topSignalStocks
	}

	wrote := false
	for i := 0; i < n; i++ {
		r := recs[i]
		if len(r.Signals) == 0 {
			continue
		}
		if !wrote {
			b.WriteString("--- 上位銘柄のシグナル ---\n")
			wrote = true
		}
		fmt.Fprintf(b, "%d. %s (%s)\n", i+1, r.Ticker, r.Name)
		signals := r.Signals
		if len(signals) > signalsPerStock {
			signals = signals[:signalsPerStock]
		}
		for _, s := range signals {
			fmt.Fprintf(b, "   %s\n", s)
		}
	}
	if wrote {
		b.WriteString("\n")
	}
}

func renderSectors(b *strings.Builder, sa contracts.SectorAnalysis) {
	if len(sa.SectorScores) == 0 {
		return
	}

	b.WriteString("--- セクター分析 ---\n")
	if len(sa.BullishSectors) > 0 {
		fmt.Fprintf(b, "  🟢 強気セクター: %s\n", strings.Join(sa.BullishSectors, ", "))
	}
	if len(sa.BearishSectors) > 0 {
		fmt.Fprintf(b, "  🔴 弱気セクター: %s\n", strings.Join(sa.BearishSectors, ", "))
	}

	names := make([]string, 0, len(sa.SectorScores))
	for name := range sa.SectorScores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if sa.SectorScores[names[i]] != sa.SectorScores[names[j]] {
			return sa.SectorScores[names[i]] > sa.SectorScores[names[j]]
		}
		return names[i] < names[j]
	})

	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\t%.1f\n", name, sa.SectorScores[name])
	}
	w.Flush()
	b.WriteString("\n")
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("--- リスク警告 ---\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "  %s\n", w)
	}
	b.WriteString("\n")
}

func renderAllScores(b *strings.Builder, results []contracts.ScoreResult) {
	if len(results) == 0 {
		return
	}

	b.WriteString("--- 全銘柄スコア一覧 ---\n")
	w := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  銘柄\t銘柄名\t総合\t評価\tセン\tテク\tファ\tマク\tリス")
	for _, r := range results {
		fmt.Fprintf(w, "  %s\t%s\t%.0f\t%s %s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\n",
			r.Ticker, r.Name, r.TotalScore, r.RatingIcon, r.Rating,
			r.Scores.Sentiment, r.Scores.Technical, r.Scores.Fundamental,
			r.Scores.Macro, r.Scores.Risk)
	}
	w.Flush()
}
