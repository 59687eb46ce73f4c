package recommend

import (
	"fmt"
	"strings"

	"github.com/wonny/ichiba/internal/contracts"
)

// riskWarnings flags macro conditions that deserve a caution line in
// the report. 閾値はマクロ指標ごとに固定。
func riskWarnings(macro contracts.MacroIndicators, results []contracts.ScoreResult) []string {
	var warnings []string

	if macro.VIX != nil && *macro.VIX > 25 {
		warnings = append(warnings, fmt.Sprintf("[!] VIX=%.1f - ボラティリティが高く、市場全体にリスクあり", *macro.VIX))
	}
	if macro.USDJPYChange != nil && *macro.USDJPYChange < -1.0 {
		warnings = append(warnings, fmt.Sprintf("[!] 急激な円高 (%+.2f%%) - 輸出企業に注意", *macro.USDJPYChange))
	}
	if macro.US10YChange != nil && *macro.US10YChange > 3.0 {
		warnings = append(warnings, fmt.Sprintf("[!] 米国10年債利回り急上昇 (%+.2f%%) - グロース株に注意", *macro.US10YChange))
	}
	if macro.OilChange != nil && *macro.OilChange > 5.0 {
		warnings = append(warnings, fmt.Sprintf("[!] 原油価格急騰 (%+.2f%%) - コスト増の影響に注意", *macro.OilChange))
	}

	if len(results) > 0 {
		sum := 0.0
		for _, r := range results {
			sum += r.TotalScore
		}
		if sum/float64(len(results)) < 40 {
			warnings = append(warnings, "[!] 全体的にスコアが低い - 市場環境の悪化に注意")
		}
	}

	return warnings
}

// criticalKeywords downgrade the market sentiment when they show up in
// any risk warning
var criticalKeywords = []string{"急激な", "急騰", "急上昇", "VIX", "ボラティリティ"}

// marketSentiment maps the macro score to a sentiment label, downgraded
// when a critical risk warning is present
func marketSentiment(macroScore float64, warnings []string) string {
	var base string
	switch {
	case macroScore >= 70:
		base = "強気"
	case macroScore >= 55:
		base = "やや強気"
	case macroScore >= 45:
		base = "中立"
	case macroScore >= 30:
		base = "やや弱気"
	default:
		base = "弱気"
	}

	for _, w := range warnings {
		for _, k := range criticalKeywords {
			if strings.Contains(w, k) {
				if strings.Contains(base, "強気") {
					return base + " (要警戒)"
				}
				return "中立 (弱気バイアス)"
			}
		}
	}

	return base
}
