package recommend

import (
	"sort"

	"github.com/wonny/ichiba/internal/contracts"
	"github.com/wonny/ichiba/internal/scoring"
)

const (
	bullishSectorFloor = 55.0
	bearishSectorCeil  = 45.0
)

// analyzeSectors averages total scores per sector and flags the
// strongest / weakest sectors. セクター未設定は "Unknown" 扱い。
func analyzeSectors(results []contracts.ScoreResult) contracts.SectorAnalysis {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, r := range results {
		sector := r.Sector
		if sector == "" {
			sector = "Unknown"
		}
		sums[sector] += r.TotalScore
		counts[sector]++
	}

	avgs := make(map[string]float64, len(sums))
	names := make([]string, 0, len(sums))
	for sector, sum := range sums {
		avgs[sector] = scoring.Round1(sum / float64(counts[sector]))
		names = append(names, sector)
	}

	// スコア降順、同点は名前昇順
	sort.Slice(names, func(i, j int) bool {
		if avgs[names[i]] != avgs[names[j]] {
			return avgs[names[i]] > avgs[names[j]]
		}
		return names[i] < names[j]
	})

	var bullish, bearish []string
	for i, sector := range names {
		if i < 3 && avgs[sector] >= bullishSectorFloor {
			bullish = append(bullish, sector)
		}
		if i >= len(names)-3 && avgs[sector] <= bearishSectorCeil {
			bearish = append(bearish, sector)
		}
	}

	return contracts.SectorAnalysis{
		SectorScores:   avgs,
		BullishSectors: bullish,
		BearishSectors: bearish,
	}
}
