package market

import (
	"sort"

	"github.com/sentinel-quant/sentinel/internal/types"
)

const pivotClusterThresholdPct = 0.5

// FindPivotLevels detects support and resistance zones from pivot extrema.
// A bar is a pivot high when its high is the maximum of the surrounding
// 2×window+1 bars, and a pivot low symmetrically. Nearby pivots within 0.5%
// are clustered into a single level whose touch count is the cluster size.
// Levels are split around the latest close: supports below, resistances
// above, each list capped at maxLevels strongest.
func FindPivotLevels(series types.Series, window, maxLevels int) *types.PivotLevels {
	last, ok := series.Last()
	if !ok {
		return nil
	}
	currentPrice := last.Close

	highs := series.Highs()
	lows := series.Lows()

	var pivotHighs, pivotLows []float64
	for i := window; i < len(series)-window; i++ {
		if isExtremum(highs, i, window, func(a, b float64) bool { return a > b }) {
			pivotHighs = append(pivotHighs, highs[i])
		}
		if isExtremum(lows, i, window, func(a, b float64) bool { return a < b }) {
			pivotLows = append(pivotLows, lows[i])
		}
	}

	supports := filterLevels(clusterLevels(pivotLows, maxLevels), func(p float64) bool {
		return p < currentPrice
	})
	resistances := filterLevels(clusterLevels(pivotHighs, maxLevels), func(p float64) bool {
		return p > currentPrice
	})

	return &types.PivotLevels{
		Supports:     supports,
		Resistances:  resistances,
		CurrentPrice: currentPrice,
	}
}

func isExtremum(values []float64, i, window int, better func(a, b float64) bool) bool {
	for j := i - window; j <= i+window; j++ {
		if j == i {
			continue
		}
		if better(values[j], values[i]) {
			return false
		}
	}
	return true
}

// clusterLevels groups sorted levels lying within the threshold of the
// cluster's first member, averages each group, and returns the strongest
// clusters first.
func clusterLevels(levels []float64, maxLevels int) []types.PivotLevel {
	if len(levels) == 0 {
		return nil
	}

	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	var clusters []types.PivotLevel
	current := []float64{sorted[0]}
	flush := func() {
		sum := 0.0
		for _, v := range current {
			sum += v
		}
		clusters = append(clusters, types.PivotLevel{
			Price:   sum / float64(len(current)),
			Touches: len(current),
		})
	}

	for _, level := range sorted[1:] {
		if (level-current[0])/current[0]*100 < pivotClusterThresholdPct {
			current = append(current, level)
			continue
		}
		flush()
		current = []float64{level}
	}
	flush()

	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Touches > clusters[j].Touches
	})
	if len(clusters) > maxLevels {
		clusters = clusters[:maxLevels]
	}

	return clusters
}

func filterLevels(levels []types.PivotLevel, keep func(price float64) bool) []types.PivotLevel {
	out := make([]types.PivotLevel, 0, len(levels))
	for _, l := range levels {
		if keep(l.Price) {
			out = append(out, l)
		}
	}
	return out
}
