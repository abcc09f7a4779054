package market

import "github.com/sawpanic/catalystrun/internal/domain/catalyst"

// ClassifySectorTrend buckets benchmark/sector returns and the volatility
// index into one of the five ordinal trend labels. An unknown benchmark
// return yields neutral; the other inputs only tilt the score.
func ClassifySectorTrend(benchReturn, sectorReturn, volIndex *float64) string {
	if benchReturn == nil {
		return catalyst.TrendNeutral
	}

	bullish := 0
	switch b := *benchReturn; {
	case b > 1.5:
		bullish += 2
	case b > 0:
		bullish++
	case b < -1.5:
		bullish -= 2
	case b < 0:
		bullish--
	}

	if sectorReturn != nil {
		if *sectorReturn > 2 {
			bullish++
		} else if *sectorReturn < -2 {
			bullish--
		}
	}

	if volIndex != nil {
		switch v := *volIndex; {
		case v < 15:
			bullish++
		case v > 35:
			bullish -= 2
		case v > 25:
			bullish--
		}
	}

	switch {
	case bullish >= 3:
		return catalyst.TrendStrongRiskOn
	case bullish >= 1:
		return catalyst.TrendRiskOn
	case bullish <= -3:
		return catalyst.TrendStrongRiskOff
	case bullish <= -1:
		return catalyst.TrendRiskOff
	default:
		return catalyst.TrendNeutral
	}
}
