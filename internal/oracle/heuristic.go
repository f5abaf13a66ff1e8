package oracle

import (
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/spend"
)

// heuristicLookback is how much ledger history the fallback extrapolates from.
const heuristicLookback = 30 * 24 * time.Hour

// HeuristicForecast is the degraded-mode forecast: extrapolate the recent
// daily spend average over the horizon. Crude, but it keeps the feature
// usable while the oracle is down.
func HeuristicForecast(userID string, txns []model.Transaction, horizonDays int, now time.Time) *Forecast {
	if horizonDays < 1 {
		horizonDays = 7
	}

	summary := spend.Compute(txns, now.Add(-heuristicLookback), now, "")
	return &Forecast{
		UserID:         userID,
		HorizonDays:    horizonDays,
		ProjectedSpend: summary.DailyAverage * float64(horizonDays),
		DailyAverage:   summary.DailyAverage,
		GeneratedAt:    now,
		Source:         "heuristic",
	}
}
