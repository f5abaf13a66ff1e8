// Package spend computes qualifying spend over a competition window. It is
// the pure projection half of the standings materialized view: everything
// here is derivable from the transaction ledger alone.
package spend

import (
	"math"
	"strings"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/vice"
)

// Summary is the result of one period-spend computation.
type Summary struct {
	CategoryBreakdown map[string]float64
	TotalSpend        float64
	DailyAverage      float64
	TransactionCount  int
}

// Compute totals qualifying spend for transactions dated within
// [start-of-day(periodStart), periodEnd]. Only expenses count; transfers and
// income rows are excluded. When viceFilter is non-empty the total is further
// restricted to transactions matching that vice. An empty ledger yields an
// all-zero summary.
func Compute(txns []model.Transaction, periodStart, periodEnd time.Time, viceFilter vice.ID) Summary {
	qualifying := Qualifying(txns, periodStart, periodEnd, viceFilter)

	summary := Summary{CategoryBreakdown: make(map[string]float64)}
	for _, txn := range qualifying {
		amount := math.Abs(txn.Amount)
		summary.TotalSpend += amount
		summary.CategoryBreakdown[txn.Category] += amount
		summary.TransactionCount++
	}

	for category, total := range summary.CategoryBreakdown {
		summary.CategoryBreakdown[category] = round2(total)
	}
	summary.TotalSpend = round2(summary.TotalSpend)
	summary.DailyAverage = round2(summary.TotalSpend / float64(periodDays(periodStart, periodEnd)))
	return summary
}

// Qualifying filters the ledger to the expenses that count toward an arena's
// spend: inside the window, negative amount, not a transfer or income row,
// and matching the vice filter when one is set. The result preserves ledger
// order; callers that need replay order sort by EffectiveTime themselves.
func Qualifying(txns []model.Transaction, periodStart, periodEnd time.Time, viceFilter vice.ID) []model.Transaction {
	start := startOfDay(periodStart)

	var out []model.Transaction
	for _, txn := range txns {
		if txn.Date.Before(start) || txn.Date.After(periodEnd) {
			continue
		}
		if !txn.IsExpense() || excludedCategory(txn.Category) {
			continue
		}
		if viceFilter != "" && !vice.Matches(txn, viceFilter) {
			continue
		}
		out = append(out, txn)
	}
	return out
}

// excludedCategory filters the bookkeeping rows that are not real spending.
func excludedCategory(category string) bool {
	switch strings.ToLower(category) {
	case "transfer", "income":
		return true
	default:
		return false
	}
}

// periodDays is the day count used for the daily average: the ceiling of the
// window length, never less than one.
func periodDays(start, end time.Time) int {
	hours := end.Sub(startOfDay(start)).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		return 1
	}
	return days
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
