package spend

import (
	"reflect"
	"testing"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/vice"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	periodStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 2, 7, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		txns       []model.Transaction
		viceFilter vice.ID
		wantTotal  float64
		wantCount  int
		wantDaily  float64
	}{
		{
			name:      "empty ledger yields zero summary",
			txns:      nil,
			wantTotal: 0,
			wantCount: 0,
			wantDaily: 0,
		},
		{
			name: "single expense",
			txns: []model.Transaction{
				{Date: day(2026, 2, 1), Amount: -50, Category: "Groceries"},
			},
			wantTotal: 50,
			wantCount: 1,
			wantDaily: 7.14, // 50 / 7 days
		},
		{
			name: "income and transfers excluded",
			txns: []model.Transaction{
				{Date: day(2026, 2, 1), Amount: -50, Category: "Groceries"},
				{Date: day(2026, 2, 2), Amount: 2500, Category: "Income"},
				{Date: day(2026, 2, 3), Amount: -300, Category: "Transfer"},
				{Date: day(2026, 2, 3), Amount: -120.55, Category: "Dining"},
			},
			wantTotal: 170.55,
			wantCount: 2,
			wantDaily: 24.36,
		},
		{
			name: "positive amounts never count as spend",
			txns: []model.Transaction{
				{Date: day(2026, 2, 2), Amount: 35, Category: "Refund"},
			},
			wantTotal: 0,
			wantCount: 0,
			wantDaily: 0,
		},
		{
			name: "transactions outside the window excluded",
			txns: []model.Transaction{
				{Date: day(2026, 1, 31), Amount: -10, Category: "Groceries"},
				{Date: day(2026, 2, 8), Amount: -10, Category: "Groceries"},
				{Date: day(2026, 2, 4), Amount: -10, Category: "Groceries"},
			},
			wantTotal: 10,
			wantCount: 1,
			wantDaily: 1.43,
		},
		{
			name: "vice filter restricts to matching spend",
			txns: []model.Transaction{
				{Date: day(2026, 2, 1), Amount: -4.5, Description: "STARBUCKS", Category: "Coffee"},
				{Date: day(2026, 2, 2), Amount: -60, Description: "TESCO", Category: "Groceries"},
			},
			viceFilter: vice.Coffee,
			wantTotal:  4.5,
			wantCount:  1,
			wantDaily:  0.64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.txns, periodStart, periodEnd, tt.viceFilter)
			if got.TotalSpend != tt.wantTotal {
				t.Errorf("TotalSpend = %v, want %v", got.TotalSpend, tt.wantTotal)
			}
			if got.TransactionCount != tt.wantCount {
				t.Errorf("TransactionCount = %v, want %v", got.TransactionCount, tt.wantCount)
			}
			if got.DailyAverage != tt.wantDaily {
				t.Errorf("DailyAverage = %v, want %v", got.DailyAverage, tt.wantDaily)
			}
		})
	}
}

func TestComputeCategoryBreakdown(t *testing.T) {
	txns := []model.Transaction{
		{Date: day(2026, 2, 1), Amount: -50.10, Category: "Groceries"},
		{Date: day(2026, 2, 2), Amount: -19.90, Category: "Groceries"},
		{Date: day(2026, 2, 3), Amount: -12.34, Category: "Dining"},
	}

	got := Compute(txns, day(2026, 2, 1), day(2026, 2, 5), "")
	want := map[string]float64{"Groceries": 70, "Dining": 12.34}
	if !reflect.DeepEqual(got.CategoryBreakdown, want) {
		t.Errorf("CategoryBreakdown = %v, want %v", got.CategoryBreakdown, want)
	}
	if got.TotalSpend != 82.34 {
		t.Errorf("TotalSpend = %v, want 82.34", got.TotalSpend)
	}
}

func TestComputeIdempotent(t *testing.T) {
	txns := []model.Transaction{
		{Date: day(2026, 2, 1), Amount: -33.33, Category: "Groceries"},
		{Date: day(2026, 2, 2), Amount: -66.67, Category: "Dining"},
		{Date: day(2026, 2, 3), Amount: -0.01, Category: "Coffee"},
	}
	start, end := day(2026, 2, 1), day(2026, 2, 10)

	first := Compute(txns, start, end, "")
	for i := 0; i < 50; i++ {
		again := Compute(txns, start, end, "")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Compute not idempotent on run %d: %+v != %+v", i, again, first)
		}
	}
}

func TestComputeSameDayWindowCountsAsOneDay(t *testing.T) {
	start := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: day(2026, 2, 1), Amount: -40, Category: "Dining"},
	}

	got := Compute(txns, start, end, "")
	if got.DailyAverage != 40 {
		t.Errorf("DailyAverage = %v, want 40 (single-day window)", got.DailyAverage)
	}
}

func TestComputeCreationDayTransactionsCount(t *testing.T) {
	// Period start mid-day: same-day transactions dated at midnight still count.
	start := time.Date(2026, 2, 1, 17, 30, 0, 0, time.UTC)
	txns := []model.Transaction{
		{Date: day(2026, 2, 1), Amount: -25, Category: "Dining"},
	}

	got := Compute(txns, start, day(2026, 2, 3), "")
	if got.TotalSpend != 25 {
		t.Errorf("TotalSpend = %v, want 25: creation-day transaction must count", got.TotalSpend)
	}
}
