package model

import (
	"math/rand"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		target   float64
		category string
		wantErr  bool
		wantName ModeName
	}{
		{name: "budget guardian", mode: "budget_guardian", target: 100, wantName: ModeBudgetGuardian},
		{name: "savings sprint", mode: "savings_sprint", target: 500, wantName: ModeSavingsSprint},
		{name: "vice streak with category", mode: "vice_streak", target: 0, category: "coffee", wantName: ModeViceStreak},
		{name: "vice streak requires category", mode: "vice_streak", wantErr: true},
		{name: "unknown mode rejected", mode: "chaos_mode", wantErr: true},
		{name: "empty mode rejected", mode: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode, err := ParseMode(tt.mode, tt.target, tt.category)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMode(%q) expected error, got %v", tt.mode, mode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.mode, err)
			}
			if mode.Name() != tt.wantName {
				t.Errorf("Name() = %s, want %s", mode.Name(), tt.wantName)
			}
			if mode.Target() != tt.target {
				t.Errorf("Target() = %v, want %v", mode.Target(), tt.target)
			}
		})
	}
}

func TestModeCategory(t *testing.T) {
	vs, err := ParseMode("vice_streak", 0, "alcohol")
	if err != nil {
		t.Fatal(err)
	}
	if got := ModeCategory(vs); got != "alcohol" {
		t.Errorf("ModeCategory(vice_streak) = %q, want alcohol", got)
	}

	bg, err := ParseMode("budget_guardian", 100, "")
	if err != nil {
		t.Fatal(err)
	}
	if got := ModeCategory(bg); got != "" {
		t.Errorf("ModeCategory(budget_guardian) = %q, want empty", got)
	}
}

func TestBudgetGuardianOutranks(t *testing.T) {
	mode := BudgetGuardian{TargetAmount: 100}
	t1 := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)

	tests := []struct {
		name string
		a, b Member
		want bool
	}{
		{
			name: "under target outranks over target",
			a:    Member{CurrentSpend: 90},
			b:    Member{CurrentSpend: 150, BudgetExceededAt: TriggeredAt(t1)},
			want: true,
		},
		{
			name: "lower spend wins under target",
			a:    Member{CurrentSpend: 30},
			b:    Member{CurrentSpend: 80},
			want: true,
		},
		{
			name: "all over: latest crossing wins",
			a:    Member{CurrentSpend: 150, BudgetExceededAt: TriggeredAt(t2)},
			b:    Member{CurrentSpend: 120, BudgetExceededAt: TriggeredAt(t1)},
			want: true,
		},
		{
			name: "missing crossing timestamp treated as never exceeded",
			a:    Member{CurrentSpend: 150},
			b:    Member{CurrentSpend: 150, BudgetExceededAt: TriggeredAt(t2)},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mode.Outranks(tt.a, tt.b); got != tt.want {
				t.Errorf("Outranks = %v, want %v", got, tt.want)
			}
			if tt.want {
				if back := mode.Outranks(tt.b, tt.a); back {
					t.Error("ranking not antisymmetric: both members outrank each other")
				}
			}
		})
	}
}

// Exhaustive pairwise check: for members with distinct standings exactly one
// direction of the comparison holds, so the sort order is a total order.
func TestBudgetGuardianRankingTotality(t *testing.T) {
	mode := BudgetGuardian{TargetAmount: 100}
	rng := rand.New(rand.NewSource(42))

	members := make([]Member, 40)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := range members {
		spend := float64(rng.Intn(20000)) / 100
		members[i] = Member{CurrentSpend: spend}
		if spend > 100 && rng.Intn(4) > 0 {
			members[i].BudgetExceededAt = TriggeredAt(base.Add(time.Duration(rng.Intn(100000)) * time.Second))
		}
	}

	for i := range members {
		for j := range members {
			if i == j {
				continue
			}
			ab := mode.Outranks(members[i], members[j])
			ba := mode.Outranks(members[j], members[i])
			if ab && ba {
				t.Fatalf("members %d and %d outrank each other", i, j)
			}
		}
	}
}

func TestViceStreakOutranks(t *testing.T) {
	mode := ViceStreak{TargetAmount: 0, Vice: "coffee"}
	t1 := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	clean := Member{CurrentSpend: 0}
	early := Member{CurrentSpend: 8, BudgetExceededAt: TriggeredAt(t1)}
	late := Member{CurrentSpend: 4, BudgetExceededAt: TriggeredAt(t2)}

	if !mode.Outranks(clean, early) {
		t.Error("zero-spend member must outrank a triggered one")
	}
	if mode.Outranks(early, clean) {
		t.Error("triggered member must not outrank a clean one")
	}
	if !mode.Outranks(late, early) {
		t.Error("among triggered members the latest trigger must win")
	}
	if mode.Outranks(clean, Member{CurrentSpend: 0}) {
		t.Error("two clean members are a tie, neither outranks")
	}
}

func TestSavingsSprintOutranks(t *testing.T) {
	mode := SavingsSprint{TargetAmount: 500}
	t1 := time.Date(2026, 2, 5, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	first := Member{CurrentSavings: 500, TargetReachedAt: TriggeredAt(t1)}
	second := Member{CurrentSavings: 520, TargetReachedAt: TriggeredAt(t2)}
	behind := Member{CurrentSavings: 300}
	trailing := Member{CurrentSavings: 150}

	if !mode.Outranks(first, second) {
		t.Error("earlier target_reached_at must win the race")
	}
	if !mode.Outranks(second, behind) {
		t.Error("reaching the target must outrank not reaching it")
	}
	if !mode.Outranks(behind, trailing) {
		t.Error("higher savings must win among non-finishers")
	}
}

func TestEventMarkerWriteOnce(t *testing.T) {
	t1 := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	var marker EventMarker
	if marker.Triggered() {
		t.Fatal("zero marker must not be triggered")
	}
	if !marker.Record(t1) {
		t.Fatal("first Record must succeed")
	}
	if marker.Record(t2) {
		t.Fatal("second Record must be a no-op")
	}
	at, ok := marker.At()
	if !ok || !at.Equal(t1) {
		t.Fatalf("marker At() = %v, want %v", at, t1)
	}
}

func TestArenaPeriodStart(t *testing.T) {
	arena := Arena{CreatedAt: time.Date(2026, 2, 1, 17, 45, 3, 0, time.UTC)}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if got := arena.PeriodStart(); !got.Equal(want) {
		t.Errorf("PeriodStart() = %v, want %v", got, want)
	}
}

func TestTransactionEffectiveTime(t *testing.T) {
	date := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	precise := time.Date(2026, 2, 2, 9, 13, 0, 0, time.UTC)

	withTS := Transaction{Date: date, Timestamp: precise}
	if got := withTS.EffectiveTime(); !got.Equal(precise) {
		t.Errorf("EffectiveTime with timestamp = %v, want %v", got, precise)
	}

	withoutTS := Transaction{Date: date}
	wantNoon := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)
	if got := withoutTS.EffectiveTime(); !got.Equal(wantNoon) {
		t.Errorf("EffectiveTime fallback = %v, want %v", got, wantNoon)
	}
}
