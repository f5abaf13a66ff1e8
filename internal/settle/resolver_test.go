package settle

import (
	"testing"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/shopspring/decimal"
)

var (
	created = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	now     = time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)
)

func activeArena(mode model.Mode) *model.Arena {
	return &model.Arena{
		ID:          "a1",
		CreatorID:   "alice",
		Mode:        mode,
		StakeAmount: decimal.NewFromFloat(0.5),
		CreatedAt:   created,
		Status:      model.StatusActive,
	}
}

func freshMember(userID string, spend float64) model.Member {
	return model.Member{
		ArenaID:      "a1",
		UserID:       userID,
		CurrentSpend: spend,
		LastSyncedAt: now.Add(-10 * time.Minute),
		JoinedAt:     created,
	}
}

func TestDetermineWinnerBudgetGuardian(t *testing.T) {
	arena := activeArena(model.BudgetGuardian{TargetAmount: 100})

	tests := []struct {
		name    string
		members []model.Member
		want    string
	}{
		{
			name: "lowest spend under target wins",
			members: []model.Member{
				freshMember("alice", 80),
				freshMember("bob", 40),
				freshMember("carol", 95),
			},
			want: "bob",
		},
		{
			name: "under target beats over target regardless of amount",
			members: func() []model.Member {
				over := freshMember("alice", 110)
				over.BudgetExceededAt = model.TriggeredAt(created.Add(24 * time.Hour))
				return []model.Member{over, freshMember("bob", 99)}
			}(),
			want: "bob",
		},
		{
			name: "everyone over: latest crossing wins",
			members: func() []model.Member {
				a := freshMember("alice", 150)
				a.BudgetExceededAt = model.TriggeredAt(created.Add(24 * time.Hour))
				b := freshMember("bob", 300)
				b.BudgetExceededAt = model.TriggeredAt(created.Add(72 * time.Hour))
				return []model.Member{a, b}
			}(),
			want: "bob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			winner := DetermineWinner(arena, tt.members)
			if winner == nil {
				t.Fatal("expected a winner")
			}
			if winner.UserID != tt.want {
				t.Errorf("winner = %s, want %s", winner.UserID, tt.want)
			}
		})
	}
}

func TestDetermineWinnerViceStreak(t *testing.T) {
	arena := activeArena(model.ViceStreak{TargetAmount: 0, Vice: "coffee"})

	// alice bought a coffee on day two; bob stayed clean.
	alice := freshMember("alice", 4.8)
	alice.BudgetExceededAt = model.TriggeredAt(created.Add(36 * time.Hour))
	bob := freshMember("bob", 0)

	winner := DetermineWinner(arena, []model.Member{alice, bob})
	if winner == nil || winner.UserID != "bob" {
		t.Fatalf("winner = %+v, want bob", winner)
	}

	// When alice was eliminated outright, bob still wins as the only survivor.
	alice.Eliminated = true
	winner = DetermineWinner(arena, []model.Member{alice, bob})
	if winner == nil || winner.UserID != "bob" {
		t.Fatalf("winner = %+v, want bob after elimination", winner)
	}
}

func TestDetermineWinnerSavingsSprintRace(t *testing.T) {
	arena := activeArena(model.SavingsSprint{TargetAmount: 500})

	alice := freshMember("alice", 0)
	alice.CurrentSavings = 520
	alice.TargetReachedAt = model.TriggeredAt(created.Add(48 * time.Hour))

	bob := freshMember("bob", 0)
	bob.CurrentSavings = 900
	bob.TargetReachedAt = model.TriggeredAt(created.Add(96 * time.Hour))

	winner := DetermineWinner(arena, []model.Member{bob, alice})
	if winner == nil || winner.UserID != "alice" {
		t.Fatalf("winner = %+v, want alice (reached target first)", winner)
	}

	// Nobody has crossed yet: highest savings leads.
	carol := freshMember("carol", 0)
	carol.CurrentSavings = 300
	dave := freshMember("dave", 0)
	dave.CurrentSavings = 450

	winner = DetermineWinner(arena, []model.Member{carol, dave})
	if winner == nil || winner.UserID != "dave" {
		t.Fatalf("winner = %+v, want dave", winner)
	}
}

func TestDetermineWinnerAllEliminated(t *testing.T) {
	arena := activeArena(model.ViceStreak{TargetAmount: 0, Vice: "coffee"})
	alice := freshMember("alice", 10)
	alice.Eliminated = true
	bob := freshMember("bob", 5)
	bob.Eliminated = true

	if winner := DetermineWinner(arena, []model.Member{alice, bob}); winner != nil {
		t.Fatalf("winner = %+v, want nil when every member is eliminated", winner)
	}
}

func TestStandingsOrderAndTie(t *testing.T) {
	arena := activeArena(model.BudgetGuardian{TargetAmount: 100})

	alice := freshMember("alice", 60)
	bob := freshMember("bob", 60)
	carol := freshMember("carol", 40)
	dave := freshMember("dave", 10)
	dave.Eliminated = true

	report := Standings(arena, []model.Member{alice, bob, carol, dave}, now)

	gotOrder := make([]string, len(report.Ranked))
	for i, m := range report.Ranked {
		gotOrder[i] = m.UserID
	}
	wantOrder := []string{"carol", "alice", "bob", "dave"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("ranked order = %v, want %v", gotOrder, wantOrder)
		}
	}
	if report.Tied {
		t.Error("carol is a clear leader; Tied must be false")
	}
	if !report.AllSynced {
		t.Error("all members are fresh; AllSynced must be true")
	}

	// Remove carol: alice and bob tie at 60 and keep join order.
	report = Standings(arena, []model.Member{alice, bob}, now)
	if !report.Tied {
		t.Error("equal spends under target must report Tied")
	}
	if report.Ranked[0].UserID != "alice" {
		t.Errorf("representative winner = %s, want alice (join order)", report.Ranked[0].UserID)
	}
}

func TestBlockReason(t *testing.T) {
	stale := freshMember("bob", 20)
	stale.LastSyncedAt = now.Add(-2 * time.Hour)
	never := freshMember("carol", 0)
	never.LastSyncedAt = time.Time{}

	completed := activeArena(model.BudgetGuardian{TargetAmount: 100})
	completed.Status = model.StatusCompleted

	tests := []struct {
		name      string
		arena     *model.Arena
		members   []model.Member
		requester string
		want      string
	}{
		{
			name:      "not active",
			arena:     completed,
			members:   []model.Member{freshMember("alice", 10), freshMember("bob", 20)},
			requester: "alice",
			want:      "arena is completed, not active",
		},
		{
			name:      "non-creator cannot settle",
			arena:     activeArena(model.BudgetGuardian{TargetAmount: 100}),
			members:   []model.Member{freshMember("alice", 10), freshMember("bob", 20)},
			requester: "bob",
			want:      "only the creator (alice) can settle this arena",
		},
		{
			name:      "too few members",
			arena:     activeArena(model.BudgetGuardian{TargetAmount: 100}),
			members:   []model.Member{freshMember("alice", 10)},
			requester: "alice",
			want:      "needs at least 2 members, has 1",
		},
		{
			name:      "stale members named",
			arena:     activeArena(model.BudgetGuardian{TargetAmount: 100}),
			members:   []model.Member{freshMember("alice", 10), stale, never},
			requester: "alice",
			want:      "waiting for fresh data from: bob, carol",
		},
		{
			name:      "settleable by creator",
			arena:     activeArena(model.BudgetGuardian{TargetAmount: 100}),
			members:   []model.Member{freshMember("alice", 10), freshMember("bob", 20)},
			requester: "alice",
			want:      "",
		},
		{
			name:      "empty requester skips the creator check",
			arena:     activeArena(model.BudgetGuardian{TargetAmount: 100}),
			members:   []model.Member{freshMember("alice", 10), freshMember("bob", 20)},
			requester: "",
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BlockReason(tt.arena, tt.members, tt.requester, now); got != tt.want {
				t.Errorf("BlockReason = %q, want %q", got, tt.want)
			}
			if CanSettle(tt.arena, tt.members, tt.requester, now) != (tt.want == "") {
				t.Errorf("CanSettle disagrees with BlockReason %q", tt.want)
			}
		})
	}
}

func TestFreshnessBoundary(t *testing.T) {
	onEdge := freshMember("alice", 0)
	onEdge.LastSyncedAt = now.Add(-FreshnessWindow)
	if !AllSynced([]model.Member{onEdge}, now) {
		t.Error("a sync exactly one window old is still fresh")
	}

	justOver := freshMember("bob", 0)
	justOver.LastSyncedAt = now.Add(-FreshnessWindow - time.Second)
	if AllSynced([]model.Member{justOver}, now) {
		t.Error("a sync older than the window is stale")
	}
}

func TestPrizePool(t *testing.T) {
	got := PrizePool(decimal.NewFromFloat(0.5), 3)
	if !got.Equal(decimal.NewFromFloat(1.5)) {
		t.Errorf("PrizePool(0.5, 3) = %s, want 1.5", got)
	}

	got = PrizePool(decimal.RequireFromString("0.1"), 3)
	if !got.Equal(decimal.RequireFromString("0.3")) {
		t.Errorf("PrizePool(0.1, 3) = %s, want exactly 0.3", got)
	}
}
