// Package engine recomputes member standings from the transaction ledger and
// detects first-occurrence threshold events. It is the impure half of the
// standings materialized view: internal/spend projects; this package persists.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/service"
	"github.com/ledgerduel/ledgerduel/internal/spend"
	"github.com/ledgerduel/ledgerduel/internal/vice"
)

// Engine syncs member standings against the ledger.
type Engine struct {
	transactions service.TransactionStore
	standings    service.StandingsStore
	now          func() time.Time
}

// New creates a sync engine over the given stores.
func New(transactions service.TransactionStore, standings service.StandingsStore) *Engine {
	return &Engine{
		transactions: transactions,
		standings:    standings,
		now:          time.Now,
	}
}

// SyncRequest describes one member sync. The transaction list is the user's
// ledger as of the sync; the engine never caches it.
type SyncRequest struct {
	ArenaID        string
	UserID         string
	Transactions   []model.Transaction
	ArenaCreatedAt time.Time
	Mode           model.Mode

	// EliminateOnVice applies the direct-update semantics for vice_streak:
	// any qualifying transaction in the period permanently eliminates the
	// member. The periodic batch path leaves this off and relies on the
	// resolver's zero-spend ranking instead.
	EliminateOnVice bool
}

// SyncResult reports the derived standing. The spend figures are populated
// even when persistence fails, so callers can still display a best-effort
// number and retry the write later.
type SyncResult struct {
	NewSpend       float64
	NewSavings     float64
	BudgetExceeded bool
	TargetReached  bool
	Persisted      bool
}

// SyncMember recomputes one member's standing from the full ledger and
// persists it. Event timestamps are discovered idempotently: the budget
// crossing instant is replayed from the ledger itself, so repeated syncs
// always resolve to the same transaction's timestamp.
func (e *Engine) SyncMember(ctx context.Context, req SyncRequest) (SyncResult, error) {
	var res SyncResult

	if req.Mode == nil {
		return res, fmt.Errorf("sync %s/%s: arena mode is required", req.ArenaID, req.UserID)
	}
	if req.ArenaCreatedAt.IsZero() {
		return res, fmt.Errorf("sync %s/%s: arena creation time is required", req.ArenaID, req.UserID)
	}

	now := e.now().UTC()
	filter := vice.ID(model.ModeCategory(req.Mode))

	summary := spend.Compute(req.Transactions, req.ArenaCreatedAt, now, filter)
	res.NewSpend = summary.TotalSpend
	if req.Mode.Name() == model.ModeSavingsSprint {
		res.NewSavings = summary.TotalSpend
	}

	// Read the persisted standing; the caller's snapshot may be stale and
	// must never be trusted for the write-once markers.
	member, err := e.standings.GetMember(ctx, req.ArenaID, req.UserID)
	if err != nil {
		return res, fmt.Errorf("sync %s/%s: %w", req.ArenaID, req.UserID, err)
	}

	update := service.MemberUpdate{
		CurrentSpend:   &res.NewSpend,
		CurrentSavings: &res.NewSavings,
		LastSyncedAt:   &now,
	}

	switch mode := req.Mode.(type) {
	case model.BudgetGuardian, model.ViceStreak:
		target := req.Mode.Target()
		if summary.TotalSpend > target && !member.BudgetExceededAt.Triggered() {
			qualifying := spend.Qualifying(req.Transactions, req.ArenaCreatedAt, now, filter)
			if instant, ok := crossingInstant(qualifying, target); ok {
				member.BudgetExceededAt.Record(instant)
				update.BudgetExceededAt = &instant
				slog.Info("Budget threshold crossed",
					"arena", req.ArenaID,
					"user", req.UserID,
					"target", target,
					"crossed_at", instant)
			}
		}
		if vs, ok := mode.(model.ViceStreak); ok && req.EliminateOnVice && summary.TotalSpend > 0 && !member.Eliminated {
			eliminated := true
			update.Eliminated = &eliminated
			member.Eliminated = true
			slog.Info("Member eliminated by vice trigger",
				"arena", req.ArenaID,
				"user", req.UserID,
				"vice", vs.Vice)
		}
	case model.SavingsSprint:
		if summary.TotalSpend >= mode.TargetAmount && !member.TargetReachedAt.Triggered() {
			// First time observed at sync time, not reconstructed from the
			// ledger: savings accumulate off-ledger, so the race is only as
			// fair as sync frequency.
			member.TargetReachedAt.Record(now)
			update.TargetReachedAt = &now
			slog.Info("Savings target reached",
				"arena", req.ArenaID,
				"user", req.UserID,
				"target", mode.TargetAmount)
		}
	}

	res.BudgetExceeded = member.BudgetExceededAt.Triggered()
	res.TargetReached = member.TargetReachedAt.Triggered()

	if err := e.standings.UpdateMember(ctx, req.ArenaID, req.UserID, update); err != nil {
		return res, fmt.Errorf("sync %s/%s: persist standing: %w", req.ArenaID, req.UserID, err)
	}
	res.Persisted = true
	return res, nil
}

// SyncMemberFromStore is the direct-update variant: it re-queries the ledger
// itself and applies immediate vice_streak elimination. Invoked after every
// individual transaction write so standings stay near-real-time.
func (e *Engine) SyncMemberFromStore(ctx context.Context, arena *model.Arena, userID string) (SyncResult, error) {
	txns, err := e.transactions.ListTransactions(ctx, userID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("sync %s/%s: list transactions: %w", arena.ID, userID, err)
	}

	return e.SyncMember(ctx, SyncRequest{
		ArenaID:         arena.ID,
		UserID:          userID,
		Transactions:    txns,
		ArenaCreatedAt:  arena.CreatedAt,
		Mode:            arena.Mode,
		EliminateOnVice: true,
	})
}

// crossingInstant replays qualifying transactions in effective-time order and
// returns the instant of the first transaction at which the running absolute
// total exceeds target. The replay depends only on the ledger, never on when
// syncs happened to run.
func crossingInstant(qualifying []model.Transaction, target float64) (time.Time, bool) {
	ordered := slices.Clone(qualifying)
	slices.SortStableFunc(ordered, func(a, b model.Transaction) int {
		if c := a.EffectiveTime().Compare(b.EffectiveTime()); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	var running float64
	for _, txn := range ordered {
		if txn.Amount < 0 {
			running += -txn.Amount
		}
		if running > target {
			return txn.EffectiveTime(), true
		}
	}
	return time.Time{}, false
}
