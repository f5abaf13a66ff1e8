package settle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/payment"
	"github.com/ledgerduel/ledgerduel/internal/service"
)

// Settler finalizes arenas: it resolves the winner, records the terminal
// state, and hands the prize pool to the payment rail.
type Settler struct {
	standings service.StandingsStore
	rail      payment.Rail
	now       func() time.Time
}

// NewSettler creates a settler over the standings store and payment rail.
func NewSettler(standings service.StandingsStore, rail payment.Rail) *Settler {
	return &Settler{
		standings: standings,
		rail:      rail,
		now:       time.Now,
	}
}

// SettlementResult describes a finalized arena.
type SettlementResult struct {
	ArenaID     string
	WinnerID    string
	PrizePool   decimal.Decimal
	MemberCount int
	Tied        bool
}

// SettleArena loads the arena snapshot, resolves the winner, and transitions
// the arena to completed with the winner recorded. The field-size and
// freshness gates are re-checked here so no caller can finalize from stale
// data; settling an already-completed arena is a caller error surfaced by
// the store.
func (s *Settler) SettleArena(ctx context.Context, arenaID string) (*SettlementResult, error) {
	arena, members, err := s.standings.GetArenaWithMembers(ctx, arenaID)
	if err != nil {
		return nil, fmt.Errorf("settle %s: %w", arenaID, err)
	}

	now := s.now().UTC()
	if len(members) < MinMembers {
		return nil, fmt.Errorf("settle %s: %w", arenaID, common.ErrNotEnoughMembers)
	}
	if !AllSynced(members, now) {
		return nil, fmt.Errorf("settle %s: %w", arenaID, common.ErrStaleStandings)
	}

	winner := DetermineWinner(arena, members)
	if winner == nil {
		return nil, fmt.Errorf("settle %s: %w", arenaID, common.ErrNoEligibleWinner)
	}

	if err := s.standings.UpdateArenaStatus(ctx, arenaID, model.StatusCompleted, winner.UserID); err != nil {
		return nil, fmt.Errorf("settle %s: record result: %w", arenaID, err)
	}

	report := Standings(arena, members, now)
	result := &SettlementResult{
		ArenaID:     arenaID,
		WinnerID:    winner.UserID,
		PrizePool:   PrizePool(arena.StakeAmount, len(members)),
		MemberCount: len(members),
		Tied:        report.Tied,
	}

	slog.Info("Arena settled",
		"arena", arenaID,
		"winner", result.WinnerID,
		"prize_pool", result.PrizePool.String(),
		"members", result.MemberCount)
	return result, nil
}

// Disburse sends the prize pool to the winner's address over the payment
// rail. Kept separate from SettleArena so the settlement record survives even
// when the rail is down; callers retry disbursement independently.
func (s *Settler) Disburse(ctx context.Context, result *SettlementResult, winnerAddress string) (*payment.Receipt, error) {
	if winnerAddress == "" {
		return nil, fmt.Errorf("disburse %s: winner address is required", result.ArenaID)
	}

	receipt, err := s.rail.Payout(ctx, result.ArenaID, winnerAddress, result.PrizePool)
	if err != nil {
		return nil, fmt.Errorf("disburse %s: %w: %v", result.ArenaID, common.ErrPayoutFailed, err)
	}

	slog.Info("Prize pool disbursed",
		"arena", result.ArenaID,
		"winner", result.WinnerID,
		"amount", result.PrizePool.String(),
		"signature", receipt.Signature)
	return receipt, nil
}

// PrizePool is the total staked amount: the per-member stake times the number
// of members who put one up.
func PrizePool(stake decimal.Decimal, memberCount int) decimal.Decimal {
	return stake.Mul(decimal.NewFromInt(int64(memberCount)))
}
