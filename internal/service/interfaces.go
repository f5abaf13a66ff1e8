// Package service defines the interfaces the engine consumes: the transaction
// ledger, the standings store, and retry configuration shared across them.
package service

import (
	"context"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// TransactionStore is the durable, append-only transaction ledger. The engine
// treats it as the single source of truth and never caches results beyond one
// sync call.
type TransactionStore interface {
	ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error)
	SaveTransaction(ctx context.Context, userID string, txn model.Transaction) error
	DeleteTransaction(ctx context.Context, userID string, date time.Time, description string, amount float64) error
}

// MemberUpdate is a partial update of a member's standing. Nil fields are
// left untouched. Event timestamps and the elimination flag are write-once:
// implementations must never overwrite an already-set value, regardless of
// what the caller passes.
type MemberUpdate struct {
	CurrentSpend     *float64
	CurrentSavings   *float64
	Eliminated       *bool
	BudgetExceededAt *time.Time
	TargetReachedAt  *time.Time
	LastSyncedAt     *time.Time
}

// StandingsStore persists arenas and member standings.
type StandingsStore interface {
	CreateArena(ctx context.Context, arena *model.Arena) error
	GetArena(ctx context.Context, arenaID string) (*model.Arena, error)
	GetArenaWithMembers(ctx context.Context, arenaID string) (*model.Arena, []model.Member, error)
	UpdateArenaStatus(ctx context.Context, arenaID string, status model.Status, winnerID string) error

	AddMember(ctx context.Context, arenaID, userID string) error
	GetMember(ctx context.Context, arenaID, userID string) (*model.Member, error)
	UpdateMember(ctx context.Context, arenaID, userID string, update MemberUpdate) error

	// ListActiveArenas returns every non-completed arena the user belongs to.
	ListActiveArenas(ctx context.Context, userID string) ([]model.Arena, error)
}

// Storage is the full persistence contract implemented by the SQLite backend.
type Storage interface {
	TransactionStore
	StandingsStore

	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
