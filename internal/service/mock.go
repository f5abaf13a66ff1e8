package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// MockStorage is an in-memory implementation of Storage for tests. Behavior
// can be overridden per method by setting the corresponding Fn; otherwise a
// simple map-backed default applies. It honors the same write-once semantics
// the SQLite store enforces.
type MockStorage struct {
	ListTransactionsFn func(ctx context.Context, userID string) ([]model.Transaction, error)
	SaveTransactionFn  func(ctx context.Context, userID string, txn model.Transaction) error
	GetMemberFn        func(ctx context.Context, arenaID, userID string) (*model.Member, error)
	UpdateMemberFn     func(ctx context.Context, arenaID, userID string, update MemberUpdate) error
	UpdateArenaFn      func(ctx context.Context, arenaID string, status model.Status, winnerID string) error
	ListActiveFn       func(ctx context.Context, userID string) ([]model.Arena, error)
	GetArenaMembersFn  func(ctx context.Context, arenaID string) (*model.Arena, []model.Member, error)

	mu           sync.Mutex
	transactions map[string][]model.Transaction
	arenas       map[string]*model.Arena
	members      map[string][]*model.Member // arenaID -> join order

	UpdateMemberCalls int
}

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		transactions: make(map[string][]model.Transaction),
		arenas:       make(map[string]*model.Arena),
		members:      make(map[string][]*model.Member),
	}
}

// ListTransactions implements TransactionStore.
func (m *MockStorage) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]model.Transaction(nil), m.transactions[userID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EffectiveTime().Before(out[j].EffectiveTime())
	})
	return out, nil
}

// SaveTransaction implements TransactionStore.
func (m *MockStorage) SaveTransaction(ctx context.Context, userID string, txn model.Transaction) error {
	if m.SaveTransactionFn != nil {
		return m.SaveTransactionFn(ctx, userID, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[userID] = append(m.transactions[userID], txn)
	return nil
}

// DeleteTransaction implements TransactionStore.
func (m *MockStorage) DeleteTransaction(_ context.Context, userID string, date time.Time, description string, amount float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := date.UTC().Format("2006-01-02")
	kept := m.transactions[userID][:0]
	removed := false
	for _, txn := range m.transactions[userID] {
		if !removed && txn.Date.UTC().Format("2006-01-02") == day && txn.Description == description && txn.Amount == amount {
			removed = true
			continue
		}
		kept = append(kept, txn)
	}
	m.transactions[userID] = kept
	if !removed {
		return fmt.Errorf("transaction %q on %s: no matching row", description, day)
	}
	return nil
}

// CreateArena implements StandingsStore.
func (m *MockStorage) CreateArena(_ context.Context, arena *model.Arena) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *arena
	m.arenas[arena.ID] = &copied
	if arena.CreatorID != "" {
		m.members[arena.ID] = append(m.members[arena.ID], &model.Member{
			ArenaID:  arena.ID,
			UserID:   arena.CreatorID,
			JoinedAt: arena.CreatedAt,
		})
	}
	return nil
}

// GetArena implements StandingsStore.
func (m *MockStorage) GetArena(_ context.Context, arenaID string) (*model.Arena, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	arena, ok := m.arenas[arenaID]
	if !ok {
		return nil, fmt.Errorf("arena %s: not found", arenaID)
	}
	copied := *arena
	return &copied, nil
}

// GetArenaWithMembers implements StandingsStore.
func (m *MockStorage) GetArenaWithMembers(ctx context.Context, arenaID string) (*model.Arena, []model.Member, error) {
	if m.GetArenaMembersFn != nil {
		return m.GetArenaMembersFn(ctx, arenaID)
	}
	arena, err := m.GetArena(ctx, arenaID)
	if err != nil {
		return nil, nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]model.Member, 0, len(m.members[arenaID]))
	for _, member := range m.members[arenaID] {
		members = append(members, *member)
	}
	return arena, members, nil
}

// UpdateArenaStatus implements StandingsStore.
func (m *MockStorage) UpdateArenaStatus(ctx context.Context, arenaID string, status model.Status, winnerID string) error {
	if m.UpdateArenaFn != nil {
		return m.UpdateArenaFn(ctx, arenaID, status, winnerID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	arena, ok := m.arenas[arenaID]
	if !ok {
		return fmt.Errorf("arena %s: not found", arenaID)
	}
	if arena.Status == model.StatusCompleted {
		return fmt.Errorf("arena %s: already completed", arenaID)
	}
	arena.Status = status
	if arena.WinnerID == "" {
		arena.WinnerID = winnerID
	}
	return nil
}

// AddMember implements StandingsStore.
func (m *MockStorage) AddMember(_ context.Context, arenaID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[arenaID] {
		if member.UserID == userID {
			return fmt.Errorf("member %s in arena %s: duplicate", userID, arenaID)
		}
	}
	m.members[arenaID] = append(m.members[arenaID], &model.Member{
		ArenaID:  arenaID,
		UserID:   userID,
		JoinedAt: time.Now().UTC(),
	})
	return nil
}

// GetMember implements StandingsStore.
func (m *MockStorage) GetMember(ctx context.Context, arenaID, userID string) (*model.Member, error) {
	if m.GetMemberFn != nil {
		return m.GetMemberFn(ctx, arenaID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[arenaID] {
		if member.UserID == userID {
			copied := *member
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("member %s in arena %s: not found", userID, arenaID)
}

// UpdateMember implements StandingsStore.
func (m *MockStorage) UpdateMember(ctx context.Context, arenaID, userID string, update MemberUpdate) error {
	m.mu.Lock()
	m.UpdateMemberCalls++
	m.mu.Unlock()
	if m.UpdateMemberFn != nil {
		return m.UpdateMemberFn(ctx, arenaID, userID, update)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[arenaID] {
		if member.UserID != userID {
			continue
		}
		if update.CurrentSpend != nil {
			member.CurrentSpend = *update.CurrentSpend
		}
		if update.CurrentSavings != nil {
			member.CurrentSavings = *update.CurrentSavings
		}
		if update.Eliminated != nil && *update.Eliminated {
			member.Eliminated = true
		}
		if update.BudgetExceededAt != nil {
			member.BudgetExceededAt.Record(*update.BudgetExceededAt)
		}
		if update.TargetReachedAt != nil {
			member.TargetReachedAt.Record(*update.TargetReachedAt)
		}
		if update.LastSyncedAt != nil {
			member.LastSyncedAt = *update.LastSyncedAt
		}
		return nil
	}
	return fmt.Errorf("member %s in arena %s: not found", userID, arenaID)
}

// ListActiveArenas implements StandingsStore.
func (m *MockStorage) ListActiveArenas(ctx context.Context, userID string) ([]model.Arena, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Arena
	for _, arena := range m.arenas {
		if arena.Status == model.StatusCompleted {
			continue
		}
		for _, member := range m.members[arena.ID] {
			if member.UserID == userID {
				out = append(out, *arena)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Migrate implements Storage.
func (m *MockStorage) Migrate(context.Context) error { return nil }

// Close implements Storage.
func (m *MockStorage) Close() error { return nil }

// SeedMember inserts a member standing directly, bypassing write-once guards.
func (m *MockStorage) SeedMember(member model.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := member
	m.members[member.ArenaID] = append(m.members[member.ArenaID], &copied)
}

// Ensure MockStorage satisfies the full contract.
var _ Storage = (*MockStorage)(nil)
