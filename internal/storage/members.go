package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/service"
)

// AddMember enrolls a user in an arena with a zeroed standing.
func (s *SQLiteStorage) AddMember(ctx context.Context, arenaID, userID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(arenaID, "arenaID"); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO members (arena_id, user_id) VALUES (?, ?)
	`, arenaID, userID)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check inserted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s in arena %s: %w", userID, arenaID, common.ErrDuplicateEntry)
	}
	return nil
}

// GetMember loads one member's standing.
func (s *SQLiteStorage) GetMember(ctx context.Context, arenaID, userID string) (*model.Member, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(arenaID, "arenaID"); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT arena_id, user_id, current_spend, current_savings, is_eliminated,
		       budget_exceeded_at, target_reached_at, last_synced_at, joined_at
		FROM members WHERE arena_id = ? AND user_id = ?
	`, arenaID, userID)

	member, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s in arena %s: %w", userID, arenaID, common.ErrMemberNotFound)
	}
	return member, err
}

// UpdateMember applies a partial update to a member's standing. The derived
// spend fields overwrite wholesale; event timestamps and the elimination flag
// are guarded with COALESCE/OR so an already-recorded value survives any
// later write, making the write-once invariant hold at the storage boundary
// as well as in the model.
func (s *SQLiteStorage) UpdateMember(ctx context.Context, arenaID, userID string, update service.MemberUpdate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(arenaID, "arenaID"); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}

	var (
		sets []string
		args []any
	)
	if update.CurrentSpend != nil {
		sets = append(sets, "current_spend = ?")
		args = append(args, *update.CurrentSpend)
	}
	if update.CurrentSavings != nil {
		sets = append(sets, "current_savings = ?")
		args = append(args, *update.CurrentSavings)
	}
	if update.Eliminated != nil {
		sets = append(sets, "is_eliminated = MAX(is_eliminated, ?)")
		args = append(args, boolToInt(*update.Eliminated))
	}
	if update.BudgetExceededAt != nil {
		sets = append(sets, "budget_exceeded_at = COALESCE(budget_exceeded_at, ?)")
		args = append(args, update.BudgetExceededAt.UTC())
	}
	if update.TargetReachedAt != nil {
		sets = append(sets, "target_reached_at = COALESCE(target_reached_at, ?)")
		args = append(args, update.TargetReachedAt.UTC())
	}
	if update.LastSyncedAt != nil {
		sets = append(sets, "last_synced_at = ?")
		args = append(args, update.LastSyncedAt.UTC())
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, arenaID, userID)
	query := fmt.Sprintf("UPDATE members SET %s WHERE arena_id = ? AND user_id = ?", strings.Join(sets, ", "))

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("member %s in arena %s: %w", userID, arenaID, common.ErrMemberNotFound)
	}
	return nil
}

func scanMember(row rowScanner) (*model.Member, error) {
	var (
		member     model.Member
		eliminated int
		exceededAt sql.NullTime
		reachedAt  sql.NullTime
		syncedAt   sql.NullTime
	)
	if err := row.Scan(&member.ArenaID, &member.UserID, &member.CurrentSpend, &member.CurrentSavings,
		&eliminated, &exceededAt, &reachedAt, &syncedAt, &member.JoinedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan member: %w", err)
	}

	member.Eliminated = eliminated != 0
	if exceededAt.Valid {
		member.BudgetExceededAt = model.TriggeredAt(exceededAt.Time.UTC())
	}
	if reachedAt.Valid {
		member.TargetReachedAt = model.TriggeredAt(reachedAt.Time.UTC())
	}
	if syncedAt.Valid {
		member.LastSyncedAt = syncedAt.Time.UTC()
	}
	member.JoinedAt = member.JoinedAt.UTC()
	return &member, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
