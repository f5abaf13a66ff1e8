package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/model"
)

// CreateArena persists a new arena and enrolls the creator as its first member.
func (s *SQLiteStorage) CreateArena(ctx context.Context, arena *model.Arena) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateArena(arena); err != nil {
		return err
	}
	if arena.Status == "" {
		arena.Status = model.StatusWaiting
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO arenas (id, creator_id, mode, target_amount, target_category, stake_amount, created_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, arena.ID, arena.CreatorID, string(arena.Mode.Name()), arena.Mode.Target(),
		model.ModeCategory(arena.Mode), arena.StakeAmount.String(), arena.CreatedAt.UTC(), string(arena.Status))
	if err != nil {
		return fmt.Errorf("failed to insert arena: %w", err)
	}

	if arena.CreatorID != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO members (arena_id, user_id) VALUES (?, ?)
		`, arena.ID, arena.CreatorID)
		if err != nil {
			return fmt.Errorf("failed to enroll creator: %w", err)
		}
	}

	return tx.Commit()
}

// GetArena loads a single arena by id.
func (s *SQLiteStorage) GetArena(ctx context.Context, arenaID string) (*model.Arena, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(arenaID, "arenaID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, creator_id, mode, target_amount, target_category, stake_amount, created_at, status, winner_id
		FROM arenas WHERE id = ?
	`, arenaID)

	arena, err := scanArena(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("arena %s: %w", arenaID, common.ErrArenaNotFound)
	}
	return arena, err
}

// GetArenaWithMembers loads the arena and a snapshot of all member standings,
// in join order.
func (s *SQLiteStorage) GetArenaWithMembers(ctx context.Context, arenaID string) (*model.Arena, []model.Member, error) {
	arena, err := s.GetArena(ctx, arenaID)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT arena_id, user_id, current_spend, current_savings, is_eliminated,
		       budget_exceeded_at, target_reached_at, last_synced_at, joined_at
		FROM members WHERE arena_id = ?
		ORDER BY joined_at, user_id
	`, arenaID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []model.Member
	for rows.Next() {
		member, scanErr := scanMember(rows)
		if scanErr != nil {
			return nil, nil, scanErr
		}
		members = append(members, *member)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return arena, members, nil
}

// UpdateArenaStatus transitions an arena's lifecycle state. A completed arena
// is terminal: its status and winner can never change again.
func (s *SQLiteStorage) UpdateArenaStatus(ctx context.Context, arenaID string, status model.Status, winnerID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(arenaID, "arenaID"); err != nil {
		return err
	}
	if _, err := model.ParseStatus(string(status)); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE arenas
		SET status = ?, winner_id = COALESCE(winner_id, ?)
		WHERE id = ? AND status != ?
	`, string(status), nullableString(winnerID), arenaID, string(model.StatusCompleted))
	if err != nil {
		return fmt.Errorf("failed to update arena status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if affected == 0 {
		arena, getErr := s.GetArena(ctx, arenaID)
		if getErr != nil {
			return getErr
		}
		if arena.Status == model.StatusCompleted {
			return fmt.Errorf("arena %s: %w", arenaID, common.ErrArenaCompleted)
		}
		return fmt.Errorf("arena %s: %w", arenaID, common.ErrArenaNotFound)
	}
	return nil
}

// ListActiveArenas returns every waiting or active arena the user is a member of.
func (s *SQLiteStorage) ListActiveArenas(ctx context.Context, userID string) ([]model.Arena, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.creator_id, a.mode, a.target_amount, a.target_category, a.stake_amount,
		       a.created_at, a.status, a.winner_id
		FROM arenas a
		JOIN members m ON m.arena_id = a.id
		WHERE m.user_id = ? AND a.status != ?
		ORDER BY a.created_at, a.id
	`, userID, string(model.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query active arenas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var arenas []model.Arena
	for rows.Next() {
		arena, scanErr := scanArena(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		arenas = append(arenas, *arena)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate arenas: %w", err)
	}
	return arenas, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArena(row rowScanner) (*model.Arena, error) {
	var (
		arena          model.Arena
		modeName       string
		targetAmount   float64
		targetCategory sql.NullString
		stake          string
		status         string
		winnerID       sql.NullString
	)
	if err := row.Scan(&arena.ID, &arena.CreatorID, &modeName, &targetAmount,
		&targetCategory, &stake, &arena.CreatedAt, &status, &winnerID); err != nil {
		return nil, err
	}

	mode, err := model.ParseMode(modeName, targetAmount, targetCategory.String)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", arena.ID, err)
	}
	arena.Mode = mode

	parsedStatus, err := model.ParseStatus(status)
	if err != nil {
		return nil, fmt.Errorf("arena %s: %w", arena.ID, err)
	}
	arena.Status = parsedStatus

	stakeAmount, err := decimal.NewFromString(stake)
	if err != nil {
		return nil, fmt.Errorf("arena %s: invalid stake amount %q: %w", arena.ID, stake, err)
	}
	arena.StakeAmount = stakeAmount

	arena.CreatedAt = arena.CreatedAt.UTC()
	arena.WinnerID = winnerID.String
	return &arena, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
