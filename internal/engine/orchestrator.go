package engine

import (
	"context"
	"fmt"
	"log/slog"
)

// ArenaSyncError records a failed sync for one arena in a batch.
type ArenaSyncError struct {
	ArenaID string
	Err     error
}

func (e ArenaSyncError) Error() string {
	return fmt.Sprintf("arena %s: %v", e.ArenaID, e.Err)
}

// BatchResult summarizes a fan-out sync across a user's active arenas.
type BatchResult struct {
	Failures []ArenaSyncError
	Synced   int
	Failed   int
}

// SyncAll fans a sync out across every active arena the user belongs to.
// Each arena is an independent try unit: one failure never aborts the rest.
// The optional progress callback fires after each arena, successful or not.
func (e *Engine) SyncAll(ctx context.Context, userID string, progress func(arenaID string)) (BatchResult, error) {
	var result BatchResult

	arenas, err := e.standings.ListActiveArenas(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("sync all for %s: %w", userID, err)
	}
	if len(arenas) == 0 {
		slog.Debug("No active arenas to sync", "user", userID)
		return result, nil
	}

	for i := range arenas {
		arena := &arenas[i]

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if _, syncErr := e.SyncMemberFromStore(ctx, arena, userID); syncErr != nil {
			result.Failed++
			result.Failures = append(result.Failures, ArenaSyncError{ArenaID: arena.ID, Err: syncErr})
			slog.Warn("Arena sync failed",
				"arena", arena.ID,
				"user", userID,
				"error", syncErr)
		} else {
			result.Synced++
		}

		if progress != nil {
			progress(arena.ID)
		}
	}

	slog.Info("Batch sync finished",
		"user", userID,
		"synced", result.Synced,
		"failed", result.Failed)
	return result, nil
}
