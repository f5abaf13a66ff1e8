package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					hash TEXT NOT NULL,
					date DATETIME NOT NULL,
					ts DATETIME,
					description TEXT NOT NULL,
					amount REAL NOT NULL,
					category TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(user_id, hash)
				)`,
				`CREATE INDEX idx_transactions_user_date ON transactions(user_id, date)`,

				`CREATE TABLE IF NOT EXISTS arenas (
					id TEXT PRIMARY KEY,
					creator_id TEXT NOT NULL,
					mode TEXT NOT NULL,
					target_amount REAL NOT NULL,
					target_category TEXT,
					stake_amount TEXT NOT NULL DEFAULT '0',
					created_at DATETIME NOT NULL,
					status TEXT NOT NULL DEFAULT 'waiting',
					created_row_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS members (
					arena_id TEXT NOT NULL,
					user_id TEXT NOT NULL,
					current_spend REAL NOT NULL DEFAULT 0,
					current_savings REAL NOT NULL DEFAULT 0,
					is_eliminated INTEGER NOT NULL DEFAULT 0,
					budget_exceeded_at DATETIME,
					target_reached_at DATETIME,
					last_synced_at DATETIME,
					joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (arena_id, user_id),
					FOREIGN KEY (arena_id) REFERENCES arenas(id)
				)`,
				`CREATE INDEX idx_members_user ON members(user_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Record winner on completed arenas",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`ALTER TABLE arenas ADD COLUMN winner_id TEXT`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Index arena status for active-membership lookups",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_arenas_status ON arenas(status)`)
			return err
		},
	},
}

// Migrate applies any outstanding schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		// Update version
		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
