package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/engine"
	"github.com/ledgerduel/ledgerduel/internal/payment"
	"github.com/ledgerduel/ledgerduel/internal/settle"
	"github.com/ledgerduel/ledgerduel/internal/storage"
)

// openStorage opens the configured database and brings its schema up to
// date. Callers own the Close.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "ledgerduel", "ledgerduel.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// newEngine wires a sync engine over the store.
func newEngine(store *storage.SQLiteStorage) *engine.Engine {
	return engine.New(store, store)
}

// newSettler wires a settler with the configured payment rail. Without an
// escrow backend configured, payouts are dry-run.
func newSettler(store *storage.SQLiteStorage) *settle.Settler {
	return settle.NewSettler(store, payment.NewLogRail())
}

// actingUser resolves the --user flag, which most commands require.
func actingUser() (string, error) {
	user := viper.GetString("user")
	if user == "" {
		return "", common.NewUserError("a user id is required; pass --user or set LEDGERDUEL_USER", common.ErrMissingConfig)
	}
	return user, nil
}
