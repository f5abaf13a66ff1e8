package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// SaveTransaction appends a transaction to a user's ledger. Re-importing an
// identical row (same date, description, amount, category) is a no-op thanks
// to the per-user hash uniqueness constraint.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, userID string, txn model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateTransaction(&txn); err != nil {
		return err
	}

	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	hash := txn.GenerateHash()

	var ts any
	if !txn.Timestamp.IsZero() {
		ts = txn.Timestamp.UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, user_id, hash, date, ts, description, amount, category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, txn.ID, userID, hash, txn.Date.UTC(), ts, txn.Description, txn.Amount, txn.Category)
	if err != nil {
		return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
	}
	return nil
}

// ListTransactions returns a user's full ledger in deterministic replay
// order: calendar date, then precise timestamp, then id.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, userID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, ts, description, amount, category
		FROM transactions
		WHERE user_id = ?
		ORDER BY date, ts, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var ts sql.NullTime
		var category sql.NullString
		if err := rows.Scan(&txn.ID, &txn.Date, &ts, &txn.Description, &txn.Amount, &category); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if ts.Valid {
			txn.Timestamp = ts.Time.UTC()
		}
		txn.Date = txn.Date.UTC()
		txn.Category = category.String
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txns, nil
}

// DeleteTransaction removes a ledger entry identified by its visible fields,
// matching how the client addresses rows it never holds IDs for. Amounts are
// compared at cent precision to sidestep float round-tripping.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, userID string, date time.Time, description string, amount float64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(userID, "userID"); err != nil {
		return err
	}
	if err := validateString(description, "description"); err != nil {
		return err
	}

	day := date.UTC().Format("2006-01-02")
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM transactions
		WHERE user_id = ?
		  AND strftime('%Y-%m-%d', date) = ?
		  AND description = ?
		  AND ABS(amount - ?) < 0.005
	`, userID, day, description, amount)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %q on %s: no matching row", description, day)
	}
	return nil
}
