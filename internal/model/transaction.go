// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single entry in a user's ledger. Transactions are
// immutable once recorded; the only permitted mutation is deletion.
type Transaction struct {
	Date        time.Time
	Timestamp   time.Time // precise instant when the source provides one; zero otherwise
	ID          string
	Description string
	Category    string
	Amount      float64 // negative = expense, positive = income
}

// EffectiveTime returns the instant used for ordering and tie-breaking.
// Transactions without a precise timestamp fall back to midday on their
// calendar date, so they still sort deterministically, just coarser.
func (t *Transaction) EffectiveTime() time.Time {
	if !t.Timestamp.IsZero() {
		return t.Timestamp
	}
	d := t.Date.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
}

// IsExpense reports whether the transaction represents money leaving the account.
func (t *Transaction) IsExpense() bool {
	return t.Amount < 0
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.Category)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
