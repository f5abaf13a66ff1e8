// Package storage provides the SQLite persistence layer for the engine's
// transaction ledger and arena standings.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidArena       = errors.New("invalid arena")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransaction validates a single transaction before writing it.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.Description) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	return nil
}

// validateArena validates an arena before writing it.
func validateArena(arena *model.Arena) error {
	if arena == nil {
		return fmt.Errorf("%w: arena", ErrNilParameter)
	}
	if strings.TrimSpace(arena.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidArena)
	}
	if arena.Mode == nil {
		return fmt.Errorf("%w: missing mode", ErrInvalidArena)
	}
	if arena.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing created_at", ErrInvalidArena)
	}
	return nil
}
