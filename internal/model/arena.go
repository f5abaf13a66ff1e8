package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an arena.
type Status string

// Arena lifecycle states. An arena transitions to StatusCompleted exactly
// once; the winner recorded at that point is immutable.
const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParseStatus validates a stored status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusWaiting, StatusActive, StatusCompleted:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown arena status %q", s)
	}
}

// Arena is a time-boxed spending or savings competition among members.
type Arena struct {
	ID          string
	CreatorID   string
	Mode        Mode
	StakeAmount decimal.Decimal
	CreatedAt   time.Time
	Status      Status
	WinnerID    string
}

// PeriodStart returns the arena's spend-window start: CreatedAt normalized to
// start of day, so transactions from the creation day itself still count.
func (a *Arena) PeriodStart() time.Time {
	c := a.CreatedAt.UTC()
	return time.Date(c.Year(), c.Month(), c.Day(), 0, 0, 0, 0, time.UTC)
}
