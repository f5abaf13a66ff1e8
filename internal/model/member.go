package model

import "time"

// EventMarker is a write-once first-occurrence timestamp. The zero value means
// the event has not yet been observed; once recorded it can never be changed
// or cleared, which makes the monotonicity invariant structural rather than a
// convention every caller must remember.
type EventMarker struct {
	at  time.Time
	set bool
}

// TriggeredAt constructs an already-set marker, used when loading persisted state.
func TriggeredAt(t time.Time) EventMarker {
	return EventMarker{at: t, set: true}
}

// Triggered reports whether the event has occurred.
func (m EventMarker) Triggered() bool {
	return m.set
}

// At returns the recorded instant and whether it is set.
func (m EventMarker) At() (time.Time, bool) {
	return m.at, m.set
}

// Record sets the marker to t if it has not been set before. It returns true
// only when this call was the first to record the event.
func (m *EventMarker) Record(t time.Time) bool {
	if m.set {
		return false
	}
	m.at = t
	m.set = true
	return true
}

// Member is one participant's standing in an arena. CurrentSpend and
// CurrentSavings are a materialized view over the transaction ledger: they are
// overwritten wholesale on every sync and are always reconstructible from the
// ledger, never authoritative on their own.
type Member struct {
	ArenaID          string
	UserID           string
	CurrentSpend     float64
	CurrentSavings   float64
	Eliminated       bool
	BudgetExceededAt EventMarker
	TargetReachedAt  EventMarker
	LastSyncedAt     time.Time // zero = never synced
	JoinedAt         time.Time
}

// SyncedWithin reports whether the member's standing was refreshed within the
// given window of now. A member that has never synced is always stale.
func (m *Member) SyncedWithin(window time.Duration, now time.Time) bool {
	if m.LastSyncedAt.IsZero() {
		return false
	}
	return now.Sub(m.LastSyncedAt) <= window
}
