package model

import "fmt"

// ModeName identifies a competition rule-set on the wire and in storage.
type ModeName string

// Known competition modes.
const (
	ModeBudgetGuardian ModeName = "budget_guardian"
	ModeViceStreak     ModeName = "vice_streak"
	ModeSavingsSprint  ModeName = "savings_sprint"
)

// Mode is the closed set of competition rule-sets. A Mode value can only be
// obtained from one of the concrete variants below or from ParseMode, which
// rejects unrecognized names, so no "unknown mode" can survive past parsing.
//
// Outranks is the single pairwise ranking rule for the mode: it reports
// whether a should place above b. Elimination is handled by the caller;
// Outranks only ever compares non-eliminated members.
type Mode interface {
	Name() ModeName
	Target() float64
	Outranks(a, b Member) bool
}

// ParseMode builds the mode variant for a stored (name, target, category)
// triple. The category is only meaningful for vice_streak.
func ParseMode(name string, target float64, category string) (Mode, error) {
	switch ModeName(name) {
	case ModeBudgetGuardian:
		return BudgetGuardian{TargetAmount: target}, nil
	case ModeViceStreak:
		if category == "" {
			return nil, fmt.Errorf("vice_streak arena requires a target category")
		}
		return ViceStreak{TargetAmount: target, Vice: category}, nil
	case ModeSavingsSprint:
		return SavingsSprint{TargetAmount: target}, nil
	default:
		return nil, fmt.Errorf("unknown arena mode %q", name)
	}
}

// ModeCategory returns the forbidden vice identifier for vice_streak arenas
// and "" for every other mode.
func ModeCategory(m Mode) string {
	if vs, ok := m.(ViceStreak); ok {
		return vs.Vice
	}
	return ""
}

// BudgetGuardian rewards staying under a spend cap for the period.
type BudgetGuardian struct {
	TargetAmount float64
}

// Name returns the mode identifier.
func (m BudgetGuardian) Name() ModeName { return ModeBudgetGuardian }

// Target returns the spend cap.
func (m BudgetGuardian) Target() float64 { return m.TargetAmount }

// Outranks ranks members under the cap above members over it; among members
// under the cap, lower spend wins; among members over it, whoever held out
// longest before exceeding wins.
func (m BudgetGuardian) Outranks(a, b Member) bool {
	aUnder := a.CurrentSpend <= m.TargetAmount
	bUnder := b.CurrentSpend <= m.TargetAmount
	switch {
	case aUnder != bUnder:
		return aUnder
	case aUnder:
		return a.CurrentSpend < b.CurrentSpend
	default:
		return exceededLater(a.BudgetExceededAt, b.BudgetExceededAt)
	}
}

// ViceStreak eliminates anyone who spends in a forbidden category during the
// period. BudgetExceededAt doubles as the first vice-trigger instant here.
type ViceStreak struct {
	TargetAmount float64
	Vice         string
}

// Name returns the mode identifier.
func (m ViceStreak) Name() ModeName { return ModeViceStreak }

// Target returns the trigger threshold.
func (m ViceStreak) Target() float64 { return m.TargetAmount }

// Outranks ranks members with zero qualifying spend above anyone who
// triggered; if everyone triggered, the latest first-trigger wins. Two clean
// members are a tie and keep their relative order.
func (m ViceStreak) Outranks(a, b Member) bool {
	aClean := a.CurrentSpend == 0
	bClean := b.CurrentSpend == 0
	switch {
	case aClean != bClean:
		return aClean
	case aClean:
		return false
	default:
		return exceededLater(a.BudgetExceededAt, b.BudgetExceededAt)
	}
}

// SavingsSprint is a race: first member to accumulate the target wins.
type SavingsSprint struct {
	TargetAmount float64
}

// Name returns the mode identifier.
func (m SavingsSprint) Name() ModeName { return ModeSavingsSprint }

// Target returns the savings goal.
func (m SavingsSprint) Target() float64 { return m.TargetAmount }

// Outranks ranks members who reached the goal above those who have not; among
// finishers the earliest arrival wins, among the rest higher savings wins.
func (m SavingsSprint) Outranks(a, b Member) bool {
	aAt, aReached := a.TargetReachedAt.At()
	bAt, bReached := b.TargetReachedAt.At()
	switch {
	case aReached != bReached:
		return aReached
	case aReached:
		return aAt.Before(bAt)
	default:
		return a.CurrentSavings > b.CurrentSavings
	}
}

// exceededLater compares two first-occurrence markers treating "never
// exceeded" as best (+infinity): an unset marker outranks any set one, and
// between two set markers the later instant wins.
func exceededLater(a, b EventMarker) bool {
	aAt, aSet := a.At()
	bAt, bSet := b.At()
	switch {
	case !aSet && !bSet:
		return false
	case !aSet:
		return true
	case !bSet:
		return false
	default:
		return aAt.After(bAt)
	}
}
