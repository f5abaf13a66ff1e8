// Package settle ranks member standings and finalizes arenas. The resolver
// half is pure: it never mutates state, only orders a snapshot.
package settle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ledgerduel/ledgerduel/internal/model"
)

// FreshnessWindow is how recently every member must have synced before a
// winner may be finalized. Standings older than this are considered stale.
const FreshnessWindow = time.Hour

// MinMembers is the smallest field an arena can settle with.
const MinMembers = 2

// DetermineWinner ranks the snapshot under the arena's mode and returns the
// top member, or nil when no non-eliminated members remain. It is pure; the
// same snapshot always yields the same winner.
func DetermineWinner(arena *model.Arena, members []model.Member) *model.Member {
	active := activeMembers(members)
	if len(active) == 0 {
		return nil
	}
	rankMembers(arena.Mode, active)
	winner := active[0]
	return &winner
}

// StandingsReport is the fully ranked view of an arena.
type StandingsReport struct {
	Ranked    []model.Member
	AllSynced bool
	// Tied is set when the top two active members compare equal under the
	// mode's ranking, i.e. the representative winner is one of several.
	Tied bool
}

// Standings produces the full ranked list: active members ordered by the
// mode's rules, eliminated members last in join order.
func Standings(arena *model.Arena, members []model.Member, now time.Time) StandingsReport {
	active := activeMembers(members)
	rankMembers(arena.Mode, active)

	report := StandingsReport{
		Ranked:    active,
		AllSynced: AllSynced(members, now),
	}
	if len(active) >= 2 &&
		!arena.Mode.Outranks(active[0], active[1]) &&
		!arena.Mode.Outranks(active[1], active[0]) {
		report.Tied = true
	}

	for _, member := range members {
		if member.Eliminated {
			report.Ranked = append(report.Ranked, member)
		}
	}
	return report
}

// AllSynced reports whether every member's standing is fresh enough to trust
// for settlement.
func AllSynced(members []model.Member, now time.Time) bool {
	for i := range members {
		if !members[i].SyncedWithin(FreshnessWindow, now) {
			return false
		}
	}
	return true
}

// CanSettle reports whether the requesting user may settle the arena right
// now.
func CanSettle(arena *model.Arena, members []model.Member, requester string, now time.Time) bool {
	return BlockReason(arena, members, requester, now) == ""
}

// BlockReason explains why an arena cannot settle yet, or returns "" when it
// can. Only the creator may settle; an empty requester skips that check for
// callers that are merely displaying settleability. The reasons are
// user-facing strings, distinct from I/O failures.
func BlockReason(arena *model.Arena, members []model.Member, requester string, now time.Time) string {
	if arena.Status != model.StatusActive {
		return fmt.Sprintf("arena is %s, not active", arena.Status)
	}
	if requester != "" && requester != arena.CreatorID {
		return fmt.Sprintf("only the creator (%s) can settle this arena", arena.CreatorID)
	}
	if len(members) < MinMembers {
		return fmt.Sprintf("needs at least %d members, has %d", MinMembers, len(members))
	}

	var stale []string
	for i := range members {
		if !members[i].SyncedWithin(FreshnessWindow, now) {
			stale = append(stale, members[i].UserID)
		}
	}
	if len(stale) > 0 {
		return fmt.Sprintf("waiting for fresh data from: %s", strings.Join(stale, ", "))
	}
	return ""
}

// activeMembers copies the non-eliminated members, preserving join order.
func activeMembers(members []model.Member) []model.Member {
	var active []model.Member
	for _, member := range members {
		if !member.Eliminated {
			active = append(active, member)
		}
	}
	return active
}

// rankMembers sorts in place under the mode's pairwise rule. The sort is
// stable so tied members keep their join order, which makes the
// representative winner of a full tie deterministic.
func rankMembers(mode model.Mode, members []model.Member) {
	sort.SliceStable(members, func(i, j int) bool {
		return mode.Outranks(members[i], members[j])
	})
}
