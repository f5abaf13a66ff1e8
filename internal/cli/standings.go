package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/settle"
)

// RenderStandings renders an arena's ranked standings as a styled table.
func RenderStandings(arena *model.Arena, report settle.StandingsReport) string {
	var b strings.Builder

	header := fmt.Sprintf("%-4s %-16s %12s %12s  %s", "#", "MEMBER", "SPEND", "SAVINGS", "STATUS")
	b.WriteString(TableHeaderStyle.Render(header))
	b.WriteString("\n")

	for i, member := range report.Ranked {
		status := memberStatus(member)
		row := fmt.Sprintf("%-4d %-16s %12.2f %12.2f  %s",
			i+1, member.UserID, member.CurrentSpend, member.CurrentSavings, status)
		if member.Eliminated {
			row = SubtleStyle.Render(row)
		} else if i == 0 {
			row = SuccessStyle.Render(row)
		}
		b.WriteString(TableCellStyle.Render(row))
		b.WriteString("\n")
	}

	footer := fmt.Sprintf("mode: %s  target: %.2f  stake: %s",
		arena.Mode.Name(), arena.Mode.Target(), arena.StakeAmount.String())
	if !report.AllSynced {
		footer += "  " + WarningStyle.Render("(stale standings)")
	}
	if report.Tied {
		footer += "  " + InfoStyle.Render("(tied at the top)")
	}
	b.WriteString(SubtleStyle.Render(footer))

	title := fmt.Sprintf("%s Arena %s", SwordsIcon, arena.ID)
	return lipgloss.JoinVertical(lipgloss.Left, TitleStyle.UnsetMargins().Render(title), b.String())
}

func memberStatus(member model.Member) string {
	switch {
	case member.Eliminated:
		return "eliminated"
	case member.TargetReachedAt.Triggered():
		at, _ := member.TargetReachedAt.At()
		return "reached " + at.Format(time.RFC3339)
	case member.BudgetExceededAt.Triggered():
		at, _ := member.BudgetExceededAt.At()
		return "exceeded " + at.Format(time.RFC3339)
	default:
		return "in play"
	}
}
