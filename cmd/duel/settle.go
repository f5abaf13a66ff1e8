package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerduel/ledgerduel/internal/cli"
	"github.com/ledgerduel/ledgerduel/internal/common"
	"github.com/ledgerduel/ledgerduel/internal/settle"
)

func settleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle <arena-id>",
		Short: "Finalize an arena and select the winner",
		Long: `Settle an arena: rank the current standings, record the winner, and
compute the prize pool. Only the arena's creator can settle, and settlement
is refused while any member's standing is stale; run 'duel sync' first.`,
		Args: cobra.ExactArgs(1),
		RunE: runSettle,
	}

	cmd.Flags().String("address", "", "winner's payout address; when set the prize pool is disbursed")
	return cmd
}

func runSettle(cmd *cobra.Command, args []string) error {
	user, err := actingUser()
	if err != nil {
		return err
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	arenaID := args[0]
	arena, members, err := store.GetArenaWithMembers(cmd.Context(), arenaID)
	if err != nil {
		return err
	}

	if reason := settle.BlockReason(arena, members, user, time.Now().UTC()); reason != "" {
		return common.NewUserError(fmt.Sprintf("cannot settle arena %s: %s", arenaID, reason), nil)
	}

	settler := newSettler(store)
	result, err := settler.SettleArena(cmd.Context(), arenaID)
	if err != nil {
		return err
	}

	banner := fmt.Sprintf("Winner: %s\nPrize pool: %s (%d members)",
		result.WinnerID, result.PrizePool.String(), result.MemberCount)
	if result.Tied {
		banner += "\nNote: top standings were tied; winner chosen by join order."
	}
	fmt.Println(cli.RenderBox(cli.TrophyIcon+" Arena settled", banner))

	address, _ := cmd.Flags().GetString("address")
	if address != "" {
		receipt, err := settler.Disburse(cmd.Context(), result, address)
		if err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Payout sent, signature " + receipt.Signature))
	}
	return nil
}
