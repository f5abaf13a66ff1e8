package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerduel/ledgerduel/internal/cli"
	"github.com/ledgerduel/ledgerduel/internal/settle"
)

func standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "standings <arena-id>",
		Short: "Show an arena's ranked standings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			arena, members, err := store.GetArenaWithMembers(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			report := settle.Standings(arena, members, now)
			fmt.Println(cli.RenderStandings(arena, report))

			if reason := settle.BlockReason(arena, members, "", now); reason != "" {
				fmt.Println(cli.FormatWarning("Not settleable: " + reason))
			} else {
				fmt.Println(cli.FormatSuccess("Ready to settle"))
			}
			return nil
		},
	}
}
