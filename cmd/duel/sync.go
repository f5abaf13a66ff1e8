package main

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ledgerduel/ledgerduel/internal/cli"
)

func syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Resync standings across all active arenas",
		Long: `Recompute the user's standing in every active arena from the full
transaction ledger. One arena failing never stops the rest.`,
		RunE: runSync,
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	user, err := actingUser()
	if err != nil {
		return err
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	arenas, err := store.ListActiveArenas(cmd.Context(), user)
	if err != nil {
		return err
	}
	if len(arenas) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No active arenas to sync."))
		return nil
	}

	bar := progressbar.NewOptions(len(arenas),
		progressbar.OptionSetDescription("Syncing arenas"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	result, err := newEngine(store).SyncAll(cmd.Context(), user, func(string) {
		_ = bar.Add(1)
	})
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Synced %d arenas, %d failed", result.Synced, result.Failed)))
	for _, failure := range result.Failures {
		fmt.Println(cli.FormatWarning(failure.Error()))
	}
	return nil
}
