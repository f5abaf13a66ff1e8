package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ledgerduel/ledgerduel/internal/cli"
	"github.com/ledgerduel/ledgerduel/internal/model"
	"github.com/ledgerduel/ledgerduel/internal/vice"
)

func arenaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arena",
		Short: "Create, join, and list arenas",
	}

	cmd.AddCommand(arenaCreateCmd())
	cmd.AddCommand(arenaJoinCmd())
	cmd.AddCommand(arenaListCmd())
	return cmd
}

func arenaCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new arena",
		Long: `Create a new arena. The creator is enrolled automatically and the spend
window starts at the beginning of today.`,
		RunE: runArenaCreate,
	}

	cmd.Flags().String("mode", string(model.ModeBudgetGuardian), "competition mode (budget_guardian, vice_streak, savings_sprint)")
	cmd.Flags().Float64("target", 0, "target amount")
	cmd.Flags().String("vice", "", "forbidden vice category (vice_streak only)")
	cmd.Flags().String("stake", "0", "per-member stake amount")
	return cmd
}

func runArenaCreate(cmd *cobra.Command, _ []string) error {
	user, err := actingUser()
	if err != nil {
		return err
	}

	modeName, _ := cmd.Flags().GetString("mode")
	target, _ := cmd.Flags().GetFloat64("target")
	viceID, _ := cmd.Flags().GetString("vice")
	stakeStr, _ := cmd.Flags().GetString("stake")

	if viceID != "" && !vice.Known(vice.ID(viceID)) {
		return fmt.Errorf("unknown vice %q, expected one of %v", viceID, vice.All())
	}

	mode, err := model.ParseMode(modeName, target, viceID)
	if err != nil {
		return err
	}

	stake, err := decimal.NewFromString(stakeStr)
	if err != nil {
		return fmt.Errorf("invalid stake amount %q: %w", stakeStr, err)
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	arena := &model.Arena{
		ID:          uuid.NewString(),
		CreatorID:   user,
		Mode:        mode,
		StakeAmount: stake,
		CreatedAt:   time.Now().UTC(),
		Status:      model.StatusWaiting,
	}

	if err := store.CreateArena(cmd.Context(), arena); err != nil {
		return fmt.Errorf("failed to create arena: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Arena %s created (%s, target %.2f)", arena.ID, mode.Name(), mode.Target())))
	return nil
}

func arenaJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <arena-id>",
		Short: "Join an existing arena",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if err := store.AddMember(cmd.Context(), arenaID, user); err != nil {
				return fmt.Errorf("failed to join arena: %w", err)
			}

			// A second member makes the arena competitive; open it.
			arena, members, err := store.GetArenaWithMembers(cmd.Context(), arenaID)
			if err != nil {
				return err
			}
			if arena.Status == model.StatusWaiting && len(members) >= 2 {
				if err := store.UpdateArenaStatus(cmd.Context(), arenaID, model.StatusActive, ""); err != nil {
					return fmt.Errorf("failed to activate arena: %w", err)
				}
				slog.Info("Arena activated", "arena", arenaID, "members", len(members))
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Joined arena %s", arenaID)))
			return nil
		},
	}
}

func arenaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your active arenas",
		RunE: func(cmd *cobra.Command, _ []string) error {
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
				fmt.Println(cli.SubtleStyle.Render("No active arenas."))
				return nil
			}

			for _, arena := range arenas {
				fmt.Printf("%s  %-16s target %10.2f  stake %8s  %s\n",
					arena.ID, arena.Mode.Name(), arena.Mode.Target(),
					arena.StakeAmount.String(), arena.Status)
			}
			return nil
		},
	}
}
