package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerduel/ledgerduel/internal/cli"
	"github.com/ledgerduel/ledgerduel/internal/model"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and inspect ledger transactions",
	}

	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txListCmd())
	cmd.AddCommand(txDeleteCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction and resync active arenas",
		Long: `Record a manual transaction. Negative amounts are expenses. Every active
arena the user belongs to is resynced immediately so standings stay current.`,
		RunE: runTxAdd,
	}

	cmd.Flags().String("date", time.Now().Format("2006-01-02"), "transaction date (YYYY-MM-DD)")
	cmd.Flags().String("time", "", "precise timestamp (RFC3339), optional")
	cmd.Flags().Float64("amount", 0, "signed amount, negative = expense")
	cmd.Flags().String("description", "", "transaction description")
	cmd.Flags().String("category", "", "category name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	user, err := actingUser()
	if err != nil {
		return err
	}

	dateStr, _ := cmd.Flags().GetString("date")
	timeStr, _ := cmd.Flags().GetString("time")
	amount, _ := cmd.Flags().GetFloat64("amount")
	description, _ := cmd.Flags().GetString("description")
	category, _ := cmd.Flags().GetString("category")

	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", dateStr, err)
	}

	var ts time.Time
	if timeStr != "" {
		ts, err = time.Parse(time.RFC3339, timeStr)
		if err != nil {
			return fmt.Errorf("invalid timestamp %q: %w", timeStr, err)
		}
	}

	store, err := openStorage(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txn := model.Transaction{
		Date:        date,
		Timestamp:   ts,
		Description: description,
		Amount:      amount,
		Category:    category,
	}
	if err := store.SaveTransaction(cmd.Context(), user, txn); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	// Direct-update path: standings refresh synchronously with the write.
	result, err := newEngine(store).SyncAll(cmd.Context(), user, nil)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf("Recorded %q %.2f", description, amount)
	if result.Synced+result.Failed > 0 {
		msg += fmt.Sprintf(" (synced %d arenas, %d failed)", result.Synced, result.Failed)
	}
	fmt.Println(cli.FormatSuccess(msg))
	for _, failure := range result.Failures {
		fmt.Println(cli.FormatWarning(failure.Error()))
	}
	return nil
}

func txListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the user's ledger",
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

			txns, err := store.ListTransactions(cmd.Context(), user)
			if err != nil {
				return err
			}
			for _, txn := range txns {
				fmt.Printf("%s  %10.2f  %-20s %s\n",
					txn.Date.Format("2006-01-02"), txn.Amount, txn.Category, txn.Description)
			}
			return nil
		},
	}
}

func txDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a transaction by date, description, and amount",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := actingUser()
			if err != nil {
				return err
			}

			dateStr, _ := cmd.Flags().GetString("date")
			description, _ := cmd.Flags().GetString("description")
			amount, _ := cmd.Flags().GetFloat64("amount")

			date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", dateStr, err)
			}

			store, err := openStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(cmd.Context(), user, date, description, amount); err != nil {
				return err
			}

			// Deletion changes derived spend too.
			if _, err := newEngine(store).SyncAll(cmd.Context(), user, nil); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}

	cmd.Flags().String("date", "", "transaction date (YYYY-MM-DD)")
	cmd.Flags().String("description", "", "transaction description")
	cmd.Flags().Float64("amount", 0, "signed amount")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}
