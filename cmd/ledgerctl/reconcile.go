package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Gowsikakho/expense-track/internal/month"
	"github.com/Gowsikakho/expense-track/internal/services"
)

var (
	flagMonth       string
	flagOwner       string
	flagAll         bool
	flagConcurrency int
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Close a month into savings",
	Long: "Move income minus expenses of a month into the savings ledger, for one owner or for every\n" +
		"owner with income recorded. Months already closed are skipped, so repeated runs are safe.",
	Args: cobra.NoArgs,
	RunE: runReconcile,
}

func init() {
	reconcileCmd.Flags().StringVar(&flagMonth, "month", "", "Month to close (YYYY-MM, default previous month)")
	reconcileCmd.Flags().StringVar(&flagOwner, "owner", "", "Close the month for this user ID")
	reconcileCmd.Flags().BoolVar(&flagAll, "all", false, "Close the month for every user with income recorded")
	reconcileCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Parallel month closes with --all (default RECONCILE_CONCURRENCY)")
	reconcileCmd.MarkFlagsMutuallyExclusive("owner", "all")
	reconcileCmd.MarkFlagsOneRequired("owner", "all")
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	m := month.Current().Prev()
	if flagMonth != "" {
		var err error
		if m, err = month.Parse(flagMonth); err != nil {
			return err
		}
	}

	cfg, manager, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(manager)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ledger := services.NewLedgerService(manager.DB())
	out := cmd.OutOrStdout()

	if flagAll {
		concurrency := flagConcurrency
		if concurrency == 0 {
			concurrency = cfg.ReconcileConcurrency
		}
		result, err := ledger.ReconcileAll(ctx, m, concurrency)
		if result != nil {
			fmt.Fprintf(out, "%s: %d owners, %d written, %d skipped\n", m, result.Owners, result.Written, result.Skipped)
		}
		return err
	}

	result, err := ledger.ReconcileMonth(ctx, flagOwner, m)
	if err != nil {
		return err
	}
	if result.Written {
		fmt.Fprintf(out, "%s: rolled %s into savings\n", m, result.Amount.StringFixed(2))
	} else {
		fmt.Fprintf(out, "%s: nothing written (rollover %s)\n", m, result.Amount.StringFixed(2))
	}
	return nil
}
