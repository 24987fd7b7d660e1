package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Gowsikakho/expense-track/internal/pagination"
	"github.com/Gowsikakho/expense-track/internal/services"
)

var flagLimit int

var savingsCmd = &cobra.Command{
	Use:   "savings",
	Short: "Show cumulative savings and the latest ledger entries",
	Args:  cobra.NoArgs,
	RunE:  runSavings,
}

func init() {
	savingsCmd.Flags().StringVar(&flagOwner, "owner", "", "User ID")
	savingsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to list")
	_ = savingsCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(savingsCmd)
}

func runSavings(cmd *cobra.Command, _ []string) error {
	_, manager, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(manager)

	ctx := context.Background()
	ledger := services.NewLedgerService(manager.DB())

	total, err := ledger.GetCumulativeSavings(ctx, flagOwner)
	if err != nil {
		return err
	}
	history, err := ledger.GetSavingsHistory(ctx, flagOwner, pagination.First(flagLimit))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cumulative savings: %s\n\n", total.StringFixed(2))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MONTH\tAMOUNT\tKIND\tNOTE")
	for _, e := range history.Data {
		kind := "adjustment"
		if e.IsRollover {
			kind = "rollover"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Month, e.Amount.StringFixed(2), kind, e.Note)
	}
	return w.Flush()
}
