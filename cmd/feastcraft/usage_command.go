package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/feastcraft/backend/internal/service"
)

func newUsageCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show daily provider usage from the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(db *gorm.DB) error {
				report, err := service.NewUsageService(db).Daily(cmd.Context(), days)
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tCALLS\tFAILURES\tPROMPT TOKENS\tCOMPLETION TOKENS")
				for _, d := range report.Usage {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", d.Date, d.Calls, d.Failures, d.PromptTokens, d.CompletionTokens)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVarP(&days, "days", "d", 7, fmt.Sprintf("Number of days to report (1-%d)", service.MaxUsageDays))

	cmd.AddCommand(newUsagePruneCommand(ctx))
	return cmd
}

func newUsagePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete ledger entries older than the given number of days",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withLedger(ctx, func(db *gorm.DB) error {
				n, err := service.NewUsageService(db).Prune(cmd.Context(), olderThan)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d usage records\n", n)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&olderThan, "older-than", service.MaxUsageDays, "Age in days of the records to delete")
	return cmd
}

func withLedger(ctx *commandContext, fn func(db *gorm.DB) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	db, err := openLedger(cfg, ctx.logger())
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("usage ledger is disabled (db_driver = none)")
	}
	defer closeDB(db)
	return fn(db)
}
