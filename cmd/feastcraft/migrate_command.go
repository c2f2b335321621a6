package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the usage ledger schema",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			fmt.Fprintln(cmd.OutOrStdout(), "All migrations applied successfully.")
			return nil
		},
	}
}
