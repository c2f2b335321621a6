package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the configuration and report provider credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Environment: %s\n", cfg.Environment)
			fmt.Fprintf(out, "Listen address: %s\n", cfg.Addr())
			fmt.Fprintf(out, "Text provider: %s\n", cfg.TextProvider)
			fmt.Fprintf(out, "Text credentials: %s\n", credentialStatus(cfg.TextCredentials()))
			fmt.Fprintf(out, "Image credentials: %s\n", credentialStatus(cfg.ImageCredentials()))
			fmt.Fprintf(out, "Usage ledger: %s\n", cfg.DBDriver)
			fmt.Fprintln(out, "Configuration is valid")
			return nil
		},
	}
}

func credentialStatus(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
