package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pageza/feastcraft/backend/internal/recipelink"
)

func newLinkCommand() *cobra.Command {
	var listSites bool

	cmd := &cobra.Command{
		Use:         "link [url...]",
		Short:       "Normalize recipe links the way the server does",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if listSites {
				for _, s := range recipelink.Sites() {
					fmt.Fprintln(out, s.Domain)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("at least one url is required")
			}
			for _, arg := range args {
				fmt.Fprintln(out, recipelink.Normalize(arg))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listSites, "sites", false, "List the allow-listed recipe sites")
	return cmd
}
