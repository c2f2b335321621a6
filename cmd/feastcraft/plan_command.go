package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/feastcraft/backend/internal/types"
	"github.com/pageza/feastcraft/backend/pkg/client"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var (
		serverURL   string
		meals       int
		preferences string
		grocery     bool
		noImages    bool
	)

	cmd := &cobra.Command{
		Use:         "plan",
		Short:       "Request a meal plan from a running server",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if meals < client.MinMeals || meals > client.MaxMeals {
				return fmt.Errorf("--meals must be between %d and %d", client.MinMeals, client.MaxMeals)
			}

			opts := []client.Option{client.WithLogger(ctx.logger())}
			if noImages {
				opts = append(opts, client.WithoutImages())
			}
			c := client.New(serverURL, opts...)
			session := client.NewSession()

			plan, err := c.GenerateMealPlan(cmd.Context(), client.BuildMealPlanPrompt(meals, preferences))
			if err != nil {
				return err
			}
			session.SetMeals(plan)

			out := cmd.OutOrStdout()
			renderMeals(out, session.Meals())

			if grocery {
				list, err := c.GroceryList(cmd.Context(), client.BuildGroceryPrompt(session.Meals()))
				if err != nil {
					return err
				}
				session.SetGroceryList(list)
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Grocery list")
				fmt.Fprint(out, session.GroceryList().String())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", defaultServerURL(), "Base URL of the feastcraft server")
	cmd.Flags().IntVarP(&meals, "meals", "n", 3, "Number of meals")
	cmd.Flags().StringVarP(&preferences, "preferences", "p", "", "Preferences, e.g. kid-friendly, vegetarian, quick")
	cmd.Flags().BoolVar(&grocery, "grocery", false, "Also build a grocery list")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "Skip meal illustrations")
	return cmd
}

func defaultServerURL() string {
	if v := strings.TrimSpace(os.Getenv("FEASTCRAFT_SERVER")); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func renderMeals(out io.Writer, meals []types.Meal) {
	for i, m := range meals {
		fmt.Fprintf(out, "%d. %s\n", i+1, m.Name)
		if m.Description != "" {
			fmt.Fprintf(out, "   %s\n", m.Description)
		}
		fmt.Fprintf(out, "   Ingredients: %s\n", strings.Join(m.Ingredients, ", "))
		fmt.Fprintf(out, "   Recipe: %s\n", m.Link)
		if m.ImageURL != "" {
			fmt.Fprintf(out, "   Image: %s\n", m.ImageURL)
		}
	}
}
