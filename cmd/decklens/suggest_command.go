package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"decklens/internal/api"
)

func newSuggestCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		max        int
	)

	cmd := &cobra.Command{
		Use:   "suggest <name>",
		Short: "Suggest card names for a partial or misread name",
		Long: `Rank likely card names for a partial or garbled input, using the local
catalog first and the card oracle's autocomplete for anything it misses.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}
			query := strings.Join(args, " ")
			candidates, err := api.Suggest(cmd.Context(), api.SuggestRequest{
				Config: cfg,
				Logger: logger,
				Query:  query,
				Max:    max,
			})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, candidates)
			}
			if len(candidates) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No suggestions for %q\n", query)
				return nil
			}
			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				score := "-"
				if c.Score > 0 {
					score = fmt.Sprintf("%.3f", c.Score)
				}
				rows = append(rows, []string{c.Name, score, c.Method})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Card", "Score", "Method"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit suggestions as JSON")
	cmd.Flags().IntVar(&max, "max", 0, "Cap the number of suggestions (0 uses resolver.max_results)")
	return cmd
}
