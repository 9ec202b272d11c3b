package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"decklens/internal/api"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Lookup cache maintenance",
	}

	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	cacheCmd.AddCommand(newCachePopulateCommand(ctx))

	return cacheCmd
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lookup cache metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			metrics, err := api.CacheStats(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, metrics)
			}
			rows := [][]string{
				{"Entries", fmt.Sprintf("%d", metrics.Entries)},
				{"Hits", fmt.Sprintf("%d", metrics.Hits)},
				{"Misses", fmt.Sprintf("%d", metrics.Misses)},
				{"Evictions", fmt.Sprintf("%d", metrics.Evictions)},
				{"Hit rate", fmt.Sprintf("%.2f", metrics.HitRate)},
				{"Approx memory", fmt.Sprintf("%d B", metrics.ApproxMemoryBytes)},
				{"Avg access latency", metrics.AvgAccessLatency.String()},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Metric", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit metrics as JSON")
	return cmd
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop lookup cache entries",
		Long: `Drop every lookup cache entry, or only the keys matching a glob pattern
when --pattern is given (for example "card:exact:*").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if pattern != "" {
				dropped, err := api.InvalidateCache(cmd.Context(), cfg, pattern)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %d entries matching %q\n", dropped, pattern)
				return nil
			}
			if err := api.ClearCache(cmd.Context(), cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Lookup cache cleared")
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Only drop keys matching this glob pattern")
	return cmd
}

func newCachePopulateCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Seed the lookup cache with popular cards",
		Long: `Fetch the curated popular-card list from the card oracle and seed the
lookup cache with the confirmed identities. Subsequent scans resolve
these names without touching the network.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}
			result, err := api.PopulateCache(cmd.Context(), api.PopulateCacheRequest{
				Config: cfg,
				Logger: logger,
				Limit:  limit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Fetched %d of %d popular cards into the lookup cache\n",
				result.Fetched, result.Requested)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of cards fetched (0 fetches the full list)")
	return cmd
}
