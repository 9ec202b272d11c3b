package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"decklens/internal/api"
	"decklens/internal/carddex"
	"decklens/internal/pipeline"
	"decklens/internal/reconcile"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var sidePath string
	var formatHint string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan <mainboard-image>",
		Short: "Read a deck-list screenshot into a complete deck",
		Long: `Recognize the card names in a deck-list screenshot, resolve them against
the card oracle, and emit a legal 60-card mainboard with a 15-card
sideboard. Unreadable regions are filled with basic lands or sideboard
staples matched to the deck's colors; a scan never fails outright.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if hint := strings.ToLower(strings.TrimSpace(formatHint)); hint != "" {
				switch hint {
				case "mtgo", "arena", "paper":
				default:
					return fmt.Errorf("unknown format %q (expected mtgo, arena, or paper)", formatHint)
				}
			}

			logger, err := ctx.newCLILogger(cfg)
			if err != nil {
				return err
			}

			result, err := api.ScanDeck(cmd.Context(), api.ScanDeckRequest{
				Config:        cfg,
				MainImagePath: args[0],
				SideImagePath: sidePath,
				FormatHint:    formatHint,
				Logger:        logger,
			})
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}
			renderScanResult(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&sidePath, "side", "s", "", "Sideboard image path")
	cmd.Flags().StringVarP(&formatHint, "format", "f", "", "Client format hint: mtgo, arena, or paper")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the result as JSON")

	return cmd
}

func renderScanResult(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()

	for _, zone := range []carddex.Zone{carddex.ZoneMain, carddex.ZoneSide} {
		slots := result.Deck.Zone(zone)
		rows := make([][]string, 0, len(slots))
		for _, slot := range slots {
			rows = append(rows, []string{
				strconv.Itoa(slot.Quantity),
				slot.DisplayName(),
				slotStatus(slot),
			})
		}
		fmt.Fprintf(out, "%s (%d)\n", zoneTitle(zone), result.Deck.ZoneCount(zone))
		fmt.Fprintln(out, renderTable(
			[]string{"Qty", "Card", "Status"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft},
		))
	}

	fmt.Fprintf(out, "Confidence: %.2f  Forced: %s\n", result.Confidence, yesNo(result.Forced))
	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "Warnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(out, "  - %s\n", warning)
		}
	}
	if len(result.Errors) > 0 {
		fmt.Fprintln(out, "Errors:")
		for _, message := range result.Errors {
			fmt.Fprintf(out, "  - %s\n", message)
		}
	}
}

func slotStatus(slot reconcile.DeckSlot) string {
	switch {
	case slot.Filler:
		return "filler"
	case slot.Validated:
		return "confirmed"
	default:
		return "unverified"
	}
}

func zoneTitle(zone carddex.Zone) string {
	if zone == carddex.ZoneSide {
		return "Sideboard"
	}
	return "Mainboard"
}
