package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/gamepass-price-scanner/internal/api/client"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
)

func historyCmd() *cobra.Command {
	var (
		since      time.Duration
		pricedOnly bool
		limit      int
		offset     int
		orderBy    string
	)

	cmd := &cobra.Command{
		Use:   "history <id or url>",
		Short: "Show recorded prices for a game pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := pricing.ExtractItemID(args[0])
			if !ok {
				return fmt.Errorf("%q is not a game-pass id or url", args[0])
			}

			params := &apiclient.HistoryParams{
				PricedOnly: pricedOnly,
				Limit:      limit,
				Offset:     offset,
				OrderBy:    orderBy,
			}
			if since > 0 {
				params.Since = time.Now().Add(-since)
			}

			resp, err := newClient().ItemHistory(cmd.Context(), string(id), params)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(resp)
			}
			return printHistory(os.Stdout, resp.Observations, resp.Total)
		},
	}

	cmd.Flags().DurationVar(&since, "since", 0, "only show observations newer than this (e.g. 24h)")
	cmd.Flags().BoolVar(&pricedOnly, "priced-only", false, "hide observations without a price")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum observations to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "observations to skip")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "sort order (observed_at, price)")

	return cmd
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent scan runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runs, err := newClient().ListScanRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(runs)
			}
			return printScanRuns(os.Stdout, runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to return")

	return cmd
}
