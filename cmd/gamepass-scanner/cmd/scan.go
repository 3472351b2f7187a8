package cmd

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/gamepass-price-scanner/internal/api/client"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
)

// triggerCLI marks scan runs started from the command line.
const triggerCLI = "cli"

func scanCmd() *cobra.Command {
	var local bool

	cmd := &cobra.Command{
		Use:   "scan <ids or urls...>",
		Short: "Scan a batch of game passes and total their prices",
		Long: "Scan extracts game-pass IDs from the arguments (plain IDs, item URLs\n" +
			"or free text), resolves each one and prints per-item prices with a\n" +
			"summary. Large batches are paced automatically.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if local {
				return runLocalScan(cmd.Context(), text)
			}
			return runRemoteScan(cmd.Context(), text)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "scan in-process instead of calling the API server")

	return cmd
}

func runRemoteScan(ctx context.Context, text string) error {
	resp, err := newClient().Scan(ctx, &apiclient.ScanRequest{Text: text, Force: forceRefresh()})
	if err != nil {
		return err
	}
	return printScanResponse(resp)
}

func runLocalScan(ctx context.Context, text string) error {
	return withLocalApp(ctx, func(a *app) error {
		ids := pricing.ExtractItemIDs(text, a.cfg.Scanner.MaxIDs)
		if len(ids) == 0 {
			return errors.New("no game-pass ids found in input")
		}

		run, results := a.scanner.Run(ctx, ids, forceRefresh(), triggerCLI)

		return printScanResponse(&apiclient.ScanResponse{Run: run, IDs: ids, Results: results})
	})
}

func printScanResponse(resp *apiclient.ScanResponse) error {
	if jsonOutput() {
		return outputJSON(resp)
	}
	return printScan(os.Stdout, resp.IDs, resp.Results, resp.Run.Summary)
}
