package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

func diagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag",
		Short: "Show the server's cache, rate limit and resolution settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := newClient().Diag(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(d)
			}
			return printDiag(os.Stdout, d)
		},
	}
}
