package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the server's response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "invalidate [match]",
		Short: "Drop cached entries whose key contains match (all when omitted)",
		Example: "  gamepass-scanner cache invalidate\n" +
			"  gamepass-scanner cache invalidate price:\n" +
			"  gamepass-scanner cache invalidate 123456",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var match string
			if len(args) == 1 {
				match = args[0]
			}

			removed, err := newClient().InvalidateCache(cmd.Context(), match)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return outputJSON(map[string]int{"removed": removed})
			}
			fmt.Printf("Removed %d cached entries.\n", removed)
			return nil
		},
	})

	return cmd
}
