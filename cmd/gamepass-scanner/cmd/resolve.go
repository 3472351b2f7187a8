package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apiclient "github.com/donaldgifford/gamepass-price-scanner/internal/api/client"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/logger"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func resolveCmd() *cobra.Command {
	var (
		local   bool
		details bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <id or url>",
		Short: "Resolve the price of one game pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, ok := pricing.ExtractItemID(args[0])
			if !ok {
				return fmt.Errorf("%q is not a game-pass id or url", args[0])
			}
			if details {
				return runDetails(cmd.Context(), id, local)
			}
			return runResolve(cmd.Context(), id, local)
		},
	}

	cmd.Flags().BoolVar(&local, "local", false, "resolve in-process instead of calling the API server")
	cmd.Flags().BoolVar(&details, "details", false, "print the raw details instead of the resolved price")

	return cmd
}

func runResolve(ctx context.Context, id domain.ItemID, local bool) error {
	var (
		resp *apiclient.PriceResponse
		err  error
	)
	if local {
		err = withLocalApp(ctx, func(a *app) error {
			rp, rerr := a.resolver.ResolveItem(ctx, id, forceRefresh())
			if rerr != nil {
				return rerr
			}
			resp = &apiclient.PriceResponse{
				ResolvedPrice:          *rp,
				AmountReceivedAfterFee: pricing.AmountAfterFee(rp.DisplayPrice, a.cfg.Scanner.FeeRate),
			}
			return nil
		})
	} else {
		resp, err = newClient().GetPrice(ctx, string(id), forceRefresh())
	}
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(resp)
	}
	return printPrice(os.Stdout, resp)
}

func runDetails(ctx context.Context, id domain.ItemID, local bool) error {
	var (
		d   *domain.PriceDetails
		err error
	)
	if local {
		err = withLocalApp(ctx, func(a *app) error {
			for _, cred := range a.resolver.Chain("") {
				if d = a.resolver.FetchDetails(ctx, id, cred, forceRefresh()); d != nil {
					return nil
				}
			}
			return fmt.Errorf("no details available for item %s", id)
		})
	} else {
		d, err = newClient().GetDetails(ctx, string(id), forceRefresh())
	}
	if err != nil {
		return err
	}

	if jsonOutput() {
		return outputJSON(d)
	}
	return printDetails(os.Stdout, d)
}

// withLocalApp builds an in-process engine with a no-op history store and
// runs fn against it.
func withLocalApp(ctx context.Context, fn func(*app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	a, err := buildApp(ctx, cfg, log, false)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(cfg.Roblox.Credentials.All()) == 0 {
		log.Debug("no credentials configured, using anonymous access only")
	}

	err = fn(a)
	if errors.Is(err, context.Canceled) {
		return errors.New("interrupted")
	}
	return err
}
