// Package cmd implements the gamepass-scanner CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/donaldgifford/gamepass-price-scanner/internal/api/client"
	"github.com/donaldgifford/gamepass-price-scanner/internal/config"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "gamepass-scanner",
		Short: "Resolve and track Roblox game-pass prices",
		Long: "gamepass-scanner resolves game-pass prices through a rate-limited,\n" +
			"cached chain of credentials with a headless-browser fallback.\n" +
			"Run it as an API server with `serve`, or query items directly from\n" +
			"the terminal with `resolve` and `scan`.",
		SilenceUsage: true,
	}
)

// Root returns the root cobra command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "", "service config file (defaults apply when empty)")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")
	rootCmd.PersistentFlags().
		Bool("force", false, "bypass cached responses")

	for _, name := range []string{"server", "output", "force"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(resolveCmd())
	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(cacheCmd())
	rootCmd.AddCommand(diagCmd())
	rootCmd.AddCommand(versionCmd())
}

// initConfig reads CLI preferences from $HOME/.gamepass-scanner.yaml and
// GPS_* environment variables. The service config is loaded separately by
// loadConfig.
func initConfig() {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetConfigType("yaml")
	viper.SetConfigName(".gamepass-scanner")

	viper.SetEnvPrefix("GPS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig loads the service config named by --config, or GPS_CONFIG, or
// falls back to defaults.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("GPS_CONFIG")
	}
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func forceRefresh() bool {
	return viper.GetBool("force")
}
