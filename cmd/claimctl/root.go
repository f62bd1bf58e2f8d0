package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/martirspe/complaints-book-pro/internal/backend"
	"github.com/martirspe/complaints-book-pro/internal/platform/config"
	"github.com/martirspe/complaints-book-pro/internal/platform/logger"
)

var (
	cfgFile string
	tenant  string
	verbose bool

	cfg config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "claimctl",
	Short: "Complaints book command line client",
	Long: `claimctl drives the claims backend without a browser.

Claims are validated by the same rules as the web form before they are sent.
Settings come from --config and CLAIMS_* environment variables, e.g.
CLAIMS_BACKEND_URL=https://api.example.pe claimctl track REC-2026-000123 --tenant acme`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&tenant, "tenant", "t", "", "tenant slug")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log = logger.NewWithWriter(os.Stderr, level)
	return nil
}

// newClient builds the backend client from the loaded config. The CLI makes a
// handful of calls, so rate limiting keeps the server defaults.
func newClient() *backend.Client {
	return backend.New(cfg.Backend.URL, cfg.Backend.Timeout,
		backend.WithRateLimit(cfg.Backend.RateLimit, cfg.Backend.RateBurst),
		backend.WithLogger(log),
	)
}

func requireTenant() error {
	if tenant == "" {
		return fmt.Errorf("--tenant is required")
	}
	return nil
}
