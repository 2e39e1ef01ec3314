// Package cli implements the varsearch command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/varsearch-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/varsearch-cli/internal/adapters/driven/fetch"
	"github.com/custodia-labs/varsearch-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/varsearch-cli/internal/core/ports/driving"
	"github.com/custodia-labs/varsearch-cli/internal/core/services"
	"github.com/custodia-labs/varsearch-cli/internal/logger"
)

var version = "0.1.0-dev"

// Services used by the commands. Populated by initServices before a
// command runs; tests swap these for mocks.
var (
	engineService driving.EngineService
	configStore   *configfile.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "varsearch",
	Short: "Genomic variant lookup against a remote annotation dataset",
	Long: `varsearch downloads a variant annotation dataset, holds it in an
embedded read-only store, and answers exact-key batch lookups and
filtered searches against it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// initServices wires the real adapters into the engine. Idempotent so
// tests can pre-populate the service vars and skip the wiring.
func initServices() error {
	if engineService != nil {
		return nil
	}

	store, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	configStore = store

	engine := services.NewEngine(fetch.NewHTTPFetcher(nil), sqlite.OpenStore)
	if batch := store.GetInt(configfile.KeyBatchSize); batch > 0 {
		engine.SetBatchSize(batch)
	}
	engineService = engine

	logger.Debug("Services initialised (config: %s)", store.Path())
	return nil
}

// datasetURL resolves the dataset location: the command flag wins,
// then the configured default.
func datasetURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if configStore != nil {
		if url := configStore.GetString(configfile.KeyDatasetURL); url != "" {
			return url, nil
		}
	}
	return "", fmt.Errorf("no dataset URL given: pass --url or set %q in the config", configfile.KeyDatasetURL)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
