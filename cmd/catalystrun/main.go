// catalystrun is a catalyst tracker and options-trade rater for binary-risk
// events: add events, score them into graded ratings with a recommended
// options structure, resolve them with realized moves, and report how the
// ratings performed against benchmarks.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/catalystrun/internal/config"
	"github.com/sawpanic/catalystrun/internal/infrastructure/market"
	"github.com/sawpanic/catalystrun/internal/persistence"
	"github.com/sawpanic/catalystrun/internal/persistence/jsonstore"
	"github.com/sawpanic/catalystrun/internal/persistence/kvstore"
	"github.com/sawpanic/catalystrun/internal/persistence/postgres"
)

var (
	flagConfigPath string
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "catalystrun",
	Short: "Binary-event catalyst tracker and options trade rater",
	Long: `CatalystRun tracks binary-risk events (regulatory decisions, trial
readouts, earnings, macro releases) for single securities, rates each one
with a deterministic multi-factor score and a recommended options strategy,
and reports post-event performance against benchmark and sector ETFs.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "config/catalystrun.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

// loadConfig reads the configured YAML file on top of the defaults.
func loadConfig() (config.Config, error) {
	return config.Load(flagConfigPath)
}

// openStore builds the persistence backend selected by the config.
func openStore(cfg config.Config) (persistence.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendBadger:
		return kvstore.New(cfg.Store.BadgerDir)
	case config.BackendPostgres:
		return postgres.New(cfg.Store.PostgresDSN)
	default:
		return jsonstore.New(cfg.Store.DataDir)
	}
}

// newProvider builds the market-data client from config.
func newProvider(cfg config.Config) market.Provider {
	return market.NewClient(cfg.Market, nil)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
