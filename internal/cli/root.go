// Package cli implements the caracara command line interface. The CLI
// is a developer harness around the engine: it feeds the engine's own
// typed JSON records and renders reports; it performs no source
// document parsing or validation.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "caracara",
	Short: "Caracara - witness pattern & risk scoring engine",
	Long: `Caracara detects suspicious relational patterns among claimants,
witnesses and attorneys in labor-litigation batches: direct exchange
(troca direta), triangulation cycles, dual roles and borrowed
("professional") witnesses. Detections are folded into weighted 0-100
risk scores, classifications and deterministic textual insights.

The engine is pure and synchronous: no persistence, no network, no
cross-batch state.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.caracara/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Int("max-workers", 0, "detector parallelism (0 = config default)")
	_ = viper.BindPFlag("max_workers", rootCmd.PersistentFlags().Lookup("max-workers"))
}

// initConfig reads the config file and CARACARA_* environment
// variables.
func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home + "/.caracara")
			viper.SetConfigType("yaml")
			viper.SetConfigName("config")
		}
	}

	viper.SetEnvPrefix("CARACARA")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}
