// Package cli provides the command-line interface for housevalue.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housevalue/internal/config"
	"github.com/YuminosukeSato/housevalue/pipeline"
	"github.com/YuminosukeSato/housevalue/pkg/log"
	"github.com/YuminosukeSato/housevalue/report"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "housevalue",
		Short: "Boston housing analysis and valuation",
		Long: `housevalue explores the Boston housing table, fits linear models on raw
and log PRICE, and estimates the dollar value of a property.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := log.SetupLoggerTo(cmd.ErrOrStderr(), cfg.LogLevel); err != nil {
				return err
			}
			log.SetupWarnings(cmd.ErrOrStderr())
			if cfg.File != "" {
				log.GetLogger().Debug("config loaded", log.SourceKey, cfg.File)
			}

			cmd.SetContext(context.WithValue(cmd.Context(), configKey{}, cfg))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	defaults := pipeline.DefaultConfig()
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./housevalue.yaml)")
	pf.String("log-level", "info", "Log level (debug|info|warn|error)")
	pf.StringP("output", "o", report.FormatText, "Output format (text|markdown|json)")
	pf.String("target", defaults.Target, "Target column")
	pf.Float64("test-fraction", defaults.TestFraction, "Share of rows held out for testing")
	pf.Uint64("seed", defaults.Seed, "Random seed of the train/test split")
	pf.Float64("price-scale", defaults.PriceScale, "Dollars per PRICE unit")
	pf.Int("cv-folds", defaults.CVFolds, "Cross-validation folds on the training rows (0 disables)")
	pf.Bool("strict", false, "Fail on missing values or duplicate rows instead of warning")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return report.Formats(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewDescribeCommand())
	rootCmd.AddCommand(NewEstimateCommand())
	rootCmd.AddCommand(NewVersionCommand(Version, GitCommit))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.GetLogger().Error("command failed", log.ErrAttr(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return nil
}
