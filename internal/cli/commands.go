package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/housevalue/dataset"
	"github.com/YuminosukeSato/housevalue/internal/config"
	"github.com/YuminosukeSato/housevalue/pipeline"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
	"github.com/YuminosukeSato/housevalue/report"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [csv]",
		Short: "Run the full analysis",
		Long: `Load the table, check and describe it, fit linear models on raw and log
PRICE with a shared train/test split, and price the average and the
configured property.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pc, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			r, err := pipeline.Run(cmd.Context(), pc, log.GetLogger())
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), r, cfg.Output)
		},
	}
	cmd.Flags().String("charts", "", "Directory to write PNG charts to")
	return cmd
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [csv]",
		Short: "Show data quality and summary statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pc, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			t, err := load(pc)
			if err != nil {
				return err
			}
			r, err := pipeline.Explore(t, pc, log.GetLogger())
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), r, cfg.Output)
		},
	}
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "estimate [csv]",
		Short: "Estimate the price of a property",
		Long: `Estimate the dollar price of the configured property. Each --set KEY=VALUE
replaces one feature of it, for example --set RM=6 --set CHAS=0.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pc, err := resolve(cmd, args)
			if err != nil {
				return err
			}
			overrides, err := parseSets(sets)
			if err != nil {
				return err
			}
			if pc.Overrides == nil {
				pc.Overrides = make(map[string]float64, len(overrides))
			}
			for name, v := range overrides {
				pc.Overrides[name] = v
			}
			pc.CVFolds = 0
			pc.ChartsDir = ""

			r, err := pipeline.Run(cmd.Context(), pc, log.GetLogger())
			if err != nil {
				return err
			}
			return report.Estimate(cmd.OutOrStdout(), r, cfg.Output)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Feature override KEY=VALUE (repeatable)")
	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "housevalue v%s (%s)\n", version, commit)
		},
	}
}

// resolve returns the loaded config and the pipeline parameters, with the
// positional CSV path taking precedence over the configured one.
func resolve(cmd *cobra.Command, args []string) (*config.Config, pipeline.Config, error) {
	cfg := GetConfig(cmd.Context())
	if cfg == nil {
		return nil, pipeline.Config{}, errors.New("configuration not loaded")
	}
	pc := cfg.Pipeline()
	if len(args) == 1 {
		pc.DataPath = args[0]
	}
	if pc.DataPath == "" {
		return nil, pipeline.Config{}, errors.NewInvalidArgumentError(cmd.Name(), "data", "",
			"pass a CSV path or set data in the config file")
	}
	return cfg, pc, nil
}

func load(pc pipeline.Config) (*dataset.Table, error) {
	schema := dataset.BostonSchema()
	schema.Target = pc.Target
	return dataset.LoadCSV(pc.DataPath, schema)
}

// parseSets turns KEY=VALUE pairs into feature overrides. Keys are
// upper-cased; a repeated key keeps the last value.
func parseSets(sets []string) (map[string]float64, error) {
	out := make(map[string]float64, len(sets))
	for _, s := range sets {
		key, raw, ok := strings.Cut(s, "=")
		key = strings.ToUpper(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, errors.NewInvalidArgumentError("estimate", "set", s, "expected KEY=VALUE")
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, errors.NewInvalidArgumentError("estimate", key, raw, "not a number")
		}
		out[key] = v
	}
	return out, nil
}
