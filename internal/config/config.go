// Package config loads housevalue settings from defaults, a YAML file,
// HOUSEVALUE_* environment variables and command-line flags.
package config

import (
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/YuminosukeSato/housevalue/pipeline"
	"github.com/YuminosukeSato/housevalue/pkg/errors"
	"github.com/YuminosukeSato/housevalue/pkg/log"
	"github.com/YuminosukeSato/housevalue/report"
	"github.com/YuminosukeSato/housevalue/valuation"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "HOUSEVALUE_"

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{"housevalue.yaml", "housevalue.yml"}

// flagKeys maps flags whose names differ from their config keys.
var flagKeys = map[string]string{
	"charts": "charts_dir",
}

// Config holds every setting of a run.
type Config struct {
	Data         string                 `koanf:"data"`
	Target       string                 `koanf:"target"`
	TestFraction float64                `koanf:"test_fraction"`
	Seed         uint64                 `koanf:"seed"`
	PriceScale   float64                `koanf:"price_scale"`
	Strict       bool                   `koanf:"strict"`
	CVFolds      int                    `koanf:"cv_folds"`
	ChartsDir    string                 `koanf:"charts_dir"`
	Output       string                 `koanf:"output"`
	LogLevel     string                 `koanf:"log_level"`
	Property     valuation.PropertySpec `koanf:"property"`
	// Overrides are raw feature values keyed by column name, applied on
	// top of Property. Keys are upper-cased.
	Overrides map[string]float64 `koanf:"overrides"`

	// File is the config file that was read, empty if none.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	p := pipeline.DefaultConfig()
	return map[string]interface{}{
		"target":                          p.Target,
		"test_fraction":                   p.TestFraction,
		"seed":                            p.Seed,
		"price_scale":                     p.PriceScale,
		"strict":                          p.Strict,
		"cv_folds":                        p.CVFolds,
		"output":                          report.FormatText,
		"log_level":                       "info",
		"property.next_to_river":          p.Property.NextToRiver,
		"property.rooms":                  p.Property.Rooms,
		"property.students_per_teacher":   p.Property.StudentsPerTeacher,
		"property.distance_to_employment": p.Property.DistanceToEmployment,
		"property.pollution_quantile":     p.Property.PollutionQuantile,
		"property.poverty_quantile":       p.Property.PovertyQuantile,
	}
}

// findFile returns the config file to read.
// Priority: explicit path > housevalue.yaml > housevalue.yml
func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// envKey maps HOUSEVALUE_TEST_FRACTION to test_fraction and
// HOUSEVALUE_PROPERTY_ROOMS to property.rooms.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if rest, ok := strings.CutPrefix(key, "property_"); ok {
		return "property." + rest
	}
	return key
}

// Load reads the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
// Only flags that were explicitly set take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	used := findFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", used)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if mapped, ok := flagKeys[f.Name]; ok {
				key = mapped
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	cfg.File = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that Pipeline does not cover.
func (c *Config) Validate() error {
	if !slices.Contains(report.Formats(), c.Output) {
		return errors.NewInvalidArgumentError("config", "output", c.Output,
			"must be one of "+strings.Join(report.Formats(), ", "))
	}
	if _, err := log.ToLogLevel(c.LogLevel); err != nil {
		return errors.NewInvalidArgumentError("config", "log_level", c.LogLevel, err.Error())
	}
	return c.Pipeline().Validate()
}

// Pipeline converts c into the parameters of a pipeline run.
func (c *Config) Pipeline() pipeline.Config {
	var overrides map[string]float64
	if len(c.Overrides) > 0 {
		overrides = make(map[string]float64, len(c.Overrides))
		for name, v := range c.Overrides {
			overrides[strings.ToUpper(name)] = v
		}
	}
	return pipeline.Config{
		DataPath:     c.Data,
		Target:       c.Target,
		TestFraction: c.TestFraction,
		Seed:         c.Seed,
		PriceScale:   c.PriceScale,
		Strict:       c.Strict,
		CVFolds:      c.CVFolds,
		ChartsDir:    c.ChartsDir,
		Property:     c.Property,
		Overrides:    overrides,
	}
}
