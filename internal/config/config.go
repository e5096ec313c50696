// Package config layers defaults, an optional YAML file and GENGROUPS_*
// environment variables into the run configuration.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/yyyoichi/gengroups"
	"github.com/yyyoichi/gengroups/internal/report"
)

const EnvPrefix = "GENGROUPS"

type Config struct {
	Engine Engine `mapstructure:"engine"`
	Output Output `mapstructure:"output"`
	Store  Store  `mapstructure:"store"`
	Log    Log    `mapstructure:"log"`
}

type Engine struct {
	Groups        int     `mapstructure:"groups"`
	Features      int     `mapstructure:"features"`
	Diseases      int     `mapstructure:"diseases"`
	MaxElements   int     `mapstructure:"max_elements"`
	MaxIterations int     `mapstructure:"max_iterations"`
	Delta         float64 `mapstructure:"delta"`
	Seed          int64   `mapstructure:"seed"`
	Workers       int     `mapstructure:"workers"`
}

type Output struct {
	// Path is the report destination; "-" writes to stdout.
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"`
}

type Store struct {
	// Path of the SQLite run archive. Empty disables archiving.
	Path string `mapstructure:"path"`
	ECC  bool   `mapstructure:"ecc"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with every key defaulted and environment
// lookup enabled. Callers may bind flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.groups", gengroups.DefaultGroups)
	v.SetDefault("engine.features", gengroups.DefaultFeatures)
	v.SetDefault("engine.diseases", gengroups.DefaultDiseases)
	v.SetDefault("engine.max_elements", gengroups.DefaultMaxElements)
	v.SetDefault("engine.max_iterations", gengroups.DefaultMaxIterations)
	v.SetDefault("engine.delta", gengroups.DefaultDelta)
	v.SetDefault("engine.seed", gengroups.DefaultSeed)
	v.SetDefault("engine.workers", 0)

	v.SetDefault("output.path", "results.out")
	v.SetDefault("output.format", string(report.Text))

	v.SetDefault("store.path", "")
	v.SetDefault("store.ecc", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Load reads configFile, or gengroups.yaml from the working directory when
// configFile is empty, and unmarshals the merged view of v. A missing
// default file is not an error; a missing explicit file is.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("gengroups")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks every value the engine, the report writer and the logger
// will be built from.
func (c *Config) Validate() error {
	if _, err := gengroups.New(c.EngineOptions()...); err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	if c.Output.Path == "" {
		return errors.New("output: path must not be empty")
	}
	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log: unknown format %q", c.Log.Format)
	}
	return nil
}

// EngineOptions translates the engine section into engine options.
func (c *Config) EngineOptions() []gengroups.Option {
	e := c.Engine
	return []gengroups.Option{
		gengroups.WithGroups(e.Groups),
		gengroups.WithFeatures(e.Features),
		gengroups.WithDiseases(e.Diseases),
		gengroups.WithMaxElements(e.MaxElements),
		gengroups.WithMaxIterations(e.MaxIterations),
		gengroups.WithDelta(e.Delta),
		gengroups.WithSeed(e.Seed),
		gengroups.WithWorkers(e.Workers),
	}
}
