package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yyyoichi/gengroups/internal/config"
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"groups":         "engine.groups",
	"features":       "engine.features",
	"diseases":       "engine.diseases",
	"max-elements":   "engine.max_elements",
	"max-iterations": "engine.max_iterations",
	"delta":          "engine.delta",
	"seed":           "engine.seed",
	"workers":        "engine.workers",
	"output":         "output.path",
	"format":         "output.format",
	"store":          "store.path",
	"ecc":            "store.ecc",
	"log-level":      "log.level",
	"log-format":     "log.format",
}

type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
	logger  zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New()}
	root := &cobra.Command{
		Use:          "gengroups",
		Short:        "Cluster elements into groups and analyse their disease risks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./gengroups.yaml)")
	pf.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console, json)")

	root.AddCommand(
		a.newRunCmd(),
		a.newGenCmd(),
		a.newRunsCmd(),
	)
	return root
}

// load binds the flags of the command being executed and reads the merged
// configuration.
func (a *app) load(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := a.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func newLogger(c config.Log, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	switch c.Format {
	case "console":
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05.000"}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", c.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}
