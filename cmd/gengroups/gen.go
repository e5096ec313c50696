package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/gengroups"
	"github.com/yyyoichi/gengroups/internal/dataset"
)

func (a *app) newGenCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "gen <elements file> <diseases file>",
		Short: "Write a synthetic element table and disease table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if n < 0 {
				return fmt.Errorf("element count must not be negative, got %d", n)
			}
			start := time.Now()
			c := a.cfg.Engine
			t := dataset.Generate(c.Seed, n, c.Features, c.Diseases)
			if err := writeFile(args[0], func(f *os.File) error { return dataset.WriteElements(f, t.Elements) }); err != nil {
				return err
			}
			if err := writeFile(args[1], func(f *os.File) error { return dataset.WriteTable(f, t.Diseases) }); err != nil {
				return err
			}
			a.logger.Info().
				Int("elements", n).
				Int("features", c.Features).
				Int("diseases", c.Diseases).
				Dur("took", time.Since(start)).
				Msg("tables generated")
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&n, "count", "n", 1000, "number of elements")
	f.Int("features", gengroups.DefaultFeatures, "features per element")
	f.Int("diseases", gengroups.DefaultDiseases, "disease risks per element")
	f.Int64("seed", gengroups.DefaultSeed, "seed of the generated values")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
