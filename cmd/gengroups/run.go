package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/gengroups"
	"github.com/yyyoichi/gengroups/internal/dataset"
	"github.com/yyyoichi/gengroups/internal/report"
	"github.com/yyyoichi/gengroups/internal/runstore"
)

func (a *app) newRunCmd() *cobra.Command {
	var (
		label   string
		summary bool
	)
	cmd := &cobra.Command{
		Use:   "run <elements file> <diseases file> [count]",
		Short: "Cluster the elements and write the results file",
		Long: `Reads the element table (a count followed by the feature values) and the
disease table, clusters the elements, and writes centroids, group sizes,
group compactness and the disease medians to the results file.

The optional count uses only the first count elements of the file.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var limit int
			if len(args) == 3 {
				n, err := strconv.Atoi(args[2])
				if err != nil || n < 1 {
					return fmt.Errorf("element count must be a positive integer, got %q", args[2])
				}
				limit = n
			}
			return a.run(cmd, args[0], args[1], limit, label, summary)
		},
	}
	f := cmd.Flags()
	f.Int("groups", gengroups.DefaultGroups, "number of groups")
	f.Int("features", gengroups.DefaultFeatures, "features per element")
	f.Int("diseases", gengroups.DefaultDiseases, "disease risks per element")
	f.Int("max-elements", gengroups.DefaultMaxElements, "largest population accepted")
	f.Int("max-iterations", gengroups.DefaultMaxIterations, "iteration cap of the clustering loop")
	f.Float64("delta", gengroups.DefaultDelta, "largest centroid movement that still counts as converged")
	f.Int64("seed", gengroups.DefaultSeed, "seed of the initial centroids")
	f.Int("workers", 0, "parallel workers, 0 for GOMAXPROCS, 1 for serial")
	f.StringP("output", "o", "results.out", "results file, - for stdout")
	f.String("format", string(report.Text), "results format (text, yaml, json, html)")
	f.String("store", "", "SQLite archive to record the run in")
	f.Bool("ecc", true, "Golay protect the archived assignment")
	f.StringVar(&label, "label", "", "label stored with the archived run")
	f.BoolVar(&summary, "summary", true, "print a summary to stdout")
	return cmd
}

func (a *app) run(cmd *cobra.Command, elementPath, diseasePath string, limit int, label string, summary bool) error {
	ctx := cmd.Context()
	c := a.cfg

	start := time.Now()
	tables, err := dataset.Load(elementPath, diseasePath, dataset.Options{
		Features: c.Engine.Features,
		Diseases: c.Engine.Diseases,
		Limit:    limit,
		Capacity: c.Engine.MaxElements,
	})
	if err != nil {
		a.logger.Error().Err(err).Msg("failed to read input")
		return err
	}
	a.logger.Info().Int("elements", len(tables.Elements)).Dur("took", time.Since(start)).Msg("input read")

	opts := append(c.EngineOptions(), gengroups.WithLogger(a.logger))
	engine, err := gengroups.New(opts...)
	if err != nil {
		return err
	}
	res, err := engine.Run(ctx, gengroups.Dataset{Elements: tables.Elements, Diseases: tables.Diseases})
	if err != nil {
		a.logger.Error().Err(err).Msg("run failed")
		return err
	}

	start = time.Now()
	format, err := report.ParseFormat(c.Output.Format)
	if err != nil {
		return err
	}
	if err := a.writeReport(cmd.OutOrStdout(), c.Output.Path, res, format); err != nil {
		a.logger.Error().Err(err).Str("path", c.Output.Path).Msg("failed to write results")
		return err
	}
	a.logger.Info().Str("path", c.Output.Path).Dur("took", time.Since(start)).Msg("results written")

	if c.Store.Path != "" {
		store, err := runstore.Open(c.Store.Path, c.Store.ECC)
		if err != nil {
			return err
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, &runstore.Run{
			Label:  label,
			Seed:   c.Engine.Seed,
			Params: engine.Params(),
		}, res)
		if err != nil {
			return err
		}
		a.logger.Info().Str("run", id).Str("store", c.Store.Path).Msg("run archived")
	}

	if summary && c.Output.Path != "-" {
		return report.WriteSummary(cmd.OutOrStdout(), res)
	}
	return nil
}

func (a *app) writeReport(stdout io.Writer, path string, res *gengroups.Result, format report.Format) error {
	if path == "-" {
		return report.Write(stdout, res, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, res, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
