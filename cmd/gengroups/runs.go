package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yyyoichi/gengroups/internal/report"
	"github.com/yyyoichi/gengroups/internal/runstore"
)

var errNoStore = errors.New("no run archive configured, set --store or store.path")

func (a *app) newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived runs",
	}
	cmd.PersistentFlags().String("store", "", "SQLite run archive")
	cmd.AddCommand(a.newRunsListCmd(), a.newRunsShowCmd())
	return cmd
}

func (a *app) openStore() (*runstore.Store, error) {
	if a.cfg.Store.Path == "" {
		return nil, errNoStore
	}
	return runstore.Open(a.cfg.Store.Path, a.cfg.Store.ECC)
}

func (a *app) newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCREATED\tLABEL\tELEMENTS\tGROUPS\tITERATIONS\tSTATE")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Label,
					r.Elements, r.Params.Groups, r.Iterations, r.State)
			}
			return tw.Flush()
		},
	}
}

func (a *app) newRunsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the results of an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			run, err := store.LoadRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			format, err := report.ParseFormat(a.cfg.Output.Format)
			if err != nil {
				return err
			}
			return report.Write(cmd.OutOrStdout(), run.Result, format)
		},
	}
	cmd.Flags().String("format", string(report.Text), "output format (text, yaml, json, html)")
	return cmd
}
