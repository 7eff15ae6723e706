package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anmol3478/podverification/internal/bench"
	"github.com/anmol3478/podverification/internal/record"
	"github.com/anmol3478/podverification/internal/report"
)

func newBenchCommand(ctx *commandContext) *cobra.Command {
	var threshold int
	var save bool
	var jsonColumn string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bench [dataset.csv]",
		Short: "Aggregate match statistics across the whole dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := ctx.datasetPath(args)
			if err != nil {
				return err
			}
			limit, err := ctx.resolveThreshold(threshold)
			if err != nil {
				return err
			}

			logger := ctx.cliLogger(cmd)
			table, err := ctx.openDataset(path, jsonColumn, "", logger)
			if err != nil {
				return err
			}

			run := bench.Compute(table, bench.Options{Threshold: limit, Logger: logger})
			if save {
				err := ctx.withStore(func(store *report.Store) error {
					return store.Save(cmd.Context(), run)
				})
				if err != nil {
					return err
				}
			}

			if asJSON {
				return writeJSON(cmd, run)
			}
			printRun(cmd, run)
			if save {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved report %s\n", shortID(run.ID))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", -1, "Similarity threshold override (0-100)")
	cmd.Flags().BoolVar(&save, "save", false, "Persist the report to the store")
	cmd.Flags().StringVar(&jsonColumn, "json-column", "", "Column carrying the record JSON")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")

	cmd.AddCommand(newBenchHistoryCommand(ctx))
	cmd.AddCommand(newBenchShowCommand(ctx))
	cmd.AddCommand(newBenchRemoveCommand(ctx))
	return cmd
}

func newBenchHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved benchmark reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *report.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No saved reports")
					return nil
				}

				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						run.CreatedAt.Local().Format("2006-01-02 15:04"),
						run.DatasetPath,
						strconv.Itoa(run.Rows),
						strconv.Itoa(run.Threshold),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Created", "Dataset", "Rows", "Threshold"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of reports to list (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit reports as JSON")
	return cmd
}

func newBenchShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Display one saved benchmark report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *report.Store) error {
				run, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, run)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report %s saved %s\n",
					shortID(run.ID), run.CreatedAt.Local().Format("2006-01-02 15:04"))
				printRun(cmd, run)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the report as JSON")
	return cmd
}

func newBenchRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a saved benchmark report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *report.Store) error {
				if err := store.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed report %s\n", args[0])
				return nil
			})
		},
	}
}

func printRun(cmd *cobra.Command, run *bench.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dataset: %s\n", run.DatasetPath)
	fmt.Fprintf(out, "Rows: %d (skipped %d), threshold %d\n", run.Rows, run.SkippedRows, run.Threshold)

	rows := make([][]string, 0, len(run.Fields))
	for _, f := range run.Fields {
		rows = append(rows, []string{
			record.DisplayName(f.Field),
			strconv.Itoa(f.Total),
			strconv.Itoa(f.Match),
			strconv.Itoa(f.Hallucination),
			strconv.Itoa(f.Null),
			fmt.Sprintf("%.2f", f.MatchPct),
			fmt.Sprintf("%.2f", f.HallucinationPct),
			fmt.Sprintf("%.2f", f.NullPct),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Field", "Total", "Match", "Hallucination", "Null", "Match %", "Hallucination %", "Null %"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
