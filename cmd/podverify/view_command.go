package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/anmol3478/podverification/internal/record"
	"github.com/anmol3478/podverification/internal/viewer"
)

func newViewCommand(ctx *commandContext) *cobra.Command {
	var row int
	var threshold int
	var jsonColumn string
	var imageColumn string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "view [dataset.csv]",
		Short: "Score one row and show its validation results",
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
			table, err := ctx.openDataset(path, jsonColumn, imageColumn, logger)
			if err != nil {
				return err
			}
			if row < 0 || row >= table.RowCount() {
				return fmt.Errorf("row %d out of range, dataset has %d rows", row, table.RowCount())
			}

			view, err := viewer.Build(table, row, limit)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, view)
			}
			printView(cmd, view)
			return nil
		},
	}

	cmd.Flags().IntVarP(&row, "row", "r", 0, "Row index to inspect (0-based)")
	cmd.Flags().IntVarP(&threshold, "threshold", "t", -1, "Similarity threshold override (0-100)")
	cmd.Flags().StringVar(&jsonColumn, "json-column", "", "Column carrying the record JSON")
	cmd.Flags().StringVar(&imageColumn, "image-column", "", "Fallback image locator column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the view as JSON")
	return cmd
}

func printView(cmd *cobra.Command, view *viewer.View) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Row %d of %d (threshold %d)\n", view.Row+1, view.Rows, view.Threshold)

	rows := make([][]string, 0, len(view.Results))
	for _, res := range view.Results {
		rows = append(rows, []string{
			record.DisplayName(res.Field),
			displayValue(res.Extracted),
			displayValue(res.Reference),
			strconv.Itoa(res.Score),
			statusCell(res.Status, colorize),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Field", "Extracted", "Reference", "Score", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))

	if view.Locator != "" {
		fmt.Fprintf(out, "Image: %s (from %s)\n", view.Locator, view.LocatorSource)
	} else {
		fmt.Fprintln(out, "Image: none")
	}

	if view.Record != nil && view.Record.StructuredInfo != nil {
		if encoded, err := json.MarshalIndent(view.Record.StructuredInfo, "", "  "); err == nil {
			fmt.Fprintln(out, "Extracted info:")
			fmt.Fprintln(out, string(encoded))
		}
	}
}

func displayValue(v *string) string {
	if v == nil {
		return "-"
	}
	if *v == "" {
		return `""`
	}
	return *v
}
