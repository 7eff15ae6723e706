package main

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/anmol3478/podverification/internal/config"
	"github.com/anmol3478/podverification/internal/fonts"
	"github.com/anmol3478/podverification/internal/render"
	"github.com/anmol3478/podverification/internal/viewer"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var row int
	var outputDir string
	var keepOriginal bool
	var jsonColumn string
	var imageColumn string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "render [dataset.csv]",
		Short: "Draw the row's detection boxes and write the annotated image",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := ctx.datasetPath(args)
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

			view, err := viewer.Build(table, row, cfg.Scoring.Threshold)
			if err != nil {
				return err
			}
			locator, err := view.RequireLocator()
			if err != nil {
				return err
			}

			loader, err := ctx.newLoader(logger)
			if err != nil {
				return err
			}

			outDir := strings.TrimSpace(outputDir)
			if outDir == "" {
				outDir = cfg.Render.OutputDir
			} else if outDir, err = config.ExpandPath(outDir); err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", outDir, err)
			}

			var src image.Image
			var originalPath string
			if keepOriginal {
				data, meta, err := loader.Raw(cmd.Context(), locator)
				if err != nil {
					return err
				}
				src, err = imaging.Decode(bytes.NewReader(data))
				if err != nil {
					return fmt.Errorf("decode image %s: %w", locator, err)
				}
				originalPath = filepath.Join(outDir, fmt.Sprintf("row-%04d-original%s", row, extensionFor(meta.ContentType)))
				if err := os.WriteFile(originalPath, data, 0o644); err != nil {
					return fmt.Errorf("write original image: %w", err)
				}
			} else {
				src, _, err = loader.Load(cmd.Context(), locator)
				if err != nil {
					return err
				}
			}

			face := fonts.Load(fonts.Options{
				Paths:  cfg.Render.FontPaths,
				Size:   cfg.Render.FontSize,
				Logger: logger,
			})
			annotated, rep := render.Annotate(src, view.Record.StructuredInfo, render.Options{
				Face:   face,
				Logger: logger,
			})

			annotatedPath := filepath.Join(outDir, fmt.Sprintf("row-%04d-annotated.png", row))
			if err := imaging.Save(annotated, annotatedPath); err != nil {
				return fmt.Errorf("write annotated image: %w", err)
			}

			if asJSON {
				payload := map[string]any{
					"annotated": annotatedPath,
					"drawn":     len(rep.Drawn),
					"skipped":   len(rep.Skipped),
				}
				if originalPath != "" {
					payload["original"] = originalPath
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Annotated image written to %s\n", annotatedPath)
			if originalPath != "" {
				fmt.Fprintf(out, "Original image written to %s\n", originalPath)
			}
			fmt.Fprintf(out, "Boxes drawn: %d", len(rep.Drawn))
			if len(rep.Skipped) > 0 {
				fmt.Fprintf(out, " (skipped %d)", len(rep.Skipped))
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&row, "row", "r", 0, "Row index to render (0-based)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Directory for rendered images")
	cmd.Flags().BoolVar(&keepOriginal, "original", false, "Also write the unannotated source image")
	cmd.Flags().StringVar(&jsonColumn, "json-column", "", "Column carrying the record JSON")
	cmd.Flags().StringVar(&imageColumn, "image-column", "", "Fallback image locator column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit result paths as JSON")
	return cmd
}

func extensionFor(contentType string) string {
	if sub, ok := strings.CutPrefix(contentType, "image/"); ok && sub != "" {
		return "." + sub
	}
	return ".img"
}
