package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/engine"
	"folio/internal/export"
	"folio/internal/render"
)

var (
	exportDir   string
	exportTheme string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the portfolio as HTML or PDF",
}

var exportHTMLCmd = &cobra.Command{
	Use:   "html",
	Short: "Write a standalone HTML document",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(_ context.Context, e *engine.Engine) error {
			path, err := export.SaveHTML(resolveExportDir(e), e.State.Snapshot())
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		})
	},
}

var exportPDFCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Rasterize the preview with headless Chrome and write an A4 PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *engine.Engine) error {
			path, err := e.Exporter.SavePDF(ctx, resolveExportDir(e), e.State.Snapshot(), resolveTheme(e))
			if err != nil {
				return err
			}
			fmt.Printf("Exported %s\n", path)
			return nil
		})
	},
}

func resolveExportDir(e *engine.Engine) string {
	if exportDir != "" {
		return exportDir
	}
	return e.ExportDir()
}

func resolveTheme(e *engine.Engine) render.Theme {
	switch exportTheme {
	case "dark":
		return render.ThemeDark
	case "light":
		return render.ThemeLight
	}
	return e.Theme()
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportDir, "out", "o", "", "output directory (default from config, else current dir)")
	exportCmd.PersistentFlags().StringVar(&exportTheme, "theme", "", "light or dark (default from config)")
	exportCmd.AddCommand(exportHTMLCmd, exportPDFCmd)
	rootCmd.AddCommand(exportCmd)
}
