package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"folio/internal/bus"
	"folio/internal/engine"
	"folio/internal/landing"
)

var launchCmd = &cobra.Command{
	Use:   "launch [ai|preview|export]",
	Short: "Queue a quick-start action and open the builder",
	Long: `Queues one deferred action the way the landing screen does, then mounts
the builder, which consumes it exactly once:

  ai       auto-run AI generation (placeholder name/title filled if empty)
  preview  focus the preview with a short highlight
  export   open the export menu

An interrupted launch leaves the action queued; the next launch or
mount picks it up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		action, ok := landing.ParseAction(args[0])
		if !ok {
			return fmt.Errorf("unknown action %q (want ai, preview, or export)", args[0])
		}

		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *engine.Engine) error {
			unsubFocus := e.Bus.SubscribePreviewFocus(func(f bus.PreviewFocus) {
				fmt.Printf("Preview focused (highlight for %s). Run \"folio preview\" to see it.\n", f.Highlight)
			})
			defer unsubFocus()
			unsubMenu := e.Bus.SubscribeExportMenu(func(bus.ExportMenuRequested) {
				fmt.Println("Export menu:")
				fmt.Println("  folio export html   standalone HTML document")
				fmt.Println("  folio export pdf    paginated A4 PDF")
			})
			defer unsubMenu()

			if err := e.Queue.Push(action); err != nil {
				return err
			}
			return e.Mount(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(launchCmd)
}
