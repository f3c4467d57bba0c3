package main

import (
	"context"

	"github.com/spf13/cobra"

	"folio/internal/engine"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the About section and project descriptions with AI",
	Long: `Sends the portfolio's name, title, skills, and project outlines to the
configured generator (Gemini directly, or the backend API when
backend.base_url is set) and merges the returned text into the
portfolio. Existing descriptions are only replaced by non-empty
results; name and title must be set first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *engine.Engine) error {
			return e.Enrich.Request(ctx)
		})
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
