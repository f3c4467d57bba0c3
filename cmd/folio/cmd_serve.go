package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"folio/internal/enrich"
	"folio/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the backend API server",
	Long: `Serves the portfolio API:

  GET  /                    service status
  POST /api/ai/generate     AI description generation
  POST /api/portfolio       save a portfolio
  GET  /api/portfolio/:id   fetch a saved portfolio
  GET  /api/portfolios      list saved portfolio ids

Saved portfolios persist to the configured store file. Generation
requires OPENAI_API_KEY or GEMINI_API_KEY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		docs, err := server.NewDocStore(cfg.Server.StorePath)
		if err != nil {
			return err
		}

		// OpenAI takes precedence when both provider keys are set.
		var gen enrich.Generator
		switch {
		case cfg.AI.OpenAIAPIKey != "":
			gen, err = enrich.NewOpenAIGenerator(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel)
			if err != nil {
				return fmt.Errorf("init openai: %w", err)
			}
		case cfg.AI.GeminiAPIKey != "":
			gen, err = enrich.NewGeminiGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
			if err != nil {
				return fmt.Errorf("init gemini: %w", err)
			}
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(docs, gen, logger)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(ctx, addr)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8000)")
	rootCmd.AddCommand(serveCmd)
}
