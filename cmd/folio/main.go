package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"folio/internal/bus"
	"folio/internal/config"
	"folio/internal/engine"
)

var (
	// Global flags
	cfgPath string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "folio - portfolio builder, AI enrichment, and export engine",
	Long: `folio maintains a portfolio (name, title, skills, projects, about),
enriches it with AI-generated descriptions, renders a live preview,
and exports it as a standalone HTML page or a paginated A4 PDF.

State persists locally between runs; "folio serve" exposes the same
generation and storage operations as an HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(resolveConfigPath())
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func resolveConfigPath() string {
	if cfgPath != "" {
		return cfgPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "folio.yaml"
	}
	return filepath.Join(home, ".folio", "folio.yaml")
}

// withEngine opens the engine, prints toasts to the terminal, runs fn,
// and closes the engine again.
func withEngine(ctx context.Context, fn func(context.Context, *engine.Engine) error) error {
	e, err := engine.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	unsub := e.Bus.SubscribeToast(func(t bus.Toast) {
		switch t.Type {
		case bus.ToastError:
			fmt.Fprintf(os.Stderr, "✗ %s\n", t.Message)
		case bus.ToastSuccess:
			fmt.Printf("✓ %s\n", t.Message)
		default:
			fmt.Println(t.Message)
		}
	})
	defer unsub()

	return fn(ctx, e)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default ~/.folio/folio.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
