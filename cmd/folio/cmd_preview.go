package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"folio/internal/engine"
	"folio/internal/render"
)

var (
	previewOut   string
	previewWatch bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Render the preview page to a file",
	Long: `Renders the themed preview document to an HTML file you can open in a
browser. With --watch the file is re-rendered whenever the stored
snapshot changes, so edits made from another terminal show up on
reload.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return withEngine(ctx, func(ctx context.Context, e *engine.Engine) error {
			if err := writePreview(e); err != nil {
				return err
			}
			fmt.Printf("Preview written to %s\n", previewOut)

			if !previewWatch {
				return nil
			}
			return watchPreview(ctx, e)
		})
	},
}

func writePreview(e *engine.Engine) error {
	doc, err := render.Page(e.State.Snapshot(), e.Theme())
	if err != nil {
		return err
	}
	return os.WriteFile(previewOut, []byte(doc), 0o644)
}

// watchPreview re-renders on every change to the snapshot database
// until the context is cancelled.
func watchPreview(ctx context.Context, e *engine.Engine) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: SQLite swaps WAL files around, and the
	// database file itself may be replaced.
	if err := watcher.Add(filepath.Dir(cfg.SnapshotPath())); err != nil {
		return fmt.Errorf("watch data dir: %w", err)
	}

	fmt.Println("Watching for changes. Ctrl-C to stop.")
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Re-read the snapshot; the in-memory state belongs to
			// the writing process, not this one.
			snap, err := e.Local.LoadSnapshot()
			if err != nil {
				logger.Warn("reload snapshot failed", zap.Error(err))
				continue
			}
			p := e.State.Snapshot()
			if snap != nil {
				p = *snap
			}
			doc, err := render.Page(p, e.Theme())
			if err != nil {
				return err
			}
			if err := os.WriteFile(previewOut, []byte(doc), 0o644); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", zap.Error(err))
		}
	}
}

func init() {
	previewCmd.Flags().StringVarP(&previewOut, "out", "o", "preview.html", "output file")
	previewCmd.Flags().BoolVarP(&previewWatch, "watch", "w", false, "re-render when the snapshot changes")
	rootCmd.AddCommand(previewCmd)
}
