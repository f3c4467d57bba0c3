// Package engine assembles the portfolio components into one runtime:
// local persistence, the event bus, editing state restored from the
// last snapshot, enrichment, the landing action dispatcher, and the
// export pipeline.
package engine

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/config"
	"folio/internal/enrich"
	"folio/internal/export"
	"folio/internal/landing"
	"folio/internal/remote"
	"folio/internal/render"
	"folio/internal/state"
	"folio/internal/store"
)

// Engine owns the wired components for one session.
type Engine struct {
	cfg *config.Config
	log *zap.Logger

	Local    *store.Local
	Bus      *bus.Bus
	State    *state.Store
	Queue    *landing.Queue
	Enrich   *enrich.Client
	Exporter *export.Exporter

	// Remote is nil when no backend is configured.
	Remote *remote.Client

	dispatcher *landing.Dispatcher
}

// Open builds an Engine from configuration. State is seeded from the
// stored snapshot when one exists. ctx covers generator construction
// only; per-operation contexts come later.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	local, err := store.Open(cfg.SnapshotPath(), log)
	if err != nil {
		return nil, err
	}

	snap, err := local.LoadSnapshot()
	if err != nil {
		local.Close()
		return nil, err
	}

	b := bus.New()
	st := state.NewFromSnapshot(snap, local, log)

	gen, err := buildGenerator(ctx, cfg)
	if err != nil {
		local.Close()
		return nil, err
	}

	e := &Engine{
		cfg:      cfg,
		log:      log,
		Local:    local,
		Bus:      b,
		State:    st,
		Queue:    landing.NewQueue(local),
		Enrich:   enrich.NewClient(st, b, gen, log),
		Exporter: export.NewExporter(&export.RodRasterizer{Bin: cfg.Export.ChromeBin}, b, log),
	}
	e.dispatcher = landing.NewDispatcher(e.Queue, st, e.Enrich, b, log)

	if cfg.Backend.BaseURL != "" {
		e.Remote = remote.NewClient(cfg.Backend.BaseURL, b, log)
	}
	return e, nil
}

// buildGenerator picks the enrichment backend: a remote API server
// when one is configured, else OpenAI, else Gemini, else a generator
// that always reports the missing keys.
func buildGenerator(ctx context.Context, cfg *config.Config) (enrich.Generator, error) {
	if cfg.Backend.BaseURL != "" {
		return enrich.NewHTTPGenerator(cfg.Backend.BaseURL), nil
	}
	if cfg.AI.OpenAIAPIKey != "" {
		gen, err := enrich.NewOpenAIGenerator(cfg.AI.OpenAIAPIKey, cfg.AI.OpenAIModel)
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		return gen, nil
	}
	if cfg.AI.GeminiAPIKey != "" {
		gen, err := enrich.NewGeminiGenerator(ctx, cfg.AI.GeminiAPIKey, cfg.AI.Model)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		return gen, nil
	}
	return unconfiguredGenerator{}, nil
}

type unconfiguredGenerator struct{}

func (unconfiguredGenerator) Generate(context.Context, enrich.Request) (enrich.Result, error) {
	return enrich.Result{}, fmt.Errorf("no AI API key configured: set OPENAI_API_KEY or GEMINI_API_KEY")
}

// Close releases the local store.
func (e *Engine) Close() error {
	return e.Local.Close()
}

// Mount replays the pending landing action, if any. Call once after
// Open, the way the editor runs its one-shot mount hook.
func (e *Engine) Mount(ctx context.Context) error {
	return e.dispatcher.Run(ctx)
}

// Theme resolves the configured export theme.
func (e *Engine) Theme() render.Theme {
	if e.cfg.Export.Theme == string(render.ThemeDark) {
		return render.ThemeDark
	}
	return render.ThemeLight
}

// ExportDir resolves the configured artifact directory.
func (e *Engine) ExportDir() string {
	if e.cfg.Export.Dir != "" {
		return e.cfg.Export.Dir
	}
	return "."
}

// Save persists the current snapshot locally and, when a backend is
// configured, mirrors it there. The remote outcome surfaces as a
// toast, never as a hard failure.
func (e *Engine) Save(ctx context.Context) error {
	snap := e.State.Snapshot()
	if err := e.Local.SaveSnapshot(snap); err != nil {
		return err
	}
	e.log.Debug("snapshot saved", zap.String("path", e.cfg.SnapshotPath()))
	if e.Remote != nil {
		// Fire-and-forget semantics: the local save already succeeded.
		if id, err := e.Remote.Save(ctx, snap); err == nil {
			e.log.Info("portfolio mirrored to backend", zap.String("id", id))
		}
		return nil
	}
	e.Bus.PublishToast("Portfolio saved successfully!", bus.ToastSuccess)
	return nil
}

// Back leaves the editor: in-memory state clears while the stored
// snapshot stays for the next session.
func (e *Engine) Back() {
	e.log.Debug("leaving editor, clearing in-memory state")
	e.State.Reset()
}
