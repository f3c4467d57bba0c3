package landing

import (
	"context"
	"time"

	"go.uber.org/zap"

	"folio/internal/bus"
	"folio/internal/state"
)

// Timing constants for post-transition dispatch. SettleDelay lets
// first paint finish before anything scrolls or highlights;
// CommitDelay lets just-populated placeholder fields commit before the
// enrichment request reads them.
const (
	SettleDelay       = 300 * time.Millisecond
	CommitDelay       = 600 * time.Millisecond
	HighlightDuration = 2 * time.Second
)

// Placeholder identity used when ActionGenerate fires on a portfolio
// that has no name or title yet.
const (
	PlaceholderName  = "Jane Doe"
	PlaceholderTitle = "Full Stack Developer"
)

// Enricher triggers an enrichment round trip against current state.
type Enricher interface {
	Request(ctx context.Context) error
}

// Dispatcher consumes the queued action on builder mount and executes
// it. Construct one per mount; Run is a single shot.
type Dispatcher struct {
	queue  *Queue
	state  *state.Store
	enrich Enricher
	bus    *bus.Bus
	sleep  func(context.Context, time.Duration) error
	log    *zap.Logger
}

// NewDispatcher wires a dispatcher. All collaborators are required
// except the logger.
func NewDispatcher(q *Queue, st *state.Store, e Enricher, b *bus.Bus, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		queue:  q,
		state:  st,
		enrich: e,
		bus:    b,
		sleep:  sleepCtx,
		log:    logger,
	}
}

// SetSleeper replaces the delay function. Tests use this to run the
// dispatch path without real waits.
func (d *Dispatcher) SetSleeper(sleep func(context.Context, time.Duration) error) {
	d.sleep = sleep
}

// Run consumes and dispatches the pending action, if any. Dispatch
// failures degrade to a notification (handled by the enrichment
// client) and are logged here; only storage and context errors
// propagate.
func (d *Dispatcher) Run(ctx context.Context) error {
	action, ok, err := d.queue.Consume()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := d.sleep(ctx, SettleDelay); err != nil {
		return err
	}

	d.log.Debug("dispatching landing action", zap.String("action", string(action)))

	switch action {
	case ActionGenerate:
		return d.runGenerate(ctx)
	case ActionPreview:
		d.bus.PublishPreviewFocus(bus.PreviewFocus{Highlight: HighlightDuration})
	case ActionExport:
		d.bus.PublishExportMenu()
	}
	return nil
}

func (d *Dispatcher) runGenerate(ctx context.Context) error {
	snap := d.state.Snapshot()
	if snap.Name == "" || snap.Title == "" {
		name := snap.Name
		if name == "" {
			name = PlaceholderName
		}
		title := snap.Title
		if title == "" {
			title = PlaceholderTitle
		}
		d.state.Update(state.Partial{Name: &name, Title: &title})

		if err := d.sleep(ctx, CommitDelay); err != nil {
			return err
		}
	}

	if err := d.enrich.Request(ctx); err != nil {
		// Already surfaced to the user as a toast by the client.
		d.log.Warn("auto-run enrichment failed", zap.Error(err))
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
