// Package landing implements the deferred action queue: the one-shot
// signal a landing screen leaves behind for the builder screen it
// transitions to. The action rides in durable storage under its own
// key, is consumed exactly once on mount, and dispatches to one of
// three behaviors after a short settle delay.
package landing

import "folio/internal/store"

// Action identifies a queued quick-start behavior. The wire values
// match what the landing screen writes to storage.
type Action string

const (
	// ActionGenerate auto-runs enrichment, filling placeholder
	// identity fields first if needed.
	ActionGenerate Action = "ai"
	// ActionPreview scrolls the preview into view with a transient
	// highlight.
	ActionPreview Action = "preview"
	// ActionExport opens the export menu.
	ActionExport Action = "export"
)

// ParseAction maps a stored value to an Action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionGenerate, ActionPreview, ActionExport:
		return Action(s), true
	}
	return "", false
}

// KV is the slice of the persistence adapter the queue needs.
type KV interface {
	Set(key, value string) error
	Take(key string) (string, bool, error)
}

// Queue stores at most one pending action. Queueing while one is
// already pending overwrites it: the key holds a single value.
type Queue struct {
	kv KV
}

// NewQueue wraps the given storage.
func NewQueue(kv KV) *Queue {
	return &Queue{kv: kv}
}

// Push records the action. It must complete before the screen
// transition is triggered so the next screen cannot miss it.
func (q *Queue) Push(a Action) error {
	return q.kv.Set(store.ActionKey, string(a))
}

// Consume takes the pending action, deleting it from storage in the
// same step so a page reload never re-triggers it. Unknown stored
// values are dropped and reported as absent.
func (q *Queue) Consume() (Action, bool, error) {
	raw, ok, err := q.kv.Take(store.ActionKey)
	if err != nil || !ok {
		return "", false, err
	}
	a, ok := ParseAction(raw)
	return a, ok, nil
}
