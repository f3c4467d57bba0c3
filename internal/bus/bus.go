// Package bus is the in-process publish/subscribe channel between
// engine components that do not hold references to each other: state
// and export code publish toast notifications and menu signals, the
// presentation layer subscribes. Topics form a closed, typed set so a
// publisher can never emit a payload a subscriber does not expect.
//
// Delivery is synchronous and at-most-once per handler registered at
// publish time. There is no queueing and no replay for late
// subscribers. Handlers run in registration order, but callers must
// not rely on that.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ToastType classifies a toast notification.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastInfo    ToastType = "info"
)

// Toast is a user-visible notification. ID is assigned at publish time
// so sinks can track and dismiss individual toasts.
type Toast struct {
	ID      string
	Message string
	Type    ToastType
}

// PreviewFocus asks the presentation layer to scroll the rendered
// preview into view and highlight it for the given duration.
type PreviewFocus struct {
	Highlight time.Duration
}

// ExportMenuRequested asks whatever owns the export menu to open it.
// It carries no payload.
type ExportMenuRequested struct{}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// topic holds the handlers for one payload type.
type topic[T any] struct {
	mu   sync.Mutex
	next uint64
	subs []subscriber[T]
}

func (t *topic[T]) subscribe(fn func(T)) func() {
	t.mu.Lock()
	t.next++
	id := t.next
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, s := range t.subs {
			if s.id == id {
				t.subs = append(t.subs[:i], t.subs[i+1:]...)
				return
			}
		}
	}
}

func (t *topic[T]) publish(v T) {
	t.mu.Lock()
	subs := append([]subscriber[T](nil), t.subs...)
	t.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Bus carries all engine topics. The zero value is not usable; call New.
type Bus struct {
	toast      topic[Toast]
	focus      topic[PreviewFocus]
	exportMenu topic[ExportMenuRequested]
}

// New returns an empty bus with no subscribers.
func New() *Bus {
	return &Bus{}
}

// PublishToast delivers a notification to all toast subscribers,
// assigning it a fresh ID.
func (b *Bus) PublishToast(message string, kind ToastType) {
	b.toast.publish(Toast{ID: uuid.NewString(), Message: message, Type: kind})
}

// SubscribeToast registers a toast handler and returns its
// unsubscribe function.
func (b *Bus) SubscribeToast(fn func(Toast)) func() {
	return b.toast.subscribe(fn)
}

// PublishPreviewFocus signals the preview region to take focus.
func (b *Bus) PublishPreviewFocus(f PreviewFocus) {
	b.focus.publish(f)
}

// SubscribePreviewFocus registers a preview-focus handler.
func (b *Bus) SubscribePreviewFocus(fn func(PreviewFocus)) func() {
	return b.focus.subscribe(fn)
}

// PublishExportMenu signals the export menu to open.
func (b *Bus) PublishExportMenu() {
	b.exportMenu.publish(ExportMenuRequested{})
}

// SubscribeExportMenu registers an export-menu handler.
func (b *Bus) SubscribeExportMenu(fn func(ExportMenuRequested)) func() {
	return b.exportMenu.subscribe(fn)
}
