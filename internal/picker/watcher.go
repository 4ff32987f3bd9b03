package picker

import (
	"timepick-cli/internal/form"
)

// Subscriber is the notification half of the surrounding form.
type Subscriber interface {
	Subscribe(id string, kind form.EventKind, fn form.Listener) func()
}

// Watcher forwards change notifications of a fixed set of fields to one callback.
// It does not debounce: every notification is forwarded synchronously.
type Watcher struct {
	fields []string
	stops  []func()
}

func Watch(src Subscriber, fields []string, onChange form.Listener) *Watcher {
	w := &Watcher{fields: append([]string(nil), fields...)}
	if src == nil {
		return w
	}
	for _, id := range w.fields {
		w.stops = append(w.stops, src.Subscribe(id, form.Change, onChange))
	}
	return w
}

func (w *Watcher) Fields() []string {
	return append([]string(nil), w.fields...)
}

// Stop removes every subscription. Safe to call more than once.
func (w *Watcher) Stop() {
	for _, stop := range w.stops {
		stop()
	}
	w.stops = nil
}
