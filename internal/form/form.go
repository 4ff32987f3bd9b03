package form

import (
	"sort"
	"sync"
)

// EventKind distinguishes the two notifications a field emits when its value is committed.
type EventKind string

const (
	// Change is emitted when a value is committed (confirm, leaving an edited field).
	Change EventKind = "change"
	// Input is emitted alongside Change when a picker writes its bound field.
	Input EventKind = "input"
)

type Event struct {
	Field string    `json:"field"`
	Kind  EventKind `json:"kind"`
	Value string    `json:"value"`
}

type Listener func(Event)

type subscription struct {
	id    int
	field string // "" = every field
	kind  EventKind
	fn    Listener
}

// Form holds the current string value of every field and dispatches notifications to
// subscribers. Listeners run synchronously on the dispatching goroutine, after the
// internal lock is released, so a listener may read or write the form.
type Form struct {
	mu     sync.Mutex
	values map[string]string
	subs   []subscription
	nextID int
}

func New() *Form {
	return &Form{values: map[string]string{}}
}

// Value returns the current value of a field. A field that was never set reports false.
func (f *Form) Value(id string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[id]
	return v, ok
}

// Set writes a value without notifying anyone.
func (f *Form) Set(id, value string) {
	f.mu.Lock()
	f.values[id] = value
	f.mu.Unlock()
}

// Dispatch notifies subscribers of field with the field's current value.
func (f *Form) Dispatch(id string, kind EventKind) {
	f.mu.Lock()
	ev := Event{Field: id, Kind: kind, Value: f.values[id]}
	var targets []Listener
	for _, s := range f.subs {
		if (s.field == "" || s.field == id) && (s.kind == "" || s.kind == kind) {
			targets = append(targets, s.fn)
		}
	}
	f.mu.Unlock()

	for _, fn := range targets {
		fn(ev)
	}
}

// Commit writes a value and emits a Change notification.
func (f *Form) Commit(id, value string) {
	f.Set(id, value)
	f.Dispatch(id, Change)
}

// Subscribe registers fn for kind notifications on one field. An empty kind matches
// every kind. The returned func removes the subscription.
func (f *Form) Subscribe(id string, kind EventKind, fn Listener) func() {
	return f.subscribe(id, kind, fn)
}

// SubscribeAll registers fn for every notification on every field.
func (f *Form) SubscribeAll(fn Listener) func() {
	return f.subscribe("", "", fn)
}

func (f *Form) subscribe(id string, kind EventKind, fn Listener) func() {
	f.mu.Lock()
	f.nextID++
	sid := f.nextID
	f.subs = append(f.subs, subscription{id: sid, field: id, kind: kind, fn: fn})
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, s := range f.subs {
				if s.id == sid {
					f.subs = append(f.subs[:i:i], f.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers counts subscriptions on a field (wildcards excluded).
func (f *Form) Subscribers(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.field == id {
			n++
		}
	}
	return n
}

// Fields lists every field that has a value, sorted.
func (f *Form) Fields() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.values))
	for k := range f.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Snapshot copies every value.
func (f *Form) Snapshot() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}
