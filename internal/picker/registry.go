package picker

import (
	"timepick-cli/internal/constraint"
)

// Registry constructs one Picker per bound field and owns their lifetime. At most one
// picker is open at a time: opening one hides the others.
type Registry struct {
	fields  Fields
	options []Option
	pickers map[string]*Picker
	order   []string
}

func NewRegistry(fields Fields, options ...Option) *Registry {
	return &Registry{
		fields:  fields,
		options: options,
		pickers: map[string]*Picker{},
	}
}

// Add constructs the picker for field, replacing (and closing) any previous one.
func (r *Registry) Add(field string, opts constraint.Options) *Picker {
	if old, ok := r.pickers[field]; ok {
		old.Close()
	} else {
		r.order = append(r.order, field)
	}
	p := New(field, opts, r.fields, r.options...)
	r.pickers[field] = p
	return p
}

func (r *Registry) Get(field string) (*Picker, bool) {
	p, ok := r.pickers[field]
	return p, ok
}

// Fields lists bound fields in the order they were added.
func (r *Registry) Fields() []string {
	return append([]string(nil), r.order...)
}

func (r *Registry) Pickers() []*Picker {
	out := make([]*Picker, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.pickers[id])
	}
	return out
}

// Open hides every other picker and opens the one bound to field.
func (r *Registry) Open(field string) (*Picker, bool) {
	p, ok := r.pickers[field]
	if !ok {
		return nil, false
	}
	for id, other := range r.pickers {
		if id != field {
			other.Hide()
		}
	}
	p.Open()
	return p, true
}

// Active returns the open picker, if any.
func (r *Registry) Active() (*Picker, bool) {
	for _, id := range r.order {
		if p := r.pickers[id]; p.IsOpen() {
			return p, true
		}
	}
	return nil, false
}

// Remove closes and forgets the picker bound to field.
func (r *Registry) Remove(field string) {
	p, ok := r.pickers[field]
	if !ok {
		return
	}
	p.Close()
	delete(r.pickers, field)
	for i, id := range r.order {
		if id == field {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
}

// Close tears every picker down.
func (r *Registry) Close() {
	for _, p := range r.pickers {
		p.Close()
	}
	r.pickers = map[string]*Picker{}
	r.order = nil
}
